package rampapi

import (
	"context"
	"fmt"

	"github.com/cardramp/ramp_sdk/internal/domain/entities"
)

type auditEventRequest struct {
	Data        map[string]interface{} `json:"data"`
	Address     string                 `json:"address"`
	OperationID string                 `json:"operationId,omitempty"`
}

// SendAuditEvent delivers one telemetry record to the audit intake. The
// audit sink owns retries and failure policy; this is a single attempt.
func (c *Client) SendAuditEvent(ctx context.Context, event entities.AuditEvent) error {
	req := auditEventRequest{
		Data:        event.Data,
		Address:     event.Address,
		OperationID: event.OperationID,
	}
	if err := c.doCore(ctx, "POST", "audit/events", req, nil); err != nil {
		return fmt.Errorf("send audit event failed: %w", err)
	}
	return nil
}
