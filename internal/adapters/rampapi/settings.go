package rampapi

import (
	"context"
	"fmt"

	"github.com/cardramp/ramp_sdk/internal/domain/entities"
)

// GetServerSettings fetches the current ramp limits and feature switches.
// Callers must not cache the result: limits move with the market.
func (c *Client) GetServerSettings(ctx context.Context) (*entities.ServerSettings, error) {
	var response entities.ServerSettings
	if err := c.getCoreWithRetry(ctx, "settings", &response); err != nil {
		return nil, fmt.Errorf("get server settings failed: %w", err)
	}
	return &response, nil
}
