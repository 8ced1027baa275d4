// Package audit delivers best-effort telemetry around sensitive operations.
// Nothing here may ever fail or block a caller: events are queued, sent
// asynchronously, and dropped under pressure.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/cardramp/ramp_sdk/internal/domain/entities"
	"github.com/cardramp/ramp_sdk/pkg/logger"
	"github.com/cardramp/ramp_sdk/pkg/metrics"
)

// Sender delivers one audit event. Implemented by the ramp API client.
type Sender interface {
	SendAuditEvent(ctx context.Context, event entities.AuditEvent) error
}

// Service is the asynchronous audit sink.
type Service struct {
	sender       Sender
	logger       *logger.Logger
	queue        chan entities.AuditEvent
	drainTimeout time.Duration

	closeOnce sync.Once
	done      chan struct{}
}

// NewService starts the sink worker. queueSize bounds the in-flight backlog;
// a full queue drops new events rather than blocking emitters.
func NewService(sender Sender, queueSize int, drainTimeout time.Duration, log *logger.Logger) *Service {
	if queueSize <= 0 {
		queueSize = 256
	}
	if drainTimeout <= 0 {
		drainTimeout = 5 * time.Second
	}

	s := &Service{
		sender:       sender,
		logger:       log,
		queue:        make(chan entities.AuditEvent, queueSize),
		drainTimeout: drainTimeout,
		done:         make(chan struct{}),
	}
	go s.run()
	return s
}

// Emit queues an audit event without blocking. Returns immediately; the
// caller never learns about delivery failures.
func (s *Service) Emit(data map[string]interface{}, address, operationID string) {
	event := entities.AuditEvent{Data: data, Address: address, OperationID: operationID}

	select {
	case s.queue <- event:
	default:
		metrics.AuditEventsDropped.Inc()
		s.logger.Warn("Audit queue full, dropping event", "address", address, "operation_id", operationID)
	}
}

func (s *Service) run() {
	defer close(s.done)
	for event := range s.queue {
		s.deliver(event)
	}
}

// deliver sends one event with a single retry. Failures are logged and
// counted, never propagated.
func (s *Service) deliver(event entities.AuditEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.sender.SendAuditEvent(ctx, event)
	if err == nil {
		return
	}

	s.logger.Warn("Audit delivery failed, retrying once", "error", err, "address", event.Address)

	if err = s.sender.SendAuditEvent(ctx, event); err != nil {
		metrics.AuditEventsFailed.Inc()
		s.logger.Error("Audit delivery failed permanently", "error", err, "address", event.Address)
	}
}

// Close stops accepting events and waits for the backlog to drain, up to
// the configured timeout.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.queue)
		select {
		case <-s.done:
		case <-time.After(s.drainTimeout):
			s.logger.Warn("Audit sink drain timed out", "timeout", s.drainTimeout)
		}
	})
}
