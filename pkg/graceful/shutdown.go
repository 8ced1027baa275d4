package graceful

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cardramp/ramp_sdk/pkg/logger"
)

type Shutdowner interface {
	Shutdown(timeout time.Duration) error
}

// ShutdownManager drains the HTTP server and registered components on
// SIGINT/SIGTERM. The server stops accepting connections first; components
// then shut down in registration order.
type ShutdownManager struct {
	server      *http.Server
	shutdowners []Shutdowner
	logger      *logger.Logger
}

func NewShutdownManager(server *http.Server, logger *logger.Logger) *ShutdownManager {
	return &ShutdownManager{
		server:      server,
		shutdowners: make([]Shutdowner, 0),
		logger:      logger,
	}
}

func (sm *ShutdownManager) Register(s Shutdowner) {
	sm.shutdowners = append(sm.shutdowners, s)
}

// RegisterFunc adapts a plain closer into a Shutdowner.
func (sm *ShutdownManager) RegisterFunc(name string, fn func() error) {
	sm.Register(funcShutdowner{name: name, fn: fn})
}

type funcShutdowner struct {
	name string
	fn   func() error
}

func (f funcShutdowner) Shutdown(time.Duration) error {
	return f.fn()
}

func (sm *ShutdownManager) WaitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sm.logger.Info("Shutting down gracefully...")

	timeout := 30 * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Shutdown HTTP server first so no new operations start mid-drain.
	if err := sm.server.Shutdown(ctx); err != nil {
		sm.logger.Error("Server forced shutdown", "error", err)
	}

	for _, s := range sm.shutdowners {
		if err := s.Shutdown(timeout); err != nil {
			sm.logger.Warn("Component shutdown error", "error", err)
		}
	}

	sm.logger.Info("Shutdown complete")
}
