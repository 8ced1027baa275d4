package onchain

import (
	"fmt"

	"github.com/cardramp/ramp_sdk/internal/domain/entities"
)

// Dispatcher selects the Executor for a network family. EVM and Solana
// executions differ mechanically but share the Executor contract, so the
// orchestrators dispatch on kind once and stay family-agnostic after that.
type Dispatcher struct {
	executors map[entities.NetworkKind]Executor
}

// NewDispatcher builds a dispatcher over the given per-family executors.
func NewDispatcher(executors map[entities.NetworkKind]Executor) *Dispatcher {
	d := &Dispatcher{executors: make(map[entities.NetworkKind]Executor, len(executors))}
	for kind, exec := range executors {
		d.executors[kind] = exec
	}
	return d
}

// For returns the executor handling the given network family.
func (d *Dispatcher) For(kind entities.NetworkKind) (Executor, error) {
	exec, ok := d.executors[kind]
	if !ok {
		return nil, fmt.Errorf("no on-chain executor for network kind %q", kind)
	}
	return exec, nil
}
