// Package finitestate tracks the lifecycle of a worker with go-fsm.
package finitestate

import (
	"context"
	"log/slog"
	"time"

	"github.com/robbyt/go-fsm"
)

const (
	StatusNew       = fsm.StatusNew
	StatusBooting   = fsm.StatusBooting
	StatusRunning   = fsm.StatusRunning
	StatusReloading = fsm.StatusReloading
	StatusStopping  = fsm.StatusStopping
	StatusStopped   = fsm.StatusStopped
	StatusError     = fsm.StatusError
	StatusUnknown   = fsm.StatusUnknown
)

// DefaultBroadcastTimeout bounds how long a state change waits for a slow
// subscriber of GetStateChan.
const DefaultBroadcastTimeout = 5 * time.Second

// TypicalTransitions: new -> booting -> running <-> reloading, then
// stopping -> stopped, with error reachable from every state.
var TypicalTransitions = fsm.TypicalTransitions

// SubscriberOption configures a state channel.
type SubscriberOption = fsm.SubscriberOption

// WithSyncTimeout makes state broadcasts wait up to the given timeout.
var WithSyncTimeout = fsm.WithSyncTimeout

// Machine is the subset of go-fsm a worker relies on.
type Machine interface {
	// Transition moves to state, or fails when the transition is not allowed.
	Transition(state string) error

	// TransitionBool is Transition reporting success as a bool.
	TransitionBool(state string) bool

	// TransitionIfCurrentState transitions only when the machine is in currentState.
	TransitionIfCurrentState(currentState, newState string) error

	// SetState forces the state without checking transitions.
	SetState(state string) error

	// GetState returns the current state.
	GetState() string

	// GetStateChan emits every state change until ctx is done.
	GetStateChan(ctx context.Context) <-chan string

	// GetStateChanWithOptions is GetStateChan with subscriber options.
	GetStateChanWithOptions(ctx context.Context, opts ...SubscriberOption) <-chan string
}

// WorkerFSM delivers state changes synchronously so that subscribers observe
// stopping and stopped during shutdown.
type WorkerFSM struct {
	*fsm.Machine
}

// GetStateChan returns a channel with synchronous delivery.
func (m *WorkerFSM) GetStateChan(ctx context.Context) <-chan string {
	return m.GetStateChanWithOptions(ctx, WithSyncTimeout(DefaultBroadcastTimeout))
}

// New creates a machine in StatusNew using TypicalTransitions.
func New(handler slog.Handler) (Machine, error) {
	machine, err := fsm.New(handler, StatusNew, TypicalTransitions)
	if err != nil {
		return nil, err
	}
	return &WorkerFSM{Machine: machine}, nil
}
