package state

import (
	"context"
	"sync/atomic"
)

// Slot is a well-known place a State can be installed into. The zero value is
// empty and ready to use. A later Install overwrites the previous state so a
// pooled worker can be reused.
type Slot struct {
	state atomic.Pointer[State]
}

// String hides the installed state from reflective dumps.
func (s *Slot) String() string {
	return "state.Slot"
}

// Install attaches st to slot and returns st for chaining.
func Install(slot *Slot, st *State) *State {
	slot.state.Store(st)
	return st
}

// Current returns the installed state or a *ConfigurationError.
func (s *Slot) Current() (*State, error) {
	st := s.state.Load()
	if st == nil {
		return nil, newConfigurationError()
	}
	return st, nil
}

// Clear empties the slot.
func (s *Slot) Clear() {
	s.state.Store(nil)
}

// process is the worker-wide fallback slot.
var process Slot

// Provide installs st into the process-wide slot.
func Provide(st *State) *State {
	return Install(&process, st)
}

// Current returns the state installed with Provide.
func Current() (*State, error) {
	return process.Current()
}

// Reset empties the process-wide slot.
func Reset() {
	process.Clear()
}

// CurrentEnvironmentName returns the name of the active environment.
func CurrentEnvironmentName() (string, error) {
	st, err := Current()
	if err != nil {
		return "", err
	}
	return st.Environment.Name, nil
}

type ctxKey struct{}

// WithState returns a copy of ctx carrying st.
func WithState(ctx context.Context, st *State) context.Context {
	return context.WithValue(ctx, ctxKey{}, st)
}

// FromContext returns the state carried by ctx, falling back to the
// process-wide slot.
func FromContext(ctx context.Context) (*State, error) {
	if st, ok := ctx.Value(ctxKey{}).(*State); ok && st != nil {
		return st, nil
	}
	return Current()
}
