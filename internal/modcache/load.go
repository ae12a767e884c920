package modcache

import (
	"sync"
)

// Load is a one-shot pending operation. It settles exactly once, either
// fulfilled (nil error) or rejected.
type Load struct {
	done chan struct{}
	once sync.Once
	err  error
}

// NewLoad returns an unsettled Load.
func NewLoad() *Load {
	return &Load{done: make(chan struct{})}
}

// Done returns a channel that is closed once the load has settled.
func (l *Load) Done() <-chan struct{} {
	return l.done
}

// Err returns the rejection reason, or nil while pending or when fulfilled.
func (l *Load) Err() error {
	select {
	case <-l.done:
		return l.err
	default:
		return nil
	}
}

// Settled reports whether the load has settled.
func (l *Load) Settled() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// Settle fulfills the load when err is nil and rejects it otherwise.
// Only the first call has any effect.
func (l *Load) Settle(err error) {
	l.once.Do(func() {
		l.err = err
		close(l.done)
	})
}
