package modcache

import (
	"context"
	"fmt"
	"sync"
)

// Program is the compiled form of a module. Run executes the module body with
// the given evaluation data and returns its exports.
type Program interface {
	Run(ctx context.Context, data map[string]any) (any, error)
}

// Record tracks the lifecycle of one loaded-or-loading module.
//
// The evaluated and resolving flags are tracked independently: dependency
// resolution may outlive evaluation and the other way around.
type Record struct {
	id string

	mu        sync.Mutex
	load      *Load
	evaluated bool
	resolving bool
	compiled  Program
	exports   any
}

// NewRecord creates an absent-state record for the given identifier.
func NewRecord(id string) *Record {
	return &Record{id: id}
}

// ID returns the stable identifier of the module.
func (r *Record) ID() string {
	return r.id
}

// String returns a short state description of the record.
func (r *Record) String() string {
	if r == nil {
		return "Record(nil)"
	}
	return fmt.Sprintf("%s [%s]", r.id, r.Status())
}

// Status names the lifecycle state of the record.
func (r *Record) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.resolving:
		return StatusResolving
	case r.load != nil && !r.evaluated:
		return StatusLoading
	case r.evaluated:
		return StatusSettled
	default:
		return StatusAbsent
	}
}

// Load returns the pending load, or nil when none was started.
func (r *Record) Load() *Load {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load
}

// Evaluated reports whether the module body has finished executing.
func (r *Record) Evaluated() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evaluated
}

// Resolving reports whether dependency resolution is in progress.
func (r *Record) Resolving() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolving
}

// Compiled returns the artifact stored by the current load, if any.
func (r *Record) Compiled() Program {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.compiled
}

// Exports returns the value produced by evaluating the module.
func (r *Record) Exports() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exports
}

// Pending returns the load when the record is loading: a load exists and the
// module is not yet evaluated.
func (r *Record) Pending() (*Load, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.load == nil || r.evaluated {
		return nil, false
	}
	return r.load, true
}

// Begin attaches a fresh load to the record and returns it. The record must
// not be evaluated; callers reset it first.
func (r *Record) Begin() *Load {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.load = NewLoad()
	r.evaluated = false
	return r.load
}

// SetResolving toggles the resolving flag while load is still the record's
// current load. It reports whether the flag was changed.
func (r *Record) SetResolving(load *Load, resolving bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.load != load {
		return false
	}
	r.resolving = resolving
	return true
}

// SetCompiled stores the compiled artifact while load is still the record's
// current load. It reports whether the artifact was stored.
func (r *Record) SetCompiled(load *Load, compiled Program) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.load != load {
		return false
	}
	r.compiled = compiled
	return true
}

// reset drops the compiled artifact and all load state so that the next
// import re-executes the module from source.
func (r *Record) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.load = nil
	r.evaluated = false
	r.resolving = false
	r.compiled = nil
	r.exports = nil
}

// Finish settles load with err. When load is still the record's current load
// the module is also marked evaluated with exports; a failed module still
// counts as evaluated so that it no longer holds up waiters. A load that was
// superseded by invalidation only settles, leaving the record untouched. It
// reports whether the record was updated.
func (r *Record) Finish(load *Load, exports any, err error) bool {
	r.mu.Lock()
	current := r.load == load
	if current {
		r.exports = exports
		r.evaluated = true
	}
	r.mu.Unlock()
	if load != nil {
		load.Settle(err)
	}
	return current
}
