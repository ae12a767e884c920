// Package state holds the execution context of a single test worker: the
// active environment, the module cache and the resolved configuration.
//
// The state is created once at worker startup. It is passed explicitly with
// WithState wherever a context.Context flows. The process-wide slot
// (Provide/Current) is the single fallback for code that cannot take a
// parameter, such as builtins invoked from inside an evaluating script.
package state

import (
	"fmt"
	"time"

	"github.com/atlanticdynamic/lynxrun/internal/config"
	"github.com/atlanticdynamic/lynxrun/internal/modcache"
	"github.com/gofrs/uuid/v5"
)

// Environment names the active runtime sandbox and carries its handle.
type Environment struct {
	Name   string
	Handle any
}

// State is the per-worker execution context.
type State struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	Environment Environment
	Modules     *modcache.Cache
	Config      *config.Config
}

// New creates a State with an empty module cache. A nil cfg is replaced by
// the defaults.
func New(env Environment, cfg *config.Config) *State {
	if cfg == nil {
		cfg = config.NewDefault()
	}
	return &State{
		ID:          uuid.Must(uuid.NewV6()),
		CreatedAt:   time.Now(),
		Environment: env,
		Modules:     modcache.New(),
		Config:      cfg,
	}
}

// String returns a one-line summary. It deliberately omits the cache contents.
func (s *State) String() string {
	if s == nil {
		return "State(nil)"
	}
	return fmt.Sprintf("State(id=%s, environment=%s, modules=%d)", s.ID, s.Environment.Name, s.Modules.Len())
}
