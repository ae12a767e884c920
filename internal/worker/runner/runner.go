// Package runner drives a test worker: it installs the worker state, then
// repeatedly invalidates the module cache, imports the test files and waits
// for every module load to settle before reporting.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/atlanticdynamic/lynxrun/internal/config"
	"github.com/atlanticdynamic/lynxrun/internal/loader"
	"github.com/atlanticdynamic/lynxrun/internal/worker/finitestate"
	"github.com/atlanticdynamic/lynxrun/internal/worker/hostproc"
	"github.com/atlanticdynamic/lynxrun/internal/worker/invalidate"
	"github.com/atlanticdynamic/lynxrun/internal/worker/state"
	"github.com/robbyt/go-supervisor/supervisor"
)

var (
	_ supervisor.Runnable   = (*Worker)(nil)
	_ supervisor.Reloadable = (*Worker)(nil)
)

// ErrNoFiles is returned by RunCycle when there is nothing to run.
var ErrNoFiles = errors.New("no test files to run")

// Worker runs test files in one isolated module cache.
type Worker struct {
	cfg         *config.Config
	state       *state.State
	loader      *loader.Loader
	invalidator *invalidate.Invalidator
	files       []string
	loaderOpts  []loader.Option
	onReport    func(*Report)

	logger *slog.Logger
	fsm    finitestate.Machine

	ctxMu     sync.Mutex
	runCtx    context.Context
	runCancel context.CancelFunc
	parentCtx context.Context

	// cycleMu serializes run cycles
	cycleMu    sync.Mutex
	lastReport atomic.Pointer[Report]
	lastErr    atomic.Pointer[error]
}

// New creates a Worker for cfg, installs its state into the process slot and
// sets the process title. A nil cfg is replaced by the defaults.
func New(cfg *config.Config, opts ...Option) (*Worker, error) {
	if cfg == nil {
		cfg = config.NewDefault()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	w := &Worker{
		cfg:       cfg,
		files:     cfg.Run.Files,
		logger:    slog.Default().WithGroup("runner.Worker"),
		parentCtx: context.Background(),
	}
	for _, opt := range opts {
		opt(w)
	}

	engine, err := loader.ParseEngine(cfg.Worker.Environment)
	if err != nil {
		return nil, err
	}
	env := state.Environment{Name: cfg.Worker.Environment, Handle: engine}
	w.state = state.Provide(state.New(env, cfg))
	w.logger = w.logger.With("worker", w.state.ID)

	w.invalidator, err = invalidate.NewFromConfig(cfg.Modules,
		invalidate.WithLogger(w.logger.WithGroup("invalidate")))
	if err != nil {
		return nil, err
	}

	base := []loader.Option{loader.WithLogger(w.logger.WithGroup("loader"))}
	w.loader = loader.NewFromState(w.state, append(base, w.loaderOpts...)...)

	fsm, err := finitestate.New(w.logger.WithGroup("fsm").Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}
	w.fsm = fsm

	hostproc.SetDisplayTitle(cfg.DisplayTitle())
	w.logger.Debug("Worker created",
		"environment", env.Name,
		"title", hostproc.DisplayTitle(),
		"subprocess", hostproc.IsSubprocessWorker(),
	)
	return w, nil
}

// String implements the supervisor.Runnable interface
func (w *Worker) String() string {
	return "runner.Worker"
}

// State returns the worker state.
func (w *Worker) State() *state.State {
	return w.state
}

// Loader returns the module loader, for registering mocks.
func (w *Worker) Loader() *loader.Loader {
	return w.loader
}

// LastReport returns the report of the most recent cycle, or nil.
func (w *Worker) LastReport() *Report {
	return w.lastReport.Load()
}

// Err returns the error of the most recent cycle that could not complete.
func (w *Worker) Err() error {
	if p := w.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

// Run implements the supervisor.Runnable interface. It runs one cycle, then
// stays running until ctx is canceled or Stop is called; Reload triggers
// another cycle.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Debug("Starting Worker")

	if err := w.fsm.Transition(finitestate.StatusBooting); err != nil {
		return fmt.Errorf("failed to transition to booting state: %w", err)
	}

	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()
	w.ctxMu.Lock()
	w.runCtx, w.runCancel = runCtx, runCancel
	w.ctxMu.Unlock()

	if _, err := w.RunCycle(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		if stateErr := w.fsm.Transition(finitestate.StatusError); stateErr != nil {
			w.logger.Error("Failed to transition to error state", "error", stateErr)
		}
		return fmt.Errorf("initial run cycle failed: %w", err)
	}

	if runCtx.Err() == nil {
		if err := w.fsm.Transition(finitestate.StatusRunning); err != nil {
			return fmt.Errorf("failed to transition to running state: %w", err)
		}
	}

	select {
	case <-w.parentCtx.Done():
		w.logger.Debug("Parent context canceled")
	case <-runCtx.Done():
		w.logger.Debug("Run context canceled")
	}

	w.logger.Info("Worker shutting down")

	if w.fsm.GetState() != finitestate.StatusStopping {
		if err := w.fsm.Transition(finitestate.StatusStopping); err != nil {
			w.logger.Error("Failed to transition to stopping state", "error", err)
		}
	}

	w.loader.Wait()

	if err := w.fsm.Transition(finitestate.StatusStopped); err != nil {
		return fmt.Errorf("failed to transition to stopped state: %w", err)
	}
	return nil
}

// Stop implements the supervisor.Runnable interface
func (w *Worker) Stop() {
	w.logger.Debug("Stopping Worker")
	if err := w.fsm.Transition(finitestate.StatusStopping); err != nil {
		w.logger.Error("Failed to transition to stopping state", "error", err)
	}
	w.ctxMu.Lock()
	cancel := w.runCancel
	w.ctxMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Reload implements the supervisor.Reloadable interface by running another
// cycle on ctx against the same worker state. A cycle that fails to run still
// returns the worker to running; its error is returned.
func (w *Worker) Reload(ctx context.Context) error {
	w.logger.Debug("Starting Reload...")
	if err := w.fsm.Transition(finitestate.StatusReloading); err != nil {
		return fmt.Errorf("failed to transition to reloading state: %w", err)
	}

	// a Stop during the rerun cancels it
	cycleCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	w.ctxMu.Lock()
	runCtx := w.runCtx
	w.ctxMu.Unlock()
	if runCtx != nil {
		defer context.AfterFunc(runCtx, cancel)()
	}

	_, cycleErr := w.RunCycle(cycleCtx)
	if cycleErr != nil {
		w.logger.Error("Rerun failed", "error", cycleErr)
	}

	if err := w.fsm.Transition(finitestate.StatusRunning); err != nil {
		return errors.Join(cycleErr, fmt.Errorf("failed to transition to running state: %w", err))
	}
	if cycleErr != nil {
		return fmt.Errorf("rerun failed: %w", cycleErr)
	}
	w.logger.Debug("Reload completed")
	return nil
}
