// Package barrier waits for a worker's module cache to become quiescent.
//
// Evaluating a module may start new loads, so a single wait over the loads
// pending at call time is not enough: the barrier re-scans the cache after
// every settle round and returns only once a round finds no record loading or
// resolving. That is a moment-in-time guarantee, not a lock; loads started
// after Await returns are not covered.
package barrier

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/atlanticdynamic/lynxrun/internal/modcache"
	"github.com/atlanticdynamic/lynxrun/internal/worker/state"
)

// DefaultPollInterval is how long a round sleeps when records are resolving
// but no load is pending.
const DefaultPollInterval = time.Millisecond

// AwaitAllResolved waits until the module cache of the worker state carried
// by ctx (or installed in the process slot) has no pending work. The state is
// looked up again every round, so a state installed mid-wait is the one whose
// cache ends the wait. It returns a *state.ConfigurationError when no state is
// available and ctx.Err() when ctx is done first.
func AwaitAllResolved(ctx context.Context, opts ...Option) error {
	return await(ctx, func() (*modcache.Cache, error) {
		st, err := state.FromContext(ctx)
		if err != nil {
			return nil, err
		}
		return st.Modules, nil
	}, opts...)
}

// Await waits until no record of cache is loading or resolving.
//
// Each round yields once so that loads queued by the caller become visible,
// collects the load of every unevaluated record and counts resolving records,
// and returns when both are empty. Otherwise it waits for every collected
// load to settle, fulfilled or rejected, and starts the next round. A load
// that never settles or a resolving flag that never clears blocks until ctx
// is done.
func Await(ctx context.Context, cache *modcache.Cache, opts ...Option) error {
	return await(ctx, func() (*modcache.Cache, error) { return cache, nil }, opts...)
}

// await runs the rounds of Await against the cache returned by source, which
// is called once per round.
func await(ctx context.Context, source func() (*modcache.Cache, error), opts ...Option) error {
	cfg := config{
		yield:  runtime.Gosched,
		poll:   DefaultPollInterval,
		logger: slog.Default().WithGroup("barrier"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	for round := 1; ; round++ {
		cfg.yield()

		cache, err := source()
		if err != nil {
			return err
		}
		loads, resolving := scan(cache)
		if len(loads) == 0 && resolving == 0 {
			cfg.logger.Debug("Module cache settled", "rounds", round)
			return nil
		}
		cfg.logger.Debug("Waiting for module loads",
			"round", round,
			"loading", len(loads),
			"resolving", resolving,
		)

		if len(loads) == 0 {
			// only resolution in flight: nothing to wait on, poll again
			if err := sleep(ctx, cfg.poll); err != nil {
				return fmt.Errorf("barrier interrupted after %d rounds: %w", round, err)
			}
			continue
		}
		if err := settleAll(ctx, loads); err != nil {
			return fmt.Errorf("barrier interrupted after %d rounds: %w", round, err)
		}
	}
}

// scan collects the pending loads and the number of resolving records.
func scan(cache *modcache.Cache) ([]*modcache.Load, int) {
	var loads []*modcache.Load
	resolving := 0
	if cache == nil {
		return nil, 0
	}
	cache.Range(func(rec *modcache.Record) bool {
		if load, ok := rec.Pending(); ok {
			loads = append(loads, load)
		}
		if rec.Resolving() {
			resolving++
		}
		return true
	})
	return loads, resolving
}

// settleAll waits for every load to settle. Rejections are not inspected.
func settleAll(ctx context.Context, loads []*modcache.Load) error {
	for _, load := range loads {
		select {
		case <-load.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
