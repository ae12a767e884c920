package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atlanticdynamic/lynxrun/internal/modcache"
	"github.com/atlanticdynamic/lynxrun/internal/worker/barrier"
	"github.com/atlanticdynamic/lynxrun/internal/worker/invalidate"
	"github.com/atlanticdynamic/lynxrun/internal/worker/state"
	"github.com/gofrs/uuid/v5"
	"github.com/robbyt/go-loglater"
)

// RunCycle invalidates stale modules, imports every test file in order, waits
// for all module loads to settle and returns the report. Failing files are
// part of the report, not an error. Logs of a cycle are buffered and replayed
// to the worker's logger when the cycle has failures.
func (w *Worker) RunCycle(ctx context.Context) (*Report, error) {
	w.cycleMu.Lock()
	defer w.cycleMu.Unlock()

	if len(w.files) == 0 {
		return nil, ErrNoFiles
	}
	ctx = state.WithState(ctx, w.state)

	report := &Report{
		ID:        uuid.Must(uuid.NewV6()),
		StartedAt: time.Now(),
	}
	collector := loglater.NewLogCollector(nil)
	logger := slog.New(collector).With("cycle", report.ID)

	invalidated := w.invalidator.Invalidate(w.state.Modules, invalidate.Options{
		ResetMocks: w.cfg.Modules.ResetMocks,
	})
	report.Invalidated = len(invalidated)
	logger.Debug("Module cache invalidated", "count", report.Invalidated)

	files := make(map[string]bool, len(w.files))
	for _, file := range w.files {
		res := w.runFile(ctx, logger, file)
		files[res.File] = true
		report.Results = append(report.Results, res)
		if err := ctx.Err(); err != nil {
			return w.fail(report, err)
		}
	}

	if err := barrier.Await(ctx, w.state.Modules, barrier.WithLogger(logger)); err != nil {
		return w.fail(report, err)
	}

	w.state.Modules.Range(func(rec *modcache.Record) bool {
		if rec.Compiled() != nil {
			report.Compiled++
		}
		if files[rec.ID()] {
			return true
		}
		if load := rec.Load(); load != nil && load.Err() != nil {
			report.Unhandled = append(report.Unhandled, ModuleError{ID: rec.ID(), Err: load.Err()})
		}
		return true
	})

	logger.Debug("Module cache after cycle", "compiled", report.Compiled, "tree", w.state.Modules.String())

	report.Duration = time.Since(report.StartedAt)
	if report.Passed() {
		logger.Info("Run cycle passed", "files", len(report.Results), "duration", report.Duration)
	} else {
		logger.Warn("Run cycle failed", "files", len(report.Results), "failed", report.Failed())
	}
	report.Logs = collector.GetLogs()

	if !report.Passed() {
		if err := collector.PlayLogs(w.logger.Handler()); err != nil {
			w.logger.Error("Failed to replay cycle logs", "error", err)
		}
	} else {
		w.logger.Info("Run cycle passed", "cycle", report.ID, "files", len(report.Results), "duration", report.Duration)
	}

	w.lastReport.Store(report)
	w.lastErr.Store(nil)
	if w.onReport != nil {
		w.onReport(report)
	}
	return report, nil
}

func (w *Worker) runFile(ctx context.Context, logger *slog.Logger, file string) Result {
	start := time.Now()
	res := Result{File: file}

	id, err := w.loader.Resolve(file, "")
	if err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		logger.Error("Cannot resolve test file", "file", file, "error", err)
		return res
	}
	res.File = id

	rec, err := w.loader.Import(ctx, id, "")
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		logger.Error("Test file failed", "file", id, "error", err, "duration", res.Duration)
		return res
	}

	res.Exports = rec.Exports()
	res.Passed = filePassed(res.Exports)
	if res.Passed {
		logger.Debug("Test file passed", "file", id, "duration", res.Duration)
	} else {
		logger.Warn("Test file reported failure", "file", id, "exports", res.Exports)
	}
	return res
}

func (w *Worker) fail(report *Report, err error) (*Report, error) {
	report.Duration = time.Since(report.StartedAt)
	err = fmt.Errorf("run cycle %s interrupted: %w", report.ID, err)
	w.lastErr.Store(&err)
	return report, err
}
