package runner

import (
	"context"

	"github.com/atlanticdynamic/lynxrun/internal/worker/finitestate"
	"github.com/robbyt/go-supervisor/supervisor"
)

var _ supervisor.Stateable = (*Worker)(nil)

func (w *Worker) GetState() string {
	return w.fsm.GetState()
}

func (w *Worker) GetStateChan(ctx context.Context) <-chan string {
	return w.fsm.GetStateChan(ctx)
}

func (w *Worker) IsRunning() bool {
	return w.fsm.GetState() == finitestate.StatusRunning
}
