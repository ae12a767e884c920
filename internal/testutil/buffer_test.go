package testutil

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThreadSafeBuffer(t *testing.T) {
	handler, buf := NewDebugHandler()
	logger := slog.New(handler)

	var wg sync.WaitGroup
	for range 10 {
		wg.Go(func() {
			logger.Debug("concurrent write")
		})
	}
	wg.Wait()

	assert.Len(t, buf.Lines(), 10)
	assert.Contains(t, buf.String(), "level=DEBUG")

	buf.Reset()
	assert.Empty(t, buf.String())
	assert.Empty(t, buf.Lines())
}
