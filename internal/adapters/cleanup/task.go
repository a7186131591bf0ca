// Package cleanup runs periodic expiry tasks for the cache and session backends.
package cleanup

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task runs a cleanup function on a ticker until stopped
type Task struct {
	stopCh chan struct{}
	done   chan struct{}
	once   sync.Once
}

// Start launches the background task. A non-positive frequency disables it and the
// returned Task only needs to be stopped.
func Start(name string, fn func(context.Context) error, freq time.Duration, logger *zap.Logger) *Task {
	t := &Task{
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	if freq <= 0 {
		close(t.done)
		return t
	}

	go func() {
		defer close(t.done)
		ticker := time.NewTicker(freq)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := fn(context.Background()); err != nil {
					logger.Error("Cleanup failed", zap.String("task", name), zap.Error(err))
				}
			case <-t.stopCh:
				return
			}
		}
	}()
	return t
}

// Stop ends the task and waits for a running cleanup to finish. It is safe to call
// more than once.
func (t *Task) Stop() {
	t.once.Do(func() { close(t.stopCh) })
	<-t.done
}
