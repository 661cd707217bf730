package scheduler

import (
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/common"
)

// Task runs a tick function on a fixed interval until the function reports it is
// done or Stop is called. It is stopped exactly once either way.
type Task struct {
	name     string
	interval time.Duration
	tick     func() bool
	logger   arbor.ILogger

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Every starts a task that calls tick every interval. Returning false from tick ends the task.
func Every(name string, interval time.Duration, logger arbor.ILogger, tick func() bool) *Task {
	t := &Task{
		name:     name,
		interval: interval,
		tick:     tick,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	common.SafeGo(logger, name, t.run)

	return t
}

func (t *Task) run() {
	defer close(t.done)
	defer t.Stop()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			// Stop may race with a ready tick; prefer the stop
			select {
			case <-t.stop:
				return
			default:
			}
			if !t.tick() {
				return
			}
		}
	}
}

// Stop cancels the task. Safe to call repeatedly and from inside tick.
func (t *Task) Stop() {
	t.stopOnce.Do(func() {
		close(t.stop)
	})
}

// Done is closed once the task goroutine has exited
func (t *Task) Done() <-chan struct{} {
	return t.done
}
