// Package task runs the service's periodic background work.
package task

import (
	"context"
	"sync"
	"time"
)

// RunnerFunc is one unit of scheduled work.
type RunnerFunc func(context.Context)

// Scheduler invokes a runner on a fixed interval and on demand via Trigger.
// Start is idempotent; Stop waits for the loop to drain.
type Scheduler struct {
	interval     time.Duration
	runner       RunnerFunc
	trigger      chan struct{}
	controlMutex sync.Mutex
	cancel       context.CancelFunc
	done         chan struct{}
}

// NewScheduler builds a scheduler; non-positive intervals fall back to one minute.
func NewScheduler(interval time.Duration, runner RunnerFunc) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		interval: interval,
		runner:   runner,
		trigger:  make(chan struct{}, 1),
	}
}

// Start launches the scheduling loop. Calling Start on a running scheduler
// is a no-op.
func (scheduler *Scheduler) Start(ctx context.Context) {
	if scheduler == nil || scheduler.runner == nil {
		return
	}
	scheduler.controlMutex.Lock()
	if scheduler.cancel != nil {
		scheduler.controlMutex.Unlock()
		return
	}
	runtimeCtx, cancel := context.WithCancel(ctx)
	scheduler.cancel = cancel
	done := make(chan struct{})
	scheduler.done = done
	scheduler.controlMutex.Unlock()

	go scheduler.loop(runtimeCtx, done)
}

// Trigger requests an immediate run. Requests made while a run is already
// pending collapse into one.
func (scheduler *Scheduler) Trigger() {
	if scheduler == nil {
		return
	}
	select {
	case scheduler.trigger <- struct{}{}:
	default:
	}
}

// Stop cancels the loop and blocks until it exits.
func (scheduler *Scheduler) Stop() {
	if scheduler == nil {
		return
	}
	scheduler.controlMutex.Lock()
	cancel := scheduler.cancel
	done := scheduler.done
	scheduler.cancel = nil
	scheduler.done = nil
	scheduler.controlMutex.Unlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (scheduler *Scheduler) loop(ctx context.Context, done chan struct{}) {
	timer := time.NewTimer(scheduler.interval)
	defer func() {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
	}()
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-scheduler.trigger:
			scheduler.runner(ctx)
		case <-timer.C:
			scheduler.runner(ctx)
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(scheduler.interval)
	}
}
