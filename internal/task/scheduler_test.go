package task

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSchedulerTriggerRunsImmediately(testingT *testing.T) {
	var runCount atomic.Int64
	scheduler := NewScheduler(time.Hour, func(context.Context) {
		runCount.Add(1)
	})

	scheduler.Start(context.Background())
	defer scheduler.Stop()

	scheduler.Trigger()
	require.Eventually(testingT, func() bool {
		return runCount.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSchedulerRunsOnInterval(testingT *testing.T) {
	var runCount atomic.Int64
	scheduler := NewScheduler(20*time.Millisecond, func(context.Context) {
		runCount.Add(1)
	})

	scheduler.Start(context.Background())
	defer scheduler.Stop()

	require.Eventually(testingT, func() bool {
		return runCount.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSchedulerStopWaitsForLoopExit(testingT *testing.T) {
	scheduler := NewScheduler(time.Hour, func(context.Context) {})
	scheduler.Start(context.Background())
	scheduler.Stop()

	// A second Stop must not block or panic.
	scheduler.Stop()
}

func TestSchedulerStartIsIdempotent(testingT *testing.T) {
	var runCount atomic.Int64
	scheduler := NewScheduler(time.Hour, func(context.Context) {
		runCount.Add(1)
	})

	scheduler.Start(context.Background())
	scheduler.Start(context.Background())
	defer scheduler.Stop()

	scheduler.Trigger()
	require.Eventually(testingT, func() bool {
		return runCount.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)
}
