package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalSchedulerRunsImmediatelyAndRepeats(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("CET", 3600)
	s := NewIntervalScheduler(10*time.Millisecond, loc)

	var runs atomic.Int32
	triggers := make(chan time.Time, 16)
	require.NoError(t, s.Start(context.Background(), func(at time.Time) {
		runs.Add(1)
		select {
		case triggers <- at:
		default:
		}
	}))

	first := <-triggers
	assert.Equal(t, loc, first.Location())

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestIntervalSchedulerStopsWithContext(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())

	ran := make(chan struct{}, 1)
	require.NoError(t, s.Start(ctx, func(time.Time) { ran <- struct{}{} }))
	<-ran

	done := s.Done()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler goroutine did not exit")
	}
	require.NoError(t, s.Stop(context.Background()))
}

func TestIntervalSchedulerValidation(t *testing.T) {
	t.Parallel()

	require.Error(t, NewIntervalScheduler(0, nil).Start(context.Background(), func(time.Time) {}))
	require.NoError(t, NewIntervalScheduler(0, nil).Start(context.Background(), nil))
	require.NoError(t, NewIntervalScheduler(time.Second, nil).Stop(context.Background()))
}
