package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineRunsMaxDays(t *testing.T) {
	e := NewEngine()
	var days, weeks []int
	e.OnDay = func(d int) { days = append(days, d) }
	e.OnWeek = func(d int) { weeks = append(weeks, d) }
	e.MaxDays = 15

	require.NoError(t, e.Run(context.Background()))

	assert.Len(t, days, 15)
	assert.Equal(t, 14, days[14])
	assert.Equal(t, []int{6, 13}, weeks)
	assert.Equal(t, 15, e.Day)
}

func TestEngineStopAndCancel(t *testing.T) {
	e := NewEngine()
	e.OnDay = func(d int) {
		if d == 2 {
			e.Stop()
		}
	}
	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 3, e.Day)
	e.Stop() // idempotent

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewEngine().Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSimTime(t *testing.T) {
	assert.Equal(t, "Week 1 Day 1", SimTime(0))
	assert.Equal(t, "Week 2 Day 3", SimTime(9))
	assert.True(t, IsWeekEnd(6))
	assert.False(t, IsWeekEnd(7))
}

func TestEngineConcurrentStop(t *testing.T) {
	e := NewEngine()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Stop()
		}()
	}
	wg.Wait()

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 0, e.Day, "stopped before the first day")
}
