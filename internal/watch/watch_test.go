package watch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRefresher struct {
	mu        sync.Mutex
	reloads   int
	totals    int
	reloadErr error
	deadline  bool
}

func (f *fakeRefresher) Reload(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	_, f.deadline = ctx.Deadline()
	return f.reloadErr
}

func (f *fakeRefresher) RefreshTotals(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.totals++
	return nil
}

func TestInvalidSchedule(t *testing.T) {
	_, err := New(&fakeRefresher{}, "every now and then", Options{})
	assert.ErrorContains(t, err, "invalid schedule")
}

func TestTick(t *testing.T) {
	target := &fakeRefresher{}
	var ticks []error
	w, err := New(target, DefaultSchedule, Options{OnTick: func(err error) { ticks = append(ticks, err) }})
	require.NoError(t, err)

	w.Tick()
	assert.Equal(t, 1, target.reloads)
	assert.Equal(t, 1, target.totals)
	assert.True(t, target.deadline, "refresh is bounded")
	assert.Equal(t, []error{nil}, ticks)

	target.reloadErr = errors.New("connection refused")
	w.Tick()
	assert.Equal(t, 2, target.reloads)
	assert.Equal(t, 1, target.totals, "totals skipped after a failed reload")
	require.Len(t, ticks, 2)
	assert.EqualError(t, ticks[1], "connection refused")
}

func TestStartStop(t *testing.T) {
	w, err := New(&fakeRefresher{}, "@every 1h", Options{})
	require.NoError(t, err)

	w.Start()
	next := w.Next()
	w.Stop()

	assert.WithinDuration(t, time.Now().Add(time.Hour), next, time.Minute)
}
