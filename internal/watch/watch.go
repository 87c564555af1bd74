// Package watch refreshes the inventory on a cron schedule.
package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSchedule refreshes every minute.
const DefaultSchedule = "@every 1m"

// Refresher is the part of the view-model a watcher drives.
type Refresher interface {
	Reload(ctx context.Context) error
	RefreshTotals(ctx context.Context) error
}

// Options configures a Watcher.
type Options struct {
	// Timeout bounds one refresh. Zero means 30 seconds.
	Timeout time.Duration
	// OnTick, when set, is called after every refresh with its error.
	OnTick func(error)
	Logger *zap.Logger
}

// Watcher runs scheduled refreshes. Overlapping runs are skipped.
type Watcher struct {
	cron    *cron.Cron
	target  Refresher
	timeout time.Duration
	onTick  func(error)
	logger  *zap.Logger
}

// New validates schedule and returns a stopped watcher. Schedules use the
// standard five-field cron syntax or descriptors such as "@every 30s".
func New(target Refresher, schedule string, opts Options) (*Watcher, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	w := &Watcher{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		target:  target,
		timeout: timeout,
		onTick:  opts.OnTick,
		logger:  logger,
	}
	if _, err := w.cron.AddFunc(schedule, w.Tick); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	return w, nil
}

// Start starts the scheduler in its own goroutine.
func (w *Watcher) Start() {
	w.logger.Info("starting watcher")
	w.cron.Start()
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (w *Watcher) Stop() {
	w.logger.Info("stopping watcher")
	<-w.cron.Stop().Done()
}

// Next returns the time of the next scheduled refresh.
func (w *Watcher) Next() time.Time {
	entries := w.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Tick runs one refresh: the current page, then the server totals.
func (w *Watcher) Tick() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	err := w.target.Reload(ctx)
	if err != nil {
		w.logger.Error("failed to reload inventory", zap.Error(err))
	} else if terr := w.target.RefreshTotals(ctx); terr != nil {
		w.logger.Debug("failed to refresh totals", zap.Error(terr))
	}

	if w.onTick != nil {
		w.onTick(err)
	}
}
