package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RefreshJobName is the name of the console screen refresh job
const RefreshJobName = "screen_refresh"

// Reloader is a screen that can fetch its records again
type Reloader interface {
	Load(ctx context.Context) error
}

// RefreshJob reloads the console screens so they pick up changes made by
// other operators
type RefreshJob struct {
	screens map[string]Reloader
	logger  *zap.Logger
	timeout time.Duration
}

// NewRefreshJob creates a job over the named screens. Each run is bounded by timeout.
func NewRefreshJob(screens map[string]Reloader, logger *zap.Logger, timeout time.Duration) *RefreshJob {
	return &RefreshJob{screens: screens, logger: logger, timeout: timeout}
}

// Run reloads every screen and returns how many failed
func (j *RefreshJob) Run(ctx context.Context) int {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	failed := 0
	for name, screen := range j.screens {
		if err := screen.Load(ctx); err != nil {
			failed++
			j.logger.Warn("screen refresh failed", zap.String("screen", name), zap.Error(err))
		}
	}
	j.logger.Debug("screens refreshed", zap.Int("screens", len(j.screens)), zap.Int("failed", failed))
	return failed
}

// Func adapts the job to Scheduler.AddJob
func (j *RefreshJob) Func() func() {
	return func() { j.Run(context.Background()) }
}
