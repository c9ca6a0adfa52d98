package jobs_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/straye-as/client-admin/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingScreen struct {
	loads atomic.Int32
	err   error
}

func (c *countingScreen) Load(context.Context) error {
	c.loads.Add(1)
	return c.err
}

func TestRefreshJobRunsEveryScreen(t *testing.T) {
	ok := &countingScreen{}
	bad := &countingScreen{err: errors.New("boom")}
	job := jobs.NewRefreshJob(map[string]jobs.Reloader{"clients": ok, "drafts": bad}, zap.NewNop(), time.Second)

	assert.Equal(t, 1, job.Run(context.Background()))
	assert.Equal(t, int32(1), ok.loads.Load())
	assert.Equal(t, int32(1), bad.loads.Load())
}

func TestSchedulerAddRemove(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob(jobs.RefreshJobName, "@every 5m", func() {}))
	assert.Error(t, s.AddJob(jobs.RefreshJobName, "@every 5m", func() {}))
	assert.Error(t, s.AddJob("broken", "not a cron", func() {}))
	assert.Equal(t, []string{jobs.RefreshJobName}, s.JobNames())

	require.NoError(t, s.RemoveJob(jobs.RefreshJobName))
	assert.Error(t, s.RemoveJob(jobs.RefreshJobName))
	assert.Empty(t, s.JobNames())
}

func TestSchedulerRunsJob(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	screen := &countingScreen{}
	job := jobs.NewRefreshJob(map[string]jobs.Reloader{"clients": screen}, zap.NewNop(), time.Second)

	require.NoError(t, s.AddJob(jobs.RefreshJobName, "@every 1s", job.Func()))
	s.Start()
	defer func() { <-s.Stop().Done() }()

	assert.Eventually(t, func() bool { return screen.loads.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
