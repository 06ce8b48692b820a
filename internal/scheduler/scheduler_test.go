package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/vquant/backend/pkg/logger"
)

type stubJob struct {
	name     string
	schedule string
	done     chan struct{}
}

func (j *stubJob) Name() string     { return j.name }
func (j *stubJob) Schedule() string { return j.schedule }
func (j *stubJob) Run(_ context.Context) error {
	close(j.done)
	return nil
}

func TestAddJobRejectsDuplicate(t *testing.T) {
	s := New(logger.Discard())
	job := &stubJob{name: "pipeline", schedule: "@daily", done: make(chan struct{})}

	require.NoError(t, s.AddJob(job))
	err := s.AddJob(job)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := New(logger.Discard())
	job := &stubJob{name: "broken", schedule: "not a cron expr", done: make(chan struct{})}

	require.Error(t, s.AddJob(job))
	assert.Empty(t, s.GetAllJobs())
}

func TestRunJobImmediate(t *testing.T) {
	s := New(logger.Discard())
	job := &stubJob{name: "pipeline", schedule: "@daily", done: make(chan struct{})}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("pipeline"))
	select {
	case <-job.done:
	case <-time.After(2 * time.Second):
		t.Fatal("job never ran")
	}

	// History lands after Run returns.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		history, err := s.GetJobHistory("pipeline")
		require.NoError(t, err)
		if result, ok := history.Latest(); ok {
			assert.True(t, result.Success)
			assert.Equal(t, "pipeline", result.JobName)
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("job result never recorded")
}

func TestRunJobUnknown(t *testing.T) {
	s := New(logger.Discard())
	assert.Error(t, s.RunJob("ghost"))
}

func TestJobHistoryBounds(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < 150; i++ {
		h.AddResult(JobResult{JobName: "pipeline", Success: i%2 == 0})
	}
	assert.Len(t, h.Results, 100)

	_, ok := h.Latest()
	assert.True(t, ok)
	assert.InDelta(t, 0.5, h.SuccessRate(), 0.01)
}

func TestJobHistoryEmpty(t *testing.T) {
	h := &JobHistory{}
	_, ok := h.Latest()
	assert.False(t, ok)
	assert.Zero(t, h.SuccessRate())
}
