// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/vquant/backend/internal/brain"
	"github.com/wonny/vquant/backend/pkg/logger"
)

// Runner executes one full pipeline pass.
type Runner interface {
	Run(ctx context.Context, cfg brain.RunConfig) (*brain.RunResult, error)
}

// PipelineJob runs the full scoring pipeline on trading days
// ⭐ SSOT: the pipeline schedule is owned by this job only
type PipelineJob struct {
	runner   Runner
	schedule string
	logger   *logger.Logger
}

// NewPipelineJob creates a new pipeline job
func NewPipelineJob(runner Runner, schedule string, log *logger.Logger) *PipelineJob {
	if schedule == "" {
		schedule = "0 30 15 * * 1-5"
	}
	return &PipelineJob{
		runner:   runner,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *PipelineJob) Name() string {
	return "daily_pipeline"
}

// Schedule returns the cron schedule expression
func (j *PipelineJob) Schedule() string {
	return j.schedule
}

// Run executes the full pipeline
func (j *PipelineJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled pipeline run")

	result, err := j.runner.Run(ctx, brain.RunConfig{})
	if err != nil {
		return fmt.Errorf("scheduled pipeline run: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"duration":  result.Duration.String(),
		"targets":   len(result.Targets),
		"rows":      len(result.Report),
		"succeeded": result.Integrity.Succeeded,
		"failed":    result.Integrity.Failed,
	}).Info("Scheduled pipeline run complete")

	return nil
}
