package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/vquant/backend/internal/scheduler"
	"github.com/wonny/vquant/backend/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Start the job scheduler",
	Long: `Starts the scheduler with the daily pipeline job.

The pipeline runs on the configured cron schedule (PIPELINE_SCHEDULE,
default weekdays after the HOSE close) and persists its report.

Example:
  go run ./cmd/vquant scheduler
  go run ./cmd/vquant scheduler --now`,
	RunE: runScheduler,
}

var schedulerRunNow bool

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().BoolVar(&schedulerRunNow, "now", false, "additionally trigger the pipeline job immediately")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== VQuant Scheduler ===")

	rt, err := initRuntime(true)
	if err != nil {
		return err
	}
	defer rt.close()

	sched := scheduler.New(rt.log)
	pipelineJob := jobs.NewPipelineJob(rt.orchestrator, rt.cfg.Pipeline.Schedule, rt.log)
	if err := sched.AddJob(pipelineJob); err != nil {
		return fmt.Errorf("add pipeline job: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	fmt.Printf("\n✅ Scheduler running (%s: %q)\n", pipelineJob.Name(), pipelineJob.Schedule())
	if schedulerRunNow {
		if err := sched.RunJob(pipelineJob.Name()); err != nil {
			return err
		}
		fmt.Println("▸ Pipeline job triggered")
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
