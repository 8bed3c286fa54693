package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

// newWatchCommand builds the `watch` subcommand: re-invoke executeWorkflow
// for a fixed (command, context) pair on a cron schedule, matching the
// scheduled-re-apply supplement from SPEC_FULL.md §11.
func newWatchCommand() *cobra.Command {
	flags := &engineFlags{}
	var (
		schedule string
		command  string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run a command on a cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(flags)
			if err != nil {
				return err
			}
			defer func() { _ = eng.closeFn() }()

			c := cron.New()
			_, err = c.AddFunc(schedule, func() {
				runID := uuid.NewString()
				eng.log.Info("watch: scheduled run starting", "runId", runID, "command", command, "context", flags.context)
				if err := eng.executor.ExecuteWorkflow(command, flags.context); err != nil {
					eng.log.Error("watch: scheduled run failed", "runId", runID, "error", err)
					return
				}
				eng.log.Info("watch: scheduled run completed", "runId", runID)
			})
			if err != nil {
				return fmt.Errorf("watch: invalid cron schedule %q: %w", schedule, err)
			}

			c.Run() // blocks; the process is meant to be supervised externally
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&schedule, "schedule", "@every 5m", "cron schedule to re-run --run-command on")
	cmd.Flags().StringVar(&command, "run-command", "apply", "the command to re-run on each tick (apply, detect-drift, ...)")
	return cmd
}
