package main

import (
	"github.com/spf13/cobra"
)

// engineFlags are the flags every workflow-running subcommand shares.
type engineFlags struct {
	manifest string
	config   string
	context  string
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.manifest, "manifest", "tasks.yaml", "path to the task manifest file")
	cmd.Flags().StringVar(&f.config, "config", "taskctl.yaml", "path to the engine configuration file")
	cmd.Flags().StringVar(&f.context, "context", "default", "the processing context to run in (e.g. prod, staging)")
}

// newRootCommand builds the taskctl command tree: five workflow
// subcommands (apply, delete, describe, detect-drift, rollback), each run
// through the command-to-action map, plus `watch` for scheduled re-apply.
// UpdateAction has no subcommand of its own.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "taskctl",
		Short:         "Declarative task orchestration engine",
		Long:          "taskctl drives a set of declarative tasks through a dependency-ordered lifecycle: create, update, delete, rollback, describe, and detect-drift.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newWorkflowCommand("apply", "Create or update tasks so their managed resources match their spec"),
		newWorkflowCommand("delete", "Delete tasks' managed resources"),
		newWorkflowCommand("describe", "Report each task's drift and checksum state"),
		newWorkflowCommand("detect-drift", "Check tasks' managed resources for drift without changing them"),
		newWorkflowCommand("rollback", "Roll a task back to its last-applied state"),
		newWatchCommand(),
	)

	return cmd
}
