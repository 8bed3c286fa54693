package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"taskctl/internal/graph"
	"taskctl/internal/report"
	"taskctl/internal/trace"
)

// newWorkflowCommand builds one of the five dispatcher-action subcommands:
// load the manifest and config, run executeWorkflow for (name, context),
// then print a report for the read-only commands.
func newWorkflowCommand(name, short string) *cobra.Command {
	flags := &engineFlags{}
	var (
		traceOut string
		label    string
	)

	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(flags)
			if err != nil {
				return err
			}
			defer func() { _ = eng.closeFn() }()

			runErr := eng.executor.ExecuteWorkflow(name, flags.context)

			if traceOut != "" {
				if err := writeTrace(eng, traceOut); err != nil {
					eng.log.Error("writing execution trace failed", "path", traceOut, "error", err)
				}
			}

			if runErr != nil {
				return runErr
			}

			if name == "describe" || name == "detect-drift" {
				ids, err := reportTargets(eng, label)
				if err != nil {
					return err
				}
				return report.PrintTable(cmd.OutOrStdout(), eng.tasks, ids, report.Options{
					HumanReadable: true,
					WithChecksums: true,
					GapLen:        2,
				})
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&traceOut, "trace-out", "", "write a canonical, deterministic execution trace (JSON) to this path")
	if name == "describe" || name == "detect-drift" {
		cmd.Flags().StringVar(&label, "label", "", "restrict the report to tasks whose metadata labels contain key=value")
	}
	return cmd
}

// reportTargets resolves which task ids a describe/detect-drift report
// should cover: every task by default, or the subset matching --label
// key=value (SPEC_FULL.md §12's label-based targeting).
func reportTargets(eng *engine, label string) ([]string, error) {
	if label == "" {
		return eng.tasks.Names(), nil
	}
	key, value, ok := strings.Cut(label, "=")
	if !ok {
		return nil, fmt.Errorf("--label must be in key=value form, got %q", label)
	}
	return graph.SelectByLabel(eng.tasks, key, value), nil
}

// writeTrace assembles the canonical ExecutionTrace for the tasks the
// engine knows about and writes it to path as JSON, for audit export and
// run-to-run comparison (the trace is insensitive to task execution order).
func writeTrace(eng *engine, path string) error {
	tr := trace.BuildFromStore(eng.executor.Store, eng.tasks.Names(), uuid.NewString())
	b, err := json.MarshalIndent(&tr, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling trace: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}
