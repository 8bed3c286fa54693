// Package report renders TaskState data as the columnar and single-task
// text reports described in §4.3/§6, supplementing the fixed-width
// defaults with the configurable gap width and rule character from
// SPEC_FULL.md §12.
package report

import (
	"fmt"
	"io"

	"taskctl/internal/task"
)

// Options configures a report's rendering. A zero-value Options renders the
// spec's exact defaults (not human-readable, no checksums, 2-space gap, '-'
// rule).
type Options struct {
	HumanReadable bool
	WithChecksums bool
	GapLen        int
	LineChar      string
}

// PrintTable writes a header, a rule line, and one row per task in ids (in
// the order given) to w.
func PrintTable(w io.Writer, set *task.Set, ids []string, opts Options) error {
	if _, err := fmt.Fprintln(w, task.ColumnHeaders(opts.WithChecksums, opts.GapLen)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, task.ColumnHeaderRule(opts.WithChecksums, opts.GapLen, opts.LineChar)); err != nil {
		return err
	}
	for _, id := range ids {
		t, ok := set.Get(id)
		if !ok {
			continue
		}
		if _, err := fmt.Fprintln(w, t.State.ColumnString(opts.HumanReadable, opts.WithChecksums, opts.GapLen)); err != nil {
			return err
		}
	}
	return nil
}

// line is a single "Label: Value" entry in a DescribeTask report.
type line struct {
	label string
	value any
}

// DescribeTask renders a single task's report as "Key: Value" lines,
// suitable for the `describe` command's per-task detail view.
func DescribeTask(w io.Writer, t *task.Task, opts Options) error {
	r := t.State.ToMap(opts.HumanReadable, opts.WithChecksums, true)

	lines := []line{
		{"Manifest", r.Label},
		{"Created", r.IsCreated},
		{"Created Timestamp", r.CreatedTimestamp},
		{"Spec Drifted", r.SpecDrifted},
		{"Resources Drifted", r.ResourceDrifted},
	}
	if opts.WithChecksums {
		lines = append(lines,
			line{"Applied Spec Checksum", r.AppliedSpecChecksum},
			line{"Current Spec Checksum", r.CurrentResolvedSpecChecksum},
			line{"Applied Resource Checksum", r.AppliedResourcesChecksum},
			line{"Current Resource Checksum", r.CurrentResourceChecksum},
		)
	}

	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s: %v\n", l.label, l.value); err != nil {
			return err
		}
	}
	return nil
}
