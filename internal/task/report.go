package task

import (
	"fmt"
	"strings"
	"time"
)

// Column widths per §6 / SPEC_FULL.md §12 (configurable gap and rule
// character supplement the original fixed defaults).
const (
	colLabel            = 16
	colCreated          = 7
	colCreatedTimestamp = 25
	colSpecDrifted      = 17
	colResourceDrifted  = 17
	colChecksum         = 32
)

func formatTimestamp(unixSeconds int64) string {
	return strings.TrimSpace(time.Unix(unixSeconds, 0).UTC().Format("2006-01-02 15:04:05 -0700"))
}

// ColumnHeaders produces the fixed-width header row described in §6, with an
// optional custom gap width (default 2, matching the original).
func ColumnHeaders(withChecksums bool, gapLen int) string {
	if gapLen <= 0 {
		gapLen = 2
	}
	gap := strings.Repeat(" ", gapLen)
	row := padRight("Manifest", colLabel) + gap +
		padRight("Created", colCreated) + gap +
		padRight("Created Timestamp", colCreatedTimestamp) + gap +
		padRight("Spec Drifted", colSpecDrifted) + gap +
		padRight("Resources Drifted", colResourceDrifted)
	if !withChecksums {
		return row
	}
	return row + gap +
		padRight("Applied Spec Checksum", colChecksum) + gap +
		padRight("Current Spec Checksum", colChecksum) + gap +
		padRight("Applied Resource Checksum", colChecksum) + gap +
		padRight("Current Resource Checksum", colChecksum)
}

// ColumnHeaderRule produces a horizontal rule of lineChar spanning the total
// header width (default rule character '-').
func ColumnHeaderRule(withChecksums bool, gapLen int, lineChar string) string {
	if gapLen <= 0 {
		gapLen = 2
	}
	if lineChar == "" {
		lineChar = "-"
	}
	shortLen := colLabel + colCreated + colCreatedTimestamp + colSpecDrifted + colResourceDrifted
	total := shortLen + gapLen*4
	if withChecksums {
		longLen := shortLen + colChecksum*4
		total = longLen + gapLen*8
	}
	return strings.Repeat(lineChar, total)
}

// ColumnString renders this state's report as a single fixed-width row,
// matching §4.3's columnString(...) operation.
func (s *TaskState) ColumnString(humanReadable, withChecksums bool, gapLen int) string {
	if gapLen <= 0 {
		gapLen = 2
	}
	gap := strings.Repeat(" ", gapLen)
	r := s.ToMap(humanReadable, withChecksums, false)

	row := padRight(cutStr(r.Label, colLabel), colLabel) + gap +
		padRight(cutStr(fmt.Sprintf("%v", r.IsCreated), colCreated), colCreated) + gap +
		padRight(cutStr(fmt.Sprintf("%v", valueOrDash(r.CreatedTimestamp)), colCreatedTimestamp), colCreatedTimestamp) + gap +
		padRight(cutStr(fmt.Sprintf("%v", r.SpecDrifted), colSpecDrifted), colSpecDrifted) + gap +
		padRight(cutStr(fmt.Sprintf("%v", r.ResourceDrifted), colResourceDrifted), colResourceDrifted)

	if !withChecksums {
		return row
	}

	return row + gap +
		padRight(cutStr(checksumCell(r.AppliedSpecChecksum), colChecksum), colChecksum) + gap +
		padRight(cutStr(checksumCell(r.CurrentResolvedSpecChecksum), colChecksum), colChecksum) + gap +
		padRight(cutStr(checksumCell(r.AppliedResourcesChecksum), colChecksum), colChecksum) + gap +
		padRight(cutStr(checksumCell(r.CurrentResourceChecksum), colChecksum), colChecksum)
}

func checksumCell(v any) string {
	if v == nil {
		return "unavailable"
	}
	return fmt.Sprintf("%v", v)
}

func valueOrDash(v any) any {
	if v == nil {
		return "-"
	}
	return v
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func cutStr(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen]
	}
	return s
}
