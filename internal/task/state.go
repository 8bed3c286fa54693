package task

// TaskState is the mutable runtime record owned by a Task. It captures the
// manifest at construction time plus whatever has been applied, resolved, or
// observed about the task's managed resource since.
type TaskState struct {
	RawSpec     map[string]any
	RawMetadata map[string]any
	ReportLabel string

	// CreatedTimestamp is a Unix second timestamp; 0 means never created.
	CreatedTimestamp int64

	AppliedSpec          map[string]any
	CurrentResolvedSpec  map[string]any
	IsCreated            bool
	AppliedResourcesChecksum *string
	CurrentResourceChecksum  *string
}

func newTaskState(spec, metadata map[string]any, label string) *TaskState {
	return &TaskState{
		RawSpec:     spec,
		RawMetadata: metadata,
		ReportLabel: label,
	}
}

// UpdateAppliedSpec atomically replaces the applied spec, the applied
// resource checksum, and the created timestamp, then recomputes IsCreated
// per §3's rule.
func (s *TaskState) UpdateAppliedSpec(newAppliedSpec map[string]any, newResourceChecksum *string, updatedTimestamp int64) {
	specCopy, _ := deepCopyMap(newAppliedSpec).(map[string]any)
	s.AppliedSpec = specCopy
	if newResourceChecksum != nil {
		v := *newResourceChecksum
		s.AppliedResourcesChecksum = &v
	} else {
		s.AppliedResourcesChecksum = nil
	}
	s.CreatedTimestamp = updatedTimestamp
	s.recomputeIsCreated()
}

func (s *TaskState) recomputeIsCreated() {
	s.IsCreated = len(s.AppliedSpec) > 0 || s.CreatedTimestamp > 0
}

// SpecDrifted reports whether the applied spec differs from the currently
// resolved spec. Returns nil when the task has never been created.
func (s *TaskState) SpecDrifted() *bool {
	if !s.IsCreated {
		return nil
	}
	drifted := Checksum(s.AppliedSpec, nil) != Checksum(s.CurrentResolvedSpec, nil)
	return &drifted
}

// ResourceDrifted reports whether the observed resource checksum differs
// from the checksum recorded at apply time. Returns nil when the task has
// never been created, or when no applied-resource checksum was ever
// recorded.
func (s *TaskState) ResourceDrifted() *bool {
	if !s.IsCreated {
		return nil
	}
	if s.AppliedResourcesChecksum == nil {
		return nil
	}
	if s.CurrentResourceChecksum == nil {
		drifted := true
		return &drifted
	}
	drifted := *s.CurrentResourceChecksum != *s.AppliedResourcesChecksum
	return &drifted
}

// Report is the reporting view returned by ToMap.
type Report struct {
	Label            string
	IsCreated        any
	CreatedTimestamp any
	SpecDrifted      any
	ResourceDrifted  any

	AppliedSpecChecksum         any
	CurrentResolvedSpecChecksum any
	AppliedResourcesChecksum    any
	CurrentResourceChecksum     any
	AppliedSpec                 map[string]any
}

// ToMap produces the reporting view described in §4.3/§6. When humanReadable
// is true, boolean/null/timestamp values are substituted with the
// "Yes"/"No"/"N/A"/"Unknown"/"-" strings the original report format uses.
func (s *TaskState) ToMap(humanReadable, withChecksums, includeAppliedSpec bool) Report {
	var r Report
	r.Label = s.ReportLabel

	if humanReadable {
		r.IsCreated = boolYesNo(s.IsCreated)
	} else {
		r.IsCreated = s.IsCreated
	}

	switch {
	case s.IsCreated && s.CreatedTimestamp > 0:
		if humanReadable {
			r.CreatedTimestamp = formatTimestamp(s.CreatedTimestamp)
		} else {
			r.CreatedTimestamp = s.CreatedTimestamp
		}
	default:
		if humanReadable {
			r.CreatedTimestamp = "-"
		} else {
			r.CreatedTimestamp = nil
		}
	}

	specDrifted := s.SpecDrifted()
	switch {
	case specDrifted == nil && !s.IsCreated:
		r.SpecDrifted = humanReadableOrNil(humanReadable, "N/A")
	case specDrifted == nil:
		r.SpecDrifted = humanReadableOrNil(humanReadable, "Unknown")
	default:
		r.SpecDrifted = boolOrYesNo(humanReadable, *specDrifted)
	}

	resourceDrifted := s.ResourceDrifted()
	switch {
	case resourceDrifted == nil && !s.IsCreated:
		r.ResourceDrifted = humanReadableOrNil(humanReadable, "N/A")
	case resourceDrifted == nil:
		r.ResourceDrifted = humanReadableOrNil(humanReadable, "Unknown")
	default:
		r.ResourceDrifted = boolOrYesNo(humanReadable, *resourceDrifted)
	}

	if withChecksums {
		r.AppliedSpecChecksum = checksumOrUnavailable(humanReadable, s.IsCreated && len(s.AppliedSpec) > 0, func() string {
			return Checksum(s.AppliedSpec, nil)
		})
		r.CurrentResolvedSpecChecksum = checksumOrUnavailable(humanReadable, len(s.CurrentResolvedSpec) > 0, func() string {
			return Checksum(s.CurrentResolvedSpec, nil)
		})
		r.AppliedResourcesChecksum = checksumOrUnavailable(humanReadable, s.IsCreated && s.AppliedResourcesChecksum != nil, func() string {
			return *s.AppliedResourcesChecksum
		})
		r.CurrentResourceChecksum = checksumOrUnavailable(humanReadable, s.IsCreated && s.CurrentResourceChecksum != nil, func() string {
			return *s.CurrentResourceChecksum
		})
	}

	if includeAppliedSpec {
		out, _ := deepCopyMap(s.AppliedSpec).(map[string]any)
		r.AppliedSpec = out
	}

	return r
}

func boolYesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func boolOrYesNo(humanReadable, b bool) any {
	if humanReadable {
		return boolYesNo(b)
	}
	return b
}

func humanReadableOrNil(humanReadable bool, label string) any {
	if humanReadable {
		return label
	}
	return nil
}

func checksumOrUnavailable(humanReadable, available bool, compute func() string) any {
	if !available {
		if humanReadable {
			return "unavailable"
		}
		return nil
	}
	return compute()
}
