package task

// StateUpdate is the shape a Processor signals back through the
// VariableStore after a successful action, under the
// "<taskId>:TASK_STATE_UPDATES" key (§4.5's TaskPostProcessingStateUpdateHook).
// A zero-value StateUpdate with StateChanged false means "nothing to
// apply" and the hook leaves the task's state untouched.
type StateUpdate struct {
	StateChanged         bool
	IsCreated            bool
	CreatedTimestamp     int64
	RawSpec              map[string]any
	Metadata             map[string]any
	ResolvedSpecApplied  map[string]any
	ResourceChecksum     *string
}

// ApplyStateUpdate updates s's applied-spec/created/checksum fields in
// place with the contents of u, in lieu of §4.5's literal "replaces
// task.state with a fresh TaskState": the original implementation's
// update_applied_spec (operarius.py) mutates the existing TaskState the
// same way, and doing so here preserves CurrentResolvedSpec and
// CurrentResourceChecksum (set independently, by ResolveTaskSpecVariablesHook
// and by a detect-drift observation) across the update instead of
// discarding them. RawSpec/Metadata are left as-is when u doesn't supply
// them, since a processor only reports what it actually changed.
func (s *TaskState) ApplyStateUpdate(u StateUpdate) {
	if u.RawSpec != nil {
		specCopy, _ := deepCopyMap(u.RawSpec).(map[string]any)
		s.RawSpec = specCopy
	}
	if u.Metadata != nil {
		metaCopy, _ := deepCopyMap(u.Metadata).(map[string]any)
		s.RawMetadata = metaCopy
	}
	s.UpdateAppliedSpec(u.ResolvedSpecApplied, u.ResourceChecksum, u.CreatedTimestamp)
}

// PersistedState renders this state into the durable, non-human-readable
// schema described in §6: the same fields ToMap(false, true, true) reports,
// plus the checksum-schema version recorded in SPEC_FULL.md §13.1.
func (s *TaskState) PersistedState() map[string]any {
	r := s.ToMap(false, true, true)
	return map[string]any{
		"label":                          r.Label,
		"is_created":                     r.IsCreated,
		"created_timestamp":              r.CreatedTimestamp,
		"spec_drifted":                   r.SpecDrifted,
		"resource_drifted":               r.ResourceDrifted,
		"applied_spec_checksum":          r.AppliedSpecChecksum,
		"current_resolved_spec_checksum": r.CurrentResolvedSpecChecksum,
		"applied_resources_checksum":     r.AppliedResourcesChecksum,
		"current_resource_checksum":      r.CurrentResourceChecksum,
		"applied_spec":                   r.AppliedSpec,
		"checksum_schema":                "sorted-keys-v1",
	}
}
