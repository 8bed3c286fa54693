// Package graph implements the ordering engine: scope filtering, dependency
// resolution, and deterministic topological ordering over a (command,
// context) execution scope (§4.1).
package graph

// Clause is the shared shape of a dependency or processing-scope clause
// (§3): an optional command list, an optional context list, and (for
// dependency clauses only) a list of dependency task ids.
type Clause struct {
	Tasks    []string
	Commands []string
	Contexts []string
}

// Matches reports whether the clause is active under (cmd, ctx), per §3:
//   - both Commands and Contexts absent -> always active
//   - only Commands present -> active when cmd is in Commands
//   - only Contexts present -> active when ctx is in Contexts
//   - both present -> active when both match
func (c Clause) Matches(cmd, ctx string) bool {
	hasCommands := len(c.Commands) > 0
	hasContexts := len(c.Contexts) > 0

	switch {
	case !hasCommands && !hasContexts:
		return true
	case hasCommands && !hasContexts:
		return contains(c.Commands, cmd)
	case !hasCommands && hasContexts:
		return contains(c.Contexts, ctx)
	default:
		return contains(c.Commands, cmd) && contains(c.Contexts, ctx)
	}
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// DependencyClauses reads metadata["dependencies"] into an ordered sequence
// of Clause, preserving both clause order and per-clause task order. Any
// shape that doesn't match the expected structure is treated as absent
// (permissive decoding of loosely-typed manifest metadata).
func DependencyClauses(metadata map[string]any) []Clause {
	raw, ok := metadata["dependencies"]
	if !ok {
		return nil
	}
	seq, ok := raw.([]any)
	if !ok {
		return nil
	}

	clauses := make([]Clause, 0, len(seq))
	for _, item := range seq {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		clauses = append(clauses, Clause{
			Tasks:    stringSlice(m["tasks"]),
			Commands: stringSlice(m["commands"]),
			Contexts: stringSlice(m["contexts"]),
		})
	}
	return clauses
}

// ProcessingScopeClauses reads metadata["processingScope"] the same way,
// without a Tasks field.
func ProcessingScopeClauses(metadata map[string]any) ([]Clause, bool) {
	raw, ok := metadata["processingScope"]
	if !ok || raw == nil {
		return nil, false
	}
	seq, ok := raw.([]any)
	if !ok {
		return nil, false
	}

	clauses := make([]Clause, 0, len(seq))
	for _, item := range seq {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		clauses = append(clauses, Clause{
			Commands: stringSlice(m["commands"]),
			Contexts: stringSlice(m["contexts"]),
		})
	}
	return clauses, true
}

func stringSlice(v any) []string {
	seq, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(seq))
	for _, e := range seq {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ActiveDependencies returns the union of Tasks across clauses active under
// (cmd, ctx), in clause order then per-clause task order, deduplicated on
// first occurrence.
func ActiveDependencies(metadata map[string]any, cmd, ctx string) []string {
	clauses := DependencyClauses(metadata)
	seen := map[string]bool{}
	out := make([]string, 0)
	for _, c := range clauses {
		if !c.Matches(cmd, ctx) {
			continue
		}
		for _, id := range c.Tasks {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// InScope reports whether a task is in scope for (cmd, ctx), per §3:
// absent/null/non-sequence processingScope is permissive (in scope); an
// empty clause matches everything.
func InScope(metadata map[string]any, cmd, ctx string) bool {
	clauses, present := ProcessingScopeClauses(metadata)
	if !present {
		return true
	}
	for _, c := range clauses {
		if c.Matches(cmd, ctx) {
			return true
		}
	}
	return false
}

// AutoRollback reads metadata["autoRollback"], defaulting to false.
func AutoRollback(metadata map[string]any) bool {
	v, ok := metadata["autoRollback"].(bool)
	return ok && v
}
