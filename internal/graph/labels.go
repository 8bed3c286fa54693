package graph

import "taskctl/internal/task"

// SelectByLabel returns, in the set's insertion order, the ids of tasks
// whose metadata["labels"] (a map[string]any, as decoded from YAML, with
// string values) contains key=value. A labels value of any other map type
// matches nothing.
//
// This supplements the ordering engine with the original implementation's
// label-based targeting (operarius.py's Identifier/Identifiers), used by
// reporting commands to target a subset of tasks without listing every id.
// It does not affect TaskNamesInOrder's contract.
func SelectByLabel(set *task.Set, key, value string) []string {
	out := make([]string, 0)
	for _, id := range set.Names() {
		t, ok := set.Get(id)
		if !ok {
			continue
		}
		labels, ok := t.Metadata()["labels"].(map[string]any)
		if !ok {
			continue
		}
		if v, ok := labels[key].(string); ok && v == value {
			out = append(out, id)
		}
	}
	return out
}
