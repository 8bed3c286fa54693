package variables

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderPattern is the canonical placeholder regex from §4.2/§9, kept
// as a compiled singleton.
var placeholderPattern = regexp.MustCompile(`\$\{VAR:[A-Za-z0-9_\-\s:.;]+\}`)

// ResolvedSpecKey is the VariableStore key a resolved spec is stored under
// for a given task id (§3/§9: always suffixed, never bare "ResolvedSpec").
func ResolvedSpecKey(taskID string) string {
	return "ResolvedSpec:" + taskID
}

// Resolve performs the structural walk described in §4.2: strings are
// interpolated, mapping values are recursively resolved (keys untouched),
// sequence elements are recursively resolved, and other scalars pass
// through unchanged. It does not mutate spec (resolution is pure) and does
// not mutate the store.
func Resolve(spec map[string]any, store *Store, cmd, ctx string) map[string]any {
	out := resolveValue(spec, store, cmd, ctx)
	resolved, _ := out.(map[string]any)
	if resolved == nil {
		resolved = map[string]any{}
	}
	return resolved
}

func resolveValue(v any, store *Store, cmd, ctx string) any {
	switch x := v.(type) {
	case string:
		return resolveString(x, store, cmd, ctx)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = resolveValue(val, store, cmd, ctx)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = resolveValue(e, store, cmd, ctx)
		}
		return out
	default:
		return x
	}
}

func resolveString(s string, store *Store, cmd, ctx string) string {
	matches := placeholderPattern.FindAllString(s, -1)
	if len(matches) == 0 {
		return s
	}

	// Deduplicate placeholders so each distinct placeholder is only resolved
	// once, then replace all of its occurrences in one pass.
	seen := map[string]bool{}
	out := s
	for _, ph := range matches {
		if seen[ph] {
			continue
		}
		seen[ph] = true
		out = strings.ReplaceAll(out, ph, resolvePlaceholder(ph, store, cmd, ctx))
	}
	return out
}

// resolvePlaceholder resolves a single "${VAR:T:K}" placeholder (K may
// itself contain colons) against the lookup order in §4.2. Unresolved
// placeholders resolve to the empty string.
func resolvePlaceholder(placeholder string, store *Store, cmd, ctx string) string {
	inner := strings.TrimSuffix(strings.TrimPrefix(placeholder, "${VAR:"), "}")
	parts := strings.SplitN(inner, ":", 2)
	if len(parts) != 2 {
		return ""
	}
	targetTask, key := parts[0], parts[1]

	candidates := []string{
		fmt.Sprintf("%s:%s:%s:%s", targetTask, cmd, ctx, key),
		fmt.Sprintf("%s:%s::%s", targetTask, cmd, key),
		fmt.Sprintf("%s::%s:%s", targetTask, ctx, key),
		fmt.Sprintf("%s:%s", targetTask, key),
	}

	for _, candidate := range candidates {
		if name, ok := store.firstNameContaining(candidate); ok {
			v, _ := store.Get(name)
			return stringify(v)
		}
	}
	return ""
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}
