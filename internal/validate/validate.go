// Package validate implements the ParameterValidator (§4.7): command,
// context, and action gating shared by the workflow executor's hooks.
package validate

import "github.com/go-playground/validator/v10"

// Parameters is the per-task-stage parameter bag threaded through the hook
// pipeline (§4.5 step 3: "parameters = {Action, Command, Context}").
// ResolvedSpec is recommended but not required (§4.7).
type Parameters struct {
	Command string `validate:"required"`
	Context string `validate:"required"`
	Action  string `validate:"required"`

	ResolvedSpec        map[string]any
	ExceptionStacktrace string
}

// ParameterValidator holds the recognized commands/contexts/actions. An
// empty list for any of the three accepts anything for that field; the
// catch-all strings "*", "ALL", "ANY" always pass regardless of the
// configured list.
type ParameterValidator struct {
	SupportedCommands []string
	SupportedContexts []string
	SupportedActions  []string

	v *validator.Validate
}

// New creates a ParameterValidator. A nil/empty list for any argument means
// "accept anything" for that dimension.
func New(supportedCommands, supportedContexts, supportedActions []string) *ParameterValidator {
	return &ParameterValidator{
		SupportedCommands: supportedCommands,
		SupportedContexts: supportedContexts,
		SupportedActions:  supportedActions,
		v:                 validator.New(),
	}
}

// ValidationPassed succeeds iff Command, Context, and Action are all
// present and non-empty (enforced via go-playground/validator struct tags)
// and each either membership-matches its configured list, is a catch-all
// ("*"/"ALL"/"ANY"), or its configured list is empty.
func (pv *ParameterValidator) ValidationPassed(p Parameters) bool {
	if err := pv.v.Struct(p); err != nil {
		return false
	}
	return matches(p.Command, pv.SupportedCommands) &&
		matches(p.Context, pv.SupportedContexts) &&
		matches(p.Action, pv.SupportedActions)
}

func matches(value string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	if value == "*" || value == "ALL" || value == "ANY" {
		return true
	}
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}
