// Package dispatch implements the action dispatcher: the per-task
// try/auto-rollback state machine and event journal described in §4.4.
package dispatch

import "fmt"

// Action is the closed set of verbs the dispatcher can invoke on a
// Processor (§9: "a closed sum type rather than reflective method
// dispatch").
type Action string

const (
	CreateAction      Action = "CreateAction"
	UpdateAction      Action = "UpdateAction"
	DeleteAction      Action = "DeleteAction"
	RollbackAction    Action = "RollbackAction"
	DescribeAction    Action = "DescribeAction"
	DetectDriftAction Action = "DetectDriftAction"
)

// allActions is the default SupportedActions list for ParameterValidator
// (§4.7).
var allActions = []Action{CreateAction, UpdateAction, DeleteAction, RollbackAction, DescribeAction, DetectDriftAction}

// AllActionNames returns the six action names as strings, in declaration
// order.
func AllActionNames() []string {
	out := make([]string, len(allActions))
	for i, a := range allActions {
		out[i] = string(a)
	}
	return out
}

// ParseAction validates that name is one of the six known actions.
func ParseAction(name string) (Action, error) {
	for _, a := range allActions {
		if string(a) == name {
			return a, nil
		}
	}
	return "", &UnknownActionError{Name: name}
}

// eventPrefix is the upper-snake-case label prefix used for journal events,
// e.g. CreateAction -> "CREATE_ACTION" (§4.4: "<ACTION>_START" etc).
func (a Action) eventPrefix() string {
	switch a {
	case CreateAction:
		return "CREATE_ACTION"
	case UpdateAction:
		return "UPDATE_ACTION"
	case DeleteAction:
		return "DELETE_ACTION"
	case RollbackAction:
		return "ROLLBACK_ACTION"
	case DescribeAction:
		return "DESCRIBE_ACTION"
	case DetectDriftAction:
		return "DETECT_DRIFT_ACTION"
	default:
		return fmt.Sprintf("UNKNOWN_ACTION(%s)", string(a))
	}
}

// triggersAutoRollback reports whether a failure of this action is even
// eligible for auto-rollback. Describe and DetectDrift never trigger it
// regardless of the task's autoRollback flag (§4.4).
func (a Action) triggersAutoRollback() bool {
	return a != DescribeAction && a != DetectDriftAction
}
