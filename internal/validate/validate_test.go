package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationPassed_RejectsMissingFields(t *testing.T) {
	v := New([]string{"apply"}, []string{"prod"}, []string{"CreateAction"})
	assert.False(t, v.ValidationPassed(Parameters{Command: "apply", Context: "prod"}))
}

func TestValidationPassed_EmptyListAcceptsAnything(t *testing.T) {
	v := New(nil, nil, nil)
	assert.True(t, v.ValidationPassed(Parameters{Command: "anything", Context: "anywhere", Action: "AnyAction"}))
}

func TestValidationPassed_MembershipMatch(t *testing.T) {
	v := New([]string{"apply", "delete"}, []string{"prod", "staging"}, []string{"CreateAction"})
	assert.True(t, v.ValidationPassed(Parameters{Command: "apply", Context: "staging", Action: "CreateAction"}))
	assert.False(t, v.ValidationPassed(Parameters{Command: "destroy", Context: "staging", Action: "CreateAction"}))
}

func TestValidationPassed_CatchAllBypassesConfiguredList(t *testing.T) {
	v := New([]string{"apply"}, []string{"prod"}, []string{"CreateAction"})
	assert.True(t, v.ValidationPassed(Parameters{Command: "*", Context: "ALL", Action: "ANY"}))
}
