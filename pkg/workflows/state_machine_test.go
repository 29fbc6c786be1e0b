package workflows

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectTransitions(t *testing.T) {
	sm := NewProjectStateMachine()

	assert.True(t, sm.CanTransition("pending", "under_review"))
	assert.True(t, sm.CanTransition("pending", "verified"))
	assert.True(t, sm.CanTransition("pending", "rejected"))
	assert.True(t, sm.CanTransition("under_review", "verified"))
	assert.True(t, sm.CanTransition("under_review", "rejected"))

	// Decisions are terminal
	assert.False(t, sm.CanTransition("verified", "rejected"))
	assert.False(t, sm.CanTransition("verified", "pending"))
	assert.False(t, sm.CanTransition("rejected", "verified"))
	assert.False(t, sm.CanTransition("under_review", "pending"))

	assert.False(t, sm.CanTransition("unknown", "verified"))
}

func TestRequestTransitions(t *testing.T) {
	sm := NewRequestStateMachine()

	assert.True(t, sm.CanTransition("pending", "approved"))
	assert.True(t, sm.CanTransition("pending", "rejected"))
	assert.False(t, sm.CanTransition("approved", "rejected"))
	assert.False(t, sm.CanTransition("rejected", "approved"))
	assert.Empty(t, sm.GetAllowedTransitions("approved"))
}
