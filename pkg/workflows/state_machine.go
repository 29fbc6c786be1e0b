package workflows

// StateMachine enforces review status transitions
type StateMachine struct {
	allowedTransitions map[string][]string
}

// NewProjectStateMachine returns the state machine for project review.
// Review decisions are terminal: nothing leaves verified or rejected.
func NewProjectStateMachine() *StateMachine {
	return &StateMachine{
		allowedTransitions: map[string][]string{
			"pending":      {"under_review", "verified", "rejected"},
			"under_review": {"verified", "rejected"},
			"verified":     {},
			"rejected":     {},
		},
	}
}

// NewRequestStateMachine returns the state machine for certificate requests.
func NewRequestStateMachine() *StateMachine {
	return &StateMachine{
		allowedTransitions: map[string][]string{
			"pending":  {"approved", "rejected"},
			"approved": {},
			"rejected": {},
		},
	}
}

// CanTransition checks if a status transition is allowed
func (sm *StateMachine) CanTransition(from, to string) bool {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return false
	}
	for _, allowedTo := range allowed {
		if allowedTo == to {
			return true
		}
	}
	return false
}

// GetAllowedTransitions returns the allowed next statuses for a given status
func (sm *StateMachine) GetAllowedTransitions(from string) []string {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return []string{}
	}
	return allowed
}
