package api

// TableState is the lifecycle state of a table, owned and persisted by
// the master. Clients never cache it; every state-dependent decision
// re-reads it or relies on the master's own rejection.
type TableState uint8

const (
	// StateNone means the table doesn't exist. It's the initial state
	// (before create) and the terminal state (after delete).
	StateNone TableState = iota

	StateEnabled
	StateDisabling
	StateDisabled
	StateEnabling
	StateDeleting
)

func (s TableState) String() string {
	switch s {
	case StateNone:
		return "None"
	case StateEnabled:
		return "Enabled"
	case StateDisabling:
		return "Disabling"
	case StateDisabled:
		return "Disabled"
	case StateEnabling:
		return "Enabling"
	case StateDeleting:
		return "Deleting"
	}
	return "Unknown"
}

// CanTransition reports whether moving from s to to is legal. Note
// that delete and disable are only legal from the states shown here;
// the master rejects anything else with ErrIllegalState.
func (s TableState) CanTransition(to TableState) bool {
	switch s {
	case StateNone:
		// Create lands directly in Enabled.
		return to == StateEnabled
	case StateEnabled:
		return to == StateDisabling
	case StateDisabling:
		return to == StateDisabled
	case StateDisabled:
		return to == StateEnabling || to == StateDeleting
	case StateEnabling:
		return to == StateEnabled
	case StateDeleting:
		return to == StateNone
	}
	return false
}
