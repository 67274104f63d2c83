package guard

// Action is the kind of decision the engine reaches.
type Action int

const (
	Allow Action = iota // Execution is permitted
	Ask                 // User should be prompted for confirmation
	Block               // Execution is forbidden
)

// String returns the lowercase protocol name of the action.
func (a Action) String() string {
	switch a {
	case Ask:
		return "ask"
	case Block:
		return "block"
	default:
		return "allow"
	}
}

// Decision is the engine's verdict on one command or edit. The zero
// value is Allow with no reason.
type Decision struct {
	Action Action
	Reason string // Human-readable reason; set for Ask and Block.

	// Operation is the operation class that triggered a path-tier
	// block (e.g. "edit", "delete"), empty otherwise.
	Operation string
	// Pattern is the rule pattern that matched, empty for generic
	// rules.
	Pattern string
}

func allowed() Decision { return Decision{Action: Allow} }

func asked(reason string) Decision { return Decision{Action: Ask, Reason: reason} }

func blocked(reason, operation, pattern string) Decision {
	return Decision{Action: Block, Reason: reason, Operation: operation, Pattern: pattern}
}
