package interact

// Outcome is the closed set of results a block interaction settles with.
// Every documented failure path maps onto one of these values; callers never
// see an error for them.
type Outcome uint8

const (
	// OutcomeFinished means the server acknowledged the completed action.
	OutcomeFinished Outcome = iota
	// OutcomeCancelled means the interaction was cancelled, by its context
	// or by an acknowledgment timeout, after notifying the server.
	OutcomeCancelled
	// OutcomeFailed means the server rejected the action.
	OutcomeFailed
	// OutcomeNotDiggable means the target block can never be broken.
	OutcomeNotDiggable
	// OutcomeTooFar means the target is out of the actor's reach.
	OutcomeTooFar
	// OutcomeBlockNotLoaded means the target is not resident in a loaded
	// chunk.
	OutcomeBlockNotLoaded
)

// String ...
func (o Outcome) String() string {
	switch o {
	case OutcomeFinished:
		return "finished"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	case OutcomeNotDiggable:
		return "not diggable"
	case OutcomeTooFar:
		return "too far"
	case OutcomeBlockNotLoaded:
		return "block not loaded"
	}
	return "unknown"
}
