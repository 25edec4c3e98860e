package roster

// State is a step of a single page-extraction attempt.
type State string

const (
	StateFetched   State = "fetched"
	StateDetected  State = "detected"
	StateExtracted State = "extracted"
	StateValidated State = "validated"
	StateAccepted  State = "accepted"
	StateRetrying  State = "retrying"
	StateFailed    State = "failed"
)

// Outcome is the terminal result of a team's extraction.
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeFailed   Outcome = "failed"
)
