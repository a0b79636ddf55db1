package identity

// Outcome classifies one resolution for metrics and logs.
type Outcome string

const (
	OutcomeCanonical  Outcome = "canonical"
	OutcomeResolved   Outcome = "resolved"
	OutcomeUnresolved Outcome = "unresolved"
	OutcomeCached     Outcome = "cached"
	OutcomeFailed     Outcome = "failed"
)
