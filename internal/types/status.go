package types

// Status tracks the lifecycle of a stored record. Archived records are kept for
// history and skipped by billing runs.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)
