package models

import "fmt"

// CandidateState is the lifecycle position of an AudioCandidate.
type CandidateState string

const (
	StateDiscovered     CandidateState = "discovered"
	StateArchivePending CandidateState = "archive_pending"
	StateArchived       CandidateState = "archived"
	StateArchiveFailed  CandidateState = "archive_failed"
)

// CanTransition reports whether a candidate may move from one state to
// another. Archived is terminal.
func CanTransition(from, to CandidateState) bool {
	switch from {
	case StateDiscovered:
		return to == StateArchivePending
	case StateArchivePending:
		return to == StateArchived || to == StateArchiveFailed
	case StateArchiveFailed:
		// a failed item may be confirmed again in a later batch
		return to == StateArchivePending
	default:
		return false
	}
}

// Transition moves c to the given state or returns an error if the move is
// not allowed.
func (c *AudioCandidate) Transition(to CandidateState) error {
	if !CanTransition(c.State, to) {
		return fmt.Errorf("invalid candidate transition %s -> %s for %s", c.State, to, c.Path)
	}
	c.State = to
	return nil
}
