// Package session drives one estimation through editing, review and
// submission, keeping the live price breakdown in step with the selection.
package session

import (
	"errors"
	"strings"
)

// State is the position of a session in the confirmation flow.
type State string

const (
	Editing   State = "editing"
	Reviewing State = "reviewing"
	Submitted State = "submitted"
)

var (
	ErrNotEditing      = errors.New("session is not in editing state")
	ErrNotReviewing    = errors.New("session is not in reviewing state")
	ErrUnknownBundle   = errors.New("unknown bundle")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidTerm     = errors.New("invalid billing term")
)

// ValidationError is a user-correctable reason a transition was refused.
// The session is left unchanged.
type ValidationError struct {
	MissingGeographic bool
	MissingActivity   bool
}

func (e *ValidationError) Error() string {
	var missing []string
	if e.MissingGeographic {
		missing = append(missing, "at least one geographic unit")
	}
	if e.MissingActivity {
		missing = append(missing, "at least one activity")
	}
	return "select " + strings.Join(missing, " and ") + " before reviewing"
}
