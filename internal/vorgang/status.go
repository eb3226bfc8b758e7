package vorgang

import (
	"fmt"

	"github.com/exportdesk/exportdesk/pkg/filename"
)

// Status is the document-arrival state of an export case.
type Status string

// Status values, in lifecycle order.
const (
	// StatusAngelegt: the case exists, nothing filed yet.
	StatusAngelegt Status = "angelegt"
	// StatusAusfuhrBeantragt: the export declaration has been filed.
	StatusAusfuhrBeantragt Status = "ausfuhr_beantragt"
	// StatusABDErhalten: the export accompanying document has arrived.
	StatusABDErhalten Status = "abd_erhalten"
	// StatusAGVVorliegend: the exit confirmation is present. Terminal.
	StatusAGVVorliegend Status = "agv_vorliegend"
)

// Statuses lists all states in lifecycle order.
var Statuses = []Status{StatusAngelegt, StatusAusfuhrBeantragt, StatusABDErhalten, StatusAGVVorliegend}

// allowedTransitions is the explicit transition table. Every status
// write, including the generic PATCH path, is validated against it.
var allowedTransitions = map[Status][]Status{
	StatusAngelegt:         {StatusAusfuhrBeantragt, StatusABDErhalten, StatusAGVVorliegend},
	StatusAusfuhrBeantragt: {StatusAngelegt, StatusABDErhalten, StatusAGVVorliegend},
	StatusABDErhalten:      {StatusAGVVorliegend},
	StatusAGVVorliegend:    {},
}

// ParseStatus parses a status string, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return status, nil
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransitionTo reports whether the transition s -> next is allowed.
// A no-op transition (s == next) is always allowed.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Toggle returns the manual click-through counterpart of s: the first
// two states toggle into each other, later states are locked.
func (s Status) Toggle() (Status, bool) {
	switch s {
	case StatusAngelegt:
		return StatusAusfuhrBeantragt, true
	case StatusAusfuhrBeantragt:
		return StatusAngelegt, true
	}
	return s, false
}

// NextForUpload returns the status an upload of the given document kind
// advances the case to. The ABD moves the two early states forward and
// leaves later states untouched; the AGV always ends the lifecycle.
// The second return value reports whether the status changed.
func NextForUpload(current Status, kind filename.Kind) (Status, bool) {
	switch kind {
	case filename.KindABD:
		if current == StatusAngelegt || current == StatusAusfuhrBeantragt {
			return StatusABDErhalten, true
		}
	case filename.KindAGV:
		if current != StatusAGVVorliegend {
			return StatusAGVVorliegend, true
		}
	}
	return current, false
}
