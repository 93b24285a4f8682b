package complaint

import "strings"

// Status represents a complaint's position in its lifecycle
type Status string

const (
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusRejected   Status = "rejected"
)

// ParseStatus normalizes a status token. Unrecognized tokens are refused;
// the lifecycle is a closed enum, not free-form caller strings.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, true
	case StatusAssigned:
		return StatusAssigned, true
	case StatusInProgress:
		return StatusInProgress, true
	case StatusDone:
		return StatusDone, true
	case StatusRejected:
		return StatusRejected, true
	}
	return "", false
}

// Terminal reports whether no further transition is defined from this status
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusRejected
}

// transitions is the explicit table of permitted status changes.
// Re-assignment of an already assigned or in-progress complaint is
// permitted; done and rejected are terminal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusAssigned, StatusRejected},
	StatusAssigned:   {StatusAssigned, StatusInProgress, StatusDone, StatusRejected},
	StatusInProgress: {StatusAssigned, StatusInProgress, StatusDone, StatusRejected},
}

// CanTransitionTo reports whether the table permits moving to next
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}
