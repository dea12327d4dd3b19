package enums

import "fmt"

// TicketStatus tracks a customization ticket through its lifecycle.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusClosed     TicketStatus = "closed"
	TicketStatusFinalized  TicketStatus = "finalized"
)

var validTicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusClosed,
	TicketStatusFinalized,
}

// ticketTransitions lists the allowed next statuses for each state.
// FINALIZED is terminal.
var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:       {TicketStatusInProgress, TicketStatusClosed},
	TicketStatusInProgress: {TicketStatusClosed, TicketStatusOpen},
	TicketStatusClosed:     {TicketStatusFinalized, TicketStatusInProgress},
	TicketStatusFinalized:  {},
}

// String implements fmt.Stringer.
func (s TicketStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TicketStatus.
func (s TicketStatus) IsValid() bool {
	for _, candidate := range validTicketStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the status may move to next.
func (s TicketStatus) CanTransitionTo(next TicketStatus) bool {
	for _, candidate := range ticketTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseTicketStatus converts raw input into a TicketStatus.
func ParseTicketStatus(value string) (TicketStatus, error) {
	for _, candidate := range validTicketStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket status %q", value)
}
