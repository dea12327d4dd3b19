package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateTicket OutboxAggregateType = "ticket"
	AggregateCart   OutboxAggregateType = "cart"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateTicket,
	AggregateCart,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventTicketCreated       OutboxEventType = "ticket_created"
	EventTicketStatusChanged OutboxEventType = "ticket_status_changed"
	EventCartCleared         OutboxEventType = "cart_cleared"
)

var validOutboxEventTypes = []OutboxEventType{
	EventTicketCreated,
	EventTicketStatusChanged,
	EventCartCleared,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
