package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActorRef identifies the user whose action produced the event.
type ActorRef struct {
	UserID uuid.UUID `json:"userId"`
	Role   string    `json:"role,omitempty"`
}

// PayloadEnvelope is the stable payload structure stored in outbox_events.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Actor      *ActorRef       `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data"`
}

// TicketCreatedPayload is the data block for ticket_created events.
type TicketCreatedPayload struct {
	TicketID     uuid.UUID `json:"ticketId"`
	TicketNumber string    `json:"ticketNumber"`
	UserID       uuid.UUID `json:"userId"`
	ItemCount    int       `json:"itemCount"`
	TotalCents   int64     `json:"totalCents"`
}

// TicketStatusChangedPayload is the data block for ticket_status_changed events.
type TicketStatusChangedPayload struct {
	TicketID     uuid.UUID `json:"ticketId"`
	TicketNumber string    `json:"ticketNumber"`
	FromStatus   string    `json:"fromStatus"`
	ToStatus     string    `json:"toStatus"`
}

// CartClearedPayload is the data block for cart_cleared events.
type CartClearedPayload struct {
	CartID uuid.UUID `json:"cartId"`
	UserID uuid.UUID `json:"userId"`
	Reason string    `json:"reason"`
}
