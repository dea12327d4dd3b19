package client

import (
	"context"
	"strings"
	"sync/atomic"

	pkgerrors "github.com/templhub/templhub-backend/pkg/errors"
	"github.com/templhub/templhub-backend/pkg/logger"
)

// TicketSubmitter drives the cart-to-ticket checkout transition.
// Submission is single-flight: while one attempt is pending a second
// one is rejected outright, never queued. The entry guards run before
// any network call, so an empty cart or blank inquiry costs nothing.
type TicketSubmitter struct {
	gateway    Gateway
	store      *CartStore
	logg       *logger.Logger
	submitting atomic.Bool
}

// NewTicketSubmitter wires the submitter to the session's store.
func NewTicketSubmitter(gateway Gateway, store *CartStore, logg *logger.Logger) (*TicketSubmitter, error) {
	if gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "gateway is required")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart store is required")
	}
	return &TicketSubmitter{gateway: gateway, store: store, logg: logg}, nil
}

// IsSubmitting reports whether a submission is in flight, letting the
// UI disable the submit control.
func (t *TicketSubmitter) IsSubmitting() bool {
	return t.submitting.Load()
}

// Submit turns the current cart plus the inquiry into a ticket. On
// success the local cart is emptied and a background re-sync confirms
// the server agrees; on failure the cart and the caller's inquiry text
// are untouched so the user can retry without re-entering anything.
func (t *TicketSubmitter) Submit(ctx context.Context, inquiry string) (*Ticket, error) {
	inquiry = strings.TrimSpace(inquiry)
	if inquiry == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inquiry must not be blank")
	}
	if t.store.ItemCount() == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	if !t.submitting.CompareAndSwap(false, true) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a submission is already in progress")
	}
	defer t.submitting.Store(false)

	ticket, err := t.gateway.CreateTicket(ctx, inquiry)
	if err != nil {
		return nil, err
	}

	// The server cleared the cart when it created the ticket; the
	// re-sync failing only delays the mirror catching up.
	t.store.reset()
	if err := t.store.Fetch(ctx); err != nil && t.logg != nil {
		t.logg.Warn(ctx, "cart re-sync after ticket submission failed")
	}

	if t.logg != nil {
		ctxWithTicket := t.logg.WithTicketID(ctx, ticket.ID)
		t.logg.Info(ctxWithTicket, "ticket submitted")
	}
	return ticket, nil
}
