package client

import (
	"context"
	"sync"
	"testing"

	pkgerrors "github.com/templhub/templhub-backend/pkg/errors"
)

func newSubmitterStack(t *testing.T, gateway *stubGateway) (*TicketSubmitter, *CartStore) {
	t.Helper()
	store := newTestStore(t, gateway, "session-token")
	submitter, err := NewTicketSubmitter(gateway, store, nil)
	if err != nil {
		t.Fatalf("new submitter: %v", err)
	}
	return submitter, store
}

func TestSubmitRejectsEmptyCartWithoutGatewayCall(t *testing.T) {
	gateway := &stubGateway{}
	submitter, _ := newSubmitterStack(t, gateway)

	_, err := submitter.Submit(context.Background(), "please customize")
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if gateway.ticketCalls != 0 {
		t.Fatalf("empty cart must not reach the gateway, got %d calls", gateway.ticketCalls)
	}
}

func TestSubmitRejectsBlankInquiryWithoutGatewayCall(t *testing.T) {
	gateway := &stubGateway{cart: cartWith(item("t1", 4900))}
	submitter, store := newSubmitterStack(t, gateway)
	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	_, err := submitter.Submit(context.Background(), "   ")
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if gateway.ticketCalls != 0 {
		t.Fatalf("blank inquiry must not reach the gateway, got %d calls", gateway.ticketCalls)
	}
}

func TestSubmitSuccessEmptiesCart(t *testing.T) {
	gateway := &stubGateway{
		cart:   cartWith(item("t1", 4900)),
		ticket: &Ticket{ID: "tk1", TicketNumber: "TH-20260812-AB12CD34", Status: TicketStatusOpen},
	}
	submitter, store := newSubmitterStack(t, gateway)
	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	gateway.cart = cartWith()
	ticket, err := submitter.Submit(context.Background(), "please customize")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if ticket.Status != TicketStatusOpen {
		t.Fatalf("expected open ticket, got %q", ticket.Status)
	}
	if store.ItemCount() != 0 {
		t.Fatalf("cart must be empty after submission, got %d items", store.ItemCount())
	}
	if submitter.IsSubmitting() {
		t.Fatalf("submitting flag must be released")
	}
}

func TestSubmitFailurePreservesCart(t *testing.T) {
	gateway := &stubGateway{cart: cartWith(item("t1", 4900))}
	submitter, store := newSubmitterStack(t, gateway)
	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	gateway.err = pkgerrors.New(pkgerrors.CodeNetwork, "connection reset")
	_, err := submitter.Submit(context.Background(), "please customize")
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNetwork {
		t.Fatalf("expected NETWORK_ERROR, got %v", err)
	}
	if !store.Contains("t1") || store.Total() != 4900 {
		t.Fatalf("failed submission must leave the cart untouched")
	}
	if submitter.IsSubmitting() {
		t.Fatalf("submitting flag must be released after failure")
	}
}

func TestSubmitIsSingleFlight(t *testing.T) {
	gateway := &stubGateway{cart: cartWith(item("t1", 4900))}
	submitter, store := newSubmitterStack(t, gateway)
	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	submitter.submitting.Store(true)
	_, err := submitter.Submit(context.Background(), "please customize")
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected second attempt rejected, got %v", err)
	}
	if gateway.ticketCalls != 0 {
		t.Fatalf("rejected attempt must not reach the gateway")
	}
	submitter.submitting.Store(false)
}

func TestSubmitConcurrentAttemptsReachGatewayOnce(t *testing.T) {
	gateway := &stubGateway{
		cart:   cartWith(item("t1", 4900)),
		ticket: &Ticket{ID: "tk1", Status: TicketStatusOpen},
	}
	submitter, store := newSubmitterStack(t, gateway)
	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := submitter.Submit(context.Background(), "please customize")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		}
	}
	if succeeded < 1 {
		t.Fatalf("at least one attempt must win")
	}
	if gateway.ticketCalls > succeeded {
		t.Fatalf("gateway calls (%d) exceeded winning attempts (%d)", gateway.ticketCalls, succeeded)
	}
}
