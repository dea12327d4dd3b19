package client

import (
	"context"
	"sync"
	"testing"

	pkgerrors "github.com/templhub/templhub-backend/pkg/errors"
)

type stubGateway struct {
	mu          sync.Mutex
	fetchCalls  int
	addCalls    int
	removeCalls int
	clearCalls  int
	ticketCalls int

	cart   *Cart
	ticket *Ticket
	err    error

	// blockAdd, when set, parks AddToCart until the channel closes so
	// tests can hold an operation in flight. addStarted reports that
	// the call reached the gateway.
	blockAdd   chan struct{}
	addStarted chan struct{}
}

func (g *stubGateway) FetchCart(ctx context.Context) (*Cart, error) {
	g.mu.Lock()
	g.fetchCalls++
	g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	return g.cart, nil
}

func (g *stubGateway) AddToCart(ctx context.Context, templateIDs []string) (*Cart, error) {
	g.mu.Lock()
	g.addCalls++
	block := g.blockAdd
	started := g.addStarted
	g.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if block != nil {
		<-block
	}
	if g.err != nil {
		return nil, g.err
	}
	return g.cart, nil
}

func (g *stubGateway) RemoveFromCart(ctx context.Context, templateID string) (*Cart, error) {
	g.mu.Lock()
	g.removeCalls++
	g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	return g.cart, nil
}

func (g *stubGateway) ClearCart(ctx context.Context) (*Cart, error) {
	g.mu.Lock()
	g.clearCalls++
	g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	return g.cart, nil
}

func (g *stubGateway) CreateTicket(ctx context.Context, inquiry string) (*Ticket, error) {
	g.mu.Lock()
	g.ticketCalls++
	g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	return g.ticket, nil
}

func cartWith(items ...CartItem) *Cart {
	cart := &Cart{ID: "c1", Items: items}
	for _, item := range items {
		cart.TotalCents += item.PriceCents
	}
	cart.ItemCount = len(items)
	return cart
}

func item(id string, priceCents int64) CartItem {
	return CartItem{TemplateID: id, Title: "Template " + id, PriceCents: priceCents, Category: "Business"}
}

func newTestStore(t *testing.T, gateway Gateway, token string) *CartStore {
	t.Helper()
	store, err := NewCartStore(gateway, staticToken(token), nil)
	if err != nil {
		t.Fatalf("new cart store: %v", err)
	}
	return store
}

func TestFetchReplacesSnapshotWholesale(t *testing.T) {
	gateway := &stubGateway{cart: cartWith(item("t1", 4900), item("t2", 2500))}
	store := newTestStore(t, gateway, "session-token")

	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if store.ItemCount() != 2 {
		t.Fatalf("expected 2 items, got %d", store.ItemCount())
	}
	if store.Total() != 7400 {
		t.Fatalf("expected total 7400, got %d", store.Total())
	}

	gateway.cart = cartWith(item("t3", 1000))
	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if store.Contains("t1") || !store.Contains("t3") {
		t.Fatalf("expected wholesale replacement, got %+v", store.Snapshot())
	}
}

func TestFetchFailureKeepsPreviousSnapshot(t *testing.T) {
	gateway := &stubGateway{cart: cartWith(item("t1", 4900))}
	store := newTestStore(t, gateway, "session-token")

	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	gateway.err = pkgerrors.New(pkgerrors.CodeNetwork, "connection reset")
	err := store.Fetch(context.Background())
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNetwork {
		t.Fatalf("expected NETWORK_ERROR, got %v", err)
	}
	if !store.Contains("t1") || store.Total() != 4900 {
		t.Fatalf("previous snapshot must survive the failure")
	}
}

func TestAddItemFailsFastWithoutNetwork(t *testing.T) {
	gateway := &stubGateway{cart: cartWith()}

	store := newTestStore(t, gateway, "session-token")
	if err := store.AddItem(context.Background(), "  "); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for empty id, got %v", err)
	}

	unauthenticated := newTestStore(t, gateway, "")
	if err := unauthenticated.AddItem(context.Background(), "t1"); pkgerrors.CodeOf(err) != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected AUTH_REQUIRED, got %v", err)
	}

	if gateway.addCalls != 0 {
		t.Fatalf("expected no network calls, got %d", gateway.addCalls)
	}
}

func TestAddItemAdoptsReturnedSnapshot(t *testing.T) {
	gateway := &stubGateway{cart: cartWith(item("t1", 4900))}
	store := newTestStore(t, gateway, "session-token")

	if err := store.AddItem(context.Background(), "t1"); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if store.ItemCount() != 1 || store.Total() != 4900 {
		t.Fatalf("unexpected snapshot %+v", store.Snapshot())
	}
	if store.IsItemBusy("t1") {
		t.Fatalf("busy flag must be released after success")
	}
}

func TestAddItemFailureLeavesCartAndReleasesBusy(t *testing.T) {
	gateway := &stubGateway{cart: cartWith(item("t1", 4900))}
	store := newTestStore(t, gateway, "session-token")
	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	gateway.err = pkgerrors.New(pkgerrors.CodeInternal, "boom")
	err := store.AddItem(context.Background(), "t2")
	if pkgerrors.CodeOf(err) != pkgerrors.CodeInternal {
		t.Fatalf("expected SERVER_ERROR, got %v", err)
	}
	if !store.Contains("t1") || store.Contains("t2") {
		t.Fatalf("failed mutation must leave the snapshot unchanged")
	}
	if store.IsItemBusy("t2") {
		t.Fatalf("busy flag must be released after failure")
	}
}

func TestOverlappingAddForSameIDIssuesOneCall(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{}, 1)
	gateway := &stubGateway{cart: cartWith(item("t1", 4900)), blockAdd: block, addStarted: started}
	store := newTestStore(t, gateway, "session-token")

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- store.AddItem(context.Background(), "t1")
	}()

	<-started
	if !store.IsItemBusy("t1") {
		t.Fatalf("id must be busy while the request is in flight")
	}

	if err := store.AddItem(context.Background(), "t1"); err != nil {
		t.Fatalf("overlapping call must be a silent no-op, got %v", err)
	}

	close(block)
	if err := <-firstDone; err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if gateway.addCalls != 1 {
		t.Fatalf("expected exactly one network call, got %d", gateway.addCalls)
	}
	if store.IsItemBusy("t1") {
		t.Fatalf("busy flag must be released once the operation settles")
	}
}

func TestRemoveAbsentItemIsANoOp(t *testing.T) {
	gateway := &stubGateway{cart: cartWith(item("t2", 2500))}
	store := newTestStore(t, gateway, "session-token")
	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if err := store.RemoveItem(context.Background(), "t-missing"); err != nil {
		t.Fatalf("removing an absent id must succeed, got %v", err)
	}
	if !store.Contains("t2") {
		t.Fatalf("cart must be unchanged")
	}
}

func TestDerivedGettersOnEmptyStore(t *testing.T) {
	gateway := &stubGateway{}
	store := newTestStore(t, gateway, "session-token")

	if store.Total() != 0 {
		t.Fatalf("empty store must total 0, got %d", store.Total())
	}
	if store.ItemCount() != 0 {
		t.Fatalf("empty store must count 0, got %d", store.ItemCount())
	}
	if store.Contains("t1") {
		t.Fatalf("empty store contains nothing")
	}
	if store.Snapshot() != nil {
		t.Fatalf("snapshot before first fetch must be nil")
	}
}

func TestClearAdoptsEmptySnapshot(t *testing.T) {
	gateway := &stubGateway{cart: cartWith(item("t1", 4900))}
	store := newTestStore(t, gateway, "session-token")
	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	gateway.cart = cartWith()
	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if store.ItemCount() != 0 {
		t.Fatalf("expected empty cart, got %d items", store.ItemCount())
	}
	if gateway.clearCalls != 1 {
		t.Fatalf("expected one clear call, got %d", gateway.clearCalls)
	}
}
