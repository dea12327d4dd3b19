package client

import (
	"context"
	"strings"
	"sync"

	pkgerrors "github.com/templhub/templhub-backend/pkg/errors"
	"github.com/templhub/templhub-backend/pkg/logger"
)

// CartStore owns the local mirror of the server cart and is its only
// writer. Readers get derived values (total, count, membership) from
// the latest adopted snapshot; a failed operation leaves the previous
// snapshot untouched, so the mirror is stale-but-consistent rather
// than partially updated.
//
// Overlap policy: a mutation that targets an id whose previous
// operation is still in flight returns nil immediately and issues no
// network call. The caller observes the settled state through the
// snapshot once the first operation lands.
type CartStore struct {
	gateway Gateway
	tracker *operationTracker
	tokens  TokenSource
	logg    *logger.Logger

	mu   sync.Mutex
	cart *Cart
}

// NewCartStore builds a store for one authenticated session. Construct
// it once per session and inject it; it must not live in package-level
// state.
func NewCartStore(gateway Gateway, tokens TokenSource, logg *logger.Logger) (*CartStore, error) {
	if gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "gateway is required")
	}
	if tokens == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "token source is required")
	}

	return &CartStore{
		gateway: gateway,
		tracker: newOperationTracker(),
		tokens:  tokens,
		logg:    logg,
	}, nil
}

// Fetch loads the current cart and replaces the local snapshot
// wholesale. On failure the previous snapshot is kept.
func (s *CartStore) Fetch(ctx context.Context) error {
	if err := s.requireAuth(); err != nil {
		return err
	}

	cart, err := s.gateway.FetchCart(ctx)
	if err != nil {
		return err
	}
	s.adopt(cart)
	return nil
}

// AddItem adds one template to the cart. An overlapping call for the
// same id is dropped without a network request.
func (s *CartStore) AddItem(ctx context.Context, templateID string) error {
	templateID = strings.TrimSpace(templateID)
	if templateID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "template id is required")
	}
	if err := s.requireAuth(); err != nil {
		return err
	}

	ran, err := s.tracker.withItem(templateID, func() error {
		cart, err := s.gateway.AddToCart(ctx, []string{templateID})
		if err != nil {
			return err
		}
		s.adopt(cart)
		return nil
	})
	if !ran && s.logg != nil {
		s.logg.Debug(ctx, "cart operation already in flight, dropping")
	}
	return err
}

// RemoveItem removes one template from the cart. Removing an id that
// is not in the cart succeeds trivially, mirroring idempotent delete.
func (s *CartStore) RemoveItem(ctx context.Context, templateID string) error {
	templateID = strings.TrimSpace(templateID)
	if templateID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "template id is required")
	}
	if err := s.requireAuth(); err != nil {
		return err
	}

	ran, err := s.tracker.withItem(templateID, func() error {
		cart, err := s.gateway.RemoveFromCart(ctx, templateID)
		if err != nil {
			return err
		}
		s.adopt(cart)
		return nil
	})
	if !ran && s.logg != nil {
		s.logg.Debug(ctx, "cart operation already in flight, dropping")
	}
	return err
}

// Clear empties the cart on the server and adopts the empty snapshot.
func (s *CartStore) Clear(ctx context.Context) error {
	if err := s.requireAuth(); err != nil {
		return err
	}

	cart, err := s.gateway.ClearCart(ctx)
	if err != nil {
		return err
	}
	s.adopt(cart)
	return nil
}

// Total sums the item prices of the current snapshot. An empty or
// never-fetched cart totals zero.
func (s *CartStore) Total() int64 {
	cart := s.Snapshot()
	if cart == nil {
		return 0
	}
	var total int64
	for _, item := range cart.Items {
		total += item.PriceCents
	}
	return total
}

// ItemCount returns the number of items in the current snapshot.
func (s *CartStore) ItemCount() int {
	cart := s.Snapshot()
	if cart == nil {
		return 0
	}
	return len(cart.Items)
}

// Contains reports whether the template id is in the current snapshot.
func (s *CartStore) Contains(templateID string) bool {
	cart := s.Snapshot()
	if cart == nil {
		return false
	}
	for _, item := range cart.Items {
		if item.TemplateID == templateID {
			return true
		}
	}
	return false
}

// IsItemBusy reports whether an operation for the id is in flight,
// letting the UI disable the matching control.
func (s *CartStore) IsItemBusy(templateID string) bool {
	return s.tracker.isBusy(templateID)
}

// Snapshot returns a copy of the current cart, or nil before the first
// successful fetch.
func (s *CartStore) Snapshot() *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return nil
	}
	copied := *s.cart
	copied.Items = append([]CartItem(nil), s.cart.Items...)
	return &copied
}

// adopt replaces the snapshot wholesale.
func (s *CartStore) adopt(cart *Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = cart
}

// reset drops the local snapshot to an empty cart without a server
// round trip. Used after ticket submission transfers the items away.
func (s *CartStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = &Cart{Items: []CartItem{}, Total: "0.00"}
}

func (s *CartStore) requireAuth() error {
	if strings.TrimSpace(s.tokens()) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return nil
}
