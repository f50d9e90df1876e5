package wishlist

import (
	"context"
	"errors"
	"sync"

	"heven-store/internal/cache"
	"heven-store/internal/domain"
	wishlistrepo "heven-store/internal/repository/wishlist"
)

// Service is the wishlist aggregate. A product is either in or out; there
// are no quantities. The service keeps the most recently loaded membership
// set per user so Contains answers without a query, and keeps that set in
// step with acknowledged mutations.
type Service struct {
	repo     repo
	products productRepo
	tracker  *cache.Tracker

	mu     sync.Mutex
	loaded map[string]map[string]struct{}
}

type repo interface {
	ListByUser(ctx context.Context, userID string) ([]wishlistrepo.Entry, error)
	Add(ctx context.Context, userID, productID string) (bool, error)
	Remove(ctx context.Context, userID, productID string) (bool, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(r wishlistrepo.Repository, products productRepo, tracker *cache.Tracker) *Service {
	return &Service{
		repo:     r,
		products: products,
		tracker:  tracker,
		loaded:   make(map[string]map[string]struct{}),
	}
}

// Add inserts the product into the wishlist; adding a product that is
// already present is a no-op, never a duplicate row.
func (s *Service) Add(ctx context.Context, userID, productID string) error {
	if userID == "" {
		return domain.ErrUnauthenticated
	}
	if productID == "" {
		return errors.New("productId required")
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return err
	}
	added, err := s.repo.Add(ctx, userID, productID)
	if err != nil {
		return err
	}
	s.patchLoaded(userID, productID, true)
	if added {
		s.tracker.Invalidate(userID, cache.Wishlist)
	}
	return nil
}

// Remove is idempotent; removing an absent product is a no-op.
func (s *Service) Remove(ctx context.Context, userID, productID string) error {
	if userID == "" {
		return domain.ErrUnauthenticated
	}
	removed, err := s.repo.Remove(ctx, userID, productID)
	if err != nil {
		return err
	}
	s.patchLoaded(userID, productID, false)
	if removed {
		s.tracker.Invalidate(userID, cache.Wishlist)
	}
	return nil
}

// List fetches the user's wishlist and refreshes the membership set.
func (s *Service) List(ctx context.Context, userID string) ([]wishlistrepo.Entry, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	members := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		members[e.Item.ProductID] = struct{}{}
	}
	s.mu.Lock()
	s.loaded[userID] = members
	s.mu.Unlock()
	s.tracker.MarkFresh(userID, cache.Wishlist)
	return entries, nil
}

// Contains answers membership from the most recently loaded set. It never
// queries, so per-card indicators on a listing page cost nothing; an
// unloaded wishlist reads as empty until List runs.
func (s *Service) Contains(userID, productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.loaded[userID]
	if !ok {
		return false
	}
	_, in := members[productID]
	return in
}

// Forget drops the user's membership set, used on sign-out.
func (s *Service) Forget(userID string) {
	s.mu.Lock()
	delete(s.loaded, userID)
	s.mu.Unlock()
	s.tracker.DropUser(userID)
}

// patchLoaded keeps an already-loaded set in step with an acknowledged
// mutation so Contains reflects it without a re-fetch. An unloaded set stays
// unloaded.
func (s *Service) patchLoaded(userID, productID string, present bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.loaded[userID]
	if !ok {
		return
	}
	if present {
		members[productID] = struct{}{}
	} else {
		delete(members, productID)
	}
}
