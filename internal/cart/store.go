package cart

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/maryamhelal/yaqeen-storefront/internal/backend"
)

// Store is the authoritative client-side view of what the shopper intends to
// buy. Mutations are serialized by a mutex and each one re-persists the whole
// aggregate. Persistence failures are logged, never surfaced: losing a saved
// cart degrades to an empty cart on next start, which the shopper can
// recover from.
type Store struct {
	mu      sync.Mutex
	lines   []Line
	rev     uint64
	storage Storage
	log     *slog.Logger
}

// NewStore rehydrates the cart from storage. A missing or corrupt document
// yields an empty cart; it never fails.
func NewStore(storage Storage, log *slog.Logger) *Store {
	s := &Store{storage: storage, log: log}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	lines, err := storage.Load(ctx)
	if err != nil {
		if err != ErrNotFound {
			log.Warn("cart load failed, starting empty", "error", err)
		}
		return s
	}
	s.lines = lines
	return s
}

// Add merges the variant into the cart. Re-adding an existing
// (product, color, size) triple bumps its quantity instead of creating a
// duplicate row; quantities clamp to the variant's stock as resolved from the
// product at this call.
func (s *Store) Add(p backend.Product, quantity int, color, size string) {
	stock, image := resolveVariant(p, color, size)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].Matches(p.ID, color, size) {
			s.lines[i].Quantity = min(s.lines[i].Quantity+quantity, stock)
			s.bump()
			return
		}
	}

	s.lines = append(s.lines, Line{
		ProductID:    p.ID,
		Name:         p.Name,
		UnitPrice:    effectivePrice(p),
		Color:        color,
		Size:         size,
		Quantity:     min(quantity, stock),
		MaxQuantity:  stock,
		ImageURL:     image,
		CategoryID:   p.CategoryID,
		CollectionID: p.CollectionID,
	})
	s.bump()
}

// UpdateQuantity overwrites the matched line's quantity as-is; clamping to
// [1, MaxQuantity] is the caller's responsibility.
func (s *Store) UpdateQuantity(productID, color, size string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].Matches(productID, color, size) {
			s.lines[i].Quantity = quantity
			s.bump()
			return
		}
	}
}

// Remove deletes the matching line; absent lines are a no-op.
func (s *Store) Remove(productID, color, size string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].Matches(productID, color, size) {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.bump()
			return
		}
	}
}

// Clear empties the cart, called after a successful order placement.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.bump()
}

// Lines returns a copy of the cart rows.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum float64
	for _, l := range s.lines {
		sum += l.UnitPrice * float64(l.Quantity)
	}
	return sum
}

// Revision is a monotonic mutation counter. Anything derived from a cart
// snapshot (promocode quotes in particular) records the revision it saw and
// discards itself when the store moves past it.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rev
}

// bump must be called with the lock held.
func (s *Store) bump() {
	s.rev++
	s.persist()
}

func (s *Store) persist() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := s.storage.Save(ctx, s.lines); err != nil {
		s.log.Warn("cart save failed", "error", err)
	}
}
