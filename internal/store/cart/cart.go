package cart

import (
	"fmt"
	"sync"
	"time"

	"github.com/Allan-Sanchez/storefront-client/internal/localstore"
	"github.com/Allan-Sanchez/storefront-client/internal/models"
)

// Store holds the cart lines and their derived totals. It hydrates itself
// from the local mirror at construction and writes back after every
// mutation. All operations are total: no-op cases are not errors.
type Store struct {
	mu     sync.RWMutex
	lines  []models.CartLine
	isOpen bool
	mirror *localstore.Mirror
	now    func() time.Time
}

func NewStore(mirror *localstore.Mirror) *Store {
	s := &Store{mirror: mirror, now: time.Now}

	var saved models.Cart
	if mirror.LoadJSON(localstore.KeyCart, &saved) {
		s.lines = saved.Items
	}
	return s
}

// AddProduct appends a new line with quantity 1, or increments the quantity
// of the existing line for the same product. Exactly one line per product id.
func (s *Store) AddProduct(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID == p.ID {
			s.lines[i].Quantity++
			s.persist()
			return
		}
	}

	s.lines = append(s.lines, models.CartLine{
		ID:        fmt.Sprintf("%d-%d", p.ID, s.now().UnixMilli()),
		ProductID: p.ID,
		Quantity:  1,
		Product:   p,
	})
	s.persist()
}

func (s *Store) RemoveLine(lineID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLine(lineID)
	s.persist()
}

// SetQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line.
func (s *Store) SetQuantity(lineID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLine(lineID)
		s.persist()
		return
	}
	for i := range s.lines {
		if s.lines[i].ID == lineID {
			s.lines[i].Quantity = quantity
			break
		}
	}
	s.persist()
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.persist()
}

// ToggleOpen flips the cart drawer visibility. Not persisted.
func (s *Store) ToggleOpen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isOpen = !s.isOpen
}

func (s *Store) SetOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isOpen = open
}

func (s *Store) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isOpen
}

func (s *Store) Lines() []models.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalItems(s.lines)
}

func (s *Store) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalPrice(s.lines)
}

// Snapshot returns the persisted shape: lines plus recomputed totals.
func (s *Store) Snapshot() models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

func (s *Store) removeLine(lineID string) {
	kept := s.lines[:0]
	for _, line := range s.lines {
		if line.ID != lineID {
			kept = append(kept, line)
		}
	}
	s.lines = kept
}

func (s *Store) persist() {
	s.mirror.SaveJSON(localstore.KeyCart, s.snapshot())
}

func (s *Store) snapshot() models.Cart {
	items := make([]models.CartLine, len(s.lines))
	copy(items, s.lines)
	return models.Cart{
		Items:      items,
		TotalItems: totalItems(s.lines),
		TotalPrice: totalPrice(s.lines),
	}
}

// The totals are always recomputed from the lines, never stored.

func totalItems(lines []models.CartLine) int {
	sum := 0
	for _, line := range lines {
		sum += line.Quantity
	}
	return sum
}

func totalPrice(lines []models.CartLine) float64 {
	sum := 0.0
	for _, line := range lines {
		sum += float64(line.Quantity) * line.Product.PriceInCurrency
	}
	return sum
}
