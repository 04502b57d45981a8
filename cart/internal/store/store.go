package store

import (
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/product/pkg/response"
)

// MinQuantity and MaxQuantity bound the quantity a line can hold.
const (
	MinQuantity = 1
	MaxQuantity = 9999
)

// ClampQuantity coerces quantity into [MinQuantity, MaxQuantity].
func ClampQuantity(quantity int) int {
	return min(max(quantity, MinQuantity), MaxQuantity)
}

// Line is one product in the cart. Product fields are copied when the line
// is created and never refreshed.
type Line struct {
	ProductID int             `json:"productId"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
}

func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Snapshot is the cart as it was after one change. Version increases with
// every change, so a subscriber can drop a snapshot older than one it has
// already seen.
type Snapshot struct {
	Version    uint64          `json:"version"`
	Lines      []Line          `json:"lines"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// Store holds the lines of one cart. It is safe for concurrent use.
type Store struct {
	mu          sync.Mutex
	lines       []Line
	version     uint64
	subscribers map[uint64]func(Snapshot)
	nextID      uint64
}

func New() *Store {
	return &Store{subscribers: map[uint64]func(Snapshot){}}
}

// AddToCart adds quantity of product, merging into the existing line for the
// same product id. The quantity is clamped with ClampQuantity and a merged
// line saturates at MaxQuantity.
func (s *Store) AddToCart(product response.Product, quantity int) {
	quantity = ClampQuantity(quantity)

	s.mu.Lock()
	if i := s.indexOf(product.ID); i >= 0 {
		s.lines[i].Quantity = min(s.lines[i].Quantity+quantity, MaxQuantity)
	} else {
		s.lines = append(s.lines, Line{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.Price,
			Image:     product.Image,
			Category:  product.Category,
			Quantity:  quantity,
		})
	}
	s.commit()
}

// RemoveFromCart drops the line of productID. Removing an absent product is a
// no-op and notifies nobody.
func (s *Store) RemoveFromCart(productID int) {
	s.mu.Lock()
	i := s.indexOf(productID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.lines = slices.Delete(s.lines, i, i+1)
	s.commit()
}

// UpdateQuantity sets the quantity of an existing line, clamped with
// ClampQuantity; the line is never removed here. It reports whether the
// product was in the cart.
func (s *Store) UpdateQuantity(productID int, quantity int) bool {
	quantity = ClampQuantity(quantity)

	s.mu.Lock()
	i := s.indexOf(productID)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	if s.lines[i].Quantity == quantity {
		s.mu.Unlock()
		return true
	}
	s.lines[i].Quantity = quantity
	s.commit()
	return true
}

// Lines returns a copy of the lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lines)
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalItems(s.lines)
}

func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPrice(s.lines)
}

// Snapshot returns the lines and their totals read under one lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Summary returns the checkout summary of the current lines.
func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summarize(s.lines)
}

// Subscribe registers fn to be called after every change. fn runs on the
// goroutine that made the change and must not block for long. The returned
// func unsubscribes; calling it more than once is safe.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Store) subscribed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers) > 0
}

func (s *Store) indexOf(productID int) int {
	return slices.IndexFunc(s.lines, func(l Line) bool { return l.ProductID == productID })
}

func (s *Store) snapshot() Snapshot {
	return Snapshot{
		Version:    s.version,
		Lines:      slices.Clone(s.lines),
		TotalItems: totalItems(s.lines),
		TotalPrice: totalPrice(s.lines),
	}
}

// commit must be called with mu held. It releases mu before notifying.
func (s *Store) commit() {
	s.version++
	snapshot := s.snapshot()
	subscribers := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
}

func totalItems(lines []Line) int {
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	return total
}

func totalPrice(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total())
	}
	return total
}
