// Package cart holds the customer's cart as a reactive list of line
// items with write-through persistence, so the cart survives process
// restarts the way a browser cart survives page reloads.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/dummassdenzel/Mubu/internal/domain"
	"github.com/dummassdenzel/Mubu/internal/kvstore"
	"github.com/dummassdenzel/Mubu/internal/reactive"
)

// StorageKey is the kvstore key the serialized cart lives under.
const StorageKey = "mubu_cart"

type Store struct {
	kv    kvstore.Store
	items *reactive.Container[[]domain.CartItem]
}

// New loads any persisted cart from kv. A missing or malformed blob
// yields an empty cart; construction never fails.
func New(kv kvstore.Store) *Store {
	var items []domain.CartItem
	raw, err := kv.Get(context.Background(), StorageKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			log.Printf("cart load error: %v", err)
		}
	} else if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Printf("discarding unreadable cart: %v", err)
		items = nil
	}
	return &Store{kv: kv, items: reactive.New(items)}
}

// Subscribe delivers the current items immediately, then again on
// every mutation. The returned function removes the subscription.
func (s *Store) Subscribe(fn func([]domain.CartItem)) func() {
	return s.items.Subscribe(fn)
}

// Items returns a snapshot of the current cart.
func (s *Store) Items() []domain.CartItem {
	return s.items.Get()
}

// AddToCart appends item with quantity 1, or bumps the quantity of the
// existing entry with the same ID. On a match the incoming item's
// other fields are ignored; the existing entry stays as it was.
func (s *Store) AddToCart(item domain.CartItem) {
	s.items.Update(func(items []domain.CartItem) []domain.CartItem {
		next := make([]domain.CartItem, len(items))
		copy(next, items)
		for i := range next {
			if next[i].ID == item.ID {
				next[i].Quantity++
				return next
			}
		}
		item.Quantity = 1
		return append(next, item)
	})
	s.persist()
}

// RemoveFromCart deletes the entry with the given id. Removing an
// absent id is a no-op.
func (s *Store) RemoveFromCart(id int64) {
	s.items.Update(func(items []domain.CartItem) []domain.CartItem {
		next := make([]domain.CartItem, 0, len(items))
		for _, it := range items {
			if it.ID != id {
				next = append(next, it)
			}
		}
		return next
	})
	s.persist()
}

// UpdateQuantity sets the quantity for id. A quantity of zero or less
// removes the entry. Updating an absent id is silently ignored.
func (s *Store) UpdateQuantity(id int64, quantity int) {
	if quantity <= 0 {
		s.RemoveFromCart(id)
		return
	}
	s.items.Update(func(items []domain.CartItem) []domain.CartItem {
		next := make([]domain.CartItem, len(items))
		copy(next, items)
		for i := range next {
			if next[i].ID == id {
				next[i].Quantity = quantity
				break
			}
		}
		return next
	})
	s.persist()
}

// ClearCart empties the cart and erases the persisted blob.
func (s *Store) ClearCart() {
	s.items.Set(nil)
	if err := s.kv.Delete(context.Background(), StorageKey); err != nil {
		log.Printf("cart persist error: %v", err)
	}
}

// persist mirrors the in-memory cart to storage before the mutation
// returns to the caller. A storage failure is logged and swallowed;
// the in-memory cart is still correct.
func (s *Store) persist() {
	data, err := json.Marshal(s.items.Get())
	if err != nil {
		log.Printf("cart serialize error: %v", err)
		return
	}
	if err := s.kv.Set(context.Background(), StorageKey, string(data)); err != nil {
		log.Printf("cart persist error: %v", err)
	}
}

// Total is the sum of price times quantity over items. An empty or nil
// list totals zero.
func Total(items []domain.CartItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}
