package storage

import (
	"sync"

	"salesmini/internal"
	"salesmini/internal/orderkey"
)

// MemoryStore is a process-local session, used by one-shot runs and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	orders []internal.Order
	items  map[string][]internal.Item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string][]internal.Item{}}
}

func (s *MemoryStore) AppendBatch(orders []internal.Order, items []internal.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range orders {
		s.removeLocked(o.OrderID)
		s.orders = append(s.orders, o)
	}
	for _, it := range items {
		s.items[it.OrderID] = append(s.items[it.OrderID], it)
	}
	return nil
}

func (s *MemoryStore) ReplaceOrder(order internal.Order, items []internal.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(order.OrderID)
	if idx < 0 {
		return ErrOrderNotFound
	}
	s.orders[idx] = order
	s.items[order.OrderID] = withOrderID(items, order.OrderID)
	return nil
}

func (s *MemoryStore) UpdateOrder(order internal.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(order.OrderID)
	if idx < 0 {
		return ErrOrderNotFound
	}
	s.orders[idx] = order
	return nil
}

func (s *MemoryStore) ListOrders() ([]internal.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]internal.Order, len(s.orders))
	copy(out, s.orders)
	return out, nil
}

func (s *MemoryStore) GetOrder(orderID string) (*internal.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexLocked(orderID)
	if idx < 0 {
		return nil, nil
	}
	o := s.orders[idx]
	return &o, nil
}

func (s *MemoryStore) ListItems(orderID string) ([]internal.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if orderID != "" {
		return append([]internal.Item(nil), s.items[orderID]...), nil
	}
	var out []internal.Item
	for _, o := range s.orders {
		out = append(out, s.items[o.OrderID]...)
	}
	return out, nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = nil
	s.items = map[string][]internal.Item{}
	return nil
}

func (s *MemoryStore) KeyVersion() (string, error) {
	return orderkey.DigestVersion, nil
}

func (s *MemoryStore) indexLocked(orderID string) int {
	for i, o := range s.orders {
		if o.OrderID == orderID {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) removeLocked(orderID string) {
	idx := s.indexLocked(orderID)
	if idx < 0 {
		return
	}
	s.orders = append(s.orders[:idx], s.orders[idx+1:]...)
	delete(s.items, orderID)
}

func withOrderID(items []internal.Item, orderID string) []internal.Item {
	out := make([]internal.Item, len(items))
	for i, it := range items {
		it.OrderID = orderID
		out[i] = it
	}
	return out
}
