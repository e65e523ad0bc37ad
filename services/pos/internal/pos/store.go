package pos

import (
	"sync"

	"github.com/appetiteclub/cafepos/services/pos/internal/api"
)

// ChangeKind names the slice of state a Change touches.
type ChangeKind string

const (
	ChangeCart      ChangeKind = "cart"
	ChangeSelection ChangeKind = "selection"
	ChangeTables    ChangeKind = "tables"
	ChangeOrders    ChangeKind = "orders"
)

type Change struct {
	Kind    ChangeKind
	Station string
}

// Store is the single source of truth shared by every view of the station:
// cart, selected table, table grid and per-station order lists. Readers get
// copies; listeners are called after every write, outside the lock.
type Store struct {
	mu        sync.RWMutex
	cart      Cart
	selected  string
	confirmed map[string]struct{}
	tables    []api.Table
	areas     []api.TableArea
	orders    map[string][]api.Order
	listeners map[int]func(Change)
	nextID    int
}

func NewStore() *Store {
	return &Store{
		confirmed: make(map[string]struct{}),
		orders:    make(map[string][]api.Order),
		listeners: make(map[int]func(Change)),
	}
}

// Subscribe registers fn for every change and returns its cancel func.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(change Change) {
	s.mu.RLock()
	listeners := make([]func(Change), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(change)
	}
}

func (s *Store) Cart() Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.clone()
}

// UpdateCart applies fn to the cart under the store lock.
func (s *Store) UpdateCart(fn func(*Cart)) {
	s.mu.Lock()
	fn(&s.cart)
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeCart})
}

func (s *Store) ResetCart() {
	s.UpdateCart(func(c *Cart) { *c = Cart{} })
}

// SelectedTable returns the table chosen for the next order.
func (s *Store) SelectedTable() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected, s.selected != ""
}

// SelectTable confirms id as the selected table, releasing any previous one.
func (s *Store) SelectTable(id string) {
	s.mu.Lock()
	if s.selected != "" {
		delete(s.confirmed, s.selected)
	}
	s.selected = id
	s.confirmed[id] = struct{}{}
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeSelection})
}

func (s *Store) DeselectTable() {
	s.mu.Lock()
	if s.selected != "" {
		delete(s.confirmed, s.selected)
	}
	s.selected = ""
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeSelection})
}

// IsConfirmed reports whether this station holds a confirmed selection on id.
func (s *Store) IsConfirmed(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.confirmed[id]
	return ok
}

func (s *Store) Tables() []api.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]api.Table, len(s.tables))
	copy(out, s.tables)
	return out
}

func (s *Store) Areas() []api.TableArea {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]api.TableArea, len(s.areas))
	copy(out, s.areas)
	return out
}

func (s *Store) Table(id string) (api.Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tables {
		if t.ID.String() == id {
			return t, true
		}
	}
	return api.Table{}, false
}

// ReplaceTables swaps the whole table list for the fetched one.
func (s *Store) ReplaceTables(tables []api.Table) {
	s.mu.Lock()
	s.tables = tables
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeTables})
}

func (s *Store) ReplaceAreas(areas []api.TableArea) {
	s.mu.Lock()
	s.areas = areas
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeTables})
}

// SetTableStatus patches only the status of a cached table.
func (s *Store) SetTableStatus(id string, status int) bool {
	s.mu.Lock()
	found := false
	for i := range s.tables {
		if s.tables[i].ID.String() == id {
			s.tables[i].Status = status
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.notify(Change{Kind: ChangeTables})
	}
	return found
}

func (s *Store) Orders(stationName string) []api.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders := s.orders[stationName]
	out := make([]api.Order, len(orders))
	copy(out, orders)
	return out
}

// ReplaceOrders swaps the cached order list of a station wholesale.
func (s *Store) ReplaceOrders(stationName string, orders []api.Order) {
	s.mu.Lock()
	s.orders[stationName] = orders
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeOrders, Station: stationName})
}

// Order finds id in any station's cached list.
func (s *Store) Order(id string) (api.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, orders := range s.orders {
		for _, o := range orders {
			if o.ID.String() == id {
				return o, true
			}
		}
	}
	return api.Order{}, false
}
