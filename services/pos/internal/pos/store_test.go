package pos

import (
	"testing"

	"github.com/appetiteclub/cafepos/services/pos/internal/api"
)

func TestStoreSubscribe(t *testing.T) {
	s := NewStore()

	var changes []Change
	cancel := s.Subscribe(func(c Change) {
		changes = append(changes, c)
	})

	s.UpdateCart(func(c *Cart) { c.Promo = PromoCode })
	s.SelectTable("1")
	s.ReplaceTables([]api.Table{{ID: "1"}})
	s.ReplaceOrders("waiter", nil)

	want := []ChangeKind{ChangeCart, ChangeSelection, ChangeTables, ChangeOrders}
	if len(changes) != len(want) {
		t.Fatalf("changes = %d, want %d", len(changes), len(want))
	}
	for i, kind := range want {
		if changes[i].Kind != kind {
			t.Errorf("change[%d] = %s, want %s", i, changes[i].Kind, kind)
		}
	}
	if changes[3].Station != "waiter" {
		t.Errorf("orders change station = %q", changes[3].Station)
	}

	cancel()
	s.ResetCart()
	if len(changes) != len(want) {
		t.Error("listener called after cancel")
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	s := NewStore()
	s.UpdateCart(func(c *Cart) {
		c.Items = append(c.Items, CartItem{ProductID: "1", Quantity: 1})
	})
	s.ReplaceTables([]api.Table{{ID: "1", Status: 1}})

	cart := s.Cart()
	cart.Items[0].Quantity = 99
	if s.Cart().Items[0].Quantity != 1 {
		t.Error("Cart() exposed internal items")
	}

	tables := s.Tables()
	tables[0].Status = 2
	if got, _ := s.Table("1"); got.Status != 1 {
		t.Error("Tables() exposed internal slice")
	}
}

func TestStoreSetTableStatus(t *testing.T) {
	s := NewStore()
	s.ReplaceTables([]api.Table{{ID: "1", Name: "T1", Status: 1}})

	if !s.SetTableStatus("1", 2) {
		t.Fatal("SetTableStatus() = false for cached table")
	}
	if got, _ := s.Table("1"); got.Status != 2 || got.Name != "T1" {
		t.Errorf("table = %+v", got)
	}
	if s.SetTableStatus("9", 2) {
		t.Error("SetTableStatus() = true for unknown table")
	}
}

func TestStoreOrderLookup(t *testing.T) {
	s := NewStore()
	s.ReplaceOrders("cashier", []api.Order{{ID: "42"}})

	if _, ok := s.Order("42"); !ok {
		t.Error("Order(42) not found")
	}
	if _, ok := s.Order("43"); ok {
		t.Error("Order(43) found")
	}
	if got := s.Orders("waiter"); len(got) != 0 {
		t.Errorf("Orders(waiter) = %d, want 0", len(got))
	}
}
