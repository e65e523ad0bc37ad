package pos

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/appetiteclub/cafepos/services/pos/internal/api"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func coffee() (api.Product, api.Variant, api.Variant) {
	small := api.Variant{ID: "11", Name: "Small", Price: d(20000)}
	large := api.Variant{ID: "12", Name: "Large", Price: d(30000)}
	return api.Product{ID: "1", Name: "Cà phê sữa", Variants: []api.Variant{small, large}}, small, large
}

func TestCartAddMergesSameVariant(t *testing.T) {
	product, small, large := coffee()

	var cart Cart
	cart.Add(product, small)
	cart.Add(product, small)
	cart.Add(product, large)

	if len(cart.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(cart.Items))
	}
	if cart.Items[0].Quantity != 2 {
		t.Errorf("small Quantity = %d, want 2", cart.Items[0].Quantity)
	}
	if cart.Items[1].Quantity != 1 {
		t.Errorf("large Quantity = %d, want 1", cart.Items[1].Quantity)
	}
	if !cart.Items[0].UnitPrice.Equal(d(20000)) {
		t.Errorf("UnitPrice = %s, want 20000", cart.Items[0].UnitPrice)
	}
}

func TestCartNoDuplicateLines(t *testing.T) {
	product, small, large := coffee()
	variants := []api.Variant{small, large, small, small, large, small}

	var cart Cart
	for _, v := range variants {
		cart.Add(product, v)
	}

	seen := make(map[string]bool)
	total := 0
	for _, item := range cart.Items {
		key := item.ProductID + "/" + item.VariantID
		if seen[key] {
			t.Errorf("duplicate line %s", key)
		}
		seen[key] = true
		if item.Quantity < 1 {
			t.Errorf("line %s has quantity %d", key, item.Quantity)
		}
		total += item.Quantity
	}
	if total != len(variants) {
		t.Errorf("total quantity = %d, want %d", total, len(variants))
	}
}

func TestCartSetQuantity(t *testing.T) {
	product, small, large := coffee()

	tests := []struct {
		name      string
		productID string
		variantID string
		quantity  int
		wantLines int
		wantQty   int
	}{
		{name: "raise", productID: "1", variantID: "11", quantity: 5, wantLines: 2, wantQty: 5},
		{name: "zeroRemoves", productID: "1", variantID: "11", quantity: 0, wantLines: 1},
		{name: "negativeRemoves", productID: "1", variantID: "11", quantity: -3, wantLines: 1},
		{name: "emptyVariantMatchesFirst", productID: "1", variantID: "", quantity: 4, wantLines: 2, wantQty: 4},
		{name: "unknownIgnored", productID: "9", variantID: "", quantity: 4, wantLines: 2, wantQty: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cart Cart
			cart.Add(product, small)
			cart.Add(product, large)

			cart.SetQuantity(tt.productID, tt.variantID, tt.quantity)

			if len(cart.Items) != tt.wantLines {
				t.Fatalf("len(Items) = %d, want %d", len(cart.Items), tt.wantLines)
			}
			if tt.wantQty > 0 && cart.Items[0].Quantity != tt.wantQty {
				t.Errorf("Quantity = %d, want %d", cart.Items[0].Quantity, tt.wantQty)
			}
			for _, item := range cart.Items {
				if item.Quantity < 1 {
					t.Errorf("line with quantity %d kept", item.Quantity)
				}
			}
		})
	}
}

func TestCartRemove(t *testing.T) {
	product, small, large := coffee()

	var cart Cart
	cart.Add(product, small)
	cart.Add(product, large)
	cart.Remove("1", "12")

	if len(cart.Items) != 1 || cart.Items[0].VariantID != "11" {
		t.Errorf("Items = %+v, want only the small line", cart.Items)
	}
}

func TestCartTotals(t *testing.T) {
	product, small, large := coffee()

	tests := []struct {
		name           string
		discount       int64
		tax            int64
		promo          string
		wantSubtotal   int64
		wantDiscounted int64
		wantFinal      int64
	}{
		{name: "plain", wantSubtotal: 50000, wantDiscounted: 50000, wantFinal: 50000},
		{name: "manualDiscount", discount: 5000, wantSubtotal: 50000, wantDiscounted: 45000, wantFinal: 45000},
		{name: "discountAboveTotalClamps", discount: 80000, wantSubtotal: 50000, wantDiscounted: 0, wantFinal: 0},
		{name: "withTax", discount: 5000, tax: 4500, wantSubtotal: 50000, wantDiscounted: 45000, wantFinal: 49500},
		{name: "promoCode", promo: "GIAM10", wantSubtotal: 50000, wantDiscounted: 45000, wantFinal: 45000},
		{name: "promoOverridesDiscount", promo: "GIAM10", discount: 10000, wantSubtotal: 50000, wantDiscounted: 45000, wantFinal: 45000},
		{name: "promoLowercase", promo: "giam10", wantSubtotal: 50000, wantDiscounted: 45000, wantFinal: 45000},
		{name: "unknownPromoIgnored", promo: "FREE", wantSubtotal: 50000, wantDiscounted: 50000, wantFinal: 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cart Cart
			cart.Add(product, small)
			cart.Add(product, large)
			cart.Discount = d(tt.discount)
			cart.Tax = d(tt.tax)
			cart.Promo = tt.promo

			got := cart.Totals()
			if !got.Subtotal.Equal(d(tt.wantSubtotal)) {
				t.Errorf("Subtotal = %s, want %d", got.Subtotal, tt.wantSubtotal)
			}
			if !got.Discounted.Equal(d(tt.wantDiscounted)) {
				t.Errorf("Discounted = %s, want %d", got.Discounted, tt.wantDiscounted)
			}
			if !got.Final.Equal(d(tt.wantFinal)) {
				t.Errorf("Final = %s, want %d", got.Final, tt.wantFinal)
			}
			if !got.Discount.Equal(got.Subtotal.Sub(got.Discounted)) {
				t.Errorf("Discount = %s, want subtotal minus discounted", got.Discount)
			}
		})
	}
}

func TestCartTotalsEmpty(t *testing.T) {
	var cart Cart
	got := cart.Totals()
	if !got.Final.IsZero() || !got.Subtotal.IsZero() {
		t.Errorf("Totals() on empty cart = %+v", got)
	}
	if !cart.IsEmpty() {
		t.Error("IsEmpty() = false, want true")
	}
}
