package pos

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/appetiteclub/cafepos/services/pos/internal/api"
)

// PromoCode is the only promo the register recognizes. It takes 10% off
// the subtotal and replaces any manual discount while active.
const PromoCode = "GIAM10"

var promoRate = decimal.NewFromFloat(0.9)

type CartItem struct {
	ProductID   string          `json:"product_id"`
	VariantID   string          `json:"variant_id"`
	ProductName string          `json:"product_name"`
	VariantName string          `json:"variant_name,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// LineTotal is unit price times quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart holds at most one line per (product, variant) and never a line with
// a quantity below one.
type Cart struct {
	Items    []CartItem      `json:"items"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Promo    string          `json:"promo,omitempty"`
}

type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	Discounted decimal.Decimal `json:"discounted"`
	Tax        decimal.Decimal `json:"tax"`
	Final      decimal.Decimal `json:"final"`
	PromoCode  string          `json:"promo_code,omitempty"`
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Add puts one unit of the variant in the cart, snapshotting its price.
func (c *Cart) Add(product api.Product, variant api.Variant) {
	for i, item := range c.Items {
		if item.ProductID == product.ID.String() && item.VariantID == variant.ID.String() {
			c.Items[i].Quantity++
			return
		}
	}

	c.Items = append(c.Items, CartItem{
		ProductID:   product.ID.String(),
		VariantID:   variant.ID.String(),
		ProductName: product.Name,
		VariantName: variant.Name,
		UnitPrice:   variant.Price,
		Quantity:    1,
	})
}

// SetQuantity sets the line quantity; zero or less removes the line. An
// empty variantID matches the first line of the product.
func (c *Cart) SetQuantity(productID, variantID string, quantity int) {
	i := c.indexOf(productID, variantID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return
	}
	c.Items[i].Quantity = quantity
}

func (c *Cart) Remove(productID, variantID string) {
	c.SetQuantity(productID, variantID, 0)
}

func (c Cart) Totals() Totals {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	t := Totals{Subtotal: subtotal, Tax: c.Tax}

	if c.promoActive() {
		t.Discounted = subtotal.Mul(promoRate).Round(2)
		t.PromoCode = PromoCode
	} else {
		t.Discounted = subtotal.Sub(c.Discount)
		if t.Discounted.IsNegative() {
			t.Discounted = decimal.Zero
		}
	}

	t.Discount = subtotal.Sub(t.Discounted)
	t.Final = t.Discounted.Add(c.Tax)
	return t
}

func (c Cart) promoActive() bool {
	return c.Promo != "" && strings.EqualFold(c.Promo, PromoCode)
}

func (c Cart) indexOf(productID, variantID string) int {
	for i, item := range c.Items {
		if item.ProductID != productID {
			continue
		}
		if variantID == "" || item.VariantID == variantID {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	out := c
	out.Items = make([]CartItem, len(c.Items))
	copy(out.Items, c.Items)
	return out
}
