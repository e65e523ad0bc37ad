package pos

import (
	"context"
	"errors"

	"github.com/appetiteclub/cafepos/services/pos/internal/api"
)

// Catalog fans the menu lookups out to the per-resource data access types.
type Catalog struct {
	products   *api.ProductDataAccess
	categories *api.CategoryDataAccess
	discounts  *api.DiscountDataAccess
	coupons    *api.CouponDataAccess
}

var errCatalogNotConfigured = errors.New("catalog not configured")

func NewCatalog(client *api.Client) *Catalog {
	return &Catalog{
		products:   api.NewProductDataAccess(client),
		categories: api.NewCategoryDataAccess(client),
		discounts:  api.NewDiscountDataAccess(client),
		coupons:    api.NewCouponDataAccess(client),
	}
}

func (c *Catalog) ListProducts(ctx context.Context) ([]api.Product, error) {
	if c == nil {
		return nil, errCatalogNotConfigured
	}
	return c.products.ListProducts(ctx)
}

func (c *Catalog) GetProduct(ctx context.Context, id string) (*api.Product, error) {
	if c == nil {
		return nil, errCatalogNotConfigured
	}
	return c.products.GetProduct(ctx, id)
}

func (c *Catalog) ListCategories(ctx context.Context) ([]api.ProductCategory, error) {
	if c == nil {
		return nil, errCatalogNotConfigured
	}
	return c.categories.ListCategories(ctx)
}

func (c *Catalog) GetDiscount(ctx context.Context, code string) (*api.Discount, error) {
	if c == nil {
		return nil, errCatalogNotConfigured
	}
	return c.discounts.GetDiscount(ctx, code)
}

func (c *Catalog) ListCoupons(ctx context.Context) ([]api.Coupon, error) {
	if c == nil {
		return nil, errCatalogNotConfigured
	}
	return c.coupons.ListCoupons(ctx)
}
