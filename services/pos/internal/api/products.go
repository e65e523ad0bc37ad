package api

import (
	"context"
	"fmt"
)

const (
	productsResource   = "products"
	categoriesResource = "product-categories"
)

type ProductDataAccess struct {
	client *Client
}

func NewProductDataAccess(client *Client) *ProductDataAccess {
	return &ProductDataAccess{client: client}
}

func (da *ProductDataAccess) ListProducts(ctx context.Context) ([]Product, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("product client not configured")
	}
	return listAs[Product](ctx, da.client, productsResource)
}

func (da *ProductDataAccess) GetProduct(ctx context.Context, id string) (*Product, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("product client not configured")
	}

	product, err := getAs[Product](ctx, da.client, productsResource, id)
	if err != nil {
		return nil, err
	}
	if product.ID.IsZero() {
		return nil, malformed("GET "+itemPath(productsResource, id), "product has no id")
	}
	return product, nil
}

type CategoryDataAccess struct {
	client *Client
}

func NewCategoryDataAccess(client *Client) *CategoryDataAccess {
	return &CategoryDataAccess{client: client}
}

func (da *CategoryDataAccess) ListCategories(ctx context.Context) ([]ProductCategory, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("category client not configured")
	}
	return listAs[ProductCategory](ctx, da.client, categoriesResource)
}

func (da *CategoryDataAccess) CreateCategory(ctx context.Context, category ProductCategory) (*ProductCategory, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("category client not configured")
	}
	return createAs[ProductCategory](ctx, da.client, categoriesResource, category)
}

func (da *CategoryDataAccess) UpdateCategory(ctx context.Context, id string, category ProductCategory) (*ProductCategory, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("category client not configured")
	}
	return updateAs[ProductCategory](ctx, da.client, categoriesResource, id, category)
}

func (da *CategoryDataAccess) DeleteCategory(ctx context.Context, id string) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("category client not configured")
	}
	return da.client.Delete(ctx, categoriesResource, id)
}
