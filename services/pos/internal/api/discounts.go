package api

import (
	"context"
	"fmt"
)

const (
	discountsResource = "discounts"
	couponsResource   = "coupons"
)

// DiscountDataAccess manages discounts, which the backend keys by code.
type DiscountDataAccess struct {
	client *Client
}

func NewDiscountDataAccess(client *Client) *DiscountDataAccess {
	return &DiscountDataAccess{client: client}
}

func (da *DiscountDataAccess) ListDiscounts(ctx context.Context) ([]Discount, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("discount client not configured")
	}
	return listAs[Discount](ctx, da.client, discountsResource)
}

func (da *DiscountDataAccess) GetDiscount(ctx context.Context, code string) (*Discount, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("discount client not configured")
	}
	return getAs[Discount](ctx, da.client, discountsResource, code)
}

func (da *DiscountDataAccess) CreateDiscount(ctx context.Context, discount Discount) (*Discount, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("discount client not configured")
	}
	return createAs[Discount](ctx, da.client, discountsResource, discount)
}

func (da *DiscountDataAccess) UpdateDiscount(ctx context.Context, code string, discount Discount) (*Discount, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("discount client not configured")
	}
	return updateAs[Discount](ctx, da.client, discountsResource, code, discount)
}

func (da *DiscountDataAccess) DeleteDiscount(ctx context.Context, code string) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("discount client not configured")
	}
	return da.client.Delete(ctx, discountsResource, code)
}

type CouponDataAccess struct {
	client *Client
}

func NewCouponDataAccess(client *Client) *CouponDataAccess {
	return &CouponDataAccess{client: client}
}

func (da *CouponDataAccess) ListCoupons(ctx context.Context) ([]Coupon, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("coupon client not configured")
	}
	return listAs[Coupon](ctx, da.client, couponsResource)
}

func (da *CouponDataAccess) GetCoupon(ctx context.Context, id string) (*Coupon, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("coupon client not configured")
	}
	return getAs[Coupon](ctx, da.client, couponsResource, id)
}

func (da *CouponDataAccess) CreateCoupon(ctx context.Context, coupon Coupon) (*Coupon, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("coupon client not configured")
	}
	return createAs[Coupon](ctx, da.client, couponsResource, coupon)
}

func (da *CouponDataAccess) DeleteCoupon(ctx context.Context, id string) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("coupon client not configured")
	}
	return da.client.Delete(ctx, couponsResource, id)
}
