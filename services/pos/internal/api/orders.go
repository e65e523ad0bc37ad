package api

import (
	"context"
	"fmt"
	"net/http"
)

const ordersResource = "orders"

// OrderDataAccess centralizes decoding of order responses.
type OrderDataAccess struct {
	client *Client
}

func NewOrderDataAccess(client *Client) *OrderDataAccess {
	return &OrderDataAccess{client: client}
}

func (da *OrderDataAccess) ListOrders(ctx context.Context) ([]Order, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}

	resp, err := da.client.List(ctx, ordersResource, nil)
	if err != nil {
		return nil, err
	}

	var orders []Order
	if err := decodeSuccessResponse(resp, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (da *OrderDataAccess) GetOrder(ctx context.Context, id string) (*Order, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}

	resp, err := da.client.Get(ctx, ordersResource, id)
	if err != nil {
		return nil, err
	}

	return decodeOrder(resp)
}

// CreateOrder submits a new order. idempotencyKey is sent as the
// Idempotency-Key header when not empty.
func (da *OrderDataAccess) CreateOrder(ctx context.Context, req CreateOrderRequest, idempotencyKey string) (*Order, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}

	call := request{
		method: http.MethodPost,
		path:   collectionPath(ordersResource),
		body:   req,
	}
	if idempotencyKey != "" {
		call.headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}

	resp, err := da.client.do(ctx, call)
	if err != nil {
		return nil, err
	}

	order, err := decodeOrder(resp)
	if err != nil {
		return nil, err
	}
	if order.ID.IsZero() {
		return nil, malformed(resp.Op, "created order has no id")
	}

	return order, nil
}

// UpdateOrderStatus patches only the status field.
func (da *OrderDataAccess) UpdateOrderStatus(ctx context.Context, id string, status int) (*Order, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}

	resp, err := da.client.Update(ctx, ordersResource, id, map[string]int{"status": status})
	if err != nil {
		return nil, err
	}

	if len(resp.Body) == 0 {
		return nil, nil
	}
	return decodeOrder(resp)
}

func (da *OrderDataAccess) DeleteOrder(ctx context.Context, id string) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("order client not configured")
	}
	return da.client.Delete(ctx, ordersResource, id)
}

// GetInvoice downloads the invoice blob of an order. The same document
// carries the transfer payment QR.
func (da *OrderDataAccess) GetInvoice(ctx context.Context, id string) (*Blob, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}

	resp, err := da.client.do(ctx, request{
		method:  http.MethodGet,
		path:    itemPath(ordersResource, id) + "/invoice",
		headers: map[string]string{"Accept": "*/*"},
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Body) == 0 {
		return nil, malformed(resp.Op, "empty invoice")
	}

	return &Blob{ContentType: resp.ContentType, Data: resp.Body}, nil
}

func decodeOrder(resp *Response) (*Order, error) {
	var order Order
	if err := decodeSuccessResponse(resp, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
