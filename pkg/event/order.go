package event

import "time"

const (
	// OrderStatusTopic carries order status changes made from any station.
	OrderStatusTopic = "stations.orders"

	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status.changed"
)

// OrderStatusEvent tells other stations that an order moved so they can
// refetch ahead of their next poll. Polling stays authoritative.
type OrderStatusEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	OrderID    string    `json:"order_id"`
	Status     string    `json:"status"`
	StatusCode int       `json:"status_code"`
	TableID    string    `json:"table_id,omitempty"`
	Source     string    `json:"source,omitempty"`
}
