package event

import "time"

const (
	// TableStatusTopic delivers table status changes written by a station.
	TableStatusTopic = "stations.tables"

	EventTableStatusChanged = "table.status.changed"
)

// TableStatusEvent captures a table status write so peers can refresh
// their table grid.
type TableStatusEvent struct {
	EventType      string    `json:"event_type"`
	TableID        string    `json:"table_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	OrderID        string    `json:"order_id,omitempty"`
	Source         string    `json:"source,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
