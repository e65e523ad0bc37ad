package pos

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"

	"github.com/appetiteclub/cafepos/pkg/enums/orderstatus"
	"github.com/appetiteclub/cafepos/pkg/enums/tablestatus"
	"github.com/appetiteclub/cafepos/pkg/event"
)

// StationEvents announces local writes to peer stations. A nil
// *StationEvents or a nil publisher is a no-op; polling remains the
// source of convergence.
type StationEvents struct {
	publisher events.Publisher
	source    string
	logger    aqm.Logger
	now       func() time.Time
}

func NewStationEvents(publisher events.Publisher, source string, logger aqm.Logger) *StationEvents {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &StationEvents{publisher: publisher, source: source, logger: logger, now: time.Now}
}

func (e *StationEvents) OrderCreated(ctx context.Context, orderID, tableID string) {
	e.publishOrder(ctx, event.OrderStatusEvent{
		EventType:  event.EventOrderCreated,
		OrderID:    orderID,
		Status:     orderstatus.Statuses.Confirmed.Name,
		StatusCode: orderstatus.Statuses.Confirmed.Value,
		TableID:    tableID,
	})
}

func (e *StationEvents) OrderStatusChanged(ctx context.Context, orderID string, status orderstatus.Status) {
	e.publishOrder(ctx, event.OrderStatusEvent{
		EventType:  event.EventOrderStatusChanged,
		OrderID:    orderID,
		Status:     status.Name,
		StatusCode: status.Value,
	})
}

func (e *StationEvents) TableStatusChanged(ctx context.Context, tableID string, status tablestatus.Status, previous int, orderID string) {
	if e == nil || e.publisher == nil {
		return
	}
	evt := event.TableStatusEvent{
		EventType:  event.EventTableStatusChanged,
		TableID:    tableID,
		Status:     status.Name,
		OrderID:    orderID,
		Source:     e.source,
		OccurredAt: e.now().UTC(),
	}
	if prev, err := tablestatus.FromWire(previous); err == nil {
		evt.PreviousStatus = prev.Name
	}
	e.publish(ctx, event.TableStatusTopic, evt)
}

func (e *StationEvents) publishOrder(ctx context.Context, evt event.OrderStatusEvent) {
	if e == nil || e.publisher == nil {
		return
	}
	evt.Source = e.source
	evt.OccurredAt = e.now().UTC()
	e.publish(ctx, event.OrderStatusTopic, evt)
}

func (e *StationEvents) publish(ctx context.Context, topic string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		e.logger.Error("cannot encode station event", "topic", topic, "error", err)
		return
	}
	if err := e.publisher.Publish(ctx, topic, data); err != nil {
		e.logger.Error("cannot publish station event", "topic", topic, "error", err)
	}
}

// Refresher is anything that can be asked to refetch ahead of its poll.
type Refresher interface {
	Trigger()
}

// StationEventSubscriber triggers local refreshes when a peer station
// announces a write.
type StationEventSubscriber struct {
	subscriber events.Subscriber
	source     string
	orders     []Refresher
	tables     []Refresher
	logger     aqm.Logger
}

func NewStationEventSubscriber(sub events.Subscriber, source string, orders, tables []Refresher, logger aqm.Logger) *StationEventSubscriber {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &StationEventSubscriber{
		subscriber: sub,
		source:     source,
		orders:     orders,
		tables:     tables,
		logger:     logger,
	}
}

func (s *StationEventSubscriber) Start(ctx context.Context) error {
	if s.subscriber == nil {
		return fmt.Errorf("station event subscriber not configured")
	}
	s.logger.Info("starting station event subscriber", "topics", event.OrderStatusTopic+","+event.TableStatusTopic)

	if err := s.subscriber.Subscribe(ctx, event.OrderStatusTopic, s.handleOrderEvent); err != nil {
		return err
	}
	return s.subscriber.Subscribe(ctx, event.TableStatusTopic, s.handleTableEvent)
}

func (s *StationEventSubscriber) Stop(ctx context.Context) error {
	return nil
}

func (s *StationEventSubscriber) handleOrderEvent(ctx context.Context, msg []byte) error {
	var evt event.OrderStatusEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		s.logger.Info("invalid order event", "error", err)
		return nil
	}
	if evt.Source == s.source {
		return nil
	}

	s.logger.Debug("peer order event", "order_id", evt.OrderID, "status", evt.Status, "source", evt.Source)
	for _, r := range s.orders {
		r.Trigger()
	}
	if evt.EventType == event.EventOrderCreated {
		for _, r := range s.tables {
			r.Trigger()
		}
	}
	return nil
}

func (s *StationEventSubscriber) handleTableEvent(ctx context.Context, msg []byte) error {
	var evt event.TableStatusEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		s.logger.Info("invalid table event", "error", err)
		return nil
	}
	if evt.Source == s.source {
		return nil
	}

	s.logger.Debug("peer table event", "table_id", evt.TableID, "status", evt.Status, "source", evt.Source)
	for _, r := range s.tables {
		r.Trigger()
	}
	return nil
}
