package pos

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/cafepos/pkg/enums/orderstatus"
	"github.com/appetiteclub/cafepos/pkg/enums/station"
	"github.com/appetiteclub/cafepos/services/pos/internal/api"
)

// stationBuckets is the display order of status groups per station.
// Statuses not listed are hidden from that station.
var stationBuckets = map[string][]orderstatus.Status{
	station.Stations.Waiter.Name: {
		orderstatus.Statuses.Completed,
		orderstatus.Statuses.Ready,
		orderstatus.Statuses.Preparing,
		orderstatus.Statuses.Confirmed,
		orderstatus.Statuses.Cancelled,
	},
	station.Stations.Bartender.Name: {
		orderstatus.Statuses.Confirmed,
		orderstatus.Statuses.Preparing,
		orderstatus.Statuses.Ready,
	},
	station.Stations.Cashier.Name: {
		orderstatus.Statuses.Pending,
		orderstatus.Statuses.Confirmed,
		orderstatus.Statuses.Preparing,
		orderstatus.Statuses.Ready,
		orderstatus.Statuses.Completed,
		orderstatus.Statuses.Cancelled,
	},
}

// stationTargets lists the statuses each station may move an order to.
var stationTargets = map[string][]orderstatus.Status{
	station.Stations.Waiter.Name: {
		orderstatus.Statuses.Completed,
		orderstatus.Statuses.Cancelled,
	},
	station.Stations.Bartender.Name: {
		orderstatus.Statuses.Preparing,
		orderstatus.Statuses.Ready,
		orderstatus.Statuses.Cancelled,
	},
	station.Stations.Cashier.Name: {
		orderstatus.Statuses.Confirmed,
		orderstatus.Statuses.Completed,
		orderstatus.Statuses.Cancelled,
	},
}

// OrderGroup is one status bucket of a station view.
type OrderGroup struct {
	Status string      `json:"status"`
	Label  string      `json:"label"`
	Orders []api.Order `json:"orders"`
}

// StationView is a polling read model of the shared order collection,
// scoped to one station.
type StationView struct {
	station  station.Station
	store    *Store
	orders   OrderAPI
	products ProductAPI
	notifier *Notifier
	confirms *Confirmations
	events   *StationEvents
	poller   *Poller
	logger   aqm.Logger
}

type StationViewDeps struct {
	Store         *Store
	Orders        OrderAPI
	Products      ProductAPI
	Notifications NotificationStore
	Confirmations *Confirmations
	Events        *StationEvents
}

func NewStationView(st station.Station, deps StationViewDeps, poll PollOptions, logger aqm.Logger) *StationView {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	store := deps.Store
	if store == nil {
		store = NewStore()
	}
	confirms := deps.Confirmations
	if confirms == nil {
		confirms = NewConfirmations(DefaultConfirmationTTL)
	}

	v := &StationView{
		station:  st,
		store:    store,
		orders:   deps.Orders,
		products: deps.Products,
		confirms: confirms,
		events:   deps.Events,
		logger:   logger.With("station", st.Name),
	}
	if st == station.Stations.Waiter {
		v.notifier = NewNotifier(orderstatus.Statuses.Completed, deps.Notifications, v.logger)
	}
	v.poller = NewPoller(st.Name+"-orders", poll, v.Refresh, v.logger)
	return v
}

func (v *StationView) Station() station.Station {
	return v.station
}

func (v *StationView) Poller() *Poller {
	return v.poller
}

func (v *StationView) Start(ctx context.Context) error {
	return v.poller.Start(ctx)
}

func (v *StationView) Stop(ctx context.Context) error {
	return v.poller.Stop(ctx)
}

// Trigger schedules an immediate refetch.
func (v *StationView) Trigger() {
	v.poller.Trigger()
}

// Refresh fetches the full order list and replaces the cached one.
func (v *StationView) Refresh(ctx context.Context) error {
	if v.orders == nil {
		return errors.New("order backend not configured")
	}

	orders, err := v.orders.ListOrders(ctx)
	if err != nil {
		return err
	}

	v.store.ReplaceOrders(v.station.Name, orders)
	if v.notifier != nil {
		if fresh := v.notifier.Observe(ctx, orders); len(fresh) > 0 {
			v.logger.Info("orders ready for pickup", "count", len(fresh))
		}
	}
	return nil
}

// Groups buckets the cached orders by status in the station's order,
// newest update first within a bucket. Empty buckets are omitted.
func (v *StationView) Groups() []OrderGroup {
	return groupOrders(v.store.Orders(v.station.Name), stationBuckets[v.station.Name])
}

func groupOrders(orders []api.Order, buckets []orderstatus.Status) []OrderGroup {
	byStatus := make(map[int][]api.Order, len(buckets))
	for _, o := range orders {
		byStatus[o.Status] = append(byStatus[o.Status], o)
	}

	groups := make([]OrderGroup, 0, len(buckets))
	for _, status := range buckets {
		list := byStatus[status.Value]
		if len(list) == 0 {
			continue
		}
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].UpdatedAt.After(list[j].UpdatedAt)
		})
		groups = append(groups, OrderGroup{Status: status.Name, Label: status.Label(), Orders: list})
	}
	return groups
}

// NeedsConfirmation reports whether moving an order to target is
// destructive and must go through a confirmation.
func NeedsConfirmation(target orderstatus.Status) bool {
	return target == orderstatus.Statuses.Completed || target == orderstatus.Statuses.Cancelled
}

// RequestTransition validates the move and, for destructive targets,
// registers a confirmation instead of acting. Other moves run at once and
// return a nil confirmation.
func (v *StationView) RequestTransition(ctx context.Context, orderID string, target orderstatus.Status) (*Confirmation, error) {
	if _, err := v.checkTransition(ctx, orderID, target); err != nil {
		return nil, err
	}

	if !NeedsConfirmation(target) {
		return nil, v.Transition(ctx, orderID, target)
	}

	action := fmt.Sprintf("%s order", target.Name)
	if target == orderstatus.Statuses.Cancelled {
		action = "cancel order"
	}
	confirmation := v.confirms.Request(action, orderID, func(ctx context.Context) error {
		return v.Transition(ctx, orderID, target)
	})
	return &confirmation, nil
}

// Transition patches the order status and refetches. The cached list is
// never patched locally.
func (v *StationView) Transition(ctx context.Context, orderID string, target orderstatus.Status) error {
	if _, err := v.checkTransition(ctx, orderID, target); err != nil {
		return err
	}

	if _, err := v.orders.UpdateOrderStatus(ctx, orderID, target.Value); err != nil {
		v.logger.Error("cannot update order status", "order_id", orderID, "status", target.Name, "error", err)
		return err
	}

	v.logger.Info("order status updated", "order_id", orderID, "status", target.Name)
	v.events.OrderStatusChanged(ctx, orderID, target)

	if err := v.Refresh(ctx); err != nil {
		v.logger.Error("refetch after status update failed", "order_id", orderID, "error", err)
		v.Trigger()
	}
	return nil
}

func (v *StationView) StartPreparing(ctx context.Context, orderID string) error {
	return v.Transition(ctx, orderID, orderstatus.Statuses.Preparing)
}

func (v *StationView) MarkReady(ctx context.Context, orderID string) error {
	return v.Transition(ctx, orderID, orderstatus.Statuses.Ready)
}

func (v *StationView) RequestComplete(ctx context.Context, orderID string) (*Confirmation, error) {
	return v.RequestTransition(ctx, orderID, orderstatus.Statuses.Completed)
}

func (v *StationView) RequestCancel(ctx context.Context, orderID string) (*Confirmation, error) {
	return v.RequestTransition(ctx, orderID, orderstatus.Statuses.Cancelled)
}

func (v *StationView) checkTransition(ctx context.Context, orderID string, target orderstatus.Status) (orderstatus.Status, error) {
	if v.orders == nil {
		return orderstatus.Status{}, errors.New("order backend not configured")
	}
	if !v.allows(target) {
		return orderstatus.Status{}, fmt.Errorf("%w: %s cannot set %s", ErrInvalidTransition, v.station.Name, target.Name)
	}

	order, err := v.lookup(ctx, orderID)
	if err != nil {
		return orderstatus.Status{}, err
	}

	current, err := orderstatus.FromWire(order.Status)
	if err != nil {
		return orderstatus.Status{}, err
	}
	if !current.CanTransitionTo(target) {
		return current, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Name, target.Name)
	}
	return current, nil
}

func (v *StationView) allows(target orderstatus.Status) bool {
	for _, s := range stationTargets[v.station.Name] {
		if s == target {
			return true
		}
	}
	return false
}

func (v *StationView) lookup(ctx context.Context, orderID string) (api.Order, error) {
	for _, o := range v.store.Orders(v.station.Name) {
		if o.ID.String() == orderID {
			return o, nil
		}
	}

	order, err := v.orders.GetOrder(ctx, orderID)
	if err != nil {
		if api.StatusOf(err) == 404 {
			return api.Order{}, ErrOrderNotFound
		}
		return api.Order{}, err
	}
	return *order, nil
}

// Recipe fetches one product and extracts its recipe.
func (v *StationView) Recipe(ctx context.Context, productID string) (Recipe, error) {
	if v.products == nil {
		return Recipe{}, errors.New("product backend not configured")
	}
	product, err := v.products.GetProduct(ctx, productID)
	if err != nil {
		return Recipe{}, err
	}
	return RecipeFromProduct(*product), nil
}

// Notifier is nil for stations that do not track pickups.
func (v *StationView) Notifier() *Notifier {
	return v.notifier
}
