package pos

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/appetiteclub/cafepos/pkg/enums/orderstatus"
	"github.com/appetiteclub/cafepos/pkg/enums/paymentmethod"
	"github.com/appetiteclub/cafepos/services/pos/internal/api"
)

// CheckoutState is the local cart lifecycle, not the backend order status.
type CheckoutState string

const (
	StateEmpty            CheckoutState = "empty"
	StateBuilding         CheckoutState = "building"
	StateSubmitting       CheckoutState = "submitting"
	StateCreated          CheckoutState = "created"
	StateFailed           CheckoutState = "failed"
	StatePaymentPending   CheckoutState = "payment_pending"
	StateAwaitingTransfer CheckoutState = "awaiting_transfer_confirmation"
	StateCompleted        CheckoutState = "completed"
)

// locked reports whether the cart belongs to an order in flight or
// awaiting payment.
func (s CheckoutState) locked() bool {
	switch s {
	case StateSubmitting, StateCreated, StatePaymentPending, StateAwaitingTransfer:
		return true
	}
	return false
}

type PaymentResult struct {
	OrderID string        `json:"order_id"`
	Method  string        `json:"method"`
	QR      *api.Blob     `json:"-"`
	State   CheckoutState `json:"state"`
}

// CheckoutSnapshot is a read-only view of the register.
type CheckoutSnapshot struct {
	State     CheckoutState `json:"state"`
	Cart      Cart          `json:"cart"`
	Totals    Totals        `json:"totals"`
	TableID   string        `json:"table_id,omitempty"`
	OrderID   string        `json:"order_id,omitempty"`
	LastError string        `json:"last_error,omitempty"`
}

type CheckoutOptions struct {
	DeselectTableOnCash bool
}

// OrderController drives the register: cart edits, order creation and
// payment selection.
type OrderController struct {
	mu      sync.Mutex
	store   *Store
	orders  OrderAPI
	tables  *TableController
	users   UserResolver
	events  *StationEvents
	logger  aqm.Logger
	opts    CheckoutOptions
	now     func() time.Time
	state   CheckoutState
	orderID string
	tableID string
	key     string
	payment *PaymentResult
	lastErr error
}

type OrderControllerDeps struct {
	Store  *Store
	Orders OrderAPI
	Tables *TableController
	Users  UserResolver
	Events *StationEvents
}

func NewOrderController(deps OrderControllerDeps, opts CheckoutOptions, logger aqm.Logger) *OrderController {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	store := deps.Store
	if store == nil {
		store = NewStore()
	}
	return &OrderController{
		store:  store,
		orders: deps.Orders,
		tables: deps.Tables,
		users:  deps.Users,
		events: deps.Events,
		logger: logger,
		opts:   opts,
		now:    time.Now,
		state:  StateEmpty,
	}
}

func (c *OrderController) Snapshot() CheckoutSnapshot {
	c.mu.Lock()
	state, orderID, lastErr := c.state, c.orderID, c.lastErr
	c.mu.Unlock()

	cart := c.store.Cart()
	tableID, _ := c.store.SelectedTable()
	snap := CheckoutSnapshot{
		State:   state,
		Cart:    cart,
		Totals:  cart.Totals(),
		TableID: tableID,
		OrderID: orderID,
	}
	if lastErr != nil && state == StateFailed {
		snap.LastError = lastErr.Error()
	}
	return snap
}

func (c *OrderController) State() CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *OrderController) AddItem(product api.Product, variant api.Variant) error {
	return c.editCart(func(cart *Cart) error {
		cart.Add(product, variant)
		return nil
	})
}

func (c *OrderController) UpdateQuantity(productID, variantID string, quantity int) error {
	return c.editCart(func(cart *Cart) error {
		cart.SetQuantity(productID, variantID, quantity)
		return nil
	})
}

func (c *OrderController) RemoveItem(productID, variantID string) error {
	return c.editCart(func(cart *Cart) error {
		cart.Remove(productID, variantID)
		return nil
	})
}

func (c *OrderController) SetDiscount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	return c.editCart(func(cart *Cart) error {
		cart.Discount = amount
		return nil
	})
}

func (c *OrderController) SetTax(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	return c.editCart(func(cart *Cart) error {
		cart.Tax = amount
		return nil
	})
}

func (c *OrderController) ApplyPromo(code string) error {
	probe := Cart{Promo: code}
	if !probe.promoActive() {
		return ErrUnknownPromo
	}
	return c.editCart(func(cart *Cart) error {
		cart.Promo = PromoCode
		return nil
	})
}

func (c *OrderController) ClearPromo() error {
	return c.editCart(func(cart *Cart) error {
		cart.Promo = ""
		return nil
	})
}

func (c *OrderController) Totals() Totals {
	return c.store.Cart().Totals()
}

func (c *OrderController) editCart(fn func(*Cart) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.locked() {
		return ErrCartLocked
	}

	var err error
	c.store.UpdateCart(func(cart *Cart) {
		err = fn(cart)
	})
	if err != nil {
		return err
	}

	// Any edit makes the next submission a different order.
	c.key = ""
	if c.store.Cart().IsEmpty() {
		c.state = StateEmpty
	} else {
		c.state = StateBuilding
	}
	return nil
}

// CreateOrder submits the cart as a CONFIRMED order for the selected table
// and then marks the table OCCUPIED. A failed submission leaves the cart as
// it was; pressing again retries with the same idempotency key.
func (c *OrderController) CreateOrder(ctx context.Context) (*api.Order, error) {
	c.mu.Lock()
	switch {
	case c.state == StateSubmitting:
		c.mu.Unlock()
		return nil, ErrBusy
	case c.state.locked():
		c.mu.Unlock()
		return nil, ErrOrderPending
	}

	cart := c.store.Cart()
	if cart.IsEmpty() {
		c.mu.Unlock()
		return nil, ErrEmptyCart
	}
	tableID, ok := c.store.SelectedTable()
	if !ok {
		c.mu.Unlock()
		return nil, ErrNoTableSelected
	}
	if c.orders == nil {
		c.mu.Unlock()
		return nil, errors.New("order backend not configured")
	}

	if c.key == "" {
		c.key = uuid.NewString()
	}
	key := c.key
	c.state = StateSubmitting
	c.mu.Unlock()

	req := c.buildRequest(ctx, cart, tableID)
	created, err := c.orders.CreateOrder(ctx, req, key)

	c.mu.Lock()
	if err != nil {
		c.state = StateFailed
		c.lastErr = err
		c.mu.Unlock()
		c.logger.Error("cannot create order", "table_id", tableID, "error", err)
		return nil, err
	}

	orderID := created.ID.String()
	c.state = StateCreated
	c.orderID = orderID
	c.tableID = tableID
	c.key = ""
	c.lastErr = nil
	c.mu.Unlock()

	c.logger.Info("order created", "order_id", orderID, "table_id", tableID, "total", req.TotalAmount.String())
	c.events.OrderCreated(ctx, orderID, tableID)

	if c.tables != nil {
		if err := c.tables.MarkOccupied(ctx, tableID, orderID); err != nil {
			c.logger.Error("table occupancy deferred", "table_id", tableID, "order_id", orderID, "error", err)
		}
	}

	return created, nil
}

func (c *OrderController) buildRequest(ctx context.Context, cart Cart, tableID string) api.CreateOrderRequest {
	totals := cart.Totals()
	items := make([]api.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, api.OrderItem{
			ProductID:   api.FlexibleID(item.ProductID),
			VariantID:   api.FlexibleID(item.VariantID),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			ProductName: item.ProductName,
		})
	}

	req := api.CreateOrderRequest{
		OrderDate:   c.now().UTC(),
		TotalAmount: totals.Final,
		Discount:    totals.Discount,
		Tax:         totals.Tax,
		Status:      orderstatus.Statuses.Confirmed.Value,
		Items:       items,
		Metadata:    api.OrderMetadata{TableID: api.FlexibleID(tableID)},
	}

	if c.users != nil {
		userID, err := c.users.CurrentUserID(ctx)
		if err != nil {
			c.logger.Debug("order without user id", "error", err)
		} else {
			req.UserID = api.FlexibleID(userID)
		}
	}

	return req
}

// SelectPayment settles the created order. Cash completes at once. Transfer
// fetches the payment QR and waits for ConfirmTransfer. While a transfer is
// awaited the operator may pick a method again, which drops the QR.
func (c *OrderController) SelectPayment(ctx context.Context, method paymentmethod.Method) (*PaymentResult, error) {
	c.mu.Lock()
	if (c.state != StateCreated && c.state != StateAwaitingTransfer) || c.orderID == "" {
		c.mu.Unlock()
		return nil, ErrNoOrder
	}
	orderID := c.orderID
	c.payment = nil

	switch method {
	case paymentmethod.Methods.Cash:
		c.state = StatePaymentPending
		c.mu.Unlock()
		result := &PaymentResult{OrderID: orderID, Method: method.Name, State: StateCompleted}
		c.complete(method)
		return result, nil

	case paymentmethod.Methods.Transfer:
		c.state = StatePaymentPending
		c.mu.Unlock()

		blob, err := c.orders.GetInvoice(ctx, orderID)

		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.state = StateCreated
			c.logger.Error("cannot fetch payment QR", "order_id", orderID, "error", err)
			return nil, err
		}
		c.state = StateAwaitingTransfer
		c.payment = &PaymentResult{OrderID: orderID, Method: method.Name, QR: blob, State: StateAwaitingTransfer}
		return c.payment, nil

	default:
		c.mu.Unlock()
		return nil, errors.New("unsupported payment method")
	}
}

// PaymentQR returns the QR fetched for a pending transfer.
func (c *OrderController) PaymentQR() (*api.Blob, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateAwaitingTransfer || c.payment == nil || c.payment.QR == nil {
		return nil, false
	}
	return c.payment.QR, true
}

// ConfirmTransfer records the operator's confirmation that the transfer
// arrived. The backend is not asked; the operator is trusted.
func (c *OrderController) ConfirmTransfer() error {
	c.mu.Lock()
	if c.state != StateAwaitingTransfer {
		c.mu.Unlock()
		return ErrNoOrder
	}
	c.mu.Unlock()

	c.complete(paymentmethod.Methods.Transfer)
	return nil
}

// AbandonTransfer drops a pending transfer QR and returns to method
// selection for the same order.
func (c *OrderController) AbandonTransfer() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateAwaitingTransfer {
		return ErrNoOrder
	}
	c.state = StateCreated
	c.payment = nil
	c.logger.Info("transfer abandoned", "order_id", c.orderID)
	return nil
}

// AbandonOrder gives up on the created order: it is cancelled on the
// backend unless a station already closed it, then the register is reset.
// The table keeps its status; the operator frees it explicitly.
func (c *OrderController) AbandonOrder(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateCreated && c.state != StateAwaitingTransfer {
		c.mu.Unlock()
		return ErrNoOrder
	}
	orderID, tableID := c.orderID, c.tableID
	previous := c.state
	c.state = StatePaymentPending
	c.mu.Unlock()

	if err := c.cancelRemote(ctx, orderID); err != nil {
		c.mu.Lock()
		c.state = previous
		c.mu.Unlock()
		c.logger.Error("cannot abandon order", "order_id", orderID, "error", err)
		return err
	}

	c.mu.Lock()
	c.state = StateEmpty
	c.orderID = ""
	c.tableID = ""
	c.payment = nil
	c.key = ""
	c.lastErr = nil
	c.mu.Unlock()

	c.store.ResetCart()
	c.store.DeselectTable()
	c.logger.Info("order abandoned", "order_id", orderID, "table_id", tableID)
	return nil
}

func (c *OrderController) cancelRemote(ctx context.Context, orderID string) error {
	if c.orders == nil {
		return errors.New("order backend not configured")
	}

	order, err := c.orders.GetOrder(ctx, orderID)
	if err != nil {
		if api.StatusOf(err) == 404 {
			return nil
		}
		return err
	}
	current, err := orderstatus.FromWire(order.Status)
	if err == nil && !current.CanTransitionTo(orderstatus.Statuses.Cancelled) {
		return nil
	}

	_, err = c.orders.UpdateOrderStatus(ctx, orderID, orderstatus.Statuses.Cancelled.Value)
	return err
}

func (c *OrderController) complete(method paymentmethod.Method) {
	c.mu.Lock()
	orderID, tableID := c.orderID, c.tableID
	c.state = StateCompleted
	c.orderID = ""
	c.tableID = ""
	c.payment = nil
	c.mu.Unlock()

	c.store.ResetCart()
	if c.opts.DeselectTableOnCash {
		c.store.DeselectTable()
	}

	c.logger.Info("order paid", "order_id", orderID, "table_id", tableID, "method", method.Name)
}

// Cancel drops the cart and the table selection before submission.
func (c *OrderController) Cancel() error {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.state.locked() {
		c.mu.Unlock()
		return ErrOrderPending
	}
	c.state = StateEmpty
	c.key = ""
	c.lastErr = nil
	c.mu.Unlock()

	c.store.ResetCart()
	c.store.DeselectTable()
	return nil
}
