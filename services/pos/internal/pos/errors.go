package pos

import "errors"

// Local precondition failures. They are always detected before any
// backend call is made.
var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrNoTableSelected      = errors.New("no table selected")
	ErrTableOccupied        = errors.New("table is occupied")
	ErrTableNotFound        = errors.New("table not found")
	ErrNoPendingSelection   = errors.New("no table selection pending")
	ErrNoMatchingShift      = errors.New("no matching shift assignment")
	ErrUnknownShiftType     = errors.New("unknown shift type")
	ErrBusy                 = errors.New("operation already in progress")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrOrderNotFound        = errors.New("order not found")
	ErrNoOrder              = errors.New("no order awaiting payment")
	ErrOrderPending         = errors.New("order awaiting payment")
	ErrCartLocked           = errors.New("cart is locked while an order is open")
	ErrUnknownPromo         = errors.New("unknown promo code")
	ErrInvalidAmount        = errors.New("amount must not be negative")
	ErrUnknownVariant       = errors.New("unknown product variant")
	ErrConfirmationNotFound = errors.New("confirmation not found")
	ErrConfirmationExpired  = errors.New("confirmation expired")
	ErrInvalidDate          = errors.New("invalid date")
)
