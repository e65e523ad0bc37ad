package orderstatus

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCode is returned when a wire value has no matching status.
var ErrUnknownCode = errors.New("unknown order status code")

// Status is an order lifecycle state. Value is the backend wire code and
// rank the position in the lifecycle; the two are unrelated.
type Status struct {
	Name  string
	Value int
	rank  int
}

func (s Status) Code() string {
	return s.Name
}

func (s Status) Label() string {
	if len(s.Name) == 0 {
		return ""
	}
	return strings.ToUpper(s.Name[:1]) + s.Name[1:]
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == Statuses.Completed || s == Statuses.Cancelled
}

// Before reports whether s comes earlier in the lifecycle than other.
// Cancelled is outside the forward chain and is never before anything.
func (s Status) Before(other Status) bool {
	if s == Statuses.Cancelled || other == Statuses.Cancelled {
		return false
	}
	return s.rank < other.rank
}

// CanTransitionTo allows forward moves (skips included) and cancellation
// from any non-terminal state.
func (s Status) CanTransitionTo(next Status) bool {
	if s.Terminal() {
		return false
	}
	if next == Statuses.Cancelled {
		return true
	}
	return s.Before(next)
}

type Enum struct {
	Pending   Status
	Confirmed Status
	Preparing Status
	Ready     Status
	Completed Status
	Cancelled Status
}

var Statuses = Enum{
	Pending:   Status{Name: "pending", Value: 6, rank: 0},
	Confirmed: Status{Name: "confirmed", Value: 1, rank: 1},
	Preparing: Status{Name: "preparing", Value: 2, rank: 2},
	Ready:     Status{Name: "ready", Value: 3, rank: 3},
	Completed: Status{Name: "completed", Value: 4, rank: 4},
	Cancelled: Status{Name: "cancelled", Value: 5, rank: 5},
}

// All lists every status in lifecycle order.
var All = []Status{
	Statuses.Pending,
	Statuses.Confirmed,
	Statuses.Preparing,
	Statuses.Ready,
	Statuses.Completed,
	Statuses.Cancelled,
}

// ByName returns the status for a given name, or nil if not found
func ByName(name string) *Status {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range All {
		if s.Name == name {
			return &s
		}
	}
	return nil
}

// FromWire maps a backend wire code to its status.
func FromWire(value int) (Status, error) {
	for _, s := range All {
		if s.Value == value {
			return s, nil
		}
	}
	return Status{}, fmt.Errorf("%w: %d", ErrUnknownCode, value)
}
