package tablestatus

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCode is returned when a wire value has no matching status.
var ErrUnknownCode = errors.New("unknown table status code")

type Status struct {
	Name  string
	Value int
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

// Selectable reports whether a table in this status may take a new order.
func (s Status) Selectable() bool {
	return s != Statuses.Occupied
}

type Enum struct {
	Available   Status
	Occupied    Status
	Reserved    Status
	Cleaning    Status
	Maintenance Status
}

var Statuses = Enum{
	Available:   Status{Name: "available", Value: 1},
	Occupied:    Status{Name: "occupied", Value: 2},
	Reserved:    Status{Name: "reserved", Value: 3},
	Cleaning:    Status{Name: "cleaning", Value: 4},
	Maintenance: Status{Name: "maintenance", Value: 5},
}

var All = []Status{
	Statuses.Available,
	Statuses.Occupied,
	Statuses.Reserved,
	Statuses.Cleaning,
	Statuses.Maintenance,
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

func FromWire(value int) (Status, error) {
	for _, s := range All {
		if s.Value == value {
			return s, nil
		}
	}
	return Status{}, fmt.Errorf("%w: %d", ErrUnknownCode, value)
}
