package paymentmethod

import (
	"fmt"
	"strings"
)

type Method struct {
	Name  string
	Value int
}

func (m Method) Code() string {
	return m.Name
}

func (m Method) Label() string {
	if len(m.Name) == 0 {
		return ""
	}
	return strings.ToUpper(m.Name[:1]) + m.Name[1:]
}

type Enum struct {
	Cash     Method
	Transfer Method
}

var Methods = Enum{
	Cash:     Method{Name: "cash", Value: 1},
	Transfer: Method{Name: "transfer", Value: 2},
}

var All = []Method{
	Methods.Cash,
	Methods.Transfer,
}

// ByName returns the method for a given name, or nil if not found
func ByName(name string) *Method {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, m := range All {
		if m.Name == name {
			return &m
		}
	}
	return nil
}

func FromWire(value int) (Method, error) {
	for _, m := range All {
		if m.Value == value {
			return m, nil
		}
	}
	return Method{}, fmt.Errorf("unknown payment method code: %d", value)
}
