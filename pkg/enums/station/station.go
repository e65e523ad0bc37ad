package station

import "strings"

type Station struct {
	Name string
}

func (s Station) Code() string {
	return s.Name
}

func (s Station) Label() string {
	if len(s.Name) == 0 {
		return ""
	}
	return strings.ToUpper(s.Name[:1]) + s.Name[1:]
}

type Enum struct {
	Cashier   Station
	Waiter    Station
	Bartender Station
}

var Stations = Enum{
	Cashier:   Station{Name: "cashier"},
	Waiter:    Station{Name: "waiter"},
	Bartender: Station{Name: "bartender"},
}

var All = []Station{
	Stations.Cashier,
	Stations.Waiter,
	Stations.Bartender,
}

// ByName returns the station for a given name, or nil if not found
func ByName(name string) *Station {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range All {
		if s.Name == name {
			return &s
		}
	}
	return nil
}
