package tablestatus

import (
	"errors"
	"reflect"
	"testing"
)

func TestAllCoversEnum(t *testing.T) {
	if got, want := len(All), reflect.TypeOf(Statuses).NumField(); got != want {
		t.Fatalf("All has %d statuses, Enum declares %d", got, want)
	}

	for _, s := range All {
		got, err := FromWire(s.Value)
		if err != nil || got != s {
			t.Errorf("FromWire(%d) = %v, %v; want %v", s.Value, got, err, s)
		}
	}
}

func TestFromWireUnknown(t *testing.T) {
	if _, err := FromWire(9); !errors.Is(err, ErrUnknownCode) {
		t.Errorf("FromWire(9) error = %v, want ErrUnknownCode", err)
	}
}

func TestSelectable(t *testing.T) {
	for _, s := range All {
		want := s != Statuses.Occupied
		if got := s.Selectable(); got != want {
			t.Errorf("%s.Selectable() = %v, want %v", s.Name, got, want)
		}
	}
}

func TestByName(t *testing.T) {
	if s := ByName(" Cleaning "); s == nil || *s != Statuses.Cleaning {
		t.Errorf("ByName(Cleaning) = %v", s)
	}
	if s := ByName("gone"); s != nil {
		t.Errorf("ByName(gone) = %v, want nil", s)
	}
}
