package station

import "testing"

func TestByName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Station
	}{
		{name: "exact", input: "waiter", want: &Stations.Waiter},
		{name: "mixedCase", input: " Bartender ", want: &Stations.Bartender},
		{name: "unknown", input: "kitchen", want: nil},
		{name: "empty", input: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ByName(tt.input)
			if tt.want == nil {
				if got != nil {
					t.Errorf("ByName(%q) = %v, want nil", tt.input, *got)
				}
				return
			}
			if got == nil || *got != *tt.want {
				t.Errorf("ByName(%q) = %v, want %v", tt.input, got, *tt.want)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	if got := Stations.Cashier.Label(); got != "Cashier" {
		t.Errorf("Label() = %q, want Cashier", got)
	}
	if got := (Station{}).Label(); got != "" {
		t.Errorf("empty Label() = %q, want empty", got)
	}
}
