package pos

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestShiftTemplateInterval(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)

	tests := []struct {
		name      string
		tmpl      ShiftTemplate
		date      string
		wantStart time.Time
		wantEnd   time.Time
		wantErr   bool
	}{
		{
			name:      "morning",
			tmpl:      ShiftTemplate{ID: "morning", Start: "07:00", End: "11:00"},
			date:      "2026-03-02",
			wantStart: time.Date(2026, 3, 2, 7, 0, 0, 0, loc),
			wantEnd:   time.Date(2026, 3, 2, 11, 0, 0, 0, loc),
		},
		{
			name:      "crossesMidnight",
			tmpl:      ShiftTemplate{ID: "night", Start: "22:00", End: "02:00"},
			date:      "2026-03-02",
			wantStart: time.Date(2026, 3, 2, 22, 0, 0, 0, loc),
			wantEnd:   time.Date(2026, 3, 3, 2, 0, 0, 0, loc),
		},
		{
			name:      "equalEndRollsOver",
			tmpl:      ShiftTemplate{ID: "full", Start: "06:00", End: "06:00"},
			date:      "2026-03-02",
			wantStart: time.Date(2026, 3, 2, 6, 0, 0, 0, loc),
			wantEnd:   time.Date(2026, 3, 3, 6, 0, 0, 0, loc),
		},
		{
			name:    "badDate",
			tmpl:    ShiftTemplate{ID: "morning", Start: "07:00", End: "11:00"},
			date:    "02/03/2026",
			wantErr: true,
		},
		{
			name:    "badClock",
			tmpl:    ShiftTemplate{ID: "morning", Start: "7am", End: "11:00"},
			date:    "2026-03-02",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := tt.tmpl.Interval(tt.date, loc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Interval() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", end, tt.wantEnd)
			}
		})
	}
}

func TestShiftTemplateIntervalInvalidDate(t *testing.T) {
	tmpl := DefaultShiftTemplates()[0]
	if _, _, err := tmpl.Interval("2026-13-01", time.UTC); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Interval() error = %v, want ErrInvalidDate", err)
	}
}

func TestShiftTemplateIntervalNilLocation(t *testing.T) {
	tmpl := ShiftTemplate{ID: "morning", Start: "06:00", End: "14:00"}

	start, end, err := tmpl.Interval("2026-03-02", nil)
	if err != nil {
		t.Fatalf("Interval() error = %v", err)
	}
	if start.Location() != time.Local {
		t.Errorf("location = %v, want Local", start.Location())
	}
	want := time.Date(2026, 3, 2, 6, 0, 0, 0, time.Local)
	if !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
	if end.Sub(start) != 8*time.Hour {
		t.Errorf("duration = %v, want 8h", end.Sub(start))
	}
}


func TestParseShiftTemplates(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantLen int
		wantErr bool
	}{
		{
			name:    "valid",
			data:    "shifts:\n  - id: early\n    name: Early\n    start: \"05:30\"\n    end: \"09:00\"\n  - id: late\n    name: Late\n    start: \"21:00\"\n    end: \"01:00\"\n",
			wantLen: 2,
		},
		{name: "empty", data: "shifts: []\n", wantErr: true},
		{name: "missingID", data: "shifts:\n  - name: x\n    start: \"05:00\"\n    end: \"06:00\"\n", wantErr: true},
		{name: "duplicateID", data: "shifts:\n  - id: a\n    start: \"05:00\"\n    end: \"06:00\"\n  - id: a\n    start: \"07:00\"\n    end: \"08:00\"\n", wantErr: true},
		{name: "badClock", data: "shifts:\n  - id: a\n    start: \"25:00\"\n    end: \"06:00\"\n", wantErr: true},
		{name: "notYAML", data: "shifts: [", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseShiftTemplates([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseShiftTemplates() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestLoadShiftTemplates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shifts.yaml")
	data := "shifts:\n  - id: morning\n    name: Ca sáng\n    start: \"07:00\"\n    end: \"11:00\"\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("cannot write fixture: %v", err)
	}

	got, err := LoadShiftTemplates(path)
	if err != nil {
		t.Fatalf("LoadShiftTemplates() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "Ca sáng" {
		t.Errorf("templates = %+v", got)
	}

	if _, err := LoadShiftTemplates(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadShiftTemplates() of missing file error = nil")
	}
}
