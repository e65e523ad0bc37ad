package pos

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ShiftTemplate is a named shift with fixed local clock times.
type ShiftTemplate struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Start string `yaml:"start" json:"start"`
	End   string `yaml:"end" json:"end"`
}

func DefaultShiftTemplates() []ShiftTemplate {
	return []ShiftTemplate{
		{ID: "morning", Name: "Ca sáng", Start: "07:00", End: "11:00"},
		{ID: "noon", Name: "Ca trưa", Start: "11:00", End: "17:00"},
		{ID: "evening", Name: "Ca tối", Start: "17:00", End: "22:00"},
	}
}

type templatesFile struct {
	Shifts []ShiftTemplate `yaml:"shifts"`
}

// LoadShiftTemplates reads templates from a YAML file with a top level
// "shifts" list.
func LoadShiftTemplates(path string) ([]ShiftTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read shift templates: %w", err)
	}
	return ParseShiftTemplates(data)
}

func ParseShiftTemplates(data []byte) ([]ShiftTemplate, error) {
	var file templatesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse shift templates: %w", err)
	}
	if len(file.Shifts) == 0 {
		return nil, fmt.Errorf("no shift templates defined")
	}

	seen := make(map[string]struct{}, len(file.Shifts))
	for _, t := range file.Shifts {
		if t.ID == "" {
			return nil, fmt.Errorf("shift template without id")
		}
		if _, ok := seen[t.ID]; ok {
			return nil, fmt.Errorf("duplicate shift template %q", t.ID)
		}
		seen[t.ID] = struct{}{}
		if _, _, err := parseClock(t.Start); err != nil {
			return nil, fmt.Errorf("shift %q start: %w", t.ID, err)
		}
		if _, _, err := parseClock(t.End); err != nil {
			return nil, fmt.Errorf("shift %q end: %w", t.ID, err)
		}
	}
	return file.Shifts, nil
}

// Interval returns the shift start and end on date (YYYY-MM-DD) in loc,
// time.Local when nil. An end not after the start rolls over to the next day.
func (t ShiftTemplate) Interval(date string, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	day, err := parseDate(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	sh, sm, err := parseClock(t.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	eh, em, err := parseClock(t.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), sh, sm, 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day(), eh, em, 0, 0, loc)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

func parseClock(value string) (int, int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, fmt.Errorf("clock %q must be HH:MM", value)
	}
	return t.Hour(), t.Minute(), nil
}

func parseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return day, nil
}
