package pos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/cafepos/services/pos/internal/api"
)

var ict = time.FixedZone("ICT", 7*3600)

func shiftOn(id, employeeID, shiftType string, start time.Time) api.Shift {
	return api.Shift{
		ID:         api.FlexibleID(id),
		EmployeeID: api.FlexibleID(employeeID),
		StartTime:  start,
		EndTime:    start.Add(4 * time.Hour),
		Metadata:   api.ShiftMetadata{ShiftTypeID: shiftType},
	}
}

func newScheduleFixture(t *testing.T, shifts ...api.Shift) (*ScheduleController, *MockShiftAPI) {
	t.Helper()
	mock := NewMockShiftAPI()
	mock.shifts = shifts
	mock.employees = []api.Employee{{ID: "1", Name: "An"}, {ID: "2", Name: "Bình"}, {ID: "3", Name: "Chi"}}

	s := NewScheduleController(mock, mock, nil, ict, aqm.NewNoopLogger())
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return s, mock
}

func TestWeek(t *testing.T) {
	tests := []struct {
		name       string
		anchor     time.Time
		wantMonday string
	}{
		{name: "monday", anchor: time.Date(2026, 3, 2, 10, 0, 0, 0, ict), wantMonday: "2026-03-02"},
		{name: "wednesday", anchor: time.Date(2026, 3, 4, 10, 0, 0, 0, ict), wantMonday: "2026-03-02"},
		{name: "sundayBelongsToPreviousMonday", anchor: time.Date(2026, 3, 8, 23, 0, 0, 0, ict), wantMonday: "2026-03-02"},
		{name: "acrossMonth", anchor: time.Date(2026, 3, 1, 9, 0, 0, 0, ict), wantMonday: "2026-02-23"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := Week(tt.anchor)
			if len(days) != 7 {
				t.Fatalf("len(Week()) = %d, want 7", len(days))
			}
			if got := days[0].Format(DateLayout); got != tt.wantMonday {
				t.Errorf("first day = %s, want %s", got, tt.wantMonday)
			}
			if days[0].Weekday() != time.Monday || days[6].Weekday() != time.Sunday {
				t.Errorf("week runs %s..%s", days[0].Weekday(), days[6].Weekday())
			}
		})
	}
}

func TestAssignedStaff(t *testing.T) {
	s, _ := newScheduleFixture(t,
		shiftOn("10", "1", "morning", time.Date(2026, 3, 2, 7, 0, 0, 0, ict)),
		shiftOn("11", "1", "morning", time.Date(2026, 3, 2, 7, 0, 0, 0, ict)),
		shiftOn("12", "2", "morning", time.Date(2026, 3, 2, 7, 0, 0, 0, ict)),
		shiftOn("13", "3", "noon", time.Date(2026, 3, 2, 11, 0, 0, 0, ict)),
		shiftOn("14", "3", "morning", time.Date(2026, 3, 3, 7, 0, 0, 0, ict)),
		// 00:30 UTC on the 2nd is 07:30 local on the 2nd.
		shiftOn("15", "3", "morning", time.Date(2026, 3, 2, 0, 30, 0, 0, time.UTC)),
	)

	got := s.AssignedStaff("2026-03-02", "morning")
	want := []string{"1", "2", "3"}
	if len(got) != len(want) {
		t.Fatalf("AssignedStaff() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AssignedStaff()[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	if got := s.AssignedStaff("2026-03-02", "evening"); len(got) != 0 {
		t.Errorf("AssignedStaff(evening) = %v, want none", got)
	}
}

func TestScheduleAssignRoundTrip(t *testing.T) {
	s, mock := newScheduleFixture(t)
	ctx := context.Background()

	if _, err := s.OpenDialog("2026-03-02", "evening"); err != nil {
		t.Fatalf("OpenDialog() error = %v", err)
	}
	if err := s.Assign(ctx, "2026-03-02", "evening", "2"); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	if got := s.AssignedStaff("2026-03-02", "evening"); len(got) != 1 || got[0] != "2" {
		t.Fatalf("AssignedStaff() = %v, want [2]", got)
	}
	if _, ok := s.Dialog(); ok {
		t.Error("dialog still open after assign")
	}

	req := mock.created[0]
	wantStart := time.Date(2026, 3, 2, 17, 0, 0, 0, ict)
	wantEnd := time.Date(2026, 3, 2, 22, 0, 0, 0, ict)
	if !req.StartTime.Equal(wantStart) || !req.EndTime.Equal(wantEnd) {
		t.Errorf("interval = %v..%v, want %v..%v", req.StartTime, req.EndTime, wantStart, wantEnd)
	}
	if req.Metadata.ShiftTypeID != "evening" {
		t.Errorf("ShiftTypeID = %s, want evening", req.Metadata.ShiftTypeID)
	}

	if err := s.Remove(ctx, "2026-03-02", "evening", "2"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if got := s.AssignedStaff("2026-03-02", "evening"); len(got) != 0 {
		t.Errorf("AssignedStaff() after remove = %v", got)
	}
}

func TestScheduleAssignMidnightTemplate(t *testing.T) {
	mock := NewMockShiftAPI()
	templates := []ShiftTemplate{{ID: "night", Name: "Night", Start: "22:00", End: "02:00"}}
	s := NewScheduleController(mock, mock, templates, ict, aqm.NewNoopLogger())

	if err := s.Assign(context.Background(), "2026-03-02", "night", "1"); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	req := mock.created[0]
	if !req.EndTime.After(req.StartTime) {
		t.Errorf("end %v not after start %v", req.EndTime, req.StartTime)
	}
	if got := s.AssignedStaff("2026-03-02", "night"); len(got) != 1 {
		t.Errorf("AssignedStaff() = %v, want the night shift on its start date", got)
	}
}

func TestScheduleAssignErrors(t *testing.T) {
	s, mock := newScheduleFixture(t)
	ctx := context.Background()

	if err := s.Assign(ctx, "2026-03-02", "brunch", "1"); !errors.Is(err, ErrUnknownShiftType) {
		t.Errorf("Assign(unknown type) error = %v, want ErrUnknownShiftType", err)
	}
	if err := s.Assign(ctx, "not-a-date", "morning", "1"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Assign(bad date) error = %v, want ErrInvalidDate", err)
	}
	if len(mock.created) != 0 {
		t.Errorf("backend called %d times", len(mock.created))
	}
}

func TestScheduleRemoveNoMatch(t *testing.T) {
	s, mock := newScheduleFixture(t,
		shiftOn("10", "1", "morning", time.Date(2026, 3, 2, 7, 0, 0, 0, ict)),
	)

	tests := []struct {
		name       string
		date       string
		shiftType  string
		employeeID string
	}{
		{name: "otherEmployee", date: "2026-03-02", shiftType: "morning", employeeID: "2"},
		{name: "otherDate", date: "2026-03-03", shiftType: "morning", employeeID: "1"},
		{name: "otherShiftType", date: "2026-03-02", shiftType: "noon", employeeID: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Remove(context.Background(), tt.date, tt.shiftType, tt.employeeID)
			if !errors.Is(err, ErrNoMatchingShift) {
				t.Errorf("Remove() error = %v, want ErrNoMatchingShift", err)
			}
			if len(mock.Deleted()) != 0 {
				t.Error("backend delete called without a match")
			}
		})
	}
}

func TestScheduleBusy(t *testing.T) {
	s, mock := newScheduleFixture(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	mock.CreateShiftFunc = func(ctx context.Context, req api.CreateShiftRequest) (*api.Shift, error) {
		close(entered)
		<-release
		return &api.Shift{ID: "1"}, nil
	}

	done := make(chan error, 1)
	go func() {
		done <- s.Assign(context.Background(), "2026-03-02", "morning", "1")
	}()

	<-entered
	if !s.Busy() {
		t.Error("Busy() = false during assign")
	}
	if err := s.Assign(context.Background(), "2026-03-02", "noon", "2"); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent Assign() error = %v, want ErrBusy", err)
	}
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if s.Busy() {
		t.Error("Busy() = true after assign")
	}
}

func TestScheduleGrid(t *testing.T) {
	s, _ := newScheduleFixture(t,
		shiftOn("10", "1", "morning", time.Date(2026, 3, 4, 7, 0, 0, 0, ict)),
	)

	grid := s.Grid(time.Date(2026, 3, 4, 12, 0, 0, 0, ict))
	if len(grid.Days) != 7 {
		t.Fatalf("len(Days) = %d, want 7", len(grid.Days))
	}
	if len(grid.Templates) != 3 {
		t.Errorf("len(Templates) = %d, want 3", len(grid.Templates))
	}

	wednesday := grid.Days[2]
	if wednesday.Date != "2026-03-04" {
		t.Fatalf("Days[2] = %s, want 2026-03-04", wednesday.Date)
	}
	morning := wednesday.Cells[0]
	if len(morning.Staff) != 1 || morning.Staff[0].Name != "An" {
		t.Errorf("morning cell = %+v", morning)
	}
}

func TestScheduleDialog(t *testing.T) {
	s, _ := newScheduleFixture(t,
		shiftOn("10", "1", "morning", time.Date(2026, 3, 2, 7, 0, 0, 0, ict)),
	)

	if _, err := s.OpenDialog("2026-03-02", "lunch"); !errors.Is(err, ErrUnknownShiftType) {
		t.Errorf("OpenDialog(unknown) error = %v", err)
	}

	dialog, err := s.OpenDialog("2026-03-02", "morning")
	if err != nil {
		t.Fatalf("OpenDialog() error = %v", err)
	}
	if len(dialog.Assigned) != 1 || dialog.Assigned[0].ID != "1" {
		t.Errorf("Assigned = %+v", dialog.Assigned)
	}
	if len(dialog.Available) != 2 {
		t.Errorf("Available = %+v, want 2 employees", dialog.Available)
	}

	s.CloseDialog()
	if _, ok := s.Dialog(); ok {
		t.Error("Dialog() after close = open")
	}
}
