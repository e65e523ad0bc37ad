package pos

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/cafepos/services/pos/internal/api"
)

// DateLayout is the calendar date format of schedule cells.
const DateLayout = "2006-01-02"

// Week returns the seven days, Monday first, of the week holding anchor.
// A Sunday belongs to the week that started the Monday before it.
func Week(anchor time.Time) []time.Time {
	day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)

	days := make([]time.Time, 7)
	for i := range days {
		days[i] = monday.AddDate(0, 0, i)
	}
	return days
}

type StaffRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ScheduleCell struct {
	Date        string     `json:"date"`
	ShiftTypeID string     `json:"shift_type_id"`
	Staff       []StaffRef `json:"staff"`
}

type ScheduleDay struct {
	Date    string         `json:"date"`
	Weekday string         `json:"weekday"`
	Cells   []ScheduleCell `json:"cells"`
}

// ScheduleGrid is 7 days by one cell per shift template.
type ScheduleGrid struct {
	Templates []ShiftTemplate `json:"templates"`
	Days      []ScheduleDay   `json:"days"`
}

// ScheduleDialog is the open (date, shift type) cell being edited.
type ScheduleDialog struct {
	Date        string     `json:"date"`
	ShiftTypeID string     `json:"shift_type_id"`
	Assigned    []StaffRef `json:"assigned"`
	Available   []StaffRef `json:"available"`
}

// ScheduleController assigns staff to (date, shift type) cells. An
// assignment is a single shift record; the cell membership is derived by
// filtering all shifts.
type ScheduleController struct {
	mu        sync.Mutex
	shifts    ShiftAPI
	employees EmployeeAPI
	templates []ShiftTemplate
	loc       *time.Location
	logger    aqm.Logger
	busy      bool
	cache     []api.Shift
	staff     []api.Employee
	dialog    *ScheduleDialog
}

func NewScheduleController(shifts ShiftAPI, employees EmployeeAPI, templates []ShiftTemplate, loc *time.Location, logger aqm.Logger) *ScheduleController {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if len(templates) == 0 {
		templates = DefaultShiftTemplates()
	}
	if loc == nil {
		loc = time.Local
	}
	return &ScheduleController{
		shifts:    shifts,
		employees: employees,
		templates: templates,
		loc:       loc,
		logger:    logger,
	}
}

func (s *ScheduleController) Templates() []ShiftTemplate {
	out := make([]ShiftTemplate, len(s.templates))
	copy(out, s.templates)
	return out
}

func (s *ScheduleController) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Refresh refetches the whole shift collection.
func (s *ScheduleController) Refresh(ctx context.Context) error {
	if s.shifts == nil {
		return errors.New("shift backend not configured")
	}
	shifts, err := s.shifts.ListShifts(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache = shifts
	s.mu.Unlock()
	return nil
}

func (s *ScheduleController) LoadStaff(ctx context.Context) error {
	if s.employees == nil {
		return errors.New("employee backend not configured")
	}
	staff, err := s.employees.ListEmployees(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.staff = staff
	s.mu.Unlock()
	return nil
}

// Load fetches staff and shifts.
func (s *ScheduleController) Load(ctx context.Context) error {
	return errors.Join(s.LoadStaff(ctx), s.Refresh(ctx))
}

// AssignedStaff returns the distinct employee ids with a shift of
// shiftTypeID starting on date in the schedule time zone.
func (s *ScheduleController) AssignedStaff(date, shiftTypeID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignedLocked(date, shiftTypeID)
}

func (s *ScheduleController) assignedLocked(date, shiftTypeID string) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, shift := range s.cache {
		if !s.matches(shift, date, shiftTypeID) {
			continue
		}
		id := shift.EmployeeID.String()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func (s *ScheduleController) matches(shift api.Shift, date, shiftTypeID string) bool {
	return shift.Metadata.ShiftTypeID == shiftTypeID &&
		shift.StartTime.In(s.loc).Format(DateLayout) == date
}

// Grid builds the week holding anchor from the cached shifts.
func (s *ScheduleController) Grid(anchor time.Time) ScheduleGrid {
	s.mu.Lock()
	defer s.mu.Unlock()

	grid := ScheduleGrid{Templates: s.Templates()}
	for _, day := range Week(anchor.In(s.loc)) {
		date := day.Format(DateLayout)
		row := ScheduleDay{Date: date, Weekday: day.Weekday().String()}
		for _, t := range s.templates {
			row.Cells = append(row.Cells, ScheduleCell{
				Date:        date,
				ShiftTypeID: t.ID,
				Staff:       s.refsLocked(s.assignedLocked(date, t.ID)),
			})
		}
		grid.Days = append(grid.Days, row)
	}
	return grid
}

func (s *ScheduleController) refsLocked(ids []string) []StaffRef {
	refs := make([]StaffRef, 0, len(ids))
	for _, id := range ids {
		ref := StaffRef{ID: id, Name: id}
		for _, e := range s.staff {
			if e.ID.String() == id {
				ref.Name = e.Name
				break
			}
		}
		refs = append(refs, ref)
	}
	return refs
}

// OpenDialog opens the editor for one cell.
func (s *ScheduleController) OpenDialog(date, shiftTypeID string) (*ScheduleDialog, error) {
	if _, ok := s.template(shiftTypeID); !ok {
		return nil, ErrUnknownShiftType
	}
	if _, err := parseDate(date, s.loc); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.dialog = &ScheduleDialog{Date: date, ShiftTypeID: shiftTypeID}
	dialog := s.dialogLocked()
	s.mu.Unlock()
	return dialog, nil
}

// Dialog returns the open cell editor with fresh membership.
func (s *ScheduleController) Dialog() (*ScheduleDialog, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dialog == nil {
		return nil, false
	}
	return s.dialogLocked(), true
}

func (s *ScheduleController) CloseDialog() {
	s.mu.Lock()
	s.dialog = nil
	s.mu.Unlock()
}

func (s *ScheduleController) dialogLocked() *ScheduleDialog {
	assigned := s.assignedLocked(s.dialog.Date, s.dialog.ShiftTypeID)
	taken := make(map[string]struct{}, len(assigned))
	for _, id := range assigned {
		taken[id] = struct{}{}
	}

	out := &ScheduleDialog{
		Date:        s.dialog.Date,
		ShiftTypeID: s.dialog.ShiftTypeID,
		Assigned:    s.refsLocked(assigned),
		Available:   []StaffRef{},
	}
	for _, e := range s.staff {
		if _, ok := taken[e.ID.String()]; !ok {
			out.Available = append(out.Available, StaffRef{ID: e.ID.String(), Name: e.Name})
		}
	}
	return out
}

// Assign creates one shift for employeeID in the cell, refetches and closes
// the dialog.
func (s *ScheduleController) Assign(ctx context.Context, date, shiftTypeID, employeeID string) error {
	if s.shifts == nil {
		return errors.New("shift backend not configured")
	}
	tmpl, ok := s.template(shiftTypeID)
	if !ok {
		return ErrUnknownShiftType
	}
	start, end, err := tmpl.Interval(date, s.loc)
	if err != nil {
		return err
	}

	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	req := api.CreateShiftRequest{
		EmployeeID: api.FlexibleID(employeeID),
		StartTime:  start,
		EndTime:    end,
		Metadata:   api.ShiftMetadata{ShiftTypeID: shiftTypeID},
	}
	if _, err := s.shifts.CreateShift(ctx, req); err != nil {
		s.logger.Error("cannot assign shift", "employee_id", employeeID, "date", date, "shift_type", shiftTypeID, "error", err)
		return err
	}

	s.logger.Info("shift assigned", "employee_id", employeeID, "date", date, "shift_type", shiftTypeID)
	if err := s.Refresh(ctx); err != nil {
		s.logger.Error("refetch after assign failed", "error", err)
	}
	s.CloseDialog()
	return nil
}

// Remove deletes the shift matching (employee, date, shift type) and
// refetches. No backend call is made when nothing matches.
func (s *ScheduleController) Remove(ctx context.Context, date, shiftTypeID, employeeID string) error {
	if s.shifts == nil {
		return errors.New("shift backend not configured")
	}

	shiftID, ok := s.findShift(date, shiftTypeID, employeeID)
	if !ok {
		return ErrNoMatchingShift
	}

	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	if err := s.shifts.DeleteShift(ctx, shiftID); err != nil {
		s.logger.Error("cannot remove shift", "shift_id", shiftID, "error", err)
		return err
	}

	s.logger.Info("shift removed", "shift_id", shiftID, "employee_id", employeeID, "date", date, "shift_type", shiftTypeID)
	if err := s.Refresh(ctx); err != nil {
		s.logger.Error("refetch after remove failed", "error", err)
	}
	return nil
}

func (s *ScheduleController) findShift(date, shiftTypeID, employeeID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, shift := range s.cache {
		if shift.EmployeeID.String() == employeeID && s.matches(shift, date, shiftTypeID) {
			return shift.ID.String(), true
		}
	}
	return "", false
}

func (s *ScheduleController) template(id string) (ShiftTemplate, bool) {
	for _, t := range s.templates {
		if t.ID == id {
			return t, true
		}
	}
	return ShiftTemplate{}, false
}

func (s *ScheduleController) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	return nil
}

func (s *ScheduleController) end() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}
