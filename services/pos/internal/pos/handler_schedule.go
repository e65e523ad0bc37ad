package pos

import (
	"context"
	"net/http"
	"time"

	"github.com/aquamarinepk/aqm"
)

type cellRequest struct {
	Date        string `json:"date"`
	ShiftTypeID string `json:"shift_type_id"`
}

type assignmentRequest struct {
	Date        string `json:"date"`
	ShiftTypeID string `json:"shift_type_id"`
	EmployeeID  string `json:"employee_id"`
}

// GetScheduleWeek renders the week holding ?anchor=YYYY-MM-DD, or the
// current week.
func (h *Handler) GetScheduleWeek(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetScheduleWeek")
	defer finish()

	anchor := time.Now()
	if raw := r.URL.Query().Get("anchor"); raw != "" {
		parsed, err := parseDate(raw, h.schedule.loc)
		if err != nil {
			h.respondErr(w, err)
			return
		}
		anchor = parsed
	}

	aqm.RespondSuccess(w, h.schedule.Grid(anchor))
}

func (h *Handler) RefreshSchedule(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RefreshSchedule")
	defer finish()

	if err := h.schedule.Load(r.Context()); err != nil {
		h.log(r).Error("cannot load schedule", "error", err)
		h.respondErr(w, err)
		return
	}

	aqm.RespondSuccess(w, h.schedule.Grid(time.Now()))
}

func (h *Handler) GetScheduleDialog(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetScheduleDialog")
	defer finish()

	dialog, ok := h.schedule.Dialog()
	if !ok {
		aqm.RespondError(w, http.StatusNotFound, "no schedule cell open")
		return
	}

	aqm.RespondSuccess(w, dialog)
}

func (h *Handler) OpenScheduleDialog(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.OpenScheduleDialog")
	defer finish()

	var req cellRequest
	if !h.decode(w, r, h.log(r), &req) {
		return
	}

	dialog, err := h.schedule.OpenDialog(req.Date, req.ShiftTypeID)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	aqm.RespondSuccess(w, dialog)
}

func (h *Handler) CloseScheduleDialog(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CloseScheduleDialog")
	defer finish()

	h.schedule.CloseDialog()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AssignShift(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AssignShift")
	defer finish()

	var req assignmentRequest
	if !h.decode(w, r, h.log(r), &req) {
		return
	}
	if req.EmployeeID == "" {
		aqm.RespondError(w, http.StatusBadRequest, "employee_id is required")
		return
	}

	if err := h.schedule.Assign(r.Context(), req.Date, req.ShiftTypeID, req.EmployeeID); err != nil {
		h.respondErr(w, err)
		return
	}

	aqm.Respond(w, http.StatusCreated, h.schedule.AssignedStaff(req.Date, req.ShiftTypeID), nil)
}

// RemoveShift checks that a matching assignment exists and registers a
// confirmation for the delete.
func (h *Handler) RemoveShift(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RemoveShift")
	defer finish()

	var req assignmentRequest
	if !h.decode(w, r, h.log(r), &req) {
		return
	}

	if _, ok := h.schedule.findShift(req.Date, req.ShiftTypeID, req.EmployeeID); !ok {
		h.respondErr(w, ErrNoMatchingShift)
		return
	}

	confirmation := h.confirms.Request("remove shift", req.EmployeeID, func(ctx context.Context) error {
		return h.schedule.Remove(ctx, req.Date, req.ShiftTypeID, req.EmployeeID)
	})

	aqm.Respond(w, http.StatusAccepted, confirmation, nil)
}
