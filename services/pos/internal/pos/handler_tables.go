package pos

import (
	"context"
	"net/http"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/cafepos/pkg/enums/tablestatus"
)

type tableStatusRequest struct {
	Status string `json:"status"`
}

type selectionResponse struct {
	TableID string          `json:"table_id"`
	Modal   *SelectionModal `json:"modal,omitempty"`
}

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTables")
	defer finish()

	aqm.RespondSuccess(w, h.tables.Filter(r.URL.Query().Get("area")))
}

func (h *Handler) ListSelectableTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListSelectableTables")
	defer finish()

	aqm.RespondSuccess(w, h.tables.Selectable())
}

func (h *Handler) ListAreas(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListAreas")
	defer finish()

	aqm.RespondSuccess(w, h.tables.Areas())
}

func (h *Handler) RefreshTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RefreshTables")
	defer finish()

	if err := h.tables.Sync(r.Context()); err != nil {
		h.respondErr(w, err)
		return
	}

	aqm.RespondSuccess(w, h.tables.Filter(AllAreaID))
}

func (h *Handler) PressTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PressTable")
	defer finish()

	modal, err := h.tables.Press(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, err)
		return
	}

	aqm.RespondSuccess(w, modal)
}

func (h *Handler) GetSelection(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetSelection")
	defer finish()

	resp := selectionResponse{}
	resp.TableID, _ = h.tables.Selected()
	if modal, ok := h.tables.Modal(); ok {
		resp.Modal = modal
	}

	aqm.RespondSuccess(w, resp)
}

func (h *Handler) ConfirmSelection(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ConfirmSelection")
	defer finish()

	tableID, err := h.tables.ConfirmSelection()
	if err != nil {
		h.respondErr(w, err)
		return
	}

	aqm.RespondSuccess(w, selectionResponse{TableID: tableID})
}

func (h *Handler) CancelSelection(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CancelSelection")
	defer finish()

	h.tables.CancelSelection()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UpdateTableStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateTableStatus")
	defer finish()

	log := h.log(r)

	var req tableStatusRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	status := tablestatus.ByName(req.Status)
	if status == nil {
		aqm.RespondError(w, http.StatusBadRequest, "unknown table status")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.tables.UpdateStatus(r.Context(), id, *status); err != nil {
		h.respondErr(w, err)
		return
	}

	table, _ := h.tables.Table(id)
	aqm.RespondSuccess(w, table)
}

// DeleteTable only registers a confirmation; the delete runs on confirm.
func (h *Handler) DeleteTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteTable")
	defer finish()

	id := chi.URLParam(r, "id")
	if _, ok := h.tables.Table(id); !ok {
		h.respondErr(w, ErrTableNotFound)
		return
	}

	confirmation := h.confirms.Request("delete table", id, func(ctx context.Context) error {
		return h.tables.DeleteTable(ctx, id)
	})

	aqm.Respond(w, http.StatusAccepted, confirmation, nil)
}
