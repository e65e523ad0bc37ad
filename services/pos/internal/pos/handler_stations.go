package pos

import (
	"net/http"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/cafepos/pkg/enums/orderstatus"
)

type transitionRequest struct {
	Status string `json:"status"`
}

type badgeResponse struct {
	HasNew bool `json:"has_new"`
}

func (h *Handler) ListStationOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListStationOrders")
	defer finish()

	view, ok := h.stationView(w, r)
	if !ok {
		return
	}

	aqm.RespondSuccess(w, view.Groups())
}

func (h *Handler) RefreshStation(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RefreshStation")
	defer finish()

	view, ok := h.stationView(w, r)
	if !ok {
		return
	}

	if err := view.Refresh(r.Context()); err != nil {
		h.respondErr(w, err)
		return
	}

	aqm.RespondSuccess(w, view.Groups())
}

// TransitionOrder moves an order. Completion and cancellation answer 202
// with a confirmation to be posted to /confirmations/{id}.
func (h *Handler) TransitionOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.TransitionOrder")
	defer finish()

	log := h.log(r)

	view, ok := h.stationView(w, r)
	if !ok {
		return
	}

	var req transitionRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	target := orderstatus.ByName(req.Status)
	if target == nil {
		aqm.RespondError(w, http.StatusBadRequest, "unknown order status")
		return
	}

	orderID := chi.URLParam(r, "id")
	confirmation, err := view.RequestTransition(r.Context(), orderID, *target)
	if err != nil {
		log.Info("order transition rejected", "order_id", orderID, "status", target.Name, "error", err)
		h.respondErr(w, err)
		return
	}

	if confirmation != nil {
		aqm.Respond(w, http.StatusAccepted, confirmation, nil)
		return
	}

	aqm.RespondSuccess(w, view.Groups())
}

func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetRecipe")
	defer finish()

	view, ok := h.stationView(w, r)
	if !ok {
		return
	}

	recipe, err := view.Recipe(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, err)
		return
	}

	aqm.RespondSuccess(w, recipe)
}

func (h *Handler) OpenNotifications(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.OpenNotifications")
	defer finish()

	notifier, ok := h.notifier(w, r)
	if !ok {
		return
	}

	items, err := notifier.Open(r.Context())
	if err != nil {
		h.log(r).Error("cannot read notifications", "error", err)
		h.respondErr(w, err)
		return
	}
	if items == nil {
		items = []Notification{}
	}

	aqm.RespondSuccess(w, items)
}

func (h *Handler) NotificationBadge(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.NotificationBadge")
	defer finish()

	notifier, ok := h.notifier(w, r)
	if !ok {
		return
	}

	aqm.RespondSuccess(w, badgeResponse{HasNew: notifier.HasNew()})
}

func (h *Handler) ClearNotifications(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ClearNotifications")
	defer finish()

	notifier, ok := h.notifier(w, r)
	if !ok {
		return
	}

	if err := notifier.Clear(r.Context()); err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) notifier(w http.ResponseWriter, r *http.Request) (*Notifier, bool) {
	view, ok := h.stationView(w, r)
	if !ok {
		return nil, false
	}
	if view.Notifier() == nil {
		aqm.RespondError(w, http.StatusNotFound, "station has no notifications")
		return nil, false
	}
	return view.Notifier(), true
}
