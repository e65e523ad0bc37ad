package pos

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/appetiteclub/cafepos/pkg/enums/station"
	"github.com/appetiteclub/cafepos/pkg/enums/tablestatus"
	"github.com/appetiteclub/cafepos/services/pos/internal/api"
)

const MaxBodyBytes = 1 << 20

// Handler exposes the station state machines to the terminal front-end.
type Handler struct {
	logger   aqm.Logger
	tlm      *telemetry.HTTP
	limit    func(http.Handler) http.Handler
	auth     Authenticator
	products ProductAPI
	catalog  CatalogAPI
	files    FileAPI
	checkout *OrderController
	tables   *TableController
	stations map[string]*StationView
	schedule *ScheduleController
	confirms *Confirmations
	menu     *menuCache
}

type HandlerDeps struct {
	Auth          Authenticator
	Products      ProductAPI
	Catalog       CatalogAPI
	Files         FileAPI
	Checkout      *OrderController
	Tables        *TableController
	Stations      []*StationView
	Schedule      *ScheduleController
	Confirmations *Confirmations
	Rate          string
}

func NewHandler(deps HandlerDeps, logger aqm.Logger) (*Handler, error) {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}

	formatted := deps.Rate
	if formatted == "" {
		formatted = DefaultRate
	}
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid http rate %q: %w", formatted, err)
	}

	confirms := deps.Confirmations
	if confirms == nil {
		confirms = NewConfirmations(DefaultConfirmationTTL)
	}

	stations := make(map[string]*StationView, len(deps.Stations))
	for _, v := range deps.Stations {
		stations[v.Station().Name] = v
	}

	return &Handler{
		logger:   logger,
		tlm:      telemetry.NewHTTP(),
		limit:    stdlib.NewMiddleware(limiter.New(memory.NewStore(), rate)).Handler,
		auth:     deps.Auth,
		products: deps.Products,
		catalog:  deps.Catalog,
		files:    deps.Files,
		checkout: deps.Checkout,
		tables:   deps.Tables,
		stations: stations,
		schedule: deps.Schedule,
		confirms: confirms,
		menu:     newMenuCache(),
	}, nil
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.limit)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/sign-in", h.SignIn)
			r.Post("/sign-out", h.SignOut)
		})

		r.Route("/pos", func(r chi.Router) {
			r.Get("/", h.GetCheckout)
			r.Post("/items", h.AddItem)
			r.Put("/items/{productID}", h.UpdateItem)
			r.Delete("/items/{productID}", h.RemoveItem)
			r.Put("/adjustments", h.SetAdjustments)
			r.Post("/promo", h.ApplyPromo)
			r.Delete("/promo", h.ClearPromo)
			r.Post("/checkout", h.CreateOrder)
			r.Post("/payment", h.SelectPayment)
			r.Get("/payment/qr", h.GetPaymentQR)
			r.Delete("/payment", h.AbandonTransfer)
			r.Post("/payment/confirm", h.ConfirmTransfer)
			r.Post("/abandon", h.AbandonOrder)
			r.Post("/cancel", h.CancelCheckout)
		})

		r.Route("/tables", func(r chi.Router) {
			r.Get("/", h.ListTables)
			r.Get("/selectable", h.ListSelectableTables)
			r.Post("/refresh", h.RefreshTables)
			r.Get("/selection", h.GetSelection)
			r.Post("/selection/confirm", h.ConfirmSelection)
			r.Delete("/selection", h.CancelSelection)
			r.Post("/{id}/press", h.PressTable)
			r.Put("/{id}/status", h.UpdateTableStatus)
			r.Delete("/{id}", h.DeleteTable)
		})

		r.Get("/areas", h.ListAreas)

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", h.ListProducts)
			r.Get("/categories", h.ListCategories)
			r.Get("/discounts/{code}", h.GetDiscount)
			r.Get("/coupons", h.ListCoupons)
		})

		r.Post("/files", h.UploadFile)

		r.Route("/stations/{station}", func(r chi.Router) {
			r.Get("/orders", h.ListStationOrders)
			r.Post("/refresh", h.RefreshStation)
			r.Post("/orders/{id}/status", h.TransitionOrder)
			r.Get("/products/{id}/recipe", h.GetRecipe)
			r.Get("/notifications", h.OpenNotifications)
			r.Get("/notifications/badge", h.NotificationBadge)
			r.Delete("/notifications", h.ClearNotifications)
		})

		r.Route("/schedule", func(r chi.Router) {
			r.Get("/", h.GetScheduleWeek)
			r.Post("/refresh", h.RefreshSchedule)
			r.Get("/dialog", h.GetScheduleDialog)
			r.Post("/dialog", h.OpenScheduleDialog)
			r.Delete("/dialog", h.CloseScheduleDialog)
			r.Post("/assignments", h.AssignShift)
			r.Post("/assignments/remove", h.RemoveShift)
		})

		r.Route("/confirmations/{id}", func(r chi.Router) {
			r.Post("/", h.Confirm)
			r.Delete("/", h.Dismiss)
		})
	})
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SignIn")
	defer finish()

	log := h.log(r)

	var req signInRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	if h.auth == nil {
		aqm.RespondError(w, http.StatusServiceUnavailable, "auth not configured")
		return
	}

	if _, err := h.auth.SignIn(r.Context(), req.Email, req.Password); err != nil {
		log.Info("sign-in failed", "email", req.Email, "error", err)
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SignOut")
	defer finish()

	if h.auth == nil {
		aqm.RespondError(w, http.StatusServiceUnavailable, "auth not configured")
		return
	}
	if err := h.auth.SignOut(r.Context()); err != nil {
		h.log(r).Error("sign-out failed", "error", err)
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Confirm")
	defer finish()

	log := h.log(r)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		aqm.RespondError(w, http.StatusBadRequest, "invalid confirmation id")
		return
	}

	if err := h.confirms.Confirm(r.Context(), id); err != nil {
		log.Info("confirmed action failed", "confirmation_id", id.String(), "error", err)
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Dismiss(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Dismiss")
	defer finish()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		aqm.RespondError(w, http.StatusBadRequest, "invalid confirmation id")
		return
	}

	if !h.confirms.Dismiss(id) {
		aqm.RespondError(w, http.StatusNotFound, ErrConfirmationNotFound.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// stationView resolves the {station} URL param.
func (h *Handler) stationView(w http.ResponseWriter, r *http.Request) (*StationView, bool) {
	name := chi.URLParam(r, "station")
	st := station.ByName(name)
	if st == nil {
		aqm.RespondError(w, http.StatusNotFound, "unknown station")
		return nil, false
	}
	view, ok := h.stations[st.Name]
	if !ok {
		aqm.RespondError(w, http.StatusNotFound, "station not enabled")
		return nil, false
	}
	return view, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, log aqm.Logger, dest interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		log.Debug("invalid request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	aqm.RespondError(w, statusFor(err), err.Error())
}

// statusFor maps local precondition errors to 4xx and backend failures to
// 502, except 401 which is passed through so the front-end can sign in.
func statusFor(err error) int {
	switch {
	case errors.Is(err, api.ErrUnauthorized), errors.Is(err, api.ErrNotSignedIn):
		return http.StatusUnauthorized
	case errors.Is(err, ErrTableNotFound), errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrConfirmationNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConfirmationExpired):
		return http.StatusGone
	case errors.Is(err, ErrBusy), errors.Is(err, ErrTableOccupied),
		errors.Is(err, ErrOrderPending), errors.Is(err, ErrCartLocked),
		errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrNoPendingSelection),
		errors.Is(err, ErrNoOrder):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrNoTableSelected),
		errors.Is(err, ErrUnknownPromo), errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrUnknownVariant), errors.Is(err, ErrUnknownShiftType),
		errors.Is(err, ErrInvalidDate), errors.Is(err, ErrNoMatchingShift):
		return http.StatusUnprocessableEntity
	}

	if errors.Is(err, tablestatus.ErrUnknownCode) {
		return http.StatusBadGateway
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if apiErr.Kind == api.KindNetwork {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", aqm.RequestIDFrom(r.Context()))
}
