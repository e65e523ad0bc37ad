package pos

import (
	"context"
	"net/http"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/appetiteclub/cafepos/pkg/enums/paymentmethod"
)

type addItemRequest struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
}

type updateItemRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type adjustmentsRequest struct {
	Discount *decimal.Decimal `json:"discount"`
	Tax      *decimal.Decimal `json:"tax"`
}

type promoRequest struct {
	Code string `json:"code"`
}

type paymentRequest struct {
	Method string `json:"method"`
}

func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetCheckout")
	defer finish()

	aqm.RespondSuccess(w, h.checkout.Snapshot())
}

// AddItem looks the product up so the variant price is the backend's at
// the time of the add.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddItem")
	defer finish()

	log := h.log(r)

	var req addItemRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	if req.ProductID == "" {
		aqm.RespondError(w, http.StatusBadRequest, "product_id is required")
		return
	}
	if _, cached := h.menu.get(req.ProductID); !cached && h.products == nil {
		aqm.RespondError(w, http.StatusServiceUnavailable, "product backend not configured")
		return
	}

	product, err := h.menu.lookup(r.Context(), req.ProductID, h.products)
	if err != nil {
		log.Error("cannot fetch product", "product_id", req.ProductID, "error", err)
		h.respondErr(w, err)
		return
	}

	variantID := req.VariantID
	if variantID == "" && len(product.Variants) == 1 {
		variantID = product.Variants[0].ID.String()
	}
	variant, ok := product.Variant(variantID)
	if !ok {
		h.respondErr(w, ErrUnknownVariant)
		return
	}

	if err := h.checkout.AddItem(product, variant); err != nil {
		h.respondErr(w, err)
		return
	}

	aqm.RespondSuccess(w, h.checkout.Snapshot())
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateItem")
	defer finish()

	var req updateItemRequest
	if !h.decode(w, r, h.log(r), &req) {
		return
	}

	if err := h.checkout.UpdateQuantity(chi.URLParam(r, "productID"), req.VariantID, req.Quantity); err != nil {
		h.respondErr(w, err)
		return
	}

	aqm.RespondSuccess(w, h.checkout.Snapshot())
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RemoveItem")
	defer finish()

	variantID := r.URL.Query().Get("variant_id")
	if err := h.checkout.RemoveItem(chi.URLParam(r, "productID"), variantID); err != nil {
		h.respondErr(w, err)
		return
	}

	aqm.RespondSuccess(w, h.checkout.Snapshot())
}

func (h *Handler) SetAdjustments(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SetAdjustments")
	defer finish()

	var req adjustmentsRequest
	if !h.decode(w, r, h.log(r), &req) {
		return
	}

	if req.Discount != nil {
		if err := h.checkout.SetDiscount(*req.Discount); err != nil {
			h.respondErr(w, err)
			return
		}
	}
	if req.Tax != nil {
		if err := h.checkout.SetTax(*req.Tax); err != nil {
			h.respondErr(w, err)
			return
		}
	}

	aqm.RespondSuccess(w, h.checkout.Snapshot())
}

func (h *Handler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ApplyPromo")
	defer finish()

	var req promoRequest
	if !h.decode(w, r, h.log(r), &req) {
		return
	}

	if err := h.checkout.ApplyPromo(req.Code); err != nil {
		h.respondErr(w, err)
		return
	}

	aqm.RespondSuccess(w, h.checkout.Snapshot())
}

func (h *Handler) ClearPromo(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ClearPromo")
	defer finish()

	if err := h.checkout.ClearPromo(); err != nil {
		h.respondErr(w, err)
		return
	}

	aqm.RespondSuccess(w, h.checkout.Snapshot())
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateOrder")
	defer finish()

	order, err := h.checkout.CreateOrder(r.Context())
	if err != nil {
		h.log(r).Info("checkout rejected", "error", err)
		h.respondErr(w, err)
		return
	}

	aqm.Respond(w, http.StatusCreated, order, nil)
}

func (h *Handler) SelectPayment(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SelectPayment")
	defer finish()

	var req paymentRequest
	if !h.decode(w, r, h.log(r), &req) {
		return
	}

	method := paymentmethod.ByName(req.Method)
	if method == nil {
		aqm.RespondError(w, http.StatusBadRequest, "method must be cash or transfer")
		return
	}

	result, err := h.checkout.SelectPayment(r.Context(), *method)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	aqm.RespondSuccess(w, result)
}

// GetPaymentQR streams the QR image of a pending transfer.
func (h *Handler) GetPaymentQR(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetPaymentQR")
	defer finish()

	blob, ok := h.checkout.PaymentQR()
	if !ok {
		aqm.RespondError(w, http.StatusNotFound, "no transfer awaiting confirmation")
		return
	}

	contentType := blob.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(blob.Data); err != nil {
		h.log(r).Debug("cannot write payment QR", "error", err)
	}
}

func (h *Handler) ConfirmTransfer(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ConfirmTransfer")
	defer finish()

	if err := h.checkout.ConfirmTransfer(); err != nil {
		h.respondErr(w, err)
		return
	}

	aqm.RespondSuccess(w, h.checkout.Snapshot())
}

func (h *Handler) AbandonTransfer(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AbandonTransfer")
	defer finish()

	if err := h.checkout.AbandonTransfer(); err != nil {
		h.respondErr(w, err)
		return
	}

	aqm.RespondSuccess(w, h.checkout.Snapshot())
}

// AbandonOrder registers a confirmation; the order is cancelled and the
// register reset on confirm.
func (h *Handler) AbandonOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AbandonOrder")
	defer finish()

	snapshot := h.checkout.Snapshot()
	if snapshot.OrderID == "" {
		h.respondErr(w, ErrNoOrder)
		return
	}

	confirmation := h.confirms.Request("abandon order", snapshot.OrderID, func(ctx context.Context) error {
		return h.checkout.AbandonOrder(ctx)
	})

	aqm.Respond(w, http.StatusAccepted, confirmation, nil)
}

func (h *Handler) CancelCheckout(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CancelCheckout")
	defer finish()

	if err := h.checkout.Cancel(); err != nil {
		h.respondErr(w, err)
		return
	}

	aqm.RespondSuccess(w, h.checkout.Snapshot())
}
