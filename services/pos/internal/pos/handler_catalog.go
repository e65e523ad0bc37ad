package pos

import (
	"net/http"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 10 << 20

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListProducts")
	defer finish()

	if h.catalog == nil {
		aqm.RespondError(w, http.StatusServiceUnavailable, "catalog backend not configured")
		return
	}

	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.log(r).Error("cannot list products", "error", err)
		h.respondErr(w, err)
		return
	}
	h.menu.replace(products)
	aqm.RespondSuccess(w, products)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListCategories")
	defer finish()

	if h.catalog == nil {
		aqm.RespondError(w, http.StatusServiceUnavailable, "catalog backend not configured")
		return
	}

	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.log(r).Error("cannot list categories", "error", err)
		h.respondErr(w, err)
		return
	}
	aqm.RespondSuccess(w, categories)
}

func (h *Handler) GetDiscount(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetDiscount")
	defer finish()

	if h.catalog == nil {
		aqm.RespondError(w, http.StatusServiceUnavailable, "catalog backend not configured")
		return
	}

	code := chi.URLParam(r, "code")
	discount, err := h.catalog.GetDiscount(r.Context(), code)
	if err != nil {
		h.log(r).Error("cannot fetch discount", "code", code, "error", err)
		h.respondErr(w, err)
		return
	}
	aqm.RespondSuccess(w, discount)
}

func (h *Handler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListCoupons")
	defer finish()

	if h.catalog == nil {
		aqm.RespondError(w, http.StatusServiceUnavailable, "catalog backend not configured")
		return
	}

	coupons, err := h.catalog.ListCoupons(r.Context())
	if err != nil {
		h.log(r).Error("cannot list coupons", "error", err)
		h.respondErr(w, err)
		return
	}
	aqm.RespondSuccess(w, coupons)
}

// UploadFile forwards a multipart "file" field to the backend upload
// endpoint and returns the stored file reference.
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UploadFile")
	defer finish()

	log := h.log(r)

	if h.files == nil {
		aqm.RespondError(w, http.StatusServiceUnavailable, "file backend not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		log.Debug("invalid upload", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	uploaded, err := h.files.Upload(r.Context(), header.Filename, file)
	if err != nil {
		log.Error("cannot upload file", "filename", header.Filename, "error", err)
		h.respondErr(w, err)
		return
	}

	aqm.Respond(w, http.StatusCreated, uploaded, nil)
}
