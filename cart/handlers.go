package cart

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"heritage/appstate"
	"heritage/catalog"
	"heritage/checkout"
	"heritage/filemgr"
	"heritage/modal"
	"heritage/models"
	"heritage/sessions"
	"heritage/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
)

const msgSelectOptions = "Please select size and color"

// Handler serves the visitor's session: cart, wishlist, filters, search,
// notification, modal and checkout. Every route runs behind the visitor
// session middleware.
type Handler struct {
	sessions *sessions.Manager
	catalog  catalog.Source
	checkout *checkout.Service
	timeout  time.Duration
	log      zerolog.Logger
}

func NewHandler(sm *sessions.Manager, src catalog.Source, co *checkout.Service, timeout time.Duration, log zerolog.Logger) *Handler {
	return &Handler{sessions: sm, catalog: src, checkout: co, timeout: timeout, log: log}
}

// StateView is the session state plus the figures the header, cart page
// and checkout summary display.
type StateView struct {
	appstate.State
	CartCount            int        `json:"cartCount"`
	WishlistCount        int        `json:"wishlistCount"`
	Subtotal             int64      `json:"subtotal"`
	Shipping             int64      `json:"shipping"`
	Total                int64      `json:"total"`
	AmountToFreeShipping int64      `json:"amountToFreeShipping"`
	Modal                modal.Kind `json:"modal"`
	ModalTitle           string     `json:"modalTitle,omitempty"`
}

func NewStateView(st appstate.State, active modal.Kind) StateView {
	t := checkout.ComputeTotals(st.Cart)
	return StateView{
		State:                st,
		CartCount:            st.CartCount(),
		WishlistCount:        st.WishlistCount(),
		Subtotal:             t.Subtotal,
		Shipping:             t.Shipping,
		Total:                t.Total,
		AmountToFreeShipping: checkout.AmountToFreeShipping(t.Subtotal),
		Modal:                active,
		ModalTitle:           active.Title(),
	}
}

func session(w http.ResponseWriter, r *http.Request) (*sessions.Session, bool) {
	s, ok := sessions.FromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusInternalServerError, "Session unavailable")
	}
	return s, ok
}

func (h *Handler) respond(w http.ResponseWriter, status int, s *sessions.Session, st appstate.State) {
	utils.RespondWithJSON(w, status, NewStateView(st, s.Modal.Active()))
}

// State handles GET /api/session/state.
func (h *Handler) State(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusOK, s, s.Store.State())
}

type addRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// AddToCart handles POST /api/cart. The line is built from the catalog
// entry, so names and prices never come from the client.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	var req addRequest
	if err := utils.DecodeJSON(r, &req); err != nil || req.ProductID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Size == "" || req.Color == "" {
		h.sessions.Dispatch(r.Context(), s, appstate.ShowNotification{Message: msgSelectOptions, Severity: appstate.SeverityError})
		utils.RespondWithError(w, http.StatusBadRequest, msgSelectOptions)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	p, err := h.catalog.Product(ctx, req.ProductID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			h.log.Error().Err(err).Str("product_id", req.ProductID).Msg("load product for cart")
		}
		utils.RespondWithBackendError(w, err, "Failed to load product")
		return
	}

	line, err := models.NewCartLine(p, req.Quantity, req.Size, req.Color)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	st := h.sessions.Dispatch(r.Context(), s, appstate.AddToCart{Line: line})
	h.respond(w, http.StatusOK, s, st)
}

func lineKey(r *http.Request, ps httprouter.Params) models.LineKey {
	q := r.URL.Query()
	return models.LineKey{ProductID: ps.ByName("productId"), Size: q.Get("size"), Color: q.Get("color")}
}

// UpdateQuantity handles PUT /api/cart/:productId?size=&color=. A
// quantity below one removes the line.
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	var body struct {
		Quantity *int `json:"quantity"`
	}
	if err := utils.DecodeJSON(r, &body); err != nil || body.Quantity == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	key := lineKey(r, ps)
	var act appstate.Action = appstate.UpdateQuantity{Key: key, Quantity: *body.Quantity}
	if *body.Quantity < 1 {
		act = appstate.RemoveFromCart{Key: key}
	}
	h.respond(w, http.StatusOK, s, h.sessions.Dispatch(r.Context(), s, act))
}

// RemoveFromCart handles DELETE /api/cart/:productId?size=&color=.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	st := h.sessions.Dispatch(r.Context(), s, appstate.RemoveFromCart{Key: lineKey(r, ps)})
	h.respond(w, http.StatusOK, s, st)
}

// ToggleWishlist handles POST /api/wishlist/:productId.
func (h *Handler) ToggleWishlist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	st := h.sessions.Dispatch(r.Context(), s, appstate.ToggleWishlist{ProductID: ps.ByName("productId")})
	h.respond(w, http.StatusOK, s, st)
}

// PatchFilters handles PATCH /api/filters. Absent fields keep their value.
func (h *Handler) PatchFilters(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	var patch appstate.FilterPatch
	if err := utils.DecodeJSON(r, &patch); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	st := h.sessions.Dispatch(r.Context(), s, appstate.SetFilters{Patch: patch})
	h.respond(w, http.StatusOK, s, st)
}

// SetSearch handles PUT /api/search.
func (h *Handler) SetSearch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	var body struct {
		Query string `json:"query"`
	}
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	st := h.sessions.Dispatch(r.Context(), s, appstate.SetSearchQuery{Query: body.Query})
	h.respond(w, http.StatusOK, s, st)
}

// ShowNotification handles POST /api/notification.
func (h *Handler) ShowNotification(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	var body struct {
		Message string                       `json:"message"`
		Type    appstate.Severity            `json:"type"`
		Action  *appstate.NotificationAction `json:"action"`
	}
	if err := utils.DecodeJSON(r, &body); err != nil || strings.TrimSpace(body.Message) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	switch body.Type {
	case "":
		body.Type = appstate.SeverityInfo
	case appstate.SeveritySuccess, appstate.SeverityError, appstate.SeverityInfo:
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown notification type")
		return
	}
	st := h.sessions.Dispatch(r.Context(), s, appstate.ShowNotification{Message: body.Message, Severity: body.Type, Action: body.Action})
	h.respond(w, http.StatusOK, s, st)
}

// HideNotification handles DELETE /api/notification.
func (h *Handler) HideNotification(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusOK, s, h.sessions.Dispatch(r.Context(), s, appstate.HideNotification{}))
}

// OpenModal handles PUT /api/modal.
func (h *Handler) OpenModal(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	var body struct {
		Modal modal.Kind `json:"modal"`
	}
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := s.Modal.Open(body.Modal); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown modal")
		return
	}
	h.respond(w, http.StatusOK, s, s.Store.State())
}

// CloseModal handles DELETE /api/modal.
func (h *Handler) CloseModal(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	s.Modal.Close()
	h.respond(w, http.StatusOK, s, s.Store.State())
}

const maxCheckoutBody = 8 << 20

// Checkout handles POST /api/checkout. Cash on delivery may post JSON;
// bank transfer posts multipart with a paymentScreenshot file.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	form, proof, verr := readCheckout(w, r)
	if verr != nil {
		respondValidation(w, verr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res, err := h.checkout.Submit(ctx, s.Store, form, proof)
	var validation *checkout.ValidationError
	var submit *checkout.SubmitError
	switch {
	case errors.As(err, &validation):
		respondValidation(w, validation)
		return
	case errors.As(err, &submit):
		utils.RespondWithError(w, utils.BackendStatus(submit.Err), submit.Message)
		return
	case errors.Is(err, checkout.ErrInProgress):
		utils.RespondWithError(w, http.StatusConflict, "Your order is already being placed")
		return
	case err != nil:
		h.log.Error().Err(err).Msg("checkout")
		utils.RespondWithError(w, http.StatusInternalServerError, checkout.FallbackError)
		return
	}

	h.sessions.Save(r.Context(), s)
	utils.RespondWithJSON(w, http.StatusCreated, res)
}

func respondValidation(w http.ResponseWriter, v *checkout.ValidationError) {
	utils.RespondWithJSON(w, http.StatusBadRequest, map[string]string{"error": v.Message, "field": v.Field})
}

func readCheckout(w http.ResponseWriter, r *http.Request) (checkout.Form, *models.Attachment, *checkout.ValidationError) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCheckoutBody)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var form checkout.Form
		if err := utils.DecodeJSON(r, &form); err != nil {
			return form, nil, &checkout.ValidationError{Field: "form", Message: "Invalid input"}
		}
		return form, nil, nil
	}

	if err := r.ParseMultipartForm(maxCheckoutBody); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return checkout.Form{}, nil, checkout.ProofError(filemgr.ErrFileTooLarge)
		}
		return checkout.Form{}, nil, &checkout.ValidationError{Field: "form", Message: "Invalid form data"}
	}
	defer r.MultipartForm.RemoveAll()

	form := checkout.Form{
		Name:          r.FormValue("name"),
		Email:         r.FormValue("email"),
		Phone:         r.FormValue("phone"),
		Address:       r.FormValue("address"),
		City:          r.FormValue("city"),
		PostalCode:    r.FormValue("postalCode"),
		PaymentMethod: models.PaymentMethod(r.FormValue("paymentMethod")),
	}
	if form.PaymentMethod != models.PaymentBankTransfer {
		return form, nil, nil
	}
	proof, err := filemgr.ReadFormFile(r.MultipartForm, "paymentScreenshot", filemgr.PicProof, false)
	if err != nil {
		return form, nil, checkout.ProofError(err)
	}
	return form, proof, nil
}
