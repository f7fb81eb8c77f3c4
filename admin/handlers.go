package admin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"heritage/auth"
	"heritage/backend"
	"heritage/filemgr"
	"heritage/invoice"
	"heritage/models"
	"heritage/mq"
	"heritage/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
)

// Backend is the slice of the commerce backend the admin screens use.
type Backend interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error
	DeleteOrder(ctx context.Context, id string) error
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, form backend.ProductForm) (models.Product, error)
	UpdateProduct(ctx context.Context, id string, form backend.ProductForm) (models.Product, error)
	UpdateStock(ctx context.Context, id string, stock int) error
	DeleteProduct(ctx context.Context, id string) error
}

// Handler serves /api/admin. Every call to the backend carries the
// logged-in admin's backend token.
type Handler struct {
	backendFor func(token string) Backend
	events     *mq.Emitter
	timeout    time.Duration
	log        zerolog.Logger
}

func NewHandler(backendFor func(token string) Backend, events *mq.Emitter, timeout time.Duration, log zerolog.Logger) *Handler {
	return &Handler{backendFor: backendFor, events: events, timeout: timeout, log: log}
}

func (h *Handler) begin(w http.ResponseWriter, r *http.Request) (Backend, context.Context, context.CancelFunc, bool) {
	s, ok := auth.SessionFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, nil, nil, false
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	return h.backendFor(s.BackendToken), ctx, cancel, true
}

type ordersResponse struct {
	Page[models.Order]
	Stats OrderStats `json:"stats"`
}

// ListOrders handles GET /api/admin/orders?q=&page=. Stats always cover the
// full collection.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	be, ctx, cancel, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	orders, err := be.ListOrders(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("list orders")
		utils.RespondWithBackendError(w, err, "Failed to fetch orders")
		return
	}
	SortOrdersNewest(orders)

	opts := utils.ParseQueryOptions(r)
	utils.RespondWithJSON(w, http.StatusOK, ordersResponse{
		Page:  Paginate(FilterOrders(orders, opts.Search), opts.Page, PageSize),
		Stats: ComputeOrderStats(orders),
	})
}

// UpdateOrderStatus handles PUT /api/admin/orders/:id/status.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Status string `json:"status"`
	}
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	status, err := models.ParseOrderStatus(body.Status)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid order status")
		return
	}

	be, ctx, cancel, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	id := ps.ByName("id")
	if err := be.UpdateOrderStatus(ctx, id, status); err != nil {
		h.log.Error().Err(err).Str("order_id", id).Msg("update order status")
		utils.RespondWithBackendError(w, err, "Failed to update order status")
		return
	}
	h.events.Emit(ctx, mq.OrderUpdated, id)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"id": id, "status": status})
}

// DeleteOrder handles DELETE /api/admin/orders/:id.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	be, ctx, cancel, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	id := ps.ByName("id")
	if err := be.DeleteOrder(ctx, id); err != nil {
		h.log.Error().Err(err).Str("order_id", id).Msg("delete order")
		utils.RespondWithBackendError(w, err, "Failed to delete order")
		return
	}
	h.events.Emit(ctx, mq.OrderDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

// OrderInvoice handles GET /api/admin/orders/:id/invoice.
func (h *Handler) OrderInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	be, ctx, cancel, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	orders, err := be.ListOrders(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("list orders for invoice")
		utils.RespondWithBackendError(w, err, "Failed to fetch orders")
		return
	}
	id := ps.ByName("id")
	var order *models.Order
	for i := range orders {
		if orders[i].ID == id {
			order = &orders[i]
			break
		}
	}
	if order == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	var buf bytes.Buffer
	if err := invoice.Render(&buf, *order); err != nil {
		h.log.Error().Err(err).Str("order_id", id).Msg("render invoice")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate invoice")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", invoice.Filename(id)))
	_, _ = w.Write(buf.Bytes())
}

// ExportOrders handles GET /api/admin/export/orders.
func (h *Handler) ExportOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	be, ctx, cancel, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	orders, err := be.ListOrders(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("export orders")
		utils.RespondWithBackendError(w, err, "Failed to fetch orders")
		return
	}
	SortOrdersNewest(orders)

	var buf bytes.Buffer
	if err := WriteOrdersCSV(&buf, orders); err != nil {
		h.log.Error().Err(err).Msg("write orders csv")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to export orders")
		return
	}
	writeCSV(w, ExportFilename("orders", time.Now()), buf.Bytes())
}

type productsResponse struct {
	Page[models.Product]
	Stats ProductStats `json:"stats"`
}

// ListProducts handles GET /api/admin/products?q=&page=.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	be, ctx, cancel, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	products, err := be.ListProducts(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("list products")
		utils.RespondWithBackendError(w, err, "Failed to fetch products")
		return
	}
	SortProductsByName(products)

	opts := utils.ParseQueryOptions(r)
	utils.RespondWithJSON(w, http.StatusOK, productsResponse{
		Page:  Paginate(FilterProducts(products, opts.Search), opts.Page, PageSize),
		Stats: ComputeProductStats(products),
	})
}

// CreateProduct handles POST /api/admin/products (multipart).
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	form, ok := h.readProductForm(w, r)
	if !ok {
		return
	}
	be, ctx, cancel, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	p, err := be.CreateProduct(ctx, form)
	if err != nil {
		h.log.Error().Err(err).Str("name", form.Name).Msg("create product")
		utils.RespondWithBackendError(w, err, "Failed to save product")
		return
	}
	h.events.Emit(ctx, mq.ProductCreated, p.ID)
	utils.RespondWithJSON(w, http.StatusCreated, p)
}

// UpdateProduct handles PUT /api/admin/products/:id (multipart).
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	form, ok := h.readProductForm(w, r)
	if !ok {
		return
	}
	be, ctx, cancel, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	id := ps.ByName("id")
	p, err := be.UpdateProduct(ctx, id, form)
	if err != nil {
		h.log.Error().Err(err).Str("product_id", id).Msg("update product")
		utils.RespondWithBackendError(w, err, "Failed to save product")
		return
	}
	h.events.Emit(ctx, mq.ProductUpdated, id)
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// UpdateStock handles PUT /api/admin/products/:id/stock.
func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Stock *int `json:"stock"`
	}
	if err := utils.DecodeJSON(r, &body); err != nil || body.Stock == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if *body.Stock < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Stock cannot be negative")
		return
	}

	be, ctx, cancel, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	id := ps.ByName("id")
	if err := be.UpdateStock(ctx, id, *body.Stock); err != nil {
		h.log.Error().Err(err).Str("product_id", id).Msg("update stock")
		utils.RespondWithBackendError(w, err, "Failed to update stock")
		return
	}
	h.events.Emit(ctx, mq.ProductUpdated, id)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"id": id, "stock": *body.Stock})
}

// DeleteProduct handles DELETE /api/admin/products/:id.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	be, ctx, cancel, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	id := ps.ByName("id")
	if err := be.DeleteProduct(ctx, id); err != nil {
		h.log.Error().Err(err).Str("product_id", id).Msg("delete product")
		utils.RespondWithBackendError(w, err, "Failed to delete product")
		return
	}
	h.events.Emit(ctx, mq.ProductDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

// ExportProducts handles GET /api/admin/export/products.
func (h *Handler) ExportProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	be, ctx, cancel, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	products, err := be.ListProducts(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("export products")
		utils.RespondWithBackendError(w, err, "Failed to fetch products")
		return
	}
	SortProductsByName(products)

	var buf bytes.Buffer
	if err := WriteProductsCSV(&buf, products); err != nil {
		h.log.Error().Err(err).Msg("write products csv")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to export products")
		return
	}
	writeCSV(w, ExportFilename("products", time.Now()), buf.Bytes())
}

// ExportFilename is e.g. orders_2025-03-01.csv.
func ExportFilename(kind string, now time.Time) string {
	return kind + "_" + now.Format("2006-01-02") + ".csv"
}

func writeCSV(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(data)
}

const maxProductForm = 64 << 20

func (h *Handler) readProductForm(w http.ResponseWriter, r *http.Request) (backend.ProductForm, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxProductForm)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			utils.RespondWithError(w, http.StatusRequestEntityTooLarge, "Upload too large")
		} else {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		}
		return backend.ProductForm{}, false
	}
	defer r.MultipartForm.RemoveAll()

	get := func(k string) string { return strings.TrimSpace(r.FormValue(k)) }

	price, err := strconv.ParseInt(get("price"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Price must be a whole number")
		return backend.ProductForm{}, false
	}
	stock, err := strconv.Atoi(get("stock"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Stock must be a whole number")
		return backend.ProductForm{}, false
	}

	images, err := filemgr.ReadFormFiles(r.MultipartForm, "images", filemgr.PicProduct)
	if err != nil {
		if filemgr.IsClientError(err) {
			utils.RespondWithError(w, uploadStatus(err), err.Error())
		} else {
			h.log.Error().Err(err).Msg("read product images")
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to read images")
		}
		return backend.ProductForm{}, false
	}

	form := backend.ProductForm{
		Name:             get("name"),
		Price:            price,
		Stock:            stock,
		Category:         get("category"),
		Description:      get("description"),
		Fabric:           get("fabric"),
		Sizes:            utils.SplitList(get("sizes")),
		Colors:           utils.SplitList(get("colors")),
		Occasion:         get("occasion"),
		CareInstructions: get("careInstructions"),
		IsNew:            utils.ParseBool(get("isNew")),
		IsFeatured:       utils.ParseBool(get("isFeatured")),
		Images:           images,
	}
	if err := form.Validate(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return backend.ProductForm{}, false
	}
	return form, true
}

func uploadStatus(err error) int {
	switch {
	case errors.Is(err, filemgr.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, filemgr.ErrInvalidMIME), errors.Is(err, filemgr.ErrInvalidExtension):
		return http.StatusUnsupportedMediaType
	}
	return http.StatusBadRequest
}
