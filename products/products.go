package products

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"heritage/appstate"
	"heritage/catalog"
	"heritage/models"
	"heritage/sessions"
	"heritage/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
)

const (
	relatedLimit = 4
	previewLimit = 5
)

// Handler serves the public catalog.
type Handler struct {
	source  catalog.Source
	timeout time.Duration
	log     zerolog.Logger
}

func NewHandler(src catalog.Source, timeout time.Duration, log zerolog.Logger) *Handler {
	return &Handler{source: src, timeout: timeout, log: log}
}

type listResponse struct {
	Products   []models.Product `json:"products"`
	Total      int              `json:"total"`
	Categories []string         `json:"categories"`
	Sort       catalog.SortKey  `json:"sort"`
}

// List handles GET /api/products. The visitor's saved filters and search
// apply unless the query string overrides them.
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	all, err := h.source.Products(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("list products")
		utils.RespondWithBackendError(w, err, "Failed to load products")
		return
	}

	filters := appstate.FilterState{}
	query := ""
	if s, ok := sessions.FromContext(r.Context()); ok {
		st := s.Store.State()
		filters, query = st.Filters, st.SearchQuery
	}

	q := r.URL.Query()
	if q.Has("category") {
		filters.Category = q.Get("category")
	}
	if q.Has("occasion") {
		filters.Occasion = q.Get("occasion")
	}
	if q.Has("q") {
		query = q.Get("q")
	}
	key := catalog.ParseSortKey(q.Get("sort"))

	visible := catalog.VisibleProducts(all, filters, strings.TrimSpace(query), key)
	utils.RespondWithJSON(w, http.StatusOK, listResponse{
		Products:   visible,
		Total:      len(visible),
		Categories: catalog.Categories(all),
		Sort:       key,
	})
}

type notFoundResponse struct {
	NotFound bool   `json:"notFound"`
	Message  string `json:"message"`
	Recovery string `json:"recovery"`
}

type detailResponse struct {
	Product    models.Product   `json:"product"`
	Related    []models.Product `json:"related"`
	Discount   int64            `json:"discount,omitempty"`
	InWishlist bool             `json:"inWishlist"`
}

// Get handles GET /api/products/:id. An unknown id is answered with a
// not-found view that points back to the shop.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := ps.ByName("id")
	p, err := h.source.Product(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		utils.RespondWithJSON(w, http.StatusNotFound, notFoundResponse{
			NotFound: true,
			Message:  "Product not found",
			Recovery: "/shop",
		})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("product_id", id).Msg("get product")
		utils.RespondWithBackendError(w, err, "Failed to load product")
		return
	}

	resp := detailResponse{Product: p, Related: []models.Product{}}
	if all, err := h.source.Products(ctx); err == nil {
		resp.Related = catalog.Related(all, p, relatedLimit)
	} else {
		h.log.Warn().Err(err).Str("product_id", id).Msg("related products unavailable")
	}
	if d, ok := p.Discount(); ok {
		resp.Discount = d
	}
	if s, ok := sessions.FromContext(r.Context()); ok {
		resp.InWishlist = s.Store.State().InWishlist(p.ID)
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// SearchPreview handles GET /api/search/preview?q=.
func (h *Handler) SearchPreview(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	all, err := h.source.Products(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("search preview")
		utils.RespondWithBackendError(w, err, "Failed to load products")
		return
	}
	opts := utils.ParseQueryOptions(r)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"query":   opts.Search,
		"results": catalog.SearchPreview(all, opts.Search, previewLimit),
	})
}
