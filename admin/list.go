package admin

import (
	"cmp"
	"slices"
	"strings"

	"heritage/models"
)

// PageSize is the number of rows on one admin list page.
const PageSize = 10

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
}

// Paginate returns the 1-based page of items. Out of range pages are
// clamped so the caller always gets a valid page back.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = PageSize
	}
	total := len(items)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	page = min(max(page, 1), pages)

	start := min((page-1)*size, total)
	end := min(start+size, total)
	return Page[T]{
		Items:      slices.Clone(items[start:end]),
		Page:       page,
		TotalPages: pages,
		TotalItems: total,
	}
}

func containsFold(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}

// FilterOrders keeps orders whose id, customer name, email or phone
// contains q, ignoring case.
func FilterOrders(orders []models.Order, q string) []models.Order {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return slices.Clone(orders)
	}
	out := []models.Order{}
	for _, o := range orders {
		if containsFold(o.ID, q) || containsFold(o.Customer.Name, q) ||
			containsFold(o.Customer.Email, q) || containsFold(o.Customer.Phone, q) {
			out = append(out, o)
		}
	}
	return out
}

// SortOrdersNewest orders by creation time, newest first.
func SortOrdersNewest(orders []models.Order) {
	slices.SortStableFunc(orders, func(a, b models.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

type OrderStats struct {
	Total     int   `json:"total"`
	Pending   int   `json:"pending"`
	Delivered int   `json:"delivered"`
	Revenue   int64 `json:"revenue"`
}

// ComputeOrderStats counts revenue from every order that wasn't cancelled.
func ComputeOrderStats(orders []models.Order) OrderStats {
	st := OrderStats{Total: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case models.StatusPending:
			st.Pending++
		case models.StatusDelivered:
			st.Delivered++
		}
		if o.Status != models.StatusCancelled {
			st.Revenue += o.Total
		}
	}
	return st
}

func FilterProducts(products []models.Product, q string) []models.Product {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return slices.Clone(products)
	}
	out := []models.Product{}
	for _, p := range products {
		if containsFold(p.Name, q) || containsFold(p.Category, q) {
			out = append(out, p)
		}
	}
	return out
}

func SortProductsByName(products []models.Product) {
	slices.SortStableFunc(products, func(a, b models.Product) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}

// LowStockThreshold marks products that need restocking.
const LowStockThreshold = 10

type ProductStats struct {
	Total          int   `json:"total"`
	LowStock       int   `json:"lowStock"`
	Featured       int   `json:"featured"`
	InventoryValue int64 `json:"inventoryValue"`
}

func ComputeProductStats(products []models.Product) ProductStats {
	st := ProductStats{Total: len(products)}
	for _, p := range products {
		if p.Stock < LowStockThreshold {
			st.LowStock++
		}
		if p.IsFeatured {
			st.Featured++
		}
		st.InventoryValue += p.Price * int64(p.Stock)
	}
	return st
}
