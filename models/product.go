package models

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidProduct = errors.New("invalid product")
	ErrUnknownSize    = errors.New("size not offered for product")
	ErrUnknownColor   = errors.New("color not offered for product")
	ErrInvalidQty     = errors.New("quantity must be positive")
)

// Product is a catalog entry. The storefront only reads products; they are
// created and edited through the admin screens against the backend.
type Product struct {
	ID               string   `json:"_id"`
	Name             string   `json:"name"`
	Price            int64    `json:"price"`
	OriginalPrice    *int64   `json:"originalPrice,omitempty"`
	Images           []string `json:"images"`
	Category         string   `json:"category"`
	Occasion         string   `json:"occasion"`
	Fabric           string   `json:"fabric"`
	Embroidery       string   `json:"embroidery"`
	Colors           []string `json:"colors"`
	Sizes            []string `json:"sizes"`
	Description      string   `json:"description"`
	CareInstructions string   `json:"careInstructions"`
	Stock            int      `json:"stock"`
	IsNew            bool     `json:"isNew"`
	IsFeatured       bool     `json:"isFeatured"`
}

// Validate checks the invariants a purchasable product must hold.
func (p Product) Validate() error {
	switch {
	case p.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidProduct)
	case p.Name == "":
		return fmt.Errorf("%w: missing name", ErrInvalidProduct)
	case p.Price <= 0:
		return fmt.Errorf("%w: price must be positive", ErrInvalidProduct)
	case p.OriginalPrice != nil && *p.OriginalPrice < p.Price:
		return fmt.Errorf("%w: original price below price", ErrInvalidProduct)
	case p.Stock < 0:
		return fmt.Errorf("%w: negative stock", ErrInvalidProduct)
	case len(p.Colors) == 0:
		return fmt.Errorf("%w: no colors", ErrInvalidProduct)
	case len(p.Sizes) == 0:
		return fmt.Errorf("%w: no sizes", ErrInvalidProduct)
	}
	return nil
}

func (p Product) HasSize(size string) bool {
	return slices.Contains(p.Sizes, size)
}

func (p Product) HasColor(color string) bool {
	return slices.Contains(p.Colors, color)
}

// Discount returns how much cheaper the product is than its original price.
func (p Product) Discount() (int64, bool) {
	if p.OriginalPrice == nil || *p.OriginalPrice <= p.Price {
		return 0, false
	}
	return *p.OriginalPrice - p.Price, true
}

// FirstImage is the thumbnail reference, or "" when the product has none.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// FormatPKR renders an amount in rupees with Indian digit grouping,
// e.g. 10999900 becomes "PKR 1,09,99,900".
func FormatPKR(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	if len(digits) <= 3 {
		return "PKR " + sign + digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)
	return "PKR " + sign + strings.Join(groups, ",") + "," + tail
}
