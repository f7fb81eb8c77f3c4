package models

import "fmt"

// LineKey identifies one purchasable configuration in a cart.
type LineKey struct {
	ProductID string `json:"productId"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// Matches reports whether the line falls under k. A key without size and
// color selects every line of the product.
func (k LineKey) Matches(l CartLine) bool {
	if l.ProductID != k.ProductID {
		return false
	}
	if k.Size == "" && k.Color == "" {
		return true
	}
	return l.SelectedSize == k.Size && l.SelectedColor == k.Color
}

// CartLine represents a single configuration of a product in the visitor's cart.
type CartLine struct {
	ProductID     string `json:"productId"`
	Name          string `json:"name"`
	Price         int64  `json:"price"` // unit price
	Image         string `json:"image,omitempty"`
	Quantity      int    `json:"quantity"`
	SelectedSize  string `json:"selectedSize"`
	SelectedColor string `json:"selectedColor"`
}

func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Size: l.SelectedSize, Color: l.SelectedColor}
}

func (l CartLine) LineTotal() int64 {
	return l.Price * int64(l.Quantity)
}

// NewCartLine builds a line for p, rejecting sizes and colors the product does not offer.
func NewCartLine(p Product, quantity int, size, color string) (CartLine, error) {
	if quantity <= 0 {
		return CartLine{}, ErrInvalidQty
	}
	if !p.HasSize(size) {
		return CartLine{}, fmt.Errorf("%w: %q", ErrUnknownSize, size)
	}
	if !p.HasColor(color) {
		return CartLine{}, fmt.Errorf("%w: %q", ErrUnknownColor, color)
	}
	return CartLine{
		ProductID:     p.ID,
		Name:          p.Name,
		Price:         p.Price,
		Image:         p.FirstImage(),
		Quantity:      quantity,
		SelectedSize:  size,
		SelectedColor: color,
	}, nil
}
