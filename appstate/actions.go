package appstate

import "heritage/models"

// Action is anything that can be dispatched to a Store. Types the reducer
// does not know are ignored.
type Action interface {
	Type() string
}

// AddToCart merges Line into the cart and announces it. A line with a
// quantity below 1 changes nothing, notification included.
type AddToCart struct {
	Line models.CartLine
}

// RemoveFromCart drops the lines selected by Key. A key with only a product
// id removes every size and color of that product.
type RemoveFromCart struct {
	Key models.LineKey
}

// UpdateQuantity sets the quantity of the lines selected by Key. It never
// removes a line; callers dispatch RemoveFromCart for non-positive values.
type UpdateQuantity struct {
	Key      models.LineKey
	Quantity int
}

type ToggleWishlist struct {
	ProductID string
}

// FilterPatch holds the fields to merge into FilterState; nil fields are left alone.
type FilterPatch struct {
	Category   *string     `json:"category,omitempty"`
	Occasion   *string     `json:"occasion,omitempty"`
	PriceRange *PriceRange `json:"priceRange,omitempty"`
	Colors     *[]string   `json:"colors,omitempty"`
}

type SetFilters struct {
	Patch FilterPatch
}

type SetSearchQuery struct {
	Query string
}

type ShowNotification struct {
	Message  string
	Severity Severity
	Action   *NotificationAction
}

type HideNotification struct{}

// ExpireNotification hides the notification only if it is still the one with ID.
type ExpireNotification struct {
	ID uint64
}

type ClearCart struct{}

// ClearOrdered takes the ordered quantities out of the cart. Lines added or
// topped up after the order snapshot was taken stay behind.
type ClearOrdered struct {
	Lines []models.CartLine
}

type SetUser struct {
	User *User
}

func (AddToCart) Type() string          { return "ADD_TO_CART" }
func (RemoveFromCart) Type() string     { return "REMOVE_FROM_CART" }
func (UpdateQuantity) Type() string     { return "UPDATE_QUANTITY" }
func (ToggleWishlist) Type() string     { return "TOGGLE_WISHLIST" }
func (SetFilters) Type() string         { return "SET_FILTERS" }
func (SetSearchQuery) Type() string     { return "SET_SEARCH_QUERY" }
func (ShowNotification) Type() string   { return "SHOW_NOTIFICATION" }
func (HideNotification) Type() string   { return "HIDE_NOTIFICATION" }
func (ExpireNotification) Type() string { return "EXPIRE_NOTIFICATION" }
func (ClearCart) Type() string          { return "CLEAR_CART" }
func (ClearOrdered) Type() string       { return "CLEAR_ORDERED" }
func (SetUser) Type() string            { return "SET_USER" }
