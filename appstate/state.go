package appstate

import (
	"slices"

	"heritage/models"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// NotificationAction is the optional call to action attached to a notification.
type NotificationAction struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Notification is the single visible toast. ID changes every time a
// notification is shown, even when the message repeats.
type Notification struct {
	ID       uint64              `json:"id"`
	Message  string              `json:"message"`
	Severity Severity            `json:"type"`
	Action   *NotificationAction `json:"action,omitempty"`
}

// PriceRange is an inclusive price bound.
type PriceRange struct {
	Low  int64 `json:"low"`
	High int64 `json:"high"`
}

func (r PriceRange) Contains(price int64) bool {
	return price >= r.Low && price <= r.High
}

type FilterState struct {
	Category   string      `json:"category"`
	Occasion   string      `json:"occasion"`
	PriceRange *PriceRange `json:"priceRange,omitempty"`
	Colors     []string    `json:"colors"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// State is everything a visitor session holds between requests.
type State struct {
	Cart            []models.CartLine `json:"cart"`
	Wishlist        []string          `json:"wishlist"`
	Filters         FilterState       `json:"filters"`
	SearchQuery     string            `json:"searchQuery"`
	Notification    *Notification     `json:"notification,omitempty"`
	User            *User             `json:"user,omitempty"`
	NotificationSeq uint64            `json:"notificationSeq"`
}

func Initial() State {
	return State{
		Cart:     []models.CartLine{},
		Wishlist: []string{},
		Filters:  FilterState{Colors: []string{}},
	}
}

// CartCount is the number of units across all cart lines.
func (s State) CartCount() int {
	n := 0
	for _, l := range s.Cart {
		n += l.Quantity
	}
	return n
}

func (s State) CartSubtotal() int64 {
	var total int64
	for _, l := range s.Cart {
		total += l.LineTotal()
	}
	return total
}

func (s State) WishlistCount() int {
	return len(s.Wishlist)
}

func (s State) InWishlist(productID string) bool {
	return slices.Contains(s.Wishlist, productID)
}

// Clone returns a deep copy so callers can't reach into store-owned slices.
func (s State) Clone() State {
	c := s
	c.Cart = slices.Clone(s.Cart)
	c.Wishlist = slices.Clone(s.Wishlist)
	c.Filters.Colors = slices.Clone(s.Filters.Colors)
	if s.Filters.PriceRange != nil {
		pr := *s.Filters.PriceRange
		c.Filters.PriceRange = &pr
	}
	if s.Notification != nil {
		n := *s.Notification
		if n.Action != nil {
			a := *n.Action
			n.Action = &a
		}
		c.Notification = &n
	}
	if s.User != nil {
		u := *s.User
		c.User = &u
	}
	return c
}
