package appstate

import (
	"fmt"
	"slices"

	"heritage/models"
)

const (
	msgRemovedFromCart     = "Item removed from cart"
	msgAddedToWishlist     = "Added to wishlist!"
	msgRemovedFromWishlist = "Removed from wishlist"
)

var openCartAction = NotificationAction{Label: "Open Cart", Href: "/cart"}

// Reduce returns the state that results from applying a to s. It never
// mutates s and never fails; unknown actions return s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case AddToCart:
		return addToCart(s, a.Line)

	case RemoveFromCart:
		next := s
		next.Cart = slices.DeleteFunc(slices.Clone(s.Cart), a.Key.Matches)
		if next.Cart == nil {
			next.Cart = []models.CartLine{}
		}
		return notify(next, msgRemovedFromCart, SeverityInfo, nil)

	case UpdateQuantity:
		next := s
		next.Cart = slices.Clone(s.Cart)
		for i, l := range next.Cart {
			if a.Key.Matches(l) {
				next.Cart[i].Quantity = a.Quantity
			}
		}
		return next

	case ToggleWishlist:
		if a.ProductID == "" {
			return s
		}
		next := s
		if s.InWishlist(a.ProductID) {
			next.Wishlist = slices.DeleteFunc(slices.Clone(s.Wishlist), func(id string) bool {
				return id == a.ProductID
			})
			return notify(next, msgRemovedFromWishlist, SeverityInfo, nil)
		}
		next.Wishlist = append(slices.Clone(s.Wishlist), a.ProductID)
		return notify(next, msgAddedToWishlist, SeveritySuccess, nil)

	case SetFilters:
		next := s
		next.Filters = mergeFilters(s.Filters, a.Patch)
		return next

	case SetSearchQuery:
		next := s
		next.SearchQuery = a.Query
		return next

	case ShowNotification:
		return notify(s, a.Message, a.Severity, a.Action)

	case HideNotification:
		next := s
		next.Notification = nil
		return next

	case ExpireNotification:
		if s.Notification == nil || s.Notification.ID != a.ID {
			return s
		}
		next := s
		next.Notification = nil
		return next

	case ClearCart:
		next := s
		next.Cart = []models.CartLine{}
		return next

	case ClearOrdered:
		return clearOrdered(s, a.Lines)

	case SetUser:
		next := s
		if a.User != nil {
			u := *a.User
			next.User = &u
		} else {
			next.User = nil
		}
		return next
	}
	return s
}

func addToCart(s State, line models.CartLine) State {
	if line.Quantity <= 0 {
		return s
	}
	next := s
	next.Cart = slices.Clone(s.Cart)
	key := line.Key()
	merged := false
	for i, l := range next.Cart {
		if l.Key() == key {
			next.Cart[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		next.Cart = append(next.Cart, line)
	}
	action := openCartAction
	return notify(next, fmt.Sprintf("You've added %s to cart!", line.Name), SeveritySuccess, &action)
}

func clearOrdered(s State, ordered []models.CartLine) State {
	left := make(map[models.LineKey]int, len(ordered))
	for _, l := range ordered {
		left[l.Key()] += l.Quantity
	}
	next := s
	next.Cart = make([]models.CartLine, 0, len(s.Cart))
	for _, l := range s.Cart {
		k := l.Key()
		take := min(left[k], l.Quantity)
		left[k] -= take
		l.Quantity -= take
		if l.Quantity > 0 {
			next.Cart = append(next.Cart, l)
		}
	}
	return next
}

// notify replaces the current notification with a fresh one.
func notify(s State, msg string, sev Severity, action *NotificationAction) State {
	s.NotificationSeq++
	n := &Notification{ID: s.NotificationSeq, Message: msg, Severity: sev}
	if action != nil {
		a := *action
		n.Action = &a
	}
	s.Notification = n
	return s
}

func mergeFilters(f FilterState, p FilterPatch) FilterState {
	if p.Category != nil {
		f.Category = *p.Category
	}
	if p.Occasion != nil {
		f.Occasion = *p.Occasion
	}
	if p.PriceRange != nil {
		pr := *p.PriceRange
		if pr.Low > pr.High {
			pr.Low, pr.High = pr.High, pr.Low
		}
		f.PriceRange = &pr
	}
	if p.Colors != nil {
		f.Colors = slices.Clone(*p.Colors)
		if f.Colors == nil {
			f.Colors = []string{}
		}
	}
	return f
}
