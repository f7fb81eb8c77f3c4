package modal

import (
	"errors"
	"sync"
)

var ErrUnknownModal = errors.New("unknown modal")

type Kind string

const (
	None      Kind = ""
	SizeGuide Kind = "sizeGuide"
	Shipping  Kind = "shipping"
	Returns   Kind = "returns"
	Care      Kind = "care"
)

var titles = map[Kind]string{
	SizeGuide: "Size Guide",
	Shipping:  "Shipping Information",
	Returns:   "Returns & Exchanges",
	Care:      "Care Instructions",
}

func (k Kind) Valid() bool {
	_, ok := titles[k]
	return ok || k == None
}

func (k Kind) Title() string {
	return titles[k]
}

// Controller tracks which informational modal is open. At most one is.
type Controller struct {
	mu     sync.Mutex
	active Kind
}

// Open replaces the active modal. Opening None closes.
func (c *Controller) Open(k Kind) error {
	if !k.Valid() {
		return ErrUnknownModal
	}
	c.mu.Lock()
	c.active = k
	c.mu.Unlock()
	return nil
}

func (c *Controller) Close() {
	c.mu.Lock()
	c.active = None
	c.mu.Unlock()
}

func (c *Controller) Active() Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}
