package notify

import (
	"sync"
	"time"

	"heritage/appstate"
)

// DefaultDisplayDuration is how long a notification stays visible.
const DefaultDisplayDuration = 3000 * time.Millisecond

type Dispatcher interface {
	Dispatch(appstate.Action) appstate.State
}

// Dismisser hides notifications once they have been visible for the display
// duration. Each new notification restarts the countdown.
type Dismisser struct {
	mu      sync.Mutex
	target  Dispatcher
	after   time.Duration
	timer   *time.Timer
	current uint64
	stopped bool
}

func NewDismisser(target Dispatcher, after time.Duration) *Dismisser {
	if after <= 0 {
		after = DefaultDisplayDuration
	}
	return &Dismisser{target: target, after: after}
}

// Observe is meant to be registered as a store listener.
func (d *Dismisser) Observe(s appstate.State) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if s.Notification == nil {
		d.cancelLocked()
		return
	}
	if s.Notification.ID == d.current && d.timer != nil {
		return
	}

	d.cancelLocked()
	id := s.Notification.ID
	d.current = id
	d.timer = time.AfterFunc(d.after, func() {
		d.target.Dispatch(appstate.ExpireNotification{ID: id})
	})
}

// Pending reports whether a dismiss timer is armed.
func (d *Dismisser) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Dismisser) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.cancelLocked()
}

func (d *Dismisser) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.current = 0
}
