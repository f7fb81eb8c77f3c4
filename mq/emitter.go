package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// Channel is the redis pub/sub channel every storefront instance shares.
const Channel = "storefront-events"

const (
	OrderCreated   = "order-created"
	OrderUpdated   = "order-updated"
	OrderDeleted   = "order-deleted"
	ProductCreated = "product-created"
	ProductUpdated = "product-updated"
	ProductDeleted = "product-deleted"
)

// Event is a change notice for an order or product.
type Event struct {
	Name      string `json:"name"`
	EntityID  string `json:"entity_id"`
	Timestamp int64  `json:"timestamp"`
}

func (e Event) IsProduct() bool {
	switch e.Name {
	case ProductCreated, ProductUpdated, ProductDeleted:
		return true
	}
	return false
}

type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, channel string) <-chan []byte
}

// Emitter publishes events. Publishing is best effort: failures are logged
// and never fail the operation that produced the event.
type Emitter struct {
	pub Publisher
	log zerolog.Logger
}

// NewEmitter accepts a nil publisher, in which case events are only logged.
func NewEmitter(pub Publisher, log zerolog.Logger) *Emitter {
	return &Emitter{pub: pub, log: log}
}

func (e *Emitter) Emit(ctx context.Context, name, entityID string) {
	if e == nil {
		return
	}
	ev := Event{Name: name, EntityID: entityID, Timestamp: time.Now().Unix()}
	logger := e.log.With().Str("event", name).Str("entity_id", entityID).Logger()

	if e.pub == nil {
		logger.Debug().Msg("event emitted (no publisher)")
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		logger.Error().Err(err).Msg("marshal event")
		return
	}
	if err := e.pub.Publish(ctx, Channel, data); err != nil {
		logger.Warn().Err(err).Msg("publish event")
		return
	}
	logger.Debug().Msg("event published")
}

// Listen decodes events from sub and hands them to handle until ctx is
// done or the subscription closes.
func Listen(ctx context.Context, sub Subscriber, log zerolog.Logger, handle func(context.Context, Event)) {
	log.Info().Str("channel", Channel).Msg("listening for storefront events")
	for raw := range sub.Subscribe(ctx, Channel) {
		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			log.Warn().Err(err).Msg("invalid event payload")
			continue
		}
		handle(ctx, ev)
	}
}

// Invalidator is anything holding derived data that goes stale on change.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// InvalidateOnProductChange returns a Listen handler that drops the
// catalog cache whenever a product event arrives.
func InvalidateOnProductChange(target Invalidator, log zerolog.Logger) func(context.Context, Event) {
	return func(ctx context.Context, ev Event) {
		if !ev.IsProduct() {
			return
		}
		if err := target.Invalidate(ctx); err != nil {
			log.Warn().Err(err).Str("event", ev.Name).Msg("catalog invalidate failed")
			return
		}
		log.Debug().Str("event", ev.Name).Str("entity_id", ev.EntityID).Msg("catalog cache invalidated")
	}
}
