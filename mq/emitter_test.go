package mq

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBus struct {
	mu   sync.Mutex
	sent [][]byte
	err  error
	ch   chan []byte
}

func (b *fakeBus) Publish(_ context.Context, channel string, payload []byte) error {
	if channel != Channel {
		return errors.New("wrong channel")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.sent = append(b.sent, payload)
	return nil
}

func (b *fakeBus) Subscribe(context.Context, string) <-chan []byte { return b.ch }

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.n++
	return nil
}

func TestEmitPublishesEvent(t *testing.T) {
	bus := &fakeBus{}
	NewEmitter(bus, zerolog.Nop()).Emit(context.Background(), OrderCreated, "o-1")

	require.Len(t, bus.sent, 1)
	var ev Event
	require.NoError(t, json.Unmarshal(bus.sent[0], &ev))
	assert.Equal(t, OrderCreated, ev.Name)
	assert.Equal(t, "o-1", ev.EntityID)
	assert.NotZero(t, ev.Timestamp)
}

func TestEmitSwallowsFailures(t *testing.T) {
	bus := &fakeBus{err: errors.New("redis down")}
	assert.NotPanics(t, func() {
		NewEmitter(bus, zerolog.Nop()).Emit(context.Background(), ProductDeleted, "p")
	})
	assert.NotPanics(t, func() {
		NewEmitter(nil, zerolog.Nop()).Emit(context.Background(), ProductDeleted, "p")
	})
	var nilEmitter *Emitter
	assert.NotPanics(t, func() { nilEmitter.Emit(context.Background(), OrderDeleted, "o") })
}

func TestListenInvalidatesOnProductEvents(t *testing.T) {
	bus := &fakeBus{ch: make(chan []byte, 4)}
	inv := &countingInvalidator{}

	for _, name := range []string{ProductUpdated, OrderCreated, ProductDeleted} {
		data, _ := json.Marshal(Event{Name: name, EntityID: "x"})
		bus.ch <- data
	}
	bus.ch <- []byte("garbage")
	close(bus.ch)

	Listen(context.Background(), bus, zerolog.Nop(), InvalidateOnProductChange(inv, zerolog.Nop()))
	assert.Equal(t, 2, inv.n)
}
