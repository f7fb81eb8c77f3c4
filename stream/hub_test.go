package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"heritage/appstate"
	"heritage/models"
	"heritage/sessions"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testContext stands in for testing.T.Context (Go 1.24+): it is canceled
// when the test finishes.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

func receive(t *testing.T, c *Client) outboundPayload {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var p outboundPayload
		require.NoError(t, json.Unmarshal(data, &p))
		return p
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
	return outboundPayload{}
}

func TestHubRegisterPublishUnregister(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()
	defer hub.Stop()

	mine := &Client{Send: make(chan []byte, 10), Room: "s1"}
	other := &Client{Send: make(chan []byte, 10), Room: "s2"}
	hub.register <- mine
	hub.register <- other

	st := appstate.Initial()
	st.Cart = []models.CartLine{{ProductID: "1", Price: 89999, Quantity: 2}}
	hub.Publish("s1", st)

	got := receive(t, mine)
	assert.Equal(t, "state", got.Action)
	assert.Equal(t, 2, got.CartCount)
	assert.Equal(t, int64(179998), got.Subtotal)
	assert.Empty(t, other.Send)

	hub.unregister <- mine
	_, open := <-mine.Send
	assert.False(t, open)
	assert.Equal(t, 0, hub.Connections("s1"))
	assert.Equal(t, 1, hub.Connections("s2"))
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()
	defer hub.Stop()

	slow := &Client{Send: make(chan []byte, 1), Room: "s1"}
	hub.register <- slow

	hub.Publish("s1", appstate.Initial())
	hub.Publish("s1", appstate.Initial())

	require.Eventually(t, func() bool { return hub.Connections("s1") == 0 }, time.Second, 10*time.Millisecond)
}

func TestStopClosesClients(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	c := &Client{Send: make(chan []byte, 1), Room: "s1"}
	hub.register <- c
	hub.Stop()

	_, open := <-c.Send
	assert.False(t, open)
	hub.Stop()
}

func TestWebSocketReceivesInitialAndUpdates(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()
	defer hub.Stop()
	SetAllowedOrigins(nil)

	mgr := sessions.NewManager(nil, hub, sessions.Options{}, zerolog.Nop())
	defer mgr.Close()
	sess := mgr.GetOrCreate(testContext(t), sessions.NewID())

	ws := WebSocketHandler(hub)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws(w, r.WithContext(sessions.WithSession(r.Context(), sess)), httprouter.Params{})
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() outboundPayload {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var p outboundPayload
		require.NoError(t, conn.ReadJSON(&p))
		return p
	}

	assert.Equal(t, 0, read().CartCount)

	mgr.Dispatch(testContext(t), sess, appstate.AddToCart{Line: models.CartLine{ProductID: "2", Price: 45999, Quantity: 1, SelectedSize: "S", SelectedColor: "Red"}})
	got := read()
	assert.Equal(t, 1, got.CartCount)
	require.NotNil(t, got.State.Notification)
}

func TestWebSocketRequiresSession(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	rec := httptest.NewRecorder()
	WebSocketHandler(hub)(rec, httptest.NewRequest(http.MethodGet, "/api/session/stream", nil), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebSocketAfterStopClosesConnection(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()
	hub.Stop()
	SetAllowedOrigins(nil)

	mgr := sessions.NewManager(nil, nil, sessions.Options{}, zerolog.Nop())
	defer mgr.Close()
	sess := mgr.GetOrCreate(testContext(t), sessions.NewID())

	ws := WebSocketHandler(hub)
	returned := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(returned)
		ws(w, r.WithContext(sessions.WithSession(r.Context(), sess)), httprouter.Params{})
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("handler still blocked after the hub stopped")
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}
