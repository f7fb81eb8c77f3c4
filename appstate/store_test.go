package appstate

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreDispatchNotifiesListenersInOrder(t *testing.T) {
	st := NewStore(Initial())

	var calls []string
	st.Subscribe(func(s State) { calls = append(calls, "a") })
	unsubscribe := st.Subscribe(func(s State) { calls = append(calls, "b") })

	st.Dispatch(SetSearchQuery{Query: "silk"})
	unsubscribe()
	st.Dispatch(SetSearchQuery{Query: "velvet"})

	assert.Equal(t, []string{"a", "b", "a"}, calls)
	assert.Equal(t, "velvet", st.State().SearchQuery)
}

func TestStoreStateIsACopy(t *testing.T) {
	st := NewStore(Initial())
	st.Dispatch(AddToCart{Line: sabzLine(1, "M", "Gold")})

	s := st.State()
	s.Cart[0].Quantity = 99

	assert.Equal(t, 1, st.State().Cart[0].Quantity)
}

func TestStoreConcurrentDispatchIsSerialized(t *testing.T) {
	st := NewStore(Initial())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.Dispatch(AddToCart{Line: sabzLine(1, "M", "Gold")})
		}()
	}
	wg.Wait()

	s := st.State()
	require.Len(t, s.Cart, 1)
	assert.Equal(t, 50, s.CartCount())
	assert.Equal(t, uint64(50), s.NotificationSeq)
}
