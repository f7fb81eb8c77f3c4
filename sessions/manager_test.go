package sessions

import (
	"context"
	"sync"
	"testing"
	"time"

	"heritage/appstate"
	"heritage/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHub struct {
	mu    sync.Mutex
	count map[string]int
}

func (h *recordingHub) Publish(id string, _ appstate.State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.count == nil {
		h.count = map[string]int{}
	}
	h.count[id]++
}

func (h *recordingHub) published(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count[id]
}

func line() models.CartLine {
	return models.CartLine{ProductID: "2", Name: "Zari Zewar", Price: 45999, Quantity: 1, SelectedSize: "S", SelectedColor: "Peach"}
}

func TestGetOrCreateReturnsSameSession(t *testing.T) {
	m := NewManager(NewMemoryRepository(), nil, Options{}, zerolog.Nop())
	defer m.Close()
	ctx := context.Background()

	id := NewID()
	require.True(t, ValidID(id))
	assert.False(t, ValidID("../../etc"))

	a := m.GetOrCreate(ctx, id)
	b := m.GetOrCreate(ctx, id)
	assert.Same(t, a, b)
	assert.Equal(t, 1, m.Len())
}

func TestDispatchPersistsAndRestores(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	id := NewID()

	first := NewManager(repo, nil, Options{}, zerolog.Nop())
	s := first.GetOrCreate(ctx, id)
	first.Dispatch(ctx, s, appstate.AddToCart{Line: line()})
	first.Dispatch(ctx, s, appstate.ToggleWishlist{ProductID: "4"})
	first.Close()

	sn, ok, err := repo.Load(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, sn.Cart, 1)

	second := NewManager(repo, nil, Options{}, zerolog.Nop())
	defer second.Close()
	restored := second.GetOrCreate(ctx, id).Store.State()
	assert.Equal(t, 1, restored.CartCount())
	assert.True(t, restored.InWishlist("4"))
	assert.Nil(t, restored.Notification, "notifications are not persisted")
}

func TestSavePersistsDirectStoreChanges(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	m := NewManager(repo, nil, Options{}, zerolog.Nop())
	defer m.Close()

	s := m.GetOrCreate(ctx, NewID())
	m.Dispatch(ctx, s, appstate.AddToCart{Line: line()})
	s.Store.Dispatch(appstate.ClearCart{})

	sn, _, err := repo.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, sn.Cart, 1)

	m.Save(ctx, s)
	sn, _, err = repo.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, sn.Cart)
}

// slowFirstSave stalls the first Save until release is closed.
type slowFirstSave struct {
	*MemoryRepository
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (r *slowFirstSave) Save(ctx context.Context, id string, sn Snapshot) error {
	first := false
	r.once.Do(func() { first = true })
	if first {
		close(r.started)
		<-r.release
	}
	return r.MemoryRepository.Save(ctx, id, sn)
}

func TestConcurrentDispatchPersistsLatestState(t *testing.T) {
	repo := &slowFirstSave{MemoryRepository: NewMemoryRepository(), started: make(chan struct{}), release: make(chan struct{})}
	ctx := context.Background()
	m := NewManager(repo, nil, Options{}, zerolog.Nop())
	defer m.Close()
	s := m.GetOrCreate(ctx, NewID())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		m.Dispatch(ctx, s, appstate.AddToCart{Line: line()})
	}()
	<-repo.started
	go func() {
		defer wg.Done()
		m.Dispatch(ctx, s, appstate.AddToCart{Line: line()})
	}()
	require.Eventually(t, func() bool { return s.Store.State().CartCount() == 2 }, time.Second, time.Millisecond)

	close(repo.release)
	wg.Wait()

	sn, ok, err := repo.Load(ctx, s.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, sn.Cart, 1)
	assert.Equal(t, 2, sn.Cart[0].Quantity)
}

func TestHubReceivesEveryDispatch(t *testing.T) {
	hub := &recordingHub{}
	m := NewManager(nil, hub, Options{}, zerolog.Nop())
	defer m.Close()
	ctx := context.Background()

	s := m.GetOrCreate(ctx, NewID())
	m.Dispatch(ctx, s, appstate.SetSearchQuery{Query: "silk"})
	m.Dispatch(ctx, s, appstate.ClearCart{})
	assert.Equal(t, 2, hub.published(s.ID))
}

func TestNotificationAutoDismissWiredPerSession(t *testing.T) {
	m := NewManager(nil, nil, Options{NotificationDuration: 50 * time.Millisecond}, zerolog.Nop())
	defer m.Close()
	ctx := context.Background()

	s := m.GetOrCreate(ctx, NewID())
	st := m.Dispatch(ctx, s, appstate.AddToCart{Line: line()})
	require.NotNil(t, st.Notification)

	assert.Eventually(t, func() bool {
		return s.Store.State().Notification == nil
	}, time.Second, 10*time.Millisecond)
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	m := NewManager(nil, nil, Options{IdleTTL: time.Minute}, zerolog.Nop())
	defer m.Close()
	ctx := context.Background()

	now := time.Now()
	m.now = func() time.Time { return now }
	old := m.GetOrCreate(ctx, NewID())

	now = now.Add(45 * time.Second)
	fresh := m.GetOrCreate(ctx, NewID())

	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())

	again := m.GetOrCreate(ctx, fresh.ID)
	assert.Same(t, fresh, again)
	assert.NotSame(t, old, m.GetOrCreate(ctx, old.ID))
}

type mapKV map[string]string

func (m mapKV) RdxGet(_ context.Context, k string) (string, error) { return m[k], nil }
func (m mapKV) SetWithExpiry(_ context.Context, k, v string, _ time.Duration) error {
	m[k] = v
	return nil
}
func (m mapKV) RdxDel(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m, k)
	}
	return nil
}

func TestRedisRepositoryRoundTrip(t *testing.T) {
	kv := mapKV{}
	repo := NewRedisRepository(kv, time.Hour)
	ctx := context.Background()

	st := appstate.Initial()
	st.Cart = []models.CartLine{line()}
	st.SearchQuery = "zari"
	require.NoError(t, repo.Save(ctx, "v1", SnapshotOf(st)))
	assert.Contains(t, kv, "visitor:session:v1")

	sn, ok, err := repo.Load(ctx, "v1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "zari", sn.State().SearchQuery)

	require.NoError(t, repo.Delete(ctx, "v1"))
	_, ok, _ = repo.Load(ctx, "v1")
	assert.False(t, ok)
}
