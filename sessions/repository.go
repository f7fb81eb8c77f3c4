package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"heritage/appstate"
	"heritage/models"
)

// Snapshot is the part of a visitor's state that survives restarts.
// Notifications are transient and never stored.
type Snapshot struct {
	Cart        []models.CartLine    `json:"cart"`
	Wishlist    []string             `json:"wishlist"`
	Filters     appstate.FilterState `json:"filters"`
	SearchQuery string               `json:"searchQuery"`
}

func SnapshotOf(s appstate.State) Snapshot {
	return Snapshot{Cart: s.Cart, Wishlist: s.Wishlist, Filters: s.Filters, SearchQuery: s.SearchQuery}
}

// State rebuilds a store state from the snapshot.
func (sn Snapshot) State() appstate.State {
	st := appstate.Initial()
	if sn.Cart != nil {
		st.Cart = sn.Cart
	}
	if sn.Wishlist != nil {
		st.Wishlist = sn.Wishlist
	}
	st.Filters = sn.Filters
	if st.Filters.Colors == nil {
		st.Filters.Colors = appstate.Initial().Filters.Colors
	}
	st.SearchQuery = sn.SearchQuery
	return st
}

type Repository interface {
	Load(ctx context.Context, id string) (Snapshot, bool, error)
	Save(ctx context.Context, id string, sn Snapshot) error
	Delete(ctx context.Context, id string) error
}

type MemoryRepository struct {
	mu   sync.Mutex
	data map[string]Snapshot
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[string]Snapshot)}
}

func (r *MemoryRepository) Load(_ context.Context, id string) (Snapshot, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sn, ok := r.data[id]
	return sn, ok, nil
}

func (r *MemoryRepository) Save(_ context.Context, id string, sn Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[id] = sn
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, id)
	return nil
}

type KV interface {
	RdxGet(ctx context.Context, key string) (string, error)
	SetWithExpiry(ctx context.Context, key, value string, ttl time.Duration) error
	RdxDel(ctx context.Context, keys ...string) error
}

// RedisRepository stores snapshots with a sliding TTL: every save
// pushes the expiry out again.
type RedisRepository struct {
	kv  KV
	ttl time.Duration
}

func NewRedisRepository(kv KV, ttl time.Duration) *RedisRepository {
	return &RedisRepository{kv: kv, ttl: ttl}
}

func snapshotKey(id string) string { return "visitor:session:" + id }

func (r *RedisRepository) Load(ctx context.Context, id string) (Snapshot, bool, error) {
	raw, err := r.kv.RdxGet(ctx, snapshotKey(id))
	if err != nil {
		return Snapshot{}, false, err
	}
	if raw == "" {
		return Snapshot{}, false, nil
	}
	var sn Snapshot
	if err := json.Unmarshal([]byte(raw), &sn); err != nil {
		return Snapshot{}, false, fmt.Errorf("decode snapshot %s: %w", id, err)
	}
	return sn, true, nil
}

func (r *RedisRepository) Save(ctx context.Context, id string, sn Snapshot) error {
	data, err := json.Marshal(sn)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return r.kv.SetWithExpiry(ctx, snapshotKey(id), string(data), r.ttl)
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	return r.kv.RdxDel(ctx, snapshotKey(id))
}
