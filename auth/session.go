package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"heritage/globals"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidToken    = errors.New("invalid token")
)

// Session is a live admin login. The backend token never leaves the server.
type Session struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	BackendToken string    `json:"backendToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionFromContext returns the admin session stored by the
// authentication middleware.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(globals.AdminSessionKey).(Session)
	return s, ok
}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, globals.AdminSessionKey, s)
}

type Repository interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

type MemoryRepository struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{sessions: make(map[string]Session), now: time.Now}
}

func (r *MemoryRepository) Save(_ context.Context, s Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if s.Expired(r.now()) {
		delete(r.sessions, id)
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// KV is the subset of the redis helpers the session store needs.
type KV interface {
	RdxGet(ctx context.Context, key string) (string, error)
	SetWithExpiry(ctx context.Context, key, value string, ttl time.Duration) error
	RdxDel(ctx context.Context, keys ...string) error
}

// RedisRepository keeps sessions in redis so every instance sees the same
// logins. Keys expire together with the session.
type RedisRepository struct {
	kv  KV
	now func() time.Time
}

func NewRedisRepository(kv KV) *RedisRepository {
	return &RedisRepository{kv: kv, now: time.Now}
}

func sessionKey(id string) string { return "admin:session:" + id }

func (r *RedisRepository) Save(ctx context.Context, s Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return fmt.Errorf("save session %s: already expired", s.ID)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return r.kv.SetWithExpiry(ctx, sessionKey(s.ID), string(data), ttl)
}

func (r *RedisRepository) Get(ctx context.Context, id string) (Session, error) {
	raw, err := r.kv.RdxGet(ctx, sessionKey(id))
	if err != nil {
		return Session{}, err
	}
	if raw == "" {
		return Session{}, ErrSessionNotFound
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Session{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	if s.Expired(r.now()) {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	return r.kv.RdxDel(ctx, sessionKey(id))
}
