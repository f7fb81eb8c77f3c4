package sessions

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"heritage/appstate"
	"heritage/globals"
	"heritage/modal"
	"heritage/notify"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Broadcaster pushes a session's new state to its live connections.
type Broadcaster interface {
	Publish(sessionID string, st appstate.State)
}

// Session is one visitor: a store, its open modal and the timer that hides
// notifications.
type Session struct {
	ID    string
	Store *appstate.Store
	Modal *modal.Controller

	dismisser   *notify.Dismisser
	unsubscribe []func()
	lastSeen    atomic.Int64

	// saveMu orders snapshot writes; each write re-reads the live state.
	saveMu sync.Mutex
}

func (s *Session) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

func (s *Session) close() {
	for _, u := range s.unsubscribe {
		u()
	}
	s.dismisser.Stop()
}

// FromContext returns the visitor session the session middleware attached.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(globals.VisitorSessionKey).(*Session)
	return s, ok && s != nil
}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, globals.VisitorSessionKey, s)
}

type Options struct {
	// IdleTTL evicts sessions nobody touched for this long.
	IdleTTL time.Duration
	// NotificationDuration overrides how long notifications stay visible.
	NotificationDuration time.Duration
}

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	repo     Repository
	hub      Broadcaster
	opts     Options
	now      func() time.Time
	log      zerolog.Logger
}

// NewManager accepts a nil hub when nothing streams state.
func NewManager(repo Repository, hub Broadcaster, opts Options, log zerolog.Logger) *Manager {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 24 * time.Hour
	}
	return &Manager{
		sessions: make(map[string]*Session),
		repo:     repo,
		hub:      hub,
		opts:     opts,
		now:      time.Now,
		log:      log,
	}
}

// NewID returns a fresh visitor session id.
func NewID() string { return uuid.NewString() }

// ValidID reports whether id looks like one NewID produced.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// GetOrCreate returns the live session for id, restoring it from the
// repository or starting an empty one when needed.
func (m *Manager) GetOrCreate(ctx context.Context, id string) *Session {
	m.mu.Lock()
	if s, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		s.touch(m.now())
		return s
	}
	m.mu.Unlock()

	initial := appstate.Initial()
	if m.repo != nil {
		sn, ok, err := m.repo.Load(ctx, id)
		if err != nil {
			m.log.Warn().Err(err).Str("session_id", id).Msg("session restore failed, starting empty")
		} else if ok {
			initial = sn.State()
		}
	}
	fresh := m.build(id, initial)

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		// lost a race with a concurrent request for the same id
		fresh.close()
		s.touch(m.now())
		return s
	}
	m.sessions[id] = fresh
	return fresh
}

func (m *Manager) build(id string, initial appstate.State) *Session {
	store := appstate.NewStore(initial)
	s := &Session{
		ID:        id,
		Store:     store,
		Modal:     &modal.Controller{},
		dismisser: notify.NewDismisser(store, m.opts.NotificationDuration),
	}
	s.unsubscribe = append(s.unsubscribe, store.Subscribe(s.dismisser.Observe))
	if m.hub != nil {
		hub := m.hub
		s.unsubscribe = append(s.unsubscribe, store.Subscribe(func(st appstate.State) {
			hub.Publish(id, st)
		}))
	}
	s.touch(m.now())
	return s
}

// Dispatch applies a to the session and persists the durable part of the
// resulting state. Persistence failures are logged, never returned.
func (m *Manager) Dispatch(ctx context.Context, s *Session, a appstate.Action) appstate.State {
	st := s.Store.Dispatch(a)
	s.touch(m.now())
	m.persist(ctx, s, a.Type())
	return st
}

// Save persists the session's current state. Used after work that
// dispatched on the store directly.
func (m *Manager) Save(ctx context.Context, s *Session) {
	m.persist(ctx, s, "save")
}

// persist writes whatever the store holds once the previous write for the
// session finished, so a slow save can never land after a newer one.
func (m *Manager) persist(ctx context.Context, s *Session, cause string) {
	if m.repo == nil {
		return
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if err := m.repo.Save(ctx, s.ID, SnapshotOf(s.Store.State())); err != nil {
		m.log.Warn().Err(err).Str("session_id", s.ID).Str("action", cause).Msg("session persist failed")
	}
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than the TTL from memory. Their
// snapshots stay in the repository.
func (m *Manager) Sweep() int {
	now := m.now()
	var idle []*Session

	m.mu.Lock()
	for id, s := range m.sessions {
		if s.idleSince(now) > m.opts.IdleTTL {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.close()
	}
	if len(idle) > 0 {
		m.log.Debug().Int("evicted", len(idle)).Msg("swept idle sessions")
	}
	return len(idle)
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Close stops every session's timers. The manager must not be used after.
func (m *Manager) Close() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range all {
		s.close()
	}
}
