package core

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTTL is how long an idle session is kept.
const DefaultSessionTTL = 30 * time.Minute

// Session holds at most one Dataset. A Session is either empty or holds a
// fully parsed Dataset; failed loads never reach it.
type Session struct {
	id string

	// turn serialises load-then-render for one session.
	turn sync.Mutex

	mu       sync.RWMutex
	dataset  *Dataset
	lastSeen time.Time
}

func (s *Session) ID() string {
	return s.id
}

// Current returns the held Dataset or nil.
func (s *Session) Current() *Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// Replace swaps in ds. A nil ds is ignored so the slot can only move from
// empty to loaded or from one Dataset to the next.
func (s *Session) Replace(ds *Dataset) {
	if ds == nil {
		return
	}
	s.mu.Lock()
	s.dataset = ds
	s.mu.Unlock()
}

// Apply runs load while holding the session's turn and replaces the Dataset
// only when load succeeds and ctx is still live. The returned Dataset is the
// one now held, or nil with the load error.
func (s *Session) Apply(ctx context.Context, load func(context.Context) (*Dataset, error)) (*Dataset, error) {
	s.turn.Lock()
	defer s.turn.Unlock()

	ds, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, ErrNilDataset
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.Replace(ds)
	return ds, nil
}

// View runs fn with the current Dataset while holding the session's turn,
// so a render never interleaves with a load from the same session.
func (s *Session) View(fn func(*Dataset)) {
	s.turn.Lock()
	defer s.turn.Unlock()
	fn(s.Current())
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

// SessionStore keeps live Sessions in memory, keyed by ID.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates an empty store. ttl <= 0 uses DefaultSessionTTL.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// GetOrCreate returns the live Session for id, or a new empty Session with
// a fresh random ID. created reports which happened.
func (st *SessionStore) GetOrCreate(id string) (sess *Session, created bool) {
	now := st.now()

	if _, err := uuid.Parse(id); err == nil {
		st.mu.RLock()
		sess, ok := st.sessions[id]
		st.mu.RUnlock()
		if ok {
			sess.touch(now)
			return sess, false
		}
	}

	sess = &Session{id: uuid.NewString(), lastSeen: now}
	st.mu.Lock()
	st.sessions[sess.id] = sess
	n := len(st.sessions)
	st.mu.Unlock()

	sessionsActive.Set(float64(n))
	return sess, true
}

// Get returns the Session for id without creating one.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.touch(st.now())
	return sess, nil
}

// Delete drops a session and its Dataset.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	n := len(st.sessions)
	st.mu.Unlock()
	sessionsActive.Set(float64(n))
}

func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// EvictIdle removes sessions not seen within the TTL and returns how many
// were removed.
func (st *SessionStore) EvictIdle() int {
	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	removed := 0
	for id, sess := range st.sessions {
		if sess.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	n := len(st.sessions)
	st.mu.Unlock()

	sessionsActive.Set(float64(n))
	return removed
}

// StartJanitor evicts idle sessions every interval until ctx is cancelled.
// It blocks, so run it in a goroutine.
func (st *SessionStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	slog.Info("session janitor started", "interval", interval, "ttl", st.ttl)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session janitor stopped")
			return
		case <-ticker.C:
			if n := st.EvictIdle(); n > 0 {
				slog.Debug("evicted idle sessions", "count", n, "remaining", st.Len())
			}
		}
	}
}
