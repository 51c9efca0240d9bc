package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/honganh1206/professor/metrics"
	"github.com/rs/zerolog/log"
)

// Session is one browser's isolated State. Actions run one at a time and to
// completion, including any LLM call made on the session's behalf.
type Session struct {
	ID string

	mu    sync.Mutex
	state *State

	flashMu sync.Mutex
	flash   Flash

	lastSeen time.Time // guarded by Manager.mu
}

// Flash carries one-shot messages for the next page render.
type Flash struct {
	Notice string
	Error  string
}

func newSession(id string) *Session {
	return &Session{
		ID:    id,
		state: NewState(),
	}
}

// Do runs fn with exclusive access to the session state.
func (s *Session) Do(fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.state)
}

func (s *Session) Notify(msg string) {
	s.flashMu.Lock()
	defer s.flashMu.Unlock()
	s.flash.Notice = msg
}

func (s *Session) Fail(msg string) {
	s.flashMu.Lock()
	defer s.flashMu.Unlock()
	s.flash.Error = msg
}

// TakeFlash returns and clears the pending flash messages.
func (s *Session) TakeFlash() Flash {
	s.flashMu.Lock()
	defer s.flashMu.Unlock()

	f := s.flash
	s.flash = Flash{}
	return f
}

// Manager keeps sessions in memory, evicting the least recently used once
// maxSessions is reached and dropping sessions idle longer than ttl.
type Manager struct {
	mu    sync.Mutex
	cache *lru.Cache
	ttl   time.Duration
	now   func() time.Time
}

func NewManager(maxSessions int, ttl time.Duration) (*Manager, error) {
	cache, err := lru.NewWithEvict(maxSessions, func(key, _ interface{}) {
		metrics.SessionsActive.Dec()
		log.Debug().Interface("session_id", key).Msg("session discarded")
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}

	return &Manager{
		cache: cache,
		ttl:   ttl,
		now:   time.Now,
	}, nil
}

// Get returns a live session and marks it as recently used.
func (m *Manager) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	val, found := m.cache.Get(id)
	if !found {
		return nil, false
	}

	sess := val.(*Session)
	now := m.now()
	if m.ttl > 0 && now.Sub(sess.lastSeen) > m.ttl {
		m.cache.Remove(id)
		return nil, false
	}

	sess.lastSeen = now
	return sess, true
}

func (m *Manager) Create() (*Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to create session id: %w", err)
	}

	sess := newSession(id.String())

	m.mu.Lock()
	defer m.mu.Unlock()

	sess.lastSeen = m.now()
	m.cache.Add(sess.ID, sess)
	metrics.SessionsActive.Inc()

	return sess, nil
}

// GetOrCreate resumes the session for id, or starts a fresh one when id is
// unknown or expired. created reports which happened.
func (m *Manager) GetOrCreate(id string) (sess *Session, created bool, err error) {
	if sess, ok := m.Get(id); ok {
		return sess, false, nil
	}

	sess, err = m.Create()
	if err != nil {
		return nil, false, err
	}
	return sess, true, nil
}

// Sweep drops every session idle longer than the ttl and reports how many
// went.
func (m *Manager) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for _, key := range m.cache.Keys() {
		val, ok := m.cache.Peek(key)
		if !ok {
			continue
		}
		if now.Sub(val.(*Session).lastSeen) > m.ttl {
			m.cache.Remove(key)
			removed++
		}
	}
	return removed
}

// Janitor sweeps idle sessions every interval until ctx is done.
func (m *Manager) Janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				log.Debug().Int("sessions", n).Msg("swept idle sessions")
			}
		}
	}
}

func (m *Manager) Len() int {
	return m.cache.Len()
}
