package session

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	s    *Session
	seen time.Time
}

// MemoryStore keeps sessions in process. Sessions idle longer than ttl are
// dropped; a zero ttl keeps them forever.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.Mutex
	sessions  map[string]*entry
	lastSweep time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:       ttl,
		now:       time.Now,
		sessions:  make(map[string]*entry),
		lastSweep: time.Now(),
	}
}

func (m *MemoryStore) expired(e *entry, now time.Time) bool {
	return m.ttl > 0 && now.Sub(e.seen) > m.ttl
}

func (m *MemoryStore) Load(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if m.expired(e, now) {
		delete(m.sessions, id)
		return nil, ErrNotFound
	}
	e.seen = now
	return e.s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sessions[s.ID] = &entry{s: s, seen: now}
	m.sweepLocked(now)
	return nil
}

// LoadOrCreate returns the stored session, creating and storing a fresh one if absent.
func (m *MemoryStore) LoadOrCreate(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if e, ok := m.sessions[id]; ok && !m.expired(e, now) {
		e.seen = now
		return e.s
	}
	s := New(id)
	m.sessions[id] = &entry{s: s, seen: now}
	m.sweepLocked(now)
	return s
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// sweepLocked drops idle sessions at most once per half ttl.
func (m *MemoryStore) sweepLocked(now time.Time) {
	if m.ttl <= 0 || now.Sub(m.lastSweep) < m.ttl/2 {
		return
	}
	m.lastSweep = now
	for id, e := range m.sessions {
		if m.expired(e, now) {
			delete(m.sessions, id)
		}
	}
}
