package chat

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Turn is one message of an exchange.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Session holds the most recent exchange of one conversation. Requests in
// a session are serialized by mu.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	log     []Turn
	touched atomic.Int64
}

func newSession() *Session {
	s := &Session{ID: uuid.NewString(), CreatedAt: time.Now()}
	s.touch()
	return s
}

func (s *Session) touch() {
	s.touched.Store(time.Now().UnixNano())
}

// LastActive returns the time of the last request in the session.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.touched.Load())
}

// Exchange returns a copy of the current exchange log.
func (s *Session) Exchange() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.log))
	copy(out, s.log)
	return out
}

// SessionStore is a bounded session registry. The least recently used
// session is evicted at capacity and idle sessions expire after ttl.
type SessionStore struct {
	cache *lru.Cache
	ttl   time.Duration
}

func NewSessionStore(capacity int, ttl time.Duration) (*SessionStore, error) {
	cache, err := lru.New(capacity)
	if err != nil {
		return nil, err
	}
	return &SessionStore{cache: cache, ttl: ttl}, nil
}

// Create registers a new empty session.
func (s *SessionStore) Create() *Session {
	sess := newSession()
	s.cache.Add(sess.ID, sess)
	return sess
}

// Get returns the session with id, or nil when it is unknown or expired.
func (s *SessionStore) Get(id string) *Session {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil
	}
	sess := v.(*Session)
	if s.expired(sess, time.Now()) {
		s.cache.Remove(id)
		return nil
	}
	return sess
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	return s.cache.Len()
}

// Cleanup removes expired sessions.
func (s *SessionStore) Cleanup() int {
	now := time.Now()
	removed := 0
	for _, k := range s.cache.Keys() {
		v, ok := s.cache.Peek(k)
		if !ok {
			continue
		}
		if s.expired(v.(*Session), now) {
			s.cache.Remove(k)
			removed++
		}
	}
	return removed
}

func (s *SessionStore) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.LastActive()) > s.ttl
}
