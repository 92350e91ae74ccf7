package usecase

import (
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"reminder-draft/internal/draft"
)

const sessionStoreSize = 4096

// sessionStore keeps active draft sessions in memory, one per
// (chatID, ownerUserID) pair. The expirable LRU is only a garbage
// collector for abandoned sessions; the authoritative expiry check is
// Session.ExpiresAt, so its TTL is kept well past the inactivity window.
type sessionStore struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
	cache *expirable.LRU[string, *draft.Session]
}

func newSessionStore(timeout time.Duration) *sessionStore {
	return &sessionStore{
		locks: make(map[string]*sync.Mutex),
		cache: expirable.NewLRU[string, *draft.Session](sessionStoreSize, nil, 4*timeout),
	}
}

func sessionKey(chatID int64, userID string) string {
	return fmt.Sprintf("%d:%s", chatID, userID)
}

// lock serializes all mutations for one chat/user pair. The returned
// mutex is held across external calls so two turns never interleave on
// the same session.
func (s *sessionStore) lock(key string) *sync.Mutex {
	s.mu.Lock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m
}

func (s *sessionStore) get(key string) (*draft.Session, bool) {
	return s.cache.Get(key)
}

func (s *sessionStore) put(key string, sess *draft.Session) {
	s.cache.Add(key, sess)
}

func (s *sessionStore) remove(key string) {
	s.cache.Remove(key)
}
