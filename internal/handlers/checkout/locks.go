package checkout

import (
	"sync"
)

// sessionLocks serializes checkout submissions per session, so a
// double-submit cannot turn one cart into two orders: the second request
// waits, then sees the cleared cart and gets redirected. Entries are
// reference counted and dropped once the last holder unlocks, so the map
// stays bounded by in-flight submissions rather than sessions seen.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func (s *sessionLocks) lock(sid string) func() {
	s.mu.Lock()
	if s.locks == nil {
		s.locks = make(map[string]*lockEntry)
	}
	e, ok := s.locks[sid]
	if !ok {
		e = &lockEntry{}
		s.locks[sid] = e
	}
	e.refs++
	s.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		s.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(s.locks, sid)
		}
		s.mu.Unlock()
	}
}
