package sessions

import (
	"fmt"
	"sync"
	"time"
)

const sweepInterval = 5 * time.Minute

type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	opts     Options
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewStore creates a store whose sessions are closed ttl after creation.
// A zero ttl keeps sessions until they are deleted.
func NewStore(opts Options, ttl time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		opts:     opts,
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	if ttl > 0 {
		go s.sweepStale()
	}
	return s
}

func (s *Store) Create(playerName string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Try up to 10 times to generate a unique code
	for range 10 {
		code, err := s.opts.Codes.Generate()
		if err != nil {
			return nil, fmt.Errorf("generating session code: %w", err)
		}
		if _, exists := s.sessions[code]; exists {
			continue
		}

		sess, err := Start(code, playerName, s.opts)
		if err != nil {
			return nil, fmt.Errorf("starting session: %w", err)
		}
		s.sessions[code] = sess
		return sess, nil
	}
	return nil, fmt.Errorf("failed to generate unique session code after 10 attempts")
}

// Get finds a session by code, ignoring case.
func (s *Store) Get(code string) *Session {
	code, ok := s.opts.Codes.Canonical(code)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[code]
}

// Delete closes the session and forgets it. It reports false for unknown codes.
func (s *Store) Delete(code string) bool {
	code, valid := s.opts.Codes.Canonical(code)
	if !valid {
		return false
	}
	s.mu.Lock()
	sess, ok := s.sessions[code]
	delete(s.sessions, code)
	s.mu.Unlock()

	if ok {
		sess.Close()
	}
	return ok
}

func (s *Store) List() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		list = append(list, sess)
	}
	return list
}

// Shutdown closes every session and stops the sweeper.
func (s *Store) Shutdown() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, sess := range all {
		sess.Close()
	}
}

func (s *Store) sweepStale() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.closeOlderThan(now.Add(-s.ttl))
		}
	}
}

func (s *Store) closeOlderThan(cutoff time.Time) int {
	s.mu.Lock()
	var stale []*Session
	for code, sess := range s.sessions {
		if sess.CreatedAt.Before(cutoff) {
			stale = append(stale, sess)
			delete(s.sessions, code)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		sess.Close()
	}
	return len(stale)
}
