// Package session keeps operator logins and their open add-subscription forms
// in memory. Nothing is persisted; a restart logs everyone out.
package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mtlprog/bison-admin/internal/form"
	"github.com/mtlprog/bison-admin/internal/model"
)

const maxFormsPerSession = 8

// Session is one logged-in operator.
type Session struct {
	ID    string
	Login model.LoginInfo

	mu        sync.Mutex
	forms     map[string]*form.Form
	formOrder []string
	lastSeen  time.Time
}

// AddForm registers an open form and returns its id. The oldest form is
// dropped when the session holds too many.
func (s *Session) AddForm(f *form.Form) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.forms[id] = f
	s.formOrder = append(s.formOrder, id)

	if len(s.formOrder) > maxFormsPerSession {
		oldest := s.formOrder[0]
		s.formOrder = s.formOrder[1:]
		if old, ok := s.forms[oldest]; ok {
			old.Cancel()
			delete(s.forms, oldest)
		}
	}
	return id
}

// Form returns the open form with the given id.
func (s *Session) Form(id string) (*form.Form, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.forms[id]
	return f, ok
}

// RemoveForm discards a form.
func (s *Session) RemoveForm(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.forms, id)
	for i, fid := range s.formOrder {
		if fid == id {
			s.formOrder = append(s.formOrder[:i], s.formOrder[i+1:]...)
			break
		}
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Store holds sessions with an idle timeout.
type Store struct {
	ttl         time.Duration
	mu          sync.RWMutex
	sessions    map[string]*Session
	now         func() time.Time
	cleanupDone chan struct{}
	closeOnce   sync.Once
}

// NewStore creates a store whose sessions expire after ttl of inactivity.
// Close must be called to stop the background cleanup goroutine.
func NewStore(ttl time.Duration) (*Store, error) {
	if ttl <= 0 {
		return nil, errors.New("session TTL must be positive")
	}
	s := &Store{
		ttl:         ttl,
		sessions:    make(map[string]*Session),
		now:         time.Now,
		cleanupDone: make(chan struct{}),
	}
	go s.cleanupLoop(cleanupInterval(ttl))
	return s, nil
}

func cleanupInterval(ttl time.Duration) time.Duration {
	return max(min(ttl/2, 10*time.Minute), time.Second)
}

// Create starts a session for login.
func (s *Store) Create(login model.LoginInfo) *Session {
	sess := &Session{
		ID:       uuid.NewString(),
		Login:    login,
		forms:    make(map[string]*form.Form),
		lastSeen: s.now(),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	slog.Info("session created", "user", login.Name, "type", login.Type)
	return sess
}

// Get returns a live session and marks it as used.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	now := s.now()
	if sess.idleSince(now) > s.ttl {
		s.Delete(id)
		return nil, false
	}
	sess.touch(now)
	return sess, true
}

// Login returns the identity of a live session.
func (s *Store) Login(id string) (model.LoginInfo, bool) {
	sess, ok := s.Get(id)
	if !ok {
		return model.LoginInfo{}, false
	}
	return sess.Login, true
}

// Delete removes a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of stored sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.cleanupDone:
			return
		}
	}
}

func (s *Store) cleanup() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		slog.Debug("expired sessions removed", "count", removed, "remaining", len(s.sessions))
	}
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.cleanupDone)
	})
}
