package api

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/hongduc/quiz11/internal/quiz"
)

// ErrSessionNotFound is returned for an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

type entry struct {
	session    quiz.Session
	submission quiz.Submission
}

// Registry keeps live sessions in memory, keyed by a random id. Slow
// work (generation, submission) runs outside the lock; the result is
// folded back with the same pure transitions the terminal app uses.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*entry)}
}

// Create stores a new Idle session and returns its id.
func (r *Registry) Create(name, class string) (string, quiz.Session) {
	id := uuid.NewString()
	s := quiz.New(name, class)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = &entry{session: s}
	return id, s
}

// Get returns a snapshot of the session and its submission status.
func (r *Registry) Get(id string) (quiz.Session, quiz.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return quiz.Session{}, quiz.Submission{}, ErrSessionNotFound
	}
	return e.session, e.submission, nil
}

// Update applies fn atomically. When fn fails nothing is stored.
func (r *Registry) Update(id string, fn func(e entry) (entry, error)) (entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return entry{}, ErrSessionNotFound
	}
	next, err := fn(*e)
	if err != nil {
		return *e, err
	}
	*e = next
	return next, nil
}

// Delete forgets a session.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
