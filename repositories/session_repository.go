package repositories

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Session wraps one tool instance. Mu serializes every operation on Value,
// UpdatedAt and Version; the store never locks it.
type Session[T any] struct {
	ID        string
	CreatedAt time.Time

	Mu        sync.Mutex
	Value     T
	UpdatedAt time.Time
	// Version grows by one with every change to Value, so observers can
	// order the views they receive.
	Version uint64

	lastAccess atomic.Int64
}

func (s *Session[T]) touch(now time.Time) {
	s.lastAccess.Store(now.UnixNano())
}

// LastAccess is the last time the session was created or looked up.
func (s *Session[T]) LastAccess() time.Time {
	return time.Unix(0, s.lastAccess.Load())
}

type SessionRepository[T any] interface {
	Create(ctx context.Context, value T) (*Session[T], error)
	GetByID(ctx context.Context, id string) (*Session[T], error)
	List(ctx context.Context) []*Session[T]
	Delete(ctx context.Context, id string) error
	DeleteIdle(ctx context.Context, cutoff time.Time) []string
}

type memorySessionRepository[T any] struct {
	mu       sync.RWMutex
	sessions map[string]*Session[T]
	now      func() time.Time
}

// NewMemorySessionRepository keeps sessions in process memory only. A nil
// clock means time.Now.
func NewMemorySessionRepository[T any](clock func() time.Time) SessionRepository[T] {
	if clock == nil {
		clock = time.Now
	}
	return &memorySessionRepository[T]{
		sessions: make(map[string]*Session[T]),
		now:      clock,
	}
}

func (r *memorySessionRepository[T]) Create(ctx context.Context, value T) (*Session[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := r.now()
	s := &Session[T]{
		ID:        uuid.NewString(),
		CreatedAt: now,
		Value:     value,
		UpdatedAt: now,
	}
	s.touch(now)

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s, nil
}

func (r *memorySessionRepository[T]) GetByID(ctx context.Context, id string) (*Session[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(r.now())
	return s, nil
}

// List returns every session ordered by creation time. It does not count
// as an access.
func (r *memorySessionRepository[T]) List(ctx context.Context) []*Session[T] {
	r.mu.RLock()
	out := make([]*Session[T], 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *memorySessionRepository[T]) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// DeleteIdle drops sessions not accessed since cutoff and returns their ids.
func (r *memorySessionRepository[T]) DeleteIdle(ctx context.Context, cutoff time.Time) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []string
	for id, s := range r.sessions {
		if s.LastAccess().Before(cutoff) {
			delete(r.sessions, id)
			evicted = append(evicted, id)
		}
	}
	sort.Strings(evicted)
	return evicted
}
