package wizard

import (
	"context"
	"sync"
	"time"

	"ecovoz/internal/domain"
	apperrors "ecovoz/internal/errors"
	"ecovoz/internal/pricing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is one wizard instance. The draft lives only here: no
// persistence, no resumption after the session is gone.
type Session struct {
	ID        string
	Token     string
	Draft     *domain.OrderDraft
	Steps     []Step
	StepIndex int
	Ref       RefData
	Engine    *pricing.Engine

	mu         sync.Mutex
	submitting bool
	touchedAt  time.Time
}

// Lock serializes all access to the session's mutable state.
func (s *Session) Lock() {
	s.mu.Lock()
}

func (s *Session) Unlock() {
	s.mu.Unlock()
}

// BeginSubmit claims the submission flag. It returns false when a
// submission is already in flight, which is how double confirmation is
// rejected. Callers must hold the session lock.
func (s *Session) BeginSubmit() bool {
	if s.submitting {
		return false
	}
	s.submitting = true
	return true
}

// EndSubmit releases the submission flag after a failed attempt so the
// user can retry. Callers must hold the session lock.
func (s *Session) EndSubmit() {
	s.submitting = false
}

func (s *Session) CurrentStep() Step {
	return s.Steps[ClampIndex(s.StepIndex, s.Steps)]
}

// Store keeps live wizard sessions in memory, keyed by session ID.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   *zap.Logger
}

func NewStore(ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   logger,
	}
}

func (st *Store) Create(token string, draft *domain.OrderDraft, steps []Step, ref RefData, engine *pricing.Engine) *Session {
	s := &Session{
		ID:        uuid.New().String(),
		Token:     token,
		Draft:     draft,
		Steps:     steps,
		Ref:       ref,
		Engine:    engine,
		touchedAt: time.Now(),
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, apperrors.NewNotFoundError("сессия оформления не найдена")
	}

	s.mu.Lock()
	s.touchedAt = time.Now()
	s.mu.Unlock()
	return s, nil
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// StartJanitor evicts idle sessions in the background until ctx is done.
func (st *Store) StartJanitor(ctx context.Context) {
	interval := st.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				st.evictExpired(time.Now())
			}
		}
	}()
}

func (st *Store) evictExpired(now time.Time) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for id, s := range st.sessions {
		s.mu.Lock()
		expired := now.Sub(s.touchedAt) > st.ttl && !s.submitting
		s.mu.Unlock()
		if expired {
			delete(st.sessions, id)
			st.logger.Debug("evicted idle wizard session", zap.String("sessionId", id))
		}
	}
}
