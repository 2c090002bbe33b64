package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront/internal/scope"
	"storefront/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("session not found")

// Session bundles the per-browser state: cart, auth, scope and checkout.
type Session struct {
	ID       string
	Cart     *CartStore
	Auth     *AuthStore
	Scope    *scope.Scoped
	Checkout *CheckoutWorkflow

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SessionDeps configures the sessions a SessionManager creates.
type SessionDeps struct {
	Backend   scope.Backend
	Pricing   Pricing
	Delays    Delays
	Payments  *PaymentProcessor
	Publisher OrderPublisher
	TTL       time.Duration
	Now       func() time.Time
}

// SessionManager owns every live session.
type SessionManager struct {
	deps   SessionDeps
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionManager(deps SessionDeps) *SessionManager {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Payments == nil {
		deps.Payments = NewPaymentProcessor(deps.Delays.Payment)
	}
	return &SessionManager{
		deps:     deps,
		logger:   util.GetLogger(),
		sessions: make(map[string]*Session),
	}
}

// Create opens a session with an empty cart and no user.
func (m *SessionManager) Create() *Session {
	id := uuid.New().String()
	sc := scope.New(m.deps.Backend, id)
	cart := NewCartStore()
	auth := NewAuthStore(sc, m.deps.Delays.Auth)

	s := &Session{
		ID:    id,
		Cart:  cart,
		Auth:  auth,
		Scope: sc,
		Checkout: NewCheckoutWorkflow(WorkflowDeps{
			Cart:      cart,
			Users:     auth,
			Scope:     sc,
			Payments:  m.deps.Payments,
			Publisher: m.deps.Publisher,
			Pricing:   m.deps.Pricing,
			Delays:    m.deps.Delays,
			Now:       m.deps.Now,
		}),
		lastSeen: m.deps.Now(),
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	util.SessionsActive.Inc()
	m.logger.Debug("Session created", zap.String("session_id", id))
	return s
}

// Get returns a live session and marks it as used.
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(m.deps.Now())
	return s, nil
}

// Delete ends a session: pending checkout work is discarded and the scope
// is erased.
func (m *SessionManager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	util.SessionsActive.Dec()
	s.Checkout.Abandon()
	return s.Scope.Drop(ctx)
}

// Reap deletes sessions idle for longer than the TTL and reports how many
// were removed.
func (m *SessionManager) Reap(ctx context.Context) int {
	if m.deps.TTL <= 0 {
		return 0
	}
	cutoff := m.deps.Now().Add(-m.deps.TTL)

	m.mu.RLock()
	var expired []string
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, id)
		}
	}
	m.mu.RUnlock()

	removed := 0
	for _, id := range expired {
		err := m.Delete(ctx, id)
		if errors.Is(err, ErrSessionNotFound) {
			continue
		}
		if err != nil {
			m.logger.Warn("Failed to erase expired session scope", zap.String("session_id", id), zap.Error(err))
		}
		removed++
	}
	return removed
}

// Len reports the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
