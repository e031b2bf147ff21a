package pos

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Marcial-ar/tpv/internal/domain"
)

// Session is one operator at one POS screen. It owns a private draft and
// serializes every operation on it.
type Session struct {
	ID        string      `json:"id"`
	User      domain.User `json:"user"`
	StartedAt time.Time   `json:"started_at"`

	mu        sync.Mutex
	builder   *Builder
	finalizer *Finalizer
	logger    *slog.Logger
}

func (s *Session) AddProduct(ctx context.Context, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.builder.AddProduct(ctx, productID)
}

func (s *Session) UpdateQuantity(productID string, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.builder.UpdateQuantity(productID, quantity)
}

func (s *Session) RemoveProduct(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.builder.RemoveProduct(productID)
}

func (s *Session) SelectTable(table *domain.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.builder.SelectTable(table)
}

// SetZone reports whether the zone or the attached table changed.
func (s *Session) SetZone(zone domain.Zone) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevZone, hadTable := s.builder.Zone(), s.builder.Table() != nil
	if err := s.builder.SetZone(zone); err != nil {
		return false, err
	}
	tableCleared := hadTable && s.builder.Table() == nil
	return prevZone != zone || tableCleared, nil
}

func (s *Session) Draft() DraftView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.builder.Snapshot()
}

// Cancel discards the draft and reports whether there was anything to discard.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.builder.Empty() && s.builder.Table() == nil {
		return false
	}
	s.builder.Reset()
	s.logger.Info("draft cancelled", "session_id", s.ID)
	return true
}

// Finalize completes the current draft and starts a new one. On error the
// draft is left exactly as it was.
func (s *Session) Finalize(ctx context.Context) (*Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	completion, err := s.finalizer.Finalize(ctx, s.builder.Snapshot(), s.User)
	if err != nil {
		return nil, err
	}
	s.builder.Reset()
	return completion, nil
}

type SessionManager struct {
	cfg       Config
	users     UserDirectory
	catalog   Catalog
	finalizer *Finalizer
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionManager(cfg Config, users UserDirectory, catalog Catalog, finalizer *Finalizer, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		cfg:       cfg,
		users:     users,
		catalog:   catalog,
		finalizer: finalizer,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		sessions:  make(map[string]*Session),
	}
}

// Start opens a session for an active user with a known role.
func (m *SessionManager) Start(ctx context.Context, userID string) (*Session, error) {
	user, err := m.users.User(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnknownUser
	}
	if !user.Active {
		return nil, ErrInactiveUser
	}
	if !user.Role.Valid() {
		return nil, ErrInvalidRole
	}

	s := &Session{
		ID:        uuid.New().String(),
		User:      *user,
		StartedAt: m.now(),
		builder:   NewBuilder(m.catalog, m.cfg),
		finalizer: m.finalizer,
		logger:    m.logger,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info("session started", "session_id", s.ID, "user_id", user.ID, "role", user.Role)
	return s, nil
}

func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// End closes a session and drops its draft.
func (m *SessionManager) End(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	m.logger.Info("session ended", "session_id", id)
	return nil
}

// List returns open sessions, oldest first.
func (m *SessionManager) List() []*Session {
	m.mu.RLock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}
