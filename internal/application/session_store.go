package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/bnema/mailtm-mcp/internal/domain"
	"github.com/bnema/mailtm-mcp/internal/ports"
)

// sessionKey is the fixed secret-store slot holding the session record.
const sessionKey = "session.json"

// sessionRecord is the persisted shape of the session. The field names match
// the record other deployments of this tool share, so they stay stable.
type sessionRecord struct {
	Token     string `json:"token"`
	AccountID string `json:"account_id"`
	Address   string `json:"address"`
}

// SessionStore owns the single process-wide session. Every accessor reloads
// from durable storage first so a session established by one process is
// visible to the next one sharing the same store. A mutex serializes
// load/mutate/save sequences; concurrent tool calls must not lose updates.
type SessionStore struct {
	store  ports.SecretStore
	logger *slog.Logger

	mu      sync.Mutex
	session domain.Session
}

func NewSessionStore(store ports.SecretStore, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionStore{store: store, logger: logger}
}

// Load refreshes in-memory state from durable storage. Read or parse
// failures are logged and swallowed; the in-memory session stays usable.
func (s *SessionStore) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked(ctx)
}

func (s *SessionStore) loadLocked(ctx context.Context) {
	value, err := s.store.Get(ctx, sessionKey)
	if err != nil {
		if !errors.Is(err, domain.ErrSecretNotFound) {
			s.logger.Warn("could not load session record", "error", err)
		}
		return
	}

	var record sessionRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		s.logger.Warn("could not decode session record", "error", err)
		return
	}

	s.session.Merge(domain.Session{
		Token:     record.Token,
		AccountID: record.AccountID,
		Address:   record.Address,
	})
}

// Set replaces the session and persists it. Persistence failures are logged
// and swallowed; the session stays active in memory either way.
func (s *SessionStore) Set(ctx context.Context, session domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = session
	s.saveLocked(ctx)
}

func (s *SessionStore) saveLocked(ctx context.Context) {
	record := sessionRecord{
		Token:     s.session.Token,
		AccountID: s.session.AccountID,
		Address:   s.session.Address,
	}

	data, err := json.Marshal(record)
	if err != nil {
		s.logger.Warn("could not encode session record", "error", err)
		return
	}

	if err := s.store.Put(ctx, sessionKey, string(data)); err != nil {
		s.logger.Warn("could not save session record", "error", err)
	}
}

// Clear resets the session in memory and removes the durable record.
// Removal failures are swallowed.
func (s *SessionStore) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = domain.Session{}
	_ = s.store.Delete(ctx, sessionKey)
}

// Current reloads from storage and returns a snapshot of the session.
func (s *SessionStore) Current(ctx context.Context) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked(ctx)
	return s.session
}

// AuthHeader reloads the session and returns the bearer authorization
// header, empty when no session is active.
func (s *SessionStore) AuthHeader(ctx context.Context) http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked(ctx)

	header := http.Header{}
	if s.session.Token != "" {
		header.Set("Authorization", "Bearer "+s.session.Token)
	}

	return header
}

// RequireActive reloads the session and returns it, or domain.ErrNoSession
// when no token is present.
func (s *SessionStore) RequireActive(ctx context.Context) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked(ctx)

	if !s.session.Active() {
		return domain.Session{}, fmt.Errorf("authenticated operation: %w", domain.ErrNoSession)
	}

	return s.session, nil
}
