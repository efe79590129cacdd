package session

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MaximoGamba/DemoEcommers/internal/kv"
	"github.com/MaximoGamba/DemoEcommers/internal/models"
	"github.com/google/uuid"
)

// Manager owns the client identity attached to cart and order requests: a
// generated anonymous session ID that persists across runs, and an optional
// auth session loaded on startup. Absent a login, requests are attributed to
// the configured demo user; a real deployment replaces this with bearer-token
// identification.
type Manager struct {
	store      kv.Store
	demoUserID int64
	logger     *slog.Logger

	mu        sync.RWMutex
	sessionID string
	auth      *models.AuthSession
}

func NewManager(ctx context.Context, store kv.Store, demoUserID int64, logger *slog.Logger) (*Manager, error) {
	m := &Manager{
		store:      store,
		demoUserID: demoUserID,
		logger:     logger,
	}

	sessionID, err := m.loadOrCreateSessionID(ctx)
	if err != nil {
		return nil, err
	}

	m.sessionID = sessionID

	var auth models.AuthSession

	found, err := store.Get(ctx, kv.AuthKey, &auth)
	if err != nil {
		// a corrupt auth entry degrades to anonymous, never blocks startup
		logger.Warn("stored auth session unreadable, continuing anonymous", slog.String("error", err.Error()))
	} else if found {
		m.auth = &auth
	}

	return m, nil
}

func (m *Manager) loadOrCreateSessionID(ctx context.Context) (string, error) {
	var sessionID string

	found, err := m.store.Get(ctx, kv.SessionKey, &sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to load session id: %w", err)
	}

	if found && sessionID != "" {
		return sessionID, nil
	}

	sessionID = generateSessionID()

	if err := m.store.Set(ctx, kv.SessionKey, sessionID); err != nil {
		return "", fmt.Errorf("failed to persist session id: %w", err)
	}

	return sessionID, nil
}

// generateSessionID mirrors the original format: a timestamp plus a short
// random suffix. Display-grade uniqueness only.
func generateSessionID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]

	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), suffix)
}

func (m *Manager) SessionID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sessionID
}

// UserID returns the identity header value: the logged-in user's ID, else
// the demo user.
func (m *Manager) UserID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.auth != nil {
		return strconv.FormatInt(m.auth.User.ID, 10)
	}

	return strconv.FormatInt(m.demoUserID, 10)
}

// Token returns the bearer token, empty when anonymous.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.auth != nil {
		return m.auth.Token
	}

	return ""
}

func (m *Manager) CurrentUser() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.auth == nil {
		return nil
	}

	user := m.auth.User

	return &user
}

// Email is the logged-in user's address, empty for anonymous sessions.
func (m *Manager) Email() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.auth == nil {
		return ""
	}

	return m.auth.User.Email
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.auth != nil
}

// Login persists the auth session. The anonymous session ID is kept so the
// backend can transfer the anonymous cart to the user.
func (m *Manager) Login(ctx context.Context, auth models.AuthSession) error {
	if auth.LoggedAt.IsZero() {
		auth.LoggedAt = time.Now()
	}

	if err := m.store.Set(ctx, kv.AuthKey, auth); err != nil {
		return fmt.Errorf("failed to persist auth session: %w", err)
	}

	m.mu.Lock()
	m.auth = &auth
	m.mu.Unlock()

	m.logger.Info("user logged in", slog.Int64("user_id", auth.User.ID))

	return nil
}

// Logout tears down the auth session and rotates the anonymous session ID so
// the next visitor starts clean.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Delete(ctx, kv.AuthKey); err != nil {
		return fmt.Errorf("failed to clear auth session: %w", err)
	}

	sessionID := generateSessionID()

	if err := m.store.Set(ctx, kv.SessionKey, sessionID); err != nil {
		return fmt.Errorf("failed to rotate session id: %w", err)
	}

	m.mu.Lock()
	m.auth = nil
	m.sessionID = sessionID
	m.mu.Unlock()

	m.logger.Info("user logged out")

	return nil
}
