// Package session is the single source of truth for who the current
// operator is. A Manager is created at process start from persisted storage
// and injected into everything that needs the token or the role.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/straye-as/client-admin/internal/auth"
	"github.com/straye-as/client-admin/internal/domain"
	"github.com/straye-as/client-admin/internal/ui"
	"go.uber.org/zap"
)

// Message shown when a route guard turns the operator away
const MsgNotAuthorizedToView = "You are not authorized to view this page."

// Authenticator exchanges an email for a token and profile
type Authenticator interface {
	Login(ctx context.Context, email string) (*domain.LoginResponse, error)
}

// Manager holds the persisted token and cached user profile
type Manager struct {
	store    Store
	nav      ui.Navigator
	notifier ui.Notifier
	logger   *zap.Logger

	mu    sync.RWMutex
	authn Authenticator
	token string
	user  *domain.User
}

// Open creates a Manager and loads any persisted session from store.
// A corrupt profile is treated as signed out.
func Open(ctx context.Context, store Store, nav ui.Navigator, notifier ui.Notifier, logger *zap.Logger) (*Manager, error) {
	m := &Manager{
		store:    store,
		nav:      nav,
		notifier: notifier,
		logger:   logger,
	}

	snap, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if snap.Token == "" {
		return m, nil
	}

	m.token = snap.Token
	if snap.User != "" {
		var user domain.User
		if err := json.Unmarshal([]byte(snap.User), &user); err != nil {
			logger.Warn("discarding unreadable session profile", zap.Error(err))
			m.token = ""
			if err := store.Clear(ctx); err != nil {
				logger.Warn("failed to clear session", zap.Error(err))
			}
			return m, nil
		}
		m.user = &user
	}
	return m, nil
}

// SetAuthenticator sets the service Login calls
func (m *Manager) SetAuthenticator(a Authenticator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authn = a
}

// Login signs in with email and persists the token and profile together
func (m *Manager) Login(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	authn := m.authn
	m.mu.RUnlock()
	if authn == nil {
		return nil, errors.New("session: no authenticator configured")
	}

	resp, err := authn.Login(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("session: login response has no token")
	}

	raw, err := json.Marshal(resp.User)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user profile: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Save(ctx, Snapshot{Token: resp.Token, User: string(raw)}); err != nil {
		return nil, err
	}
	user := resp.User
	m.token = resp.Token
	m.user = &user

	m.logger.Info("signed in", zap.String("email", user.Email), zap.String("role", user.Role))
	return &user, nil
}

// Logout clears the persisted session and returns to the login screen.
// Calling it when already signed out only navigates.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	if err := m.store.Clear(context.Background()); err != nil {
		m.logger.Warn("failed to clear persisted session", zap.Error(err))
	}
	m.mu.Unlock()

	m.nav.Navigate(auth.RouteLogin)
}

// Close releases the underlying store
func (m *Manager) Close() error {
	return m.store.Close()
}

// Token returns the bearer token or ""
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// CurrentUser returns a copy of the cached profile, or nil
func (m *Manager) CurrentUser() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// IsLoggedIn reports whether a non-empty token is present.
// Freshness and signature are left to the backend.
func (m *Manager) IsLoggedIn() bool {
	return m.Token() != ""
}

// Role returns the operator's role; no profile means RoleViewer
func (m *Manager) Role() auth.Role {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return auth.RoleViewer
	}
	return auth.ParseRole(m.user.Role)
}

func (m *Manager) IsAdmin() bool  { return m.Role() == auth.RoleAdmin }
func (m *Manager) IsEditor() bool { return m.Role() == auth.RoleEditor }

func (m *Manager) IsAdminOrEditor() bool {
	role := m.Role()
	return role == auth.RoleAdmin || role == auth.RoleEditor
}

// Can reports whether the current role permits action
func (m *Manager) Can(action auth.Action) bool {
	return m.IsLoggedIn() && auth.Can(m.Role(), action)
}

// Username returns the profile's full name or ""
func (m *Manager) Username() string {
	if u := m.CurrentUser(); u != nil {
		return u.FullName
	}
	return ""
}

// Email returns the profile's email or ""
func (m *Manager) Email() string {
	if u := m.CurrentUser(); u != nil {
		return u.Email
	}
	return ""
}

// UserContext returns the operator as an auth.UserContext, or nil when signed out
func (m *Manager) UserContext() *auth.UserContext {
	if !m.IsLoggedIn() {
		return nil
	}
	u := m.CurrentUser()
	uc := &auth.UserContext{Role: m.Role()}
	if u != nil {
		uc.UserID = u.ID
		uc.FullName = u.FullName
		uc.Email = u.Email
	}
	return uc
}

// Guard decides whether the operator may open route. Signed-out operators
// are sent to login; a role without access is told so and sent to clients.
func (m *Manager) Guard(route auth.Route) error {
	if !m.IsLoggedIn() {
		m.nav.Navigate(auth.RouteLogin)
		return domain.ErrNotLoggedIn
	}
	if !auth.RouteAllows(route, m.Role()) {
		m.notifier.Notify(MsgNotAuthorizedToView)
		m.nav.Navigate(auth.RouteClients)
		return fmt.Errorf("%w: %s", domain.ErrForbidden, route)
	}
	return nil
}

// TokenInfo is the informational content of the bearer token
type TokenInfo struct {
	Subject   string
	UserID    int64
	Role      string
	Name      string
	ExpiresAt time.Time
}

// Expired reports whether the token's exp claim is in the past
func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

// TokenInfo decodes the token's claims without verifying the signature.
// The result is for display only.
func (m *Manager) TokenInfo() (*TokenInfo, error) {
	token := m.Token()
	if token == "" {
		return nil, domain.ErrNotLoggedIn
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}

	info := &TokenInfo{}
	info.Subject, _ = claims.GetSubject()
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	if uid, ok := claims["uid"].(float64); ok {
		info.UserID = int64(uid)
	}
	info.Role, _ = claims["role"].(string)
	info.Name, _ = claims["name"].(string)
	return info, nil
}
