// Package session owns the persisted login state: it stores the token
// and profile returned by authentication calls, restores them on
// startup, and clears them on logout. The invariant is that a stored
// token means the application considers itself authenticated.
package session

import (
	"context"

	"github.com/atinyakov/BillboardWatch/internal/client/api"
	"github.com/atinyakov/BillboardWatch/internal/client/storage"
	"github.com/atinyakov/BillboardWatch/internal/models"
	"go.uber.org/zap"
)

// AuthAPI is the subset of the auth module the session manager uses.
type AuthAPI interface {
	Login(ctx context.Context, creds api.LoginCredentials) (*api.AuthResult, error)
	VerifyOTP(ctx context.Context, data api.OTPVerification) (*api.OTPResult, error)
	Logout(ctx context.Context) (*api.OperationStatus, error)
	CurrentUser(ctx context.Context) (*models.User, error)
}

// Manager persists authentication state in the credential store.
type Manager struct {
	auth  AuthAPI
	store *storage.Store
	log   *zap.Logger
}

// NewManager constructs a Manager.
func NewManager(auth AuthAPI, store *storage.Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{auth: auth, store: store, log: log}
}

// Login authenticates and persists the token and profile together.
func (m *Manager) Login(ctx context.Context, creds api.LoginCredentials) (*api.AuthResult, error) {
	result, err := m.auth.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	if err := m.persist(result.Token, &result.User); err != nil {
		return nil, err
	}
	return result, nil
}

// VerifyOTP confirms a one-time code; when the signup flow yields a
// token, the session is persisted.
func (m *Manager) VerifyOTP(ctx context.Context, data api.OTPVerification) (*api.OTPResult, error) {
	result, err := m.auth.VerifyOTP(ctx, data)
	if err != nil {
		return nil, err
	}
	if result.Token != "" && result.User != nil {
		if err := m.persist(result.Token, result.User); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Restore reads the persisted session. ok is false when either part is
// missing, in which case the application starts unauthenticated.
func (m *Manager) Restore() (user *models.User, token string, ok bool) {
	token, ok = m.store.GetItem(storage.KeyAuthToken)
	if !ok {
		return nil, "", false
	}
	var u models.User
	if !m.store.GetItemJSON(storage.KeyUserData, &u) {
		return nil, "", false
	}
	return &u, token, true
}

// Refresh fetches the current profile from the backend and updates the
// stored copy.
func (m *Manager) Refresh(ctx context.Context) (*models.User, error) {
	user, err := m.auth.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := m.store.SetItem(storage.KeyUserData, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout tells the backend to invalidate the session and clears the
// stored credentials. The local clear happens even when the backend
// call fails, so the device never holds a session the user ended.
func (m *Manager) Logout(ctx context.Context) error {
	if _, err := m.auth.Logout(ctx); err != nil {
		m.log.Warn("server logout failed, clearing local session anyway", zap.Error(err))
	}
	if err := m.store.RemoveItem(storage.KeyAuthToken); err != nil {
		return err
	}
	return m.store.RemoveItem(storage.KeyUserData)
}

// IsAuthenticated reports whether a token is persisted.
func (m *Manager) IsAuthenticated() bool {
	return m.store.HasItem(storage.KeyAuthToken)
}

func (m *Manager) persist(token string, user *models.User) error {
	if err := m.store.SetItem(storage.KeyAuthToken, token); err != nil {
		return err
	}
	return m.store.SetItem(storage.KeyUserData, user)
}
