package manager

import (
	"context"

	"taskmaster/internal/api"
	"taskmaster/internal/cache"
	"taskmaster/internal/session"
)

// AuthManager wires login, registration and logout to the session and the
// cache. Logout drops every cached read; nothing in the cache belongs to the
// next session.
type AuthManager struct {
	api     *api.Client
	cache   *cache.Cache
	session *session.Session
}

func NewAuthManager(client *api.Client, c *cache.Cache, sess *session.Session) *AuthManager {
	return &AuthManager{api: client, cache: c, session: sess}
}

// Login authenticates, persists the token, and returns the account route to
// navigate to.
func (m *AuthManager) Login(ctx context.Context, email, password string) (string, error) {
	result, err := m.api.Login(ctx, api.LoginInput{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	if err := m.session.Login(ctx, result.Token, result.User); err != nil {
		return "", err
	}
	return AccountRoute(result.User.ID), nil
}

func (m *AuthManager) Register(ctx context.Context, input api.RegisterInput) error {
	_, err := m.api.Register(ctx, input)
	return err
}

func (m *AuthManager) Logout(ctx context.Context) error {
	if err := m.session.Logout(ctx); err != nil {
		return err
	}
	m.cache.Reset()
	return nil
}
