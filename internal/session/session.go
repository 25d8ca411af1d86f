package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskmaster/internal/model"
	"taskmaster/internal/storage"
)

var ErrNotLoggedIn = errors.New("not logged in")

// Session is the one piece of ambient mutable state in the client: the
// bearer token and the user it belongs to. Resource clients read the token
// at call time so login/logout take effect without a restart, and
// subscribers are notified on every change.
type Session struct {
	mu    sync.RWMutex
	store *storage.Store

	token  string
	userID int64

	subscribers []chan struct{}
}

func New(store *storage.Store) *Session {
	return &Session{store: store}
}

// Restore loads a persisted token and recovers the user id from its claims.
// Expired or unreadable tokens leave the session logged out.
func (s *Session) Restore(ctx context.Context) error {
	token, err := s.store.LoadToken(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	userID, err := userIDFromToken(token)
	if err != nil {
		_ = s.store.ClearToken(ctx)
		return nil
	}

	s.mu.Lock()
	s.token = token
	s.userID = userID
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Session) Login(ctx context.Context, token string, user model.User) error {
	if err := s.store.SaveToken(ctx, token); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.userID = user.ID
	s.mu.Unlock()
	s.notify()
	return nil
}

// Logout clears the persisted token and the theme override, whatever the
// current theme is.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.store.ClearToken(ctx); err != nil {
		return err
	}
	if err := s.store.SetDarkOverride(ctx, false); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = ""
	s.userID = 0
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Subscribe returns a channel that receives a signal after every login,
// logout, or restore. The signal is best-effort: a slow receiver coalesces
// consecutive changes into one.
func (s *Session) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()
	return ch
}

func (s *Session) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// userIDFromToken reads the user id claim without verifying the signature.
// The client holds no signing secret; the backend rejects forged tokens.
func userIDFromToken(token string) (int64, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return 0, fmt.Errorf("parse token: %w", err)
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		if exp.Before(time.Now()) {
			return 0, fmt.Errorf("token expired")
		}
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		if raw, ok := claims["userId"].(float64); ok {
			return int64(raw), nil
		}
		return 0, fmt.Errorf("token has no user claim")
	}

	var userID int64
	if _, err := fmt.Sscanf(sub, "%d", &userID); err != nil {
		return 0, fmt.Errorf("token subject %q is not a user id", sub)
	}
	return userID, nil
}
