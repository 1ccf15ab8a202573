package session

import (
	"context"
	"errors"
	"sync"

	"github.com/tair/hardware-inventory/pkg/auth"
	"github.com/tair/hardware-inventory/pkg/logger"
)

// ErrNotAuthenticated is returned when a protected view is entered without
// an authenticated session.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrInvalidCredentials is returned when the credential check fails
var ErrInvalidCredentials = errors.New("invalid credentials")

// User is the authenticated-user record held for the session
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// CredentialVerifier checks a credential pair and returns the user record.
// The gate itself carries no credentials; production deployments swap in a
// verifier backed by a real authentication service.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (User, error)
}

// Gate holds the single session record and authorizes entry to every
// protected view. States are Anonymous and Authenticated; login and logout
// are the only transitions.
type Gate struct {
	mu       sync.Mutex
	store    *FileStore
	verifier CredentialVerifier
	user     *User
}

// NewGate creates the gate and restores the persisted session, if any. An
// invalid or expired record is discarded and the gate starts Anonymous.
func NewGate(store *FileStore, verifier CredentialVerifier) *Gate {
	g := &Gate{store: store, verifier: verifier}

	token, err := store.Load()
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to load session record")
		return g
	}
	if token == "" {
		return g
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Discarding invalid session record")
		if err := store.Clear(); err != nil {
			logger.Logger.Warn().Err(err).Msg("Failed to clear session record")
		}
		return g
	}

	g.user = &User{Email: claims.Email, Name: claims.Name}
	logger.Logger.Info().Str("email", claims.Email).Msg("Restored session")
	return g
}

// Login verifies the credentials and, on success, persists the session
// record and transitions to Authenticated. On failure the state stays
// Anonymous and nothing is persisted.
func (g *Gate) Login(ctx context.Context, email, password string) error {
	user, err := g.verifier.Verify(ctx, email, password)
	if err != nil {
		logger.Logger.Warn().Str("email", email).Msg("Login rejected")
		return err
	}

	token, err := auth.GenerateToken(user.Email, user.Name)
	if err != nil {
		return err
	}
	if err := g.store.Save(token); err != nil {
		return err
	}

	g.mu.Lock()
	g.user = &user
	g.mu.Unlock()

	logger.Logger.Info().Str("email", user.Email).Msg("Logged in")
	return nil
}

// Logout clears the session record and transitions to Anonymous
func (g *Gate) Logout() error {
	g.mu.Lock()
	g.user = nil
	g.mu.Unlock()

	if err := g.store.Clear(); err != nil {
		return err
	}
	logger.Logger.Info().Msg("Logged out")
	return nil
}

// IsAuthenticated reports whether a session record exists
func (g *Gate) IsAuthenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.user != nil
}

// CurrentUser returns the session record, if any
func (g *Gate) CurrentUser() (User, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.user == nil {
		return User{}, false
	}
	return *g.user, true
}

// Guard runs view only when authenticated. While Anonymous it returns
// ErrNotAuthenticated without invoking view, so no protected fetch can be
// issued.
func (g *Gate) Guard(view func() error) error {
	if !g.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	return view()
}
