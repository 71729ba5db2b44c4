package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Skotchmaster/crochet_store/internal/hash"
	"github.com/Skotchmaster/crochet_store/internal/tokens"
)

// Local checks one configured admin against a bcrypt hash and issues signed
// grants. Signed-out grants stay rejected until they expire.
type Local struct {
	identifier   string
	passwordHash string
	secret       []byte
	ttl          time.Duration
	now          func() time.Time

	mu        sync.Mutex
	revoked   map[string]time.Time
	states    map[string]State
	listeners map[uint64]func(string, State)
	nextID    uint64
}

func NewLocal(identifier, passwordHash string, secret []byte, ttl time.Duration) *Local {
	return &Local{
		identifier:   strings.TrimSpace(identifier),
		passwordHash: passwordHash,
		secret:       secret,
		ttl:          ttl,
		now:          func() time.Time { return time.Now().UTC() },
		revoked:      make(map[string]time.Time),
		states:       make(map[string]State),
		listeners:    make(map[uint64]func(string, State)),
	}
}

func (a *Local) SignIn(_ context.Context, identifier, secret string) (*Grant, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		return nil, fmt.Errorf("%w: identifier and password are required", ErrValidation)
	}
	if !strings.EqualFold(identifier, a.identifier) || !hash.CheckPassword(a.passwordHash, secret) {
		return nil, ErrInvalidCredentials
	}

	token, claims, err := tokens.NewAdminToken(a.identifier, a.secret, a.now(), a.ttl)
	if err != nil {
		return nil, fmt.Errorf("sign admin token: %w", err)
	}

	a.transition(a.identifier, LoggedIn)
	return &Grant{Identifier: a.identifier, Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (a *Local) SignOut(_ context.Context, token string) error {
	claims, err := tokens.AdminClaimsFromToken(token, a.secret)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	a.mu.Lock()
	a.revoked[claims.ID] = claims.ExpiresAt.Time
	a.pruneLocked()
	a.mu.Unlock()

	a.transition(claims.Subject, LoggedOut)
	return nil
}

func (a *Local) Verify(token string) (*tokens.AdminClaims, error) {
	claims, err := tokens.AdminClaimsFromToken(token, a.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Role != tokens.RoleAdmin {
		return nil, fmt.Errorf("%w: role %q", ErrInvalidToken, claims.Role)
	}

	a.mu.Lock()
	_, revoked := a.revoked[claims.ID]
	a.mu.Unlock()
	if revoked {
		return nil, fmt.Errorf("%w: signed out", ErrInvalidToken)
	}
	return claims, nil
}

func (a *Local) State(identifier string) State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.states[identifier]
}

func (a *Local) OnAuthStateChange(fn func(identifier string, s State)) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

func (a *Local) transition(identifier string, to State) {
	a.mu.Lock()
	from := a.states[identifier]
	a.states[identifier] = to
	fns := make([]func(string, State), 0, len(a.listeners))
	for _, fn := range a.listeners {
		fns = append(fns, fn)
	}
	a.mu.Unlock()

	if from == to {
		return
	}
	for _, fn := range fns {
		fn(identifier, to)
	}
}

func (a *Local) pruneLocked() {
	now := a.now()
	for id, exp := range a.revoked {
		if exp.Before(now) {
			delete(a.revoked, id)
		}
	}
}
