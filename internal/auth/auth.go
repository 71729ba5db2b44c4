package auth

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/crochet_store/internal/tokens"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

type Grant struct {
	Identifier string
	Token      string
	ExpiresAt  time.Time
}

type Authenticator interface {
	SignIn(ctx context.Context, identifier, secret string) (*Grant, error)
	SignOut(ctx context.Context, token string) error
	Verify(token string) (*tokens.AdminClaims, error)
	State(identifier string) State
	// OnAuthStateChange registers fn for every transition. Call cancel to stop.
	OnAuthStateChange(fn func(identifier string, s State)) (cancel func())
}
