package core

import (
	"context"
	"strings"

	"pkt.systems/webmentionctl/schema"
)

// Auth drives the login flows and stores the resulting token on the session.
type Auth struct {
	api          API
	session      *Session
	authenticate *AsyncStatus[struct{}]
	requestToken *AsyncStatus[struct{}]
}

// NewAuth constructs the authentication controller.
func NewAuth(deps Deps, session *Session) *Auth {
	return &Auth{
		api:          deps.API,
		session:      session,
		authenticate: NewAsyncStatus[struct{}](schema.OpAuthenticate, deps.Sink),
		requestToken: NewAsyncStatus[struct{}](schema.OpRequestToken, deps.Sink),
	}
}

// Authenticate exchanges a one-time login token for a session.
func (a *Auth) Authenticate(ctx context.Context, token string) error {
	return a.login(ctx, token, a.api.Authenticate)
}

// AuthenticateAccessKey exchanges a configured access key for a session.
func (a *Auth) AuthenticateAccessKey(ctx context.Context, key string) error {
	return a.login(ctx, key, a.api.AuthenticateAccessKey)
}

func (a *Auth) login(ctx context.Context, secret string, exchange func(context.Context, string) (string, error)) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return reject(ctx, a.authenticate, schema.ErrEmptyToken)
	}
	// Login endpoints are unauthenticated; their 401 must not end an
	// existing session.
	_, err := track(ctx, nil, a.authenticate, func(ctx context.Context) (struct{}, error) {
		token, err := exchange(ctx, secret)
		if err != nil {
			return struct{}{}, err
		}
		a.session.Login(token)
		return struct{}{}, nil
	})
	return err
}

// RequestToken asks the server to mail a login link to email.
func (a *Auth) RequestToken(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return reject(ctx, a.requestToken, schema.ErrEmptyEmail)
	}
	_, err := track(ctx, nil, a.requestToken, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.api.RequestLogin(ctx, email)
	})
	return err
}

// AuthenticateStatus exposes the authenticate operation status.
func (a *Auth) AuthenticateStatus() *AsyncStatus[struct{}] {
	return a.authenticate
}

// RequestTokenStatus exposes the requestToken operation status.
func (a *Auth) RequestTokenStatus() *AsyncStatus[struct{}] {
	return a.requestToken
}
