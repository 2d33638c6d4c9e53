// README: Auth service; logs callers in against the backend and keeps their tokens server-side.
package auth

import (
	"context"
	"errors"

	"footy/internal/backend"
	"footy/internal/credentials"
	"footy/internal/types"
)

// API is the slice of the backend client the auth service needs.
type API interface {
	Login(ctx context.Context, email, password string) (*backend.AuthResponse, error)
	Me(ctx context.Context, accessToken string) (*backend.User, error)
}

// Service exchanges credentials for backend tokens and stores them keyed by
// checkout session, so browsers never hold raw tokens.
type Service struct {
	api   API
	creds credentials.Store
}

func NewService(api API, creds credentials.Store) *Service {
	return &Service{api: api, creds: creds}
}

// Login authenticates against the backend and binds the resulting tokens to
// the session.
func (s *Service) Login(ctx context.Context, sessionID types.ID, email, password string) (*backend.User, error) {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	err = s.creds.Set(ctx, sessionID, credentials.Credentials{
		AccessToken:  resp.Tokens.AccessToken,
		RefreshToken: resp.Tokens.RefreshToken,
	})
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// AccessToken resolves the session's stored access token. A session with no
// stored credentials is simply unauthenticated.
func (s *Service) AccessToken(ctx context.Context, sessionID types.ID) (string, error) {
	creds, err := s.creds.Get(ctx, sessionID)
	if errors.Is(err, credentials.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return creds.AccessToken, nil
}

// Logout discards the session's tokens.
func (s *Service) Logout(ctx context.Context, sessionID types.ID) error {
	return s.creds.Clear(ctx, sessionID)
}

// Authenticated reports whether the session's stored token is still accepted
// by the backend.
func (s *Service) Authenticated(ctx context.Context, sessionID types.ID) (*backend.User, error) {
	token, err := s.AccessToken(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, backend.ErrUnauthorized
	}
	return s.api.Me(ctx, token)
}
