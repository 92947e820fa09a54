package service

import (
	"context"
	"errors"

	"github.com/shinyyama/checkin-points/internal/auth"
)

type LoginResult struct {
	AccessToken string
	TokenType   string
	User        auth.Identity
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// Authenticate turns a bearer token into the caller identity.
	Authenticate(ctx context.Context, token string) (auth.Identity, error)
	Me(ctx context.Context) (auth.Identity, error)
}

type authService struct {
	accounts *auth.Accounts
	tokens   *auth.TokenIssuer
}

func NewAuthService(accounts *auth.Accounts, tokens *auth.TokenIssuer) AuthService {
	return &authService{accounts: accounts, tokens: tokens}
}

func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	acct, err := s.accounts.Authenticate(username, password)
	if err != nil {
		return nil, err
	}
	tok, err := s.tokens.Issue(acct.Username, acct.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: tok, TokenType: "bearer", User: acct.Identity()}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (auth.Identity, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return auth.Identity{}, err
	}
	acct, ok := s.accounts.Lookup(claims.Subject)
	if !ok {
		return auth.Identity{}, errors.Join(ErrUnauthenticated, auth.ErrInvalidToken)
	}
	return acct.Identity(), nil
}

func (s *authService) Me(ctx context.Context) (auth.Identity, error) {
	return requireIdentity(ctx)
}
