package auth

import (
	"context"
	"errors"

	"studivio/internal/services"
)

// ErrRevoked reports a token that was logged out.
var ErrRevoked = errors.New("token has been revoked")

// Service combines token verification with the revocation list.
type Service struct {
	issuer      *Issuer
	revocations Revocations
}

// NewService returns a Service.
func NewService(issuer *Issuer, revocations Revocations) *Service {
	return &Service{issuer: issuer, revocations: revocations}
}

// Issuer returns the token issuer.
func (s *Service) Issuer() *Issuer { return s.issuer }

// Authenticate verifies a bearer token and rejects revoked ones.
func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, services.Wrap(services.ErrAuth, "auth", "authenticate", "", ErrRevoked)
	}
	return claims, nil
}

// Logout revokes the token described by claims until it expires.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	return s.revocations.Revoke(ctx, claims.ID, claims.Expiry())
}
