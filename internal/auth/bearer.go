package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/hrms-service/internal/domain"
)

var (
	ErrMissingCredentials = errors.New("missing authorization header")
	ErrMalformedHeader    = errors.New("invalid authorization header")
)

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingCredentials
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrMalformedHeader
	}
	return strings.TrimSpace(parts[1]), nil
}

// ResolveIdentity verifies the bearer credential in header and returns the caller.
func (tm *TokenManager) ResolveIdentity(ctx context.Context, header string) (*domain.Identity, error) {
	token, err := BearerToken(header)
	if err != nil {
		return nil, err
	}
	claims, err := tm.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	return &domain.Identity{UserID: claims.UserID, Role: claims.Role}, nil
}
