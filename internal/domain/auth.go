package domain

import "time"

// TokenKind differentiates short-lived and extended bearer tokens.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Identity is the caller resolved from a verified token. It lives for one request.
type Identity struct {
	UserID string
	Role   Role
}

// Token represents issued authentication token metadata.
type Token struct {
	Value     string
	Kind      TokenKind
	ExpiresAt time.Time
}
