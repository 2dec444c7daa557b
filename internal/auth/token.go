package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hrms-service/internal/config"
	"github.com/spec-kit/hrms-service/internal/domain"
)

// ErrInvalidToken covers every reason a bearer token is rejected.
var ErrInvalidToken = errors.New("invalid token")

// Claims describes the token payload. The payload is signed, not encrypted.
type Claims struct {
	UserID string           `json:"user_id"`
	Role   domain.Role      `json:"role"`
	Kind   domain.TokenKind `json:"type"`
	jwt.RegisteredClaims
}

// Signer produces and checks the signature and expiry of compact tokens.
type Signer interface {
	Sign(claims *Claims) (string, error)
	Parse(token string, now time.Time) (*Claims, error)
}

// HS256Signer signs base64url(header).base64url(payload) with HMAC-SHA256.
type HS256Signer struct {
	secret []byte
}

// NewHS256Signer builds a signer for the shared secret.
func NewHS256Signer(secret string) *HS256Signer {
	return &HS256Signer{secret: []byte(secret)}
}

// Sign implements Signer.
func (s *HS256Signer) Sign(claims *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse implements Signer. Only HS256 is accepted; the signature is compared in constant time.
func (s *HS256Signer) Parse(tokenStr string, now time.Time) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		// exp is whole seconds and a token stays valid through its exp second;
		// golang-jwt alone rejects at now == exp.
		jwt.WithTimeFunc(func() time.Time { return now.Truncate(time.Second) }),
		jwt.WithLeeway(time.Second),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// UserLookup is the slice of the credential store the token manager needs.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// TokenManager issues bearer tokens and verifies them against the live user record.
type TokenManager struct {
	signer     Signer
	users      UserLookup
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager builds a manager. Non-positive TTLs fall back to one hour and thirty days.
func NewTokenManager(signer Signer, users UserLookup, cfg config.AuthConfig) *TokenManager {
	accessTTL := cfg.AccessTokenTTL()
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	refreshTTL := cfg.RefreshTokenTTL()
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &TokenManager{
		signer:     signer,
		users:      users,
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Issue signs a token for the user. Extended tokens use the long TTL and the refresh kind.
func (tm *TokenManager) Issue(userID string, role domain.Role, extended bool) (domain.Token, error) {
	now := tm.now()
	kind, ttl := domain.TokenKindAccess, tm.accessTTL
	if extended {
		kind, ttl = domain.TokenKindRefresh, tm.refreshTTL
	}
	expiresAt := now.Add(ttl)

	claims := &Claims{
		UserID: userID,
		Role:   role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tm.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if tm.audience != "" {
		claims.Audience = jwt.ClaimStrings{tm.audience}
	}

	value, err := tm.signer.Sign(claims)
	if err != nil {
		return domain.Token{}, fmt.Errorf("sign token: %w", err)
	}
	return domain.Token{Value: value, Kind: kind, ExpiresAt: expiresAt}, nil
}

// Verify checks structure, signature, expiry, issuer and audience, then requires the
// referenced user to exist and be active. Rejections wrap ErrInvalidToken; store
// failures are returned as is.
func (tm *TokenManager) Verify(ctx context.Context, tokenStr string) (*Claims, error) {
	if strings.Count(tokenStr, ".") != 2 {
		return nil, fmt.Errorf("%w: malformed", ErrInvalidToken)
	}

	claims, err := tm.signer.Parse(tokenStr, tm.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Issuer != tm.issuer {
		return nil, fmt.Errorf("%w: issuer mismatch", ErrInvalidToken)
	}
	if tm.audience != "" && !slices.Contains(claims.Audience, tm.audience) {
		return nil, fmt.Errorf("%w: audience mismatch", ErrInvalidToken)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user", ErrInvalidToken)
	}

	user, err := tm.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user not found", ErrInvalidToken)
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, fmt.Errorf("%w: user not active", ErrInvalidToken)
	}
	return claims, nil
}
