package auth

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/hrms-service/internal/config"
)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// PasswordPolicy lists the rules a new password must satisfy.
type PasswordPolicy struct {
	MinLength     int
	RequireUpper  bool
	RequireLower  bool
	RequireDigit  bool
	RequireSymbol bool
}

// NewPasswordPolicy maps configuration onto a policy.
func NewPasswordPolicy(cfg config.PasswordConfig) PasswordPolicy {
	return PasswordPolicy{
		MinLength:     cfg.MinLength,
		RequireUpper:  cfg.RequireUpper,
		RequireLower:  cfg.RequireLower,
		RequireDigit:  cfg.RequireDigit,
		RequireSymbol: cfg.RequireSymbol,
	}
}

// Validate returns one message per violated rule; an empty result means the password is accepted.
func (p PasswordPolicy) Validate(password string) []string {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	length := 0
	for _, r := range password {
		length++
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}

	var violations []string
	if length < p.MinLength {
		violations = append(violations, fmt.Sprintf("Password must be at least %d characters", p.MinLength))
	}
	if p.RequireUpper && !hasUpper {
		violations = append(violations, "Password must contain an uppercase letter")
	}
	if p.RequireLower && !hasLower {
		violations = append(violations, "Password must contain a lowercase letter")
	}
	if p.RequireDigit && !hasDigit {
		violations = append(violations, "Password must contain a digit")
	}
	if p.RequireSymbol && !hasSymbol {
		violations = append(violations, "Password must contain a symbol")
	}
	return violations
}
