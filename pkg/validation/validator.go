// Package validation checks request fields against pipe-separated rule strings
// such as "required|email|max:100".
//
// Supported rules: required, email, min:N, max:N (string length in runes),
// numeric, date (YYYY-MM-DD), in:a,b,c. Rules other than required are skipped
// for empty values.
package validation

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/spec-kit/hrms-service/pkg/util"
)

const dateLayout = "2006-01-02"

// Validator collects field -> messages violations. Messages of one field keep the
// order they were reported in.
type Validator struct {
	errors map[string][]string
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{errors: make(map[string][]string)}
}

// Field checks value against rules and records every violation under field.
func (v *Validator) Field(field, value, rules string) *Validator {
	trimmed := strings.TrimSpace(value)
	for _, rule := range strings.Split(rules, "|") {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}
		name, arg, _ := strings.Cut(rule, ":")
		if name != "required" && trimmed == "" {
			continue
		}
		if msg := check(field, name, arg, trimmed); msg != "" {
			v.add(field, msg)
		}
	}
	return v
}

// Add records a custom violation.
func (v *Validator) Add(field, message string) *Validator {
	v.add(field, message)
	return v
}

// Valid reports whether no violations were recorded.
func (v *Validator) Valid() bool {
	return len(v.errors) == 0
}

// Errors returns the recorded violations.
func (v *Validator) Errors() map[string][]string {
	return v.errors
}

// Err returns a 422 validation error carrying the violations, or nil when valid.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	return apperrors.NewValidationError("Validation failed", v.errors)
}

func (v *Validator) add(field, message string) {
	v.errors[field] = append(v.errors[field], message)
}

func check(field, rule, arg, value string) string {
	switch rule {
	case "required":
		if value == "" {
			return fmt.Sprintf("%s is required", field)
		}
	case "email":
		addr, err := mail.ParseAddress(value)
		if err != nil || addr.Address != value {
			return fmt.Sprintf("%s must be a valid email address", field)
		}
	case "min":
		n, err := strconv.Atoi(arg)
		if err == nil && utf8.RuneCountInString(value) < n {
			return fmt.Sprintf("%s must be at least %d characters", field, n)
		}
	case "max":
		n, err := strconv.Atoi(arg)
		if err == nil && utf8.RuneCountInString(value) > n {
			return fmt.Sprintf("%s must not exceed %d characters", field, n)
		}
	case "numeric":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Sprintf("%s must be numeric", field)
		}
	case "date":
		if _, err := time.Parse(dateLayout, value); err != nil {
			return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
		}
	case "in":
		for _, option := range strings.Split(arg, ",") {
			if value == option {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(arg, ",", ", "))
	default:
		return fmt.Sprintf("%s has unknown rule %q", field, rule)
	}
	return ""
}
