package auth

import "github.com/spec-kit/hrms-service/internal/domain"

// Authorize reports whether caller ranks at least as high as required.
// Unknown roles rank 0, so they never satisfy a known requirement.
func Authorize(caller, required domain.Role) bool {
	return caller.Level() >= required.Level()
}
