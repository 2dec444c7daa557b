package service

import (
	apperrors "github.com/spec-kit/hrms-service/pkg/util"
)

// Expected failures of the service flows. Missing users and wrong passwords
// share ErrInvalidCredentials so callers cannot enumerate accounts.
var (
	ErrInvalidCredentials = apperrors.NewUnauthorized("Invalid credentials")
	ErrAccountInactive    = apperrors.NewUnauthorized("Account is not active")
	ErrAccountLocked      = apperrors.NewUnauthorized("Account is temporarily locked. Try again later")
	ErrInvalidResetToken  = apperrors.NewBadRequest("Invalid or expired reset token")
	ErrUserExists         = apperrors.NewConflict("Username or email already exists", nil)
	ErrEmployeeExists     = apperrors.NewConflict("Employee code or email already exists", nil)
	ErrSelfStatusChange   = apperrors.NewBadRequest("You cannot change your own status")
)
