package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/hrms-service/internal/auth"
	"github.com/spec-kit/hrms-service/internal/config"
	"github.com/spec-kit/hrms-service/internal/domain"
	"github.com/spec-kit/hrms-service/internal/events"
	"github.com/spec-kit/hrms-service/internal/observability"
	"github.com/spec-kit/hrms-service/internal/repository"
	apperrors "github.com/spec-kit/hrms-service/pkg/util"
	"github.com/spec-kit/hrms-service/pkg/validation"
)

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token domain.Token
	User  *domain.User
}

// CreateUserInput carries the fields of a new account.
type CreateUserInput struct {
	Username   string
	Email      string
	Password   string
	Role       string
	EmployeeID *string
}

// AuthService coordinates login, token refresh and account management flows.
type AuthService struct {
	users      repository.UserRepository
	resets     repository.PasswordResetRepository
	tokenMgr   *auth.TokenManager
	lockout    auth.LockoutPolicy
	policy     auth.PasswordPolicy
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	bcryptCost int
	resetTTL   time.Duration
	now        func() time.Time
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	UserRepo          repository.UserRepository
	PasswordResetRepo repository.PasswordResetRepository
	TokenManager      *auth.TokenManager
	Lockout           auth.LockoutPolicy
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
	Metrics           *observability.Metrics
}

// NewAuthService builds the service. A nil lockout policy never locks.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	lockout := deps.Lockout
	if lockout == nil {
		lockout = auth.NoopLockout{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		resets:     deps.PasswordResetRepo,
		tokenMgr:   deps.TokenManager,
		lockout:    lockout,
		policy:     auth.NewPasswordPolicy(cfg.Password),
		dispatcher: deps.Dispatcher,
		logger:     logger,
		metrics:    deps.Metrics,
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
		now:        time.Now,
	}
}

// Login authenticates by username or email. Unknown users and wrong passwords
// yield the same ErrInvalidCredentials and both count towards lockout.
func (s *AuthService) Login(ctx context.Context, identifier, password string, extended bool) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	v := validation.New().
		Field("username", identifier, "required").
		Field("password", password, "required")
	if err := v.Err(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByLogin(ctx, identifier)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		// unknown logins count under the typed identifier so they lock like real accounts
		if s.isLocked(ctx, identifier) {
			s.metrics.RecordLogin("locked")
			return nil, ErrAccountLocked
		}
		s.recordFailure(ctx, identifier, "", identifier)
		return nil, ErrInvalidCredentials
	}

	key := auth.AccountKey(user.ID)
	if s.isLocked(ctx, key) {
		s.metrics.RecordLogin("locked")
		return nil, ErrAccountLocked
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.recordFailure(ctx, key, user.ID, identifier)
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive() {
		s.metrics.RecordLogin("inactive")
		return nil, ErrAccountInactive
	}

	if err := s.lockout.Clear(ctx, key); err != nil {
		s.logger.Warn("lockout clear failed", zap.String("user_id", user.ID), zap.Error(err))
	}

	token, err := s.tokenMgr.Issue(user.ID, user.Role, extended)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("update last login failed", zap.String("user_id", user.ID), zap.Error(err))
	}

	s.metrics.RecordLogin("success")
	s.publish(ctx, events.New(events.EventUserLoggedIn, user.ID, events.Actor{UserID: user.ID, Role: user.Role},
		events.LoginPayload{Username: user.Username, Extended: extended}))
	return &LoginResult{Token: token, User: user}, nil
}

// Refresh issues a new access token for an already verified caller.
func (s *AuthService) Refresh(ctx context.Context, caller *domain.Identity) (*LoginResult, error) {
	user, err := s.users.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	token, err := s.tokenMgr.Issue(user.ID, user.Role, false)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

// Me returns the caller's account.
func (s *AuthService) Me(ctx context.Context, caller *domain.Identity) (*domain.User, error) {
	return s.users.GetByID(ctx, caller.UserID)
}

// Logout currently no-ops for stateless JWT approach.
func (s *AuthService) Logout(_ context.Context, _ *domain.Identity) error {
	return nil
}

// ChangePassword verifies current password before updating to new hash.
func (s *AuthService) ChangePassword(ctx context.Context, caller *domain.Identity, currentPassword, newPassword string) error {
	v := validation.New().
		Field("current_password", currentPassword, "required").
		Field("new_password", newPassword, "required")
	if err := v.Err(); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, caller.UserID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewValidationError("Validation failed", map[string][]string{
			"current_password": {"Current password is incorrect"},
		})
	}
	if currentPassword == newPassword {
		v.Add("new_password", "New password must differ from the current password")
	}
	for _, msg := range s.policy.Validate(newPassword) {
		v.Add("new_password", msg)
	}
	if err := v.Err(); err != nil {
		return err
	}

	if err := s.setPassword(ctx, user, newPassword); err != nil {
		return err
	}
	s.publish(ctx, events.New(events.EventPasswordChanged, user.ID, events.ActorFrom(caller), nil))
	return nil
}

// RequestPasswordReset stores a reset token for an active account and publishes it for
// delivery. It reports success for unknown emails too.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := validation.New().Field("email", email, "required|email").Err(); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	if !user.IsActive() {
		return nil
	}

	if err := s.resets.InvalidateForUser(ctx, user.ID); err != nil {
		return err
	}
	raw := uuid.NewString()
	token := &repository.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: hashResetToken(raw),
		ExpiresAt: s.now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return err
	}

	s.publish(ctx, events.New(events.EventPasswordResetAsked, user.ID, events.Actor{},
		events.PasswordResetPayload{Email: user.Email, Token: raw, ExpiresAt: token.ExpiresAt}))
	return nil
}

// ConfirmPasswordReset validates the reset token and updates password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, rawToken, newPassword string) error {
	v := validation.New().
		Field("token", rawToken, "required").
		Field("password", newPassword, "required")
	for _, msg := range s.policy.Validate(newPassword) {
		v.Add("password", msg)
	}
	if err := v.Err(); err != nil {
		return err
	}

	token, err := s.resets.GetByTokenHash(ctx, hashResetToken(strings.TrimSpace(rawToken)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInvalidResetToken
		}
		return err
	}
	if token.UsedAt != nil || s.now().After(token.ExpiresAt) {
		return ErrInvalidResetToken
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInvalidResetToken
		}
		return err
	}
	if err := s.setPassword(ctx, user, newPassword); err != nil {
		return err
	}
	if err := s.resets.MarkUsed(ctx, token.ID); err != nil {
		return err
	}
	if err := s.lockout.Clear(ctx, auth.AccountKey(user.ID)); err != nil {
		s.logger.Warn("lockout clear failed", zap.String("user_id", user.ID), zap.Error(err))
	}

	s.publish(ctx, events.New(events.EventPasswordChanged, user.ID, events.Actor{UserID: user.ID, Role: user.Role}, nil))
	return nil
}

// CreateUser registers a new account on behalf of an administrator.
func (s *AuthService) CreateUser(ctx context.Context, caller *domain.Identity, in CreateUserInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Role == "" {
		in.Role = string(domain.RoleEmployee)
	}

	v := validation.New().
		Field("username", in.Username, "required|min:3|max:50").
		Field("email", in.Email, "required|email|max:255").
		Field("password", in.Password, "required").
		Field("role", in.Role, "in:"+roleOptions())
	for _, msg := range s.policy.Validate(in.Password) {
		v.Add("password", msg)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.Role(in.Role),
		Status:       domain.UserStatusActive,
		EmployeeID:   in.EmployeeID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.EventUserCreated, user.ID, events.ActorFrom(caller), events.ChangePayload{Action: events.ActionCreated, Name: user.Username}))
	return user, nil
}

// ListUsers returns one page of accounts.
func (s *AuthService) ListUsers(ctx context.Context, page apperrors.PageRequest) ([]domain.User, apperrors.Pagination, error) {
	users, total, err := s.users.List(ctx, page)
	if err != nil {
		return nil, apperrors.Pagination{}, err
	}
	return users, apperrors.NewPagination(page, total), nil
}

// UpdateUserStatus activates, deactivates or suspends an account. Tokens of a
// deactivated user stop verifying on their next use.
func (s *AuthService) UpdateUserStatus(ctx context.Context, caller *domain.Identity, userID, status string) (*domain.User, error) {
	err := validation.New().
		Field("status", status, "required|in:"+strings.Join([]string{
			string(domain.UserStatusActive), string(domain.UserStatusInactive), string(domain.UserStatusSuspended),
		}, ",")).
		Err()
	if err != nil {
		return nil, err
	}
	if caller != nil && caller.UserID == userID {
		return nil, ErrSelfStatusChange
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	old := user.Status
	user.Status = domain.UserStatus(status)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.EventUserStatusChanged, user.ID, events.ActorFrom(caller),
		events.UserStatusChangedPayload{OldStatus: old, NewStatus: user.Status}))
	return user, nil
}

// EnsureBootstrapAdmin creates the configured admin account when no users exist yet.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, admin config.BootstrapAdminConfig) error {
	if admin.Username == "" || admin.Password == "" {
		return nil
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	email := admin.Email
	if email == "" {
		email = admin.Username + "@localhost"
	}
	hash, err := auth.HashPassword(admin.Password, s.bcryptCost)
	if err != nil {
		return err
	}
	user := &domain.User{
		Username:     admin.Username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}
	s.logger.Info("bootstrap admin created", zap.String("username", user.Username), zap.String("user_id", user.ID))
	return nil
}

// TokenManager exposes the underlying token manager for the dispatcher.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) setPassword(ctx context.Context, user *domain.User, password string) error {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

// isLocked fails open: a lockout store outage must not block every login.
func (s *AuthService) isLocked(ctx context.Context, identifier string) bool {
	locked, err := s.lockout.IsLocked(ctx, identifier)
	if err != nil {
		s.logger.Warn("lockout check failed", zap.String("identifier", identifier), zap.Error(err))
		return false
	}
	return locked
}

func (s *AuthService) recordFailure(ctx context.Context, key, userID, identifier string) {
	s.metrics.RecordLogin("invalid")
	locked, err := s.lockout.RecordFailure(ctx, key)
	if err != nil {
		s.logger.Warn("lockout record failed", zap.String("identifier", identifier), zap.Error(err))
		return
	}
	if locked {
		s.publish(ctx, events.New(events.EventUserLockedOut, userID, events.Actor{}, events.LockoutPayload{Identifier: identifier}))
	}
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func roleOptions() string {
	roles := domain.Roles()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ",")
}
