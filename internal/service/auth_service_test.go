package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/hrms-service/internal/auth"
	"github.com/spec-kit/hrms-service/internal/config"
	"github.com/spec-kit/hrms-service/internal/domain"
	"github.com/spec-kit/hrms-service/internal/events"
	apperrors "github.com/spec-kit/hrms-service/pkg/util"
)

type authFixture struct {
	svc    *AuthService
	users  *fakeUsers
	resets *fakeResets
	events *recordingDispatcher
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			Issuer:                  "hrms-test",
			Audience:                "hrms-clients",
			AccessTokenTTLMinutes:   60,
			RefreshTokenTTLHours:    720,
			PasswordResetTTLMinutes: 30,
			BcryptCost:              bcrypt.MinCost,
		},
		Password: config.PasswordConfig{MinLength: 8, RequireUpper: true, RequireLower: true, RequireDigit: true},
	}
}

func newAuthFixture(t *testing.T, lockout auth.LockoutPolicy) *authFixture {
	t.Helper()
	cfg := testConfig()
	users := newFakeUsers()
	resets := newFakeResets()
	dispatcher := &recordingDispatcher{}
	svc := NewAuthService(cfg, AuthDependencies{
		UserRepo:          users,
		PasswordResetRepo: resets,
		TokenManager:      auth.NewTokenManager(auth.NewHS256Signer(cfg.Auth.JWTSecret), users, cfg.Auth),
		Lockout:           lockout,
		Dispatcher:        dispatcher,
	})
	return &authFixture{svc: svc, users: users, resets: resets, events: dispatcher}
}

func (f *authFixture) seed(t *testing.T, username, email, password string, role domain.Role, status domain.UserStatus) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	u := &domain.User{Username: username, Email: email, PasswordHash: hash, Role: role, Status: status}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func assertStatus(t *testing.T, err error, status int) *apperrors.DomainError {
	t.Helper()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, status, de.HTTPStatus)
	return de
}

func TestLoginByUsernameOrEmail(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, nil)
	alice := f.seed(t, "alice", "alice@example.com", "Correct1", domain.RoleManager, domain.UserStatusActive)

	for _, identifier := range []string{"alice", "ALICE@example.com"} {
		res, err := f.svc.Login(ctx, identifier, "Correct1", false)
		require.NoError(t, err, identifier)
		assert.Equal(t, alice.ID, res.User.ID)
		assert.Equal(t, domain.TokenKindAccess, res.Token.Kind)

		claims, err := f.svc.TokenManager().Verify(ctx, res.Token.Value)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleManager, claims.Role)
	}
	assert.Equal(t, 2, f.users.lastLogins[alice.ID])
	assert.Equal(t, []events.EventType{events.EventUserLoggedIn, events.EventUserLoggedIn}, f.events.types())
}

func TestLoginExtendedIssuesRefreshToken(t *testing.T) {
	f := newAuthFixture(t, nil)
	f.seed(t, "alice", "alice@example.com", "Correct1", domain.RoleEmployee, domain.UserStatusActive)

	res, err := f.svc.Login(context.Background(), "alice", "Correct1", true)
	require.NoError(t, err)
	assert.Equal(t, domain.TokenKindRefresh, res.Token.Kind)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, nil)
	f.seed(t, "alice", "alice@example.com", "correct", domain.RoleEmployee, domain.UserStatusActive)

	_, wrongPassword := f.svc.Login(ctx, "alice", "wrong", false)
	_, unknownUser := f.svc.Login(ctx, "mallory", "wrong", false)

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	de := assertStatus(t, wrongPassword, http.StatusUnauthorized)
	assert.Equal(t, "Invalid credentials", de.Message)
	assert.Empty(t, f.users.lastLogins)
	assert.Empty(t, f.events.events)
}

func TestLoginInactiveAccount(t *testing.T) {
	f := newAuthFixture(t, nil)
	f.seed(t, "bob", "bob@example.com", "Correct1", domain.RoleEmployee, domain.UserStatusSuspended)

	_, err := f.svc.Login(context.Background(), "bob", "Correct1", false)
	assert.ErrorIs(t, err, ErrAccountInactive)

	_, err = f.svc.Login(context.Background(), "bob", "wrong", false)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRequiresFields(t *testing.T) {
	f := newAuthFixture(t, nil)
	_, err := f.svc.Login(context.Background(), " ", "", false)
	de := assertStatus(t, err, http.StatusUnprocessableEntity)
	assert.Contains(t, de.Details, "username")
	assert.Contains(t, de.Details, "password")
}

func TestLoginLockout(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := newAuthFixture(t, auth.NewRedisLockout(client, 3, 15*time.Minute, 30*time.Minute))
	f.seed(t, "carol", "carol@example.com", "Correct1", domain.RoleEmployee, domain.UserStatusActive)

	for i := 0; i < 3; i++ {
		_, err := f.svc.Login(ctx, "carol", "bad", false)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	assert.Equal(t, []events.EventType{events.EventUserLockedOut}, f.events.types())

	_, err := f.svc.Login(ctx, "carol", "Correct1", false)
	assert.ErrorIs(t, err, ErrAccountLocked)

	// the lock belongs to the account, not to the identifier that was typed
	_, err = f.svc.Login(ctx, "carol@example.com", "Correct1", false)
	assert.ErrorIs(t, err, ErrAccountLocked)

	mr.FastForward(31 * time.Minute)
	_, err = f.svc.Login(ctx, "carol", "Correct1", false)
	require.NoError(t, err)
}

func TestLoginLockoutCountsAcrossIdentifiers(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := newAuthFixture(t, auth.NewRedisLockout(client, 3, 15*time.Minute, 30*time.Minute))
	f.seed(t, "hank", "hank@example.com", "Correct1", domain.RoleEmployee, domain.UserStatusActive)

	for _, identifier := range []string{"hank", "hank@example.com", "HANK@example.com"} {
		_, err := f.svc.Login(ctx, identifier, "bad", false)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	for _, identifier := range []string{"hank", "hank@example.com"} {
		_, err := f.svc.Login(ctx, identifier, "Correct1", false)
		assert.ErrorIs(t, err, ErrAccountLocked, identifier)
	}
}

func TestLoginLockoutUnknownUser(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := newAuthFixture(t, auth.NewRedisLockout(client, 2, 15*time.Minute, 30*time.Minute))

	for i := 0; i < 2; i++ {
		_, err := f.svc.Login(ctx, "ghost", "bad", false)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, err := f.svc.Login(ctx, "ghost", "bad", false)
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestLoginSuccessResetsFailures(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := newAuthFixture(t, auth.NewRedisLockout(client, 3, 15*time.Minute, 30*time.Minute))
	f.seed(t, "dan", "dan@example.com", "Correct1", domain.RoleEmployee, domain.UserStatusActive)

	for i := 0; i < 2; i++ {
		_, _ = f.svc.Login(ctx, "dan", "bad", false)
	}
	_, err := f.svc.Login(ctx, "dan", "Correct1", false)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, _ = f.svc.Login(ctx, "dan", "bad", false)
	}
	_, err = f.svc.Login(ctx, "dan", "Correct1", false)
	require.NoError(t, err)
}

type brokenLockout struct{}

func (brokenLockout) IsLocked(context.Context, string) (bool, error) {
	return true, errors.New("redis down")
}
func (brokenLockout) RecordFailure(context.Context, string) (bool, error) {
	return true, errors.New("redis down")
}
func (brokenLockout) Clear(context.Context, string) error { return errors.New("redis down") }

func TestLoginLockoutFailsOpen(t *testing.T) {
	f := newAuthFixture(t, brokenLockout{})
	f.seed(t, "erin", "erin@example.com", "Correct1", domain.RoleEmployee, domain.UserStatusActive)

	_, err := f.svc.Login(context.Background(), "erin", "bad", false)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), "erin", "Correct1", false)
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, nil)
	u := f.seed(t, "frank", "frank@example.com", "Correct1", domain.RoleEmployee, domain.UserStatusActive)
	caller := &domain.Identity{UserID: u.ID, Role: u.Role}

	de := assertStatus(t, f.svc.ChangePassword(ctx, caller, "nope", "Better22"), http.StatusUnprocessableEntity)
	assert.Contains(t, de.Details, "current_password")

	de = assertStatus(t, f.svc.ChangePassword(ctx, caller, "Correct1", "weak"), http.StatusUnprocessableEntity)
	assert.Contains(t, de.Details, "new_password")

	require.NoError(t, f.svc.ChangePassword(ctx, caller, "Correct1", "Better22"))
	_, err := f.svc.Login(ctx, "frank", "Better22", false)
	require.NoError(t, err)
	assert.Contains(t, f.events.types(), events.EventPasswordChanged)
}

func TestPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, nil)
	f.seed(t, "gina", "gina@example.com", "Correct1", domain.RoleEmployee, domain.UserStatusActive)

	require.NoError(t, f.svc.RequestPasswordReset(ctx, "nobody@example.com"))
	assert.Empty(t, f.events.events)

	require.NoError(t, f.svc.RequestPasswordReset(ctx, "gina@example.com"))
	require.Len(t, f.events.events, 1)
	payload, ok := f.events.events[0].Payload.(events.PasswordResetPayload)
	require.True(t, ok)
	require.NotEmpty(t, payload.Token)

	for _, stored := range f.resets.tokens {
		assert.NotEqual(t, payload.Token, stored.TokenHash)
	}

	de := assertStatus(t, f.svc.ConfirmPasswordReset(ctx, payload.Token, "weak"), http.StatusUnprocessableEntity)
	assert.Contains(t, de.Details, "password")

	require.NoError(t, f.svc.ConfirmPasswordReset(ctx, payload.Token, "Renewed99"))
	_, err := f.svc.Login(ctx, "gina", "Renewed99", false)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.ConfirmPasswordReset(ctx, payload.Token, "Another99"), ErrInvalidResetToken)
	assert.ErrorIs(t, f.svc.ConfirmPasswordReset(ctx, "not-a-token", "Another99"), ErrInvalidResetToken)
}

func TestPasswordResetExpired(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, nil)
	f.seed(t, "hank", "hank@example.com", "Correct1", domain.RoleEmployee, domain.UserStatusActive)

	require.NoError(t, f.svc.RequestPasswordReset(ctx, "hank@example.com"))
	payload := f.events.events[0].Payload.(events.PasswordResetPayload)

	f.svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	assert.ErrorIs(t, f.svc.ConfirmPasswordReset(ctx, payload.Token, "Renewed99"), ErrInvalidResetToken)
}

func TestPasswordResetClearsLockout(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := newAuthFixture(t, auth.NewRedisLockout(client, 2, 15*time.Minute, 30*time.Minute))
	f.seed(t, "iris", "iris@example.com", "Correct1", domain.RoleEmployee, domain.UserStatusActive)

	for i := 0; i < 2; i++ {
		_, _ = f.svc.Login(ctx, "iris@example.com", "bad", false)
	}
	_, err := f.svc.Login(ctx, "iris", "Correct1", false)
	require.ErrorIs(t, err, ErrAccountLocked)

	require.NoError(t, f.svc.RequestPasswordReset(ctx, "iris@example.com"))
	var token string
	for _, ev := range f.events.events {
		if p, ok := ev.Payload.(events.PasswordResetPayload); ok {
			token = p.Token
		}
	}
	require.NotEmpty(t, token)
	require.NoError(t, f.svc.ConfirmPasswordReset(ctx, token, "Renewed99"))

	_, err = f.svc.Login(ctx, "iris", "Renewed99", false)
	require.NoError(t, err)
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, nil)
	admin := &domain.Identity{UserID: "admin", Role: domain.RoleAdmin}

	u, err := f.svc.CreateUser(ctx, admin, CreateUserInput{Username: "ivan", Email: "ivan@example.com", Password: "Strong123", Role: "hr"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleHR, u.Role)
	assert.Equal(t, domain.UserStatusActive, u.Status)
	assert.NotEqual(t, "Strong123", u.PasswordHash)

	_, err = f.svc.CreateUser(ctx, admin, CreateUserInput{Username: "ivan2", Email: "IVAN@example.com", Password: "Strong123"})
	assert.ErrorIs(t, err, ErrUserExists)
	assertStatus(t, err, http.StatusConflict)

	_, err = f.svc.CreateUser(ctx, admin, CreateUserInput{Username: "jo", Email: "bad", Password: "x", Role: "boss"})
	de := assertStatus(t, err, http.StatusUnprocessableEntity)
	for _, field := range []string{"username", "email", "password", "role"} {
		assert.Contains(t, de.Details, field)
	}
}

func TestUpdateUserStatusRevokesTokens(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, nil)
	u := f.seed(t, "kim", "kim@example.com", "Correct1", domain.RoleEmployee, domain.UserStatusActive)
	admin := &domain.Identity{UserID: "admin-1", Role: domain.RoleAdmin}

	res, err := f.svc.Login(ctx, "kim", "Correct1", false)
	require.NoError(t, err)

	_, err = f.svc.UpdateUserStatus(ctx, admin, u.ID, "paused")
	assertStatus(t, err, http.StatusUnprocessableEntity)

	_, err = f.svc.UpdateUserStatus(ctx, &domain.Identity{UserID: u.ID}, u.ID, "inactive")
	assert.ErrorIs(t, err, ErrSelfStatusChange)

	updated, err := f.svc.UpdateUserStatus(ctx, admin, u.ID, "inactive")
	require.NoError(t, err)
	assert.Equal(t, domain.UserStatusInactive, updated.Status)

	_, err = f.svc.TokenManager().Verify(ctx, res.Token.Value)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestListUsers(t *testing.T) {
	f := newAuthFixture(t, nil)
	for _, name := range []string{"a1", "a2", "a3"} {
		f.seed(t, name, name+"@example.com", "Correct1", domain.RoleEmployee, domain.UserStatusActive)
	}

	users, page, err := f.svc.ListUsers(context.Background(), apperrors.NewPageRequest(2, 2))
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasPrev)
	assert.False(t, page.HasNext)
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, nil)
	cfg := config.BootstrapAdminConfig{Username: "root", Password: "Bootstrap1"}

	require.NoError(t, f.svc.EnsureBootstrapAdmin(ctx, config.BootstrapAdminConfig{}))
	require.NoError(t, f.svc.EnsureBootstrapAdmin(ctx, cfg))
	require.NoError(t, f.svc.EnsureBootstrapAdmin(ctx, cfg))

	total, _ := f.users.Count(ctx)
	assert.Equal(t, int64(1), total)

	res, err := f.svc.Login(ctx, "root", "Bootstrap1", false)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, res.User.Role)
}
