package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/hrms-service/internal/domain"
)

func TestAuthorize(t *testing.T) {
	cases := []struct {
		caller, required domain.Role
		want             bool
	}{
		{domain.RoleAdmin, domain.RoleHR, true},
		{domain.RoleHR, domain.RoleHR, true},
		{domain.RoleManager, domain.RoleHR, false},
		{domain.RoleEmployee, domain.RoleEmployee, true},
		{domain.RoleEmployee, domain.RoleManager, false},
		{domain.Role("intern"), domain.RoleEmployee, false},
		{domain.RoleEmployee, domain.Role("intern"), true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Authorize(tc.caller, tc.required), "%s >= %s", tc.caller, tc.required)
	}
}

func TestHashAndCompare(t *testing.T) {
	hashed, err := HashPassword("Secret123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hashed, "Secret123"))
	assert.Error(t, ComparePassword(hashed, "secret123"))
}

func TestPasswordPolicy(t *testing.T) {
	policy := PasswordPolicy{MinLength: 8, RequireUpper: true, RequireLower: true, RequireDigit: true, RequireSymbol: true}

	assert.Empty(t, policy.Validate("Str0ng!pass"))
	assert.Len(t, policy.Validate("short"), 4)
	assert.Equal(t, []string{"Password must contain a symbol"}, policy.Validate("Str0ngpass"))

	relaxed := PasswordPolicy{MinLength: 4}
	assert.Empty(t, relaxed.Validate("çççç"))
	assert.NotEmpty(t, relaxed.Validate("ççç"))
}

func newLockout(t *testing.T) (*RedisLockout, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLockout(client, 3, 15*time.Minute, 30*time.Minute), mr
}

func TestRedisLockoutLocksAtThreshold(t *testing.T) {
	ctx := context.Background()
	l, mr := newLockout(t)

	for i := 0; i < 2; i++ {
		locked, err := l.RecordFailure(ctx, "Alice")
		require.NoError(t, err)
		assert.False(t, locked)
	}
	locked, err := l.IsLocked(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, locked)

	locked, err = l.RecordFailure(ctx, " alice ")
	require.NoError(t, err)
	assert.True(t, locked)

	locked, err = l.IsLocked(ctx, "ALICE")
	require.NoError(t, err)
	assert.True(t, locked)
	assert.False(t, mr.Exists("hrms:login:fail:alice"))

	mr.FastForward(31 * time.Minute)
	locked, err = l.IsLocked(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestRedisLockoutWindowExpires(t *testing.T) {
	ctx := context.Background()
	l, mr := newLockout(t)

	_, err := l.RecordFailure(ctx, "bob")
	require.NoError(t, err)
	_, err = l.RecordFailure(ctx, "bob")
	require.NoError(t, err)

	mr.FastForward(16 * time.Minute)

	locked, err := l.RecordFailure(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestRedisLockoutClear(t *testing.T) {
	ctx := context.Background()
	l, _ := newLockout(t)

	for i := 0; i < 3; i++ {
		_, err := l.RecordFailure(ctx, "carol")
		require.NoError(t, err)
	}
	require.NoError(t, l.Clear(ctx, "carol"))

	locked, err := l.IsLocked(ctx, "carol")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestRedisLockoutUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })
	l := NewRedisLockout(client, 3, time.Minute, time.Minute)

	_, err := l.IsLocked(context.Background(), "dave")
	assert.Error(t, err)
}

func TestNoopLockout(t *testing.T) {
	var l LockoutPolicy = NoopLockout{}
	locked, err := l.RecordFailure(context.Background(), "x")
	require.NoError(t, err)
	assert.False(t, locked)
}
