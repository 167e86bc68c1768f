package services_test

import (
	"testing"

	"dollmart/internal/config"
	"dollmart/internal/models"
	"dollmart/internal/repositories"
	"dollmart/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*repositories.MemoryStore, *services.AuthService) {
	t.Helper()

	cfg := config.Default()
	store := repositories.NewMemoryStore()
	coupons := services.NewCouponService(store)
	return store, services.NewAuthService(store, coupons, cfg)
}

func TestAuthService_Register(t *testing.T) {
	store, auth := newAuthFixture(t)

	user, welcome, err := auth.Register("alice", "secret123", true)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.True(t, user.IsRetail)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	// Registration mints the 10% welcome coupon atomically.
	require.NotNil(t, welcome)
	assert.Regexp(t, `^WELCOME-[0-9A-F]{8}$`, welcome.Code)
	assert.InDelta(t, 10.0, welcome.DiscountPercentage, 1e-9)
	assert.False(t, welcome.Used)

	coupons, err := store.Coupons().ListByUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, coupons, 1)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	store, auth := newAuthFixture(t)

	first, _, err := auth.Register("alice", "secret123", false)
	require.NoError(t, err)

	_, _, err = auth.Register("alice", "hunter22", false)
	assert.ErrorIs(t, err, repositories.ErrDuplicateUsername)

	// The failed registration left no stray coupon behind.
	coupons, err := store.Coupons().ListByUser(first.ID)
	require.NoError(t, err)
	assert.Len(t, coupons, 1)
}

func TestAuthService_LoginAndValidate(t *testing.T) {
	_, auth := newAuthFixture(t)

	registered, _, err := auth.Register("bob", "secret123", false)
	require.NoError(t, err)

	token, user, err := auth.Login("bob", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, registered.ID, user.ID)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims["user_id"])
	assert.Equal(t, "bob", claims["username"])
	assert.Equal(t, string(models.RoleCustomer), claims["role"])
}

func TestAuthService_LoginFailures(t *testing.T) {
	_, auth := newAuthFixture(t)

	_, _, err := auth.Register("bob", "secret123", false)
	require.NoError(t, err)

	_, _, err = auth.Login("bob", "wrongpass")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, _, err = auth.Login("nobody", "secret123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAuthService_ValidateToken_Garbage(t *testing.T) {
	_, auth := newAuthFixture(t)

	_, err := auth.ValidateToken("not.a.token")
	assert.Error(t, err)
}
