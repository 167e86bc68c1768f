package services_test

import (
	"testing"

	"dollmart/internal/models"
	"dollmart/internal/repositories"
	"dollmart/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCouponFixture(t *testing.T) (*repositories.MemoryStore, *services.CouponService, *models.User) {
	t.Helper()

	store := repositories.NewMemoryStore()
	coupons := services.NewCouponService(store)

	user := &models.User{Username: "shopper", Role: models.RoleCustomer}
	require.NoError(t, store.Users().Create(user))
	return store, coupons, user
}

func TestCouponService_GenerateCode(t *testing.T) {
	_, coupons, user := newCouponFixture(t)

	code := coupons.GenerateCode(user.ID, services.PrefixWelcome)
	assert.Regexp(t, `^WELCOME-[0-9A-F]{8}$`, code)
}

func TestCouponService_Issue(t *testing.T) {
	store, coupons, user := newCouponFixture(t)

	coupon, err := coupons.Issue(user.ID, 10, services.PrefixWelcome)
	require.NoError(t, err)
	assert.NotEmpty(t, coupon.ID)
	assert.Equal(t, user.ID, coupon.UserID)
	assert.Regexp(t, `^WELCOME-[0-9A-F]{8}$`, coupon.Code)
	assert.InDelta(t, 10.0, coupon.DiscountPercentage, 1e-9)
	assert.False(t, coupon.Used)

	stored, err := store.Coupons().GetByID(coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, coupon.Code, stored.Code)
}

func TestCouponService_Issue_UnknownUser(t *testing.T) {
	_, coupons, _ := newCouponFixture(t)

	_, err := coupons.Issue("no-such-user", 10, services.PrefixAdHoc)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestCouponService_Redeem(t *testing.T) {
	store, coupons, user := newCouponFixture(t)

	coupon, err := coupons.Issue(user.ID, 10, services.PrefixWelcome)
	require.NoError(t, err)

	result, err := coupons.Redeem(user.ID, coupon.ID, 161.46)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.InDelta(t, 16.146, result.Discount, 1e-9)
	assert.InDelta(t, 145.314, result.NewAmount, 1e-9)
	assert.Equal(t, coupon.Code, result.Code)
	assert.InDelta(t, 10.0, result.Percent, 1e-9)

	stored, err := store.Coupons().GetByID(coupon.ID)
	require.NoError(t, err)
	assert.True(t, stored.Used)
}

// The second redemption of the same coupon fails softly: applied=false,
// amount unchanged, no error.
func TestCouponService_Redeem_Twice(t *testing.T) {
	_, coupons, user := newCouponFixture(t)

	coupon, err := coupons.Issue(user.ID, 10, services.PrefixWelcome)
	require.NoError(t, err)

	first, err := coupons.Redeem(user.ID, coupon.ID, 100)
	require.NoError(t, err)
	require.True(t, first.Applied)

	second, err := coupons.Redeem(user.ID, coupon.ID, 100)
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.Zero(t, second.Discount)
	assert.InDelta(t, 100.0, second.NewAmount, 1e-9)
	assert.Empty(t, second.Code)
}

func TestCouponService_Redeem_WrongOwner(t *testing.T) {
	store, coupons, user := newCouponFixture(t)

	other := &models.User{Username: "other", Role: models.RoleCustomer}
	require.NoError(t, store.Users().Create(other))

	coupon, err := coupons.Issue(user.ID, 10, services.PrefixWelcome)
	require.NoError(t, err)

	result, err := coupons.Redeem(other.ID, coupon.ID, 100)
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.InDelta(t, 100.0, result.NewAmount, 1e-9)

	// The coupon survives the foreign redemption attempt.
	stored, err := store.Coupons().GetByID(coupon.ID)
	require.NoError(t, err)
	assert.False(t, stored.Used)
}

func TestCouponService_Redeem_NotFound(t *testing.T) {
	_, coupons, user := newCouponFixture(t)

	result, err := coupons.Redeem(user.ID, "no-such-coupon", 50)
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.InDelta(t, 50.0, result.NewAmount, 1e-9)
}

// Discounting a negative total would inflate it; negative amounts are an
// input error and consume nothing.
func TestCouponService_Redeem_NegativeAmount(t *testing.T) {
	store, coupons, user := newCouponFixture(t)

	coupon, err := coupons.Issue(user.ID, 10, services.PrefixWelcome)
	require.NoError(t, err)

	_, err = coupons.Redeem(user.ID, coupon.ID, -5)
	assert.ErrorIs(t, err, services.ErrNegativeAmount)

	stored, err := store.Coupons().GetByID(coupon.ID)
	require.NoError(t, err)
	assert.False(t, stored.Used)
}

func TestCouponService_Redeem_ZeroAmount(t *testing.T) {
	_, coupons, user := newCouponFixture(t)

	coupon, err := coupons.Issue(user.ID, 10, services.PrefixWelcome)
	require.NoError(t, err)

	result, err := coupons.Redeem(user.ID, coupon.ID, 0)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Zero(t, result.Discount)
	assert.Zero(t, result.NewAmount)
}

func TestCouponService_ListForUser(t *testing.T) {
	_, coupons, user := newCouponFixture(t)

	_, err := coupons.Issue(user.ID, 10, services.PrefixWelcome)
	require.NoError(t, err)
	_, err = coupons.Issue(user.ID, 5, services.PrefixLoyalty)
	require.NoError(t, err)

	list, err := coupons.ListForUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
