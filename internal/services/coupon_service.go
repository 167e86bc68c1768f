package services

import (
	"crypto/md5"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"dollmart/internal/models"
	"dollmart/internal/pricing"
	"dollmart/internal/repositories"
)

// Coupon code prefixes by origin.
const (
	PrefixWelcome = "WELCOME"
	PrefixLoyalty = "LOYAL"
	PrefixAdHoc   = "COUPON"
)

// codeAttempts bounds the retries when a generated code collides with an
// existing one.
const codeAttempts = 3

// RedemptionResult describes the outcome of a coupon redemption. When
// Applied is false the amount passes through unchanged and the coupon is
// untouched.
type RedemptionResult struct {
	Applied   bool    `json:"applied"`
	NewAmount float64 `json:"new_amount"`
	Discount  float64 `json:"discount"`
	Code      string  `json:"code,omitempty"`
	Percent   float64 `json:"percent,omitempty"`
}

// CouponService is the coupon ledger: it mints single-use percentage
// coupons and redeems them exactly once.
type CouponService struct {
	store repositories.Store
	now   func() time.Time
}

// NewCouponService creates a new CouponService.
func NewCouponService(store repositories.Store) *CouponService {
	return &CouponService{
		store: store,
		now:   time.Now,
	}
}

// GenerateCode derives a coupon code from the user id, the current time
// and a random salt. The code is opaque; uniqueness is enforced by the
// store, not by this derivation.
func (s *CouponService) GenerateCode(userID, prefix string) string {
	seed := fmt.Sprintf("%s%d%d", userID, s.now().Unix(), rand.Intn(9000)+1000)
	digest := fmt.Sprintf("%x", md5.Sum([]byte(seed)))
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(digest[:8]))
}

// Issue mints a new unused coupon for the user in its own transaction.
func (s *CouponService) Issue(userID string, percent float64, prefix string) (*models.Coupon, error) {
	var coupon *models.Coupon
	err := s.store.Transaction(func(tx repositories.Store) error {
		var err error
		coupon, err = s.IssueIn(tx, userID, percent, prefix)
		return err
	})
	if err != nil {
		return nil, err
	}
	return coupon, nil
}

// IssueIn mints a new unused coupon inside the caller's transaction, so
// issuance can ride along with order placement or registration. A code
// collision is retried with a fresh code.
func (s *CouponService) IssueIn(tx repositories.Store, userID string, percent float64, prefix string) (*models.Coupon, error) {
	if _, err := tx.Users().GetByID(userID); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < codeAttempts; attempt++ {
		coupon := &models.Coupon{
			UserID:             userID,
			Code:               s.GenerateCode(userID, prefix),
			DiscountPercentage: percent,
		}
		if err := tx.Coupons().Create(coupon); err != nil {
			if errors.Is(err, repositories.ErrDuplicateCode) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return coupon, nil
	}
	return nil, fmt.Errorf("failed to issue coupon after %d attempts: %w", codeAttempts, lastErr)
}

// Redeem applies the coupon to amount in its own transaction.
func (s *CouponService) Redeem(userID, couponID string, amount float64) (RedemptionResult, error) {
	var result RedemptionResult
	err := s.store.Transaction(func(tx repositories.Store) error {
		var err error
		result, err = s.RedeemIn(tx, userID, couponID, amount)
		return err
	})
	if err != nil {
		return RedemptionResult{}, err
	}
	return result, nil
}

// RedeemIn applies the coupon to amount inside the caller's transaction.
// The discount computation and the used-flag flip are one atomic step; a
// second redeem of the same coupon finds it used and fails softly. A
// coupon that does not exist, belongs to someone else or is already used
// yields Applied=false with the amount unchanged.
//
// A negative amount is rejected outright; discounting a negative total
// would only inflate it.
func (s *CouponService) RedeemIn(tx repositories.Store, userID, couponID string, amount float64) (RedemptionResult, error) {
	if amount < 0 {
		return RedemptionResult{}, fmt.Errorf("redeem coupon %s: %w", couponID, ErrNegativeAmount)
	}

	pass := RedemptionResult{Applied: false, NewAmount: amount}

	coupon, err := tx.Coupons().GetByID(couponID)
	if err != nil {
		if errors.Is(err, repositories.ErrCouponNotFound) {
			return pass, nil
		}
		return RedemptionResult{}, err
	}
	if coupon.UserID != userID || coupon.Used {
		return pass, nil
	}

	ok, err := tx.Coupons().MarkUsed(couponID, userID)
	if err != nil {
		return RedemptionResult{}, err
	}
	if !ok {
		return pass, nil
	}

	discount, newAmount := pricing.CouponDiscount(amount, coupon.DiscountPercentage)
	return RedemptionResult{
		Applied:   true,
		NewAmount: newAmount,
		Discount:  discount,
		Code:      coupon.Code,
		Percent:   coupon.DiscountPercentage,
	}, nil
}

// ListForUser returns every coupon of the user, used or not.
func (s *CouponService) ListForUser(userID string) ([]models.Coupon, error) {
	return s.store.Coupons().ListByUser(userID)
}
