package services

import (
	"fmt"
	"log"
	"time"

	"dollmart/internal/config"
	"dollmart/internal/models"
	"dollmart/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and token validation.
type AuthService struct {
	store      repositories.Store
	coupons    *CouponService
	cfg        *config.Config
	jwtSecret  []byte
	tokenDurat time.Duration
	now        func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(store repositories.Store, coupons *CouponService, cfg *config.Config) *AuthService {
	return &AuthService{
		store:      store,
		coupons:    coupons,
		cfg:        cfg,
		jwtSecret:  []byte(cfg.JWTSecret),
		tokenDurat: 24 * time.Hour,
		now:        time.Now,
	}
}

// Register creates a new customer account and mints its welcome coupon.
// Account and coupon are written in one transaction; a taken username
// fails with repositories.ErrDuplicateUsername and leaves nothing behind.
func (s *AuthService) Register(username, password string, isRetail bool) (*models.User, *models.Coupon, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:         username,
		PasswordHash:     string(hashed),
		Role:             models.RoleCustomer,
		IsRetail:         isRetail,
		RegistrationDate: s.now(),
	}

	var welcome *models.Coupon
	err = s.store.Transaction(func(tx repositories.Store) error {
		if err := tx.Users().Create(user); err != nil {
			return err
		}
		coupon, err := s.coupons.IssueIn(tx, user.ID, s.cfg.WelcomeDiscountPercent, PrefixWelcome)
		if err != nil {
			return err
		}
		welcome = coupon
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, welcome, nil
}

// Login authenticates a user and returns a signed JWT on success.
func (s *AuthService) Login(username, password string) (string, *models.User, error) {
	user, err := s.store.Users().GetByUsername(username)
	if err != nil {
		// Do not reveal whether the username exists.
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      s.now().Add(s.tokenDurat).Unix(),
		"iat":      s.now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, user, nil
}

// ValidateToken parses and validates a JWT, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// GetUser loads a user by id.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	return s.store.Users().GetByID(id)
}
