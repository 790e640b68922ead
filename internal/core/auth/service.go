// Package auth implements password authentication and JWT issuance.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"clienthub/internal/domain"
	"clienthub/internal/logger"
)

type service struct {
	users       domain.UserRepository
	jwtSecret   []byte
	tokenExpiry time.Duration
	log         logger.Logger
}

func NewService(users domain.UserRepository, secret string, expiry time.Duration, log logger.Logger) domain.AuthService {
	return &service{
		users:       users,
		jwtSecret:   []byte(secret),
		tokenExpiry: expiry,
		log:         log,
	}
}

// Authenticate checks email and password against the stored hash. Empty
// input, an unknown email and a wrong password all collapse into
// ErrUserNotFound so failed logins cannot be used to probe which emails
// are registered.
func (s *service) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrUserNotFound
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrDatabase) {
			return nil, err
		}
		return nil, domain.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, domain.ErrUserNotFound
	}

	return user, nil
}

func (s *service) IssueToken(user *domain.User) (*domain.TokenData, error) {
	exp := time.Now().Add(s.tokenExpiry)

	claims := jwt.MapClaims{
		"sub":        user.ID,
		"username":   user.FirstName,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"email":      user.Email,
		"exp":        exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.log.Info("access token issued", "email", user.Email)

	return &domain.TokenData{
		AccessToken: signed,
		ExpiresIn:   int64(s.tokenExpiry.Seconds()),
	}, nil
}

// VerifyToken checks signature and expiry. Expiry maps to ErrTokenExpired;
// every other decode, signature or algorithm fault maps to ErrTokenInvalid.
// The two are told apart in logs only, not in the HTTP response.
func (s *service) VerifyToken(tokenString string) (*domain.TokenVerification, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.log.Warn("token expired")
			return nil, domain.ErrTokenExpired
		}
		s.log.Warn("token rejected", "error", err)
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, domain.ErrTokenInvalid
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	return &domain.TokenVerification{
		ID:        int64(sub),
		Username:  stringClaim(claims, "username"),
		FirstName: stringClaim(claims, "first_name"),
		LastName:  stringClaim(claims, "last_name"),
		Email:     stringClaim(claims, "email"),
		Exp:       exp.UTC().Format(time.RFC3339),
		Success:   true,
	}, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
