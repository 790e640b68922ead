package domain

import (
	"context"
	"errors"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenData struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type TokenVerification struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Exp       string `json:"exp"`
	Success   bool   `json:"success"`
}

type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (*User, error)
	IssueToken(user *User) (*TokenData, error)
	VerifyToken(token string) (*TokenVerification, error)
}
