// Package domain holds the core types, service contracts and error
// taxonomy shared across the application.
package domain

import (
	"context"
	"errors"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrDatabase               = errors.New("database error")
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

type User struct {
	ID             int64   `json:"id"`
	AvatarURL      *string `json:"avatar_url"`
	Gender         string  `json:"gender"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	HashedPassword string  `json:"-"`
	IsActive       bool    `json:"is_active"`
}

type RegisterRequest struct {
	Gender    string `json:"gender" validate:"required,oneof=male female"`
	FirstName string `json:"first_name" validate:"required,min=1"`
	LastName  string `json:"last_name" validate:"required,min=1"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

type UserRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	DeleteByID(ctx context.Context, userID int64) error
}
