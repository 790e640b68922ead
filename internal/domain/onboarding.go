package domain

import (
	"context"
	"errors"
)

var (
	// ErrCombinedConflict covers the case where both registration subtasks
	// failed with client-side faults: the email is taken and the file is
	// not a valid image.
	ErrCombinedConflict = errors.New("email already registered and avatar is not a valid image")

	ErrInternal = errors.New("internal error")
)

// OnboardingService creates a user record together with a processed avatar
// asset and keeps the two consistent.
type OnboardingService interface {
	Register(ctx context.Context, req RegisterRequest, avatar []byte) (*User, error)
	RegisterSequential(ctx context.Context, req RegisterRequest, avatar []byte) (*User, error)
	GetByID(ctx context.Context, userID int64) (*User, error)
	DeleteByID(ctx context.Context, userID int64) error
}
