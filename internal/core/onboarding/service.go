// Package onboarding coordinates the two halves of a registration: the
// avatar image pipeline and the user record. The two run concurrently,
// touch disjoint resources and are reconciled into one outcome; when
// exactly one half succeeds, the committed half is rolled back with a
// best-effort compensating delete.
package onboarding

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"clienthub/internal/domain"
	"clienthub/internal/event"
	"clienthub/internal/logger"
)

const assetExtension = ".png"

type service struct {
	users     domain.UserRepository
	assets    domain.AssetStore
	processor domain.ImageProcessor
	bus       *event.Bus
	log       logger.Logger

	avatarURLPrefix string
}

func NewService(
	users domain.UserRepository,
	assets domain.AssetStore,
	processor domain.ImageProcessor,
	bus *event.Bus,
	log logger.Logger,
	avatarURLPrefix string,
) domain.OnboardingService {
	return &service{
		users:     users,
		assets:    assets,
		processor: processor,
		bus:       bus,
		log:       log,

		avatarURLPrefix: avatarURLPrefix,
	}
}

// Register runs the image subtask and the user subtask concurrently and
// reconciles their outcomes. Both subtasks always run to completion; a
// failure on one side never cancels the other, because the reconciliation
// step needs both results to pick the right compensation.
func (s *service) Register(ctx context.Context, req domain.RegisterRequest, avatar []byte) (*domain.User, error) {
	// One key for both subtasks, generated before either starts. The user
	// row references the derived URL even if the image subtask later fails.
	key := newAssetKey()
	avatarURL := s.avatarURLPrefix + "/" + key

	var (
		imageErr error
		user     *domain.User
		userErr  error
	)

	// Plain errgroup, no WithContext: the closures only record their
	// outcome, so Wait is a pure join point with no short-circuit.
	var g errgroup.Group
	g.Go(func() error {
		imageErr = s.processAndStore(ctx, key, avatar)
		return nil
	})
	g.Go(func() error {
		user, userErr = s.createUser(ctx, req, avatarURL)
		return nil
	})
	_ = g.Wait()

	d := reconcile(imageErr, userErr)

	switch d.compensate {
	case compensateUser:
		s.rollbackUser(ctx, user, d.err)
	case compensateAsset:
		s.rollbackAsset(ctx, req.Email, key, d.err)
	}

	if d.err != nil {
		s.log.Warn("registration rejected", "email", req.Email, "error", d.err)
		return nil, d.err
	}

	s.publish(domain.EventUserRegistered, domain.UserRegisteredEvent{
		UserID:    user.ID,
		Email:     user.Email,
		AvatarURL: avatarURL,
	})
	s.log.Info("user registered", "id", user.ID, "email", user.Email)

	return user, nil
}

// RegisterSequential is the no-concurrency fallback: process and store the
// avatar, then create the user, stopping at the first failure. No
// compensation is needed because the second step simply never starts.
func (s *service) RegisterSequential(ctx context.Context, req domain.RegisterRequest, avatar []byte) (*domain.User, error) {
	key := newAssetKey()
	avatarURL := s.avatarURLPrefix + "/" + key

	if err := s.processAndStore(ctx, key, avatar); err != nil {
		return nil, err
	}

	user, err := s.createUser(ctx, req, avatarURL)
	if err != nil {
		s.rollbackAsset(ctx, req.Email, key, err)
		return nil, err
	}

	s.publish(domain.EventUserRegistered, domain.UserRegisteredEvent{
		UserID:    user.ID,
		Email:     user.Email,
		AvatarURL: avatarURL,
	})
	s.log.Info("user registered", "id", user.ID, "email", user.Email)

	return user, nil
}

func (s *service) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// DeleteByID removes an active user. Deleting a missing or inactive user
// fails with ErrUserNotFound.
func (s *service) DeleteByID(ctx context.Context, userID int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}

	return s.users.DeleteByID(ctx, userID)
}

// processAndStore is the image subtask. Failures map to ErrInvalidImage or
// ErrImageProcessing before they reach reconciliation.
func (s *service) processAndStore(ctx context.Context, key string, avatar []byte) error {
	processed, err := s.processor.Process(avatar)
	if err != nil {
		return err
	}

	return s.assets.Put(ctx, key, processed)
}

// createUser is the user subtask. Failures map to ErrEmailAlreadyRegistered
// or ErrDatabase before they reach reconciliation.
func (s *service) createUser(ctx context.Context, req domain.RegisterRequest, avatarURL string) (*domain.User, error) {
	exists, err := s.users.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailAlreadyRegistered
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to hash password: %v", domain.ErrDatabase, err)
	}

	user := &domain.User{
		AvatarURL:      &avatarURL,
		Gender:         req.Gender,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		HashedPassword: string(hashed),
		IsActive:       true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// rollbackUser deletes the user created while the image subtask failed.
// Best-effort: a rollback failure is logged and never replaces cause.
func (s *service) rollbackUser(ctx context.Context, user *domain.User, cause error) {
	if user == nil {
		return
	}

	// The request context may already be done; compensation still has to run.
	ctx = context.WithoutCancel(ctx)

	if err := s.users.DeleteByID(ctx, user.ID); err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		s.log.Error("failed to roll back user", "id", user.ID, "email", user.Email, "error", err)
		return
	}

	s.publish(domain.EventCompensated, domain.CompensatedEvent{
		Email:  user.Email,
		Reason: cause.Error(),
	})
	s.log.Info("registration rolled back, user deleted", "email", user.Email)
}

// rollbackAsset deletes the avatar stored while the user subtask failed.
// Best-effort, same non-masking rule as rollbackUser.
func (s *service) rollbackAsset(ctx context.Context, email, key string, cause error) {
	ctx = context.WithoutCancel(ctx)

	if err := s.assets.Delete(ctx, key); err != nil {
		s.log.Error("failed to roll back asset", "key", key, "error", err)
		return
	}

	s.publish(domain.EventCompensated, domain.CompensatedEvent{
		Email:    email,
		AssetKey: key,
		Reason:   cause.Error(),
	})
	s.log.Info("registration rolled back, asset deleted", "key", key)
}

func (s *service) publish(name string, payload any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(name, payload)
}

func newAssetKey() string {
	return uuid.New().String() + assetExtension
}
