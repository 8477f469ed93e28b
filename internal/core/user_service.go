package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"profast-backend-go/internal/db"
	"profast-backend-go/internal/models"
)

// userService implements the UserService interface.
type userService struct {
	userRepo db.UserRepository
	now      func() time.Time
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository) UserService {
	return &userService{userRepo: userRepo, now: time.Now}
}

// Register creates the user on first sign-in. Repeat calls only refresh
// lastSignInAt, so the role and creation time of an existing user never change.
func (s *userService) Register(ctx context.Context, caller Caller, req models.CreateUserRequest) (*models.User, bool, error) {
	if !caller.Owns(req.Email) {
		return nil, false, fmt.Errorf("%w: body email '%s'", ErrEmailMismatch, req.Email)
	}
	now := s.now().UTC()

	user, err := s.userRepo.GetByEmail(ctx, caller.Email)
	if err == nil {
		if err := s.userRepo.TouchSignIn(ctx, caller.Email, now); err != nil {
			return nil, false, fmt.Errorf("failed to refresh sign-in for '%s': %w", caller.Email, err)
		}
		user.LastSignInAt = now
		return user, false, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to get user '%s' from repository: %w", caller.Email, err)
	}

	newUser := &models.User{
		Email:        caller.Email,
		Name:         strings.TrimSpace(req.Name),
		PhotoURL:     req.PhotoURL,
		Role:         models.RoleUser,
		CreatedAt:    now,
		LastSignInAt: now,
	}
	if _, err := s.userRepo.Create(ctx, newUser); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			// Lost a race with a concurrent registration of the same email.
			existing, getErr := s.userRepo.GetByEmail(ctx, caller.Email)
			if getErr != nil {
				return nil, false, fmt.Errorf("failed to reload user '%s': %w", caller.Email, getErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create user '%s': %w", caller.Email, err)
	}
	return newUser, true, nil
}

func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) RoleOf(ctx context.Context, email string) (models.Role, error) {
	email = models.NormalizeEmail(email)
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return models.RoleUser, nil
		}
		return "", fmt.Errorf("failed to look up role of '%s': %w", email, err)
	}
	if !user.Role.Valid() {
		return models.RoleUser, nil
	}
	return user.Role, nil
}

func (s *userService) SetRole(ctx context.Context, email string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	email = models.NormalizeEmail(email)
	user, err := s.userRepo.SetRole(ctx, email, role)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrUserNotFound, email)
		}
		return nil, fmt.Errorf("failed to set role of '%s': %w", email, err)
	}
	return user, nil
}
