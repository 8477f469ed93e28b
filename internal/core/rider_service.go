package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"profast-backend-go/internal/db"
	"profast-backend-go/internal/models"
)

type riderService struct {
	riderRepo db.RiderRepository
	userRepo  db.UserRepository
	coverage  CoverageService
	logger    *zap.Logger
	now       func() time.Time
}

// NewRiderService creates a new RiderService instance.
func NewRiderService(riderRepo db.RiderRepository, userRepo db.UserRepository, coverage CoverageService, logger *zap.Logger) RiderService {
	return &riderService{
		riderRepo: riderRepo,
		userRepo:  userRepo,
		coverage:  coverage,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *riderService) Apply(ctx context.Context, caller Caller, req models.RiderApplicationRequest) (*models.RiderApplication, error) {
	if !caller.Owns(req.ApplicantEmail) {
		return nil, fmt.Errorf("%w: applicant email '%s'", ErrEmailMismatch, req.ApplicantEmail)
	}
	if s.coverage != nil && !s.coverage.HasWarehouse(req.Region, req.Warehouse) {
		return nil, fmt.Errorf("%w: warehouse %q is not in %s", ErrInvalidApplication, req.Warehouse, req.Region)
	}

	now := s.now().UTC()
	app := &models.RiderApplication{
		ApplicantName:  strings.TrimSpace(req.ApplicantName),
		ApplicantEmail: caller.Email,
		Age:            req.Age,
		Region:         req.Region,
		Warehouse:      req.Warehouse,
		Contact:        strings.TrimSpace(req.Contact),
		NID:            strings.TrimSpace(req.NID),
		BikeBrand:      strings.TrimSpace(req.BikeBrand),
		BikeRegNo:      strings.TrimSpace(req.BikeRegNo),
		Status:         models.RiderStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.riderRepo.Create(ctx, app); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, fmt.Errorf("%w: '%s'", ErrRiderExists, caller.Email)
		}
		return nil, fmt.Errorf("failed to store rider application: %w", err)
	}
	return app, nil
}

func (s *riderService) ListByStatus(ctx context.Context, status models.RiderStatus) ([]*models.RiderApplication, error) {
	apps, err := s.riderRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s riders: %w", status, err)
	}
	return apps, nil
}

// SetStatus reviews an application. Activation grants the rider role and
// deactivation takes it back.
func (s *riderService) SetStatus(ctx context.Context, hexID string, status models.RiderStatus) (*models.RiderApplication, error) {
	id, err := parseID(hexID)
	if err != nil {
		return nil, err
	}
	app, err := s.riderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRiderNotFound, hexID)
		}
		return nil, fmt.Errorf("failed to get rider application %s: %w", hexID, err)
	}
	if !app.Status.CanBecome(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, app.Status, status)
	}

	updated, err := s.riderRepo.UpdateStatus(ctx, id, app.Status, status, s.now().UTC())
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s changed concurrently", ErrInvalidTransition, hexID)
		}
		return nil, fmt.Errorf("failed to update rider application %s: %w", hexID, err)
	}

	switch status {
	case models.RiderStatusActive:
		s.grant(ctx, updated.ApplicantEmail, models.RoleUser, models.RoleRider)
	case models.RiderStatusDeactivated:
		s.grant(ctx, updated.ApplicantEmail, models.RoleRider, models.RoleUser)
	}
	return updated, nil
}

// grant moves the applicant from one role to another. Any other current
// role, admin in particular, is left alone.
func (s *riderService) grant(ctx context.Context, email string, from, to models.Role) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil && user.Role != from {
		s.logger.Info("Rider status changed, role kept",
			zap.String("email", email),
			zap.String("role", string(user.Role)),
		)
		return
	}
	if err == nil {
		_, err = s.userRepo.SetRole(ctx, email, to)
	}
	if err != nil {
		s.logger.Warn("Rider status changed without role update",
			zap.String("email", email),
			zap.String("role", string(to)),
			zap.Error(err),
		)
	}
}
