package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"profast-backend-go/internal/db"
	"profast-backend-go/internal/models"
)

const trackingIDAttempts = 3

// parcelService implements the ParcelService interface.
type parcelService struct {
	parcelRepo db.ParcelRepository
	events     EventRecorder
	coverage   CoverageService // nil disables region and warehouse checks
	logger     *zap.Logger
	now        func() time.Time
}

// NewParcelService creates a new ParcelService instance.
func NewParcelService(parcelRepo db.ParcelRepository, events EventRecorder, coverage CoverageService, logger *zap.Logger) ParcelService {
	return &parcelService{
		parcelRepo: parcelRepo,
		events:     events,
		coverage:   coverage,
		logger:     logger,
		now:        time.Now,
	}
}

// validate normalizes d in place and rejects incomplete or unserved bookings.
func (s *parcelService) validate(d *models.ParcelDetails) error {
	for _, f := range []*string{
		&d.ParcelName, &d.SenderName, &d.SenderContact, &d.SenderRegion, &d.SenderWarehouse, &d.SenderAddress,
		&d.ReceiverName, &d.ReceiverContact, &d.ReceiverRegion, &d.ReceiverWarehouse, &d.ReceiverAddress,
		&d.PickupInstruction, &d.DeliveryInstruction,
	} {
		*f = strings.TrimSpace(*f)
	}

	switch {
	case d.ParcelName == "":
		return fmt.Errorf("%w: parcel name is required", ErrInvalidParcel)
	case d.SenderName == "" || d.SenderContact == "" || d.SenderAddress == "":
		return fmt.Errorf("%w: sender name, contact and address are required", ErrInvalidParcel)
	case d.ReceiverName == "" || d.ReceiverContact == "" || d.ReceiverAddress == "":
		return fmt.Errorf("%w: receiver name, contact and address are required", ErrInvalidParcel)
	}

	switch d.ParcelType {
	case models.ParcelTypeDocument:
		d.ParcelWeight = 0
	case models.ParcelTypeNonDocument:
		if d.ParcelWeight <= 0 {
			return fmt.Errorf("%w: weight must be positive for non-document parcels", ErrInvalidParcel)
		}
	default:
		return fmt.Errorf("%w: unknown parcel type %q", ErrInvalidParcel, d.ParcelType)
	}

	if s.coverage == nil {
		return nil
	}
	for _, end := range []struct{ side, region, warehouse string }{
		{"sender", d.SenderRegion, d.SenderWarehouse},
		{"receiver", d.ReceiverRegion, d.ReceiverWarehouse},
	} {
		if !s.coverage.HasRegion(end.region) {
			return fmt.Errorf("%w: %s region %q is not served", ErrInvalidParcel, end.side, end.region)
		}
		if !s.coverage.HasWarehouse(end.region, end.warehouse) {
			return fmt.Errorf("%w: %s warehouse %q is not in %s", ErrInvalidParcel, end.side, end.warehouse, end.region)
		}
	}
	return nil
}

func (s *parcelService) Book(ctx context.Context, caller Caller, details models.ParcelDetails) (*models.Parcel, error) {
	if caller.Email == "" {
		return nil, fmt.Errorf("%w: caller has no email", ErrForbidden)
	}
	if err := s.validate(&details); err != nil {
		return nil, err
	}
	cost, err := Quote(details)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	parcel := &models.Parcel{
		Cost:           cost.Total,
		CostBreakdown:  cost,
		Status:         models.PaymentStatusUnpaid,
		DeliveryStatus: models.DeliveryStatusPending,
		UserEmail:      caller.Email,
		BookingDate:    now,
		UpdatedAt:      now,
	}
	details.Apply(parcel)

	for attempt := 1; ; attempt++ {
		parcel.ID = primitive.NilObjectID
		parcel.TrackingID = NewTrackingID(now)
		_, err = s.parcelRepo.Create(ctx, parcel)
		if err == nil {
			break
		}
		if !errors.Is(err, db.ErrDuplicate) || attempt == trackingIDAttempts {
			return nil, fmt.Errorf("failed to book parcel for '%s': %w", caller.Email, err)
		}
	}

	s.events.Record(ctx, models.ParcelEvent{
		ParcelID:   parcel.ID,
		TrackingID: parcel.TrackingID,
		Type:       models.EventParcelBooked,
		Actor:      caller.Email,
		Details:    map[string]interface{}{"cost": parcel.Cost},
		Timestamp:  now,
	})
	return parcel, nil
}

// load fetches a parcel and checks that caller may see it.
func (s *parcelService) load(ctx context.Context, caller Caller, hexID string) (*models.Parcel, error) {
	id, err := parseID(hexID)
	if err != nil {
		return nil, err
	}
	parcel, err := s.parcelRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrParcelNotFound, hexID)
		}
		return nil, fmt.Errorf("failed to get parcel %s: %w", hexID, err)
	}
	if !caller.CanAccess(parcel.UserEmail) {
		return nil, fmt.Errorf("%w: parcel %s belongs to another user", ErrForbidden, hexID)
	}
	return parcel, nil
}

// explainMiss turns a failed conditional write into the reason it failed.
func (s *parcelService) explainMiss(ctx context.Context, id primitive.ObjectID, whenPresent error) error {
	_, err := s.parcelRepo.GetByID(ctx, id)
	switch {
	case errors.Is(err, db.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrParcelNotFound, id.Hex())
	case err != nil:
		return fmt.Errorf("failed to re-read parcel %s: %w", id.Hex(), err)
	}
	return fmt.Errorf("%w: %s", whenPresent, id.Hex())
}

func (s *parcelService) Get(ctx context.Context, caller Caller, id string) (*models.Parcel, error) {
	return s.load(ctx, caller, id)
}

func (s *parcelService) ListByUser(ctx context.Context, caller Caller, email string) ([]*models.Parcel, error) {
	email = models.NormalizeEmail(email)
	if !caller.CanAccess(email) {
		return nil, fmt.Errorf("%w: cannot list parcels of '%s'", ErrForbidden, email)
	}
	parcels, err := s.parcelRepo.List(ctx, models.ParcelFilter{UserEmail: email})
	if err != nil {
		return nil, fmt.Errorf("failed to list parcels of '%s': %w", email, err)
	}
	return parcels, nil
}

func (s *parcelService) List(ctx context.Context, filter models.ParcelFilter) ([]*models.Parcel, error) {
	filter.UserEmail = models.NormalizeEmail(filter.UserEmail)
	parcels, err := s.parcelRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list parcels: %w", err)
	}
	return parcels, nil
}

// Update edits an unpaid parcel owned by caller and re-prices it. The payment
// status is never touched.
func (s *parcelService) Update(ctx context.Context, caller Caller, id string, details models.ParcelDetails) (*models.Parcel, error) {
	parcel, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(parcel.UserEmail) {
		return nil, fmt.Errorf("%w: only the owner may edit parcel %s", ErrForbidden, id)
	}
	if parcel.Status != models.PaymentStatusUnpaid {
		return nil, fmt.Errorf("%w: %s", ErrParcelNotEditable, id)
	}
	if err := s.validate(&details); err != nil {
		return nil, err
	}
	cost, err := Quote(details)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	updated, err := s.parcelRepo.UpdateUnpaid(ctx, parcel.ID, details, cost, now)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, s.explainMiss(ctx, parcel.ID, ErrParcelNotEditable)
		}
		return nil, fmt.Errorf("failed to update parcel %s: %w", id, err)
	}

	s.events.Record(ctx, models.ParcelEvent{
		ParcelID:   updated.ID,
		TrackingID: updated.TrackingID,
		Type:       models.EventParcelUpdated,
		Actor:      caller.Email,
		Details:    map[string]interface{}{"cost": updated.Cost},
		Timestamp:  now,
	})
	return updated, nil
}

func (s *parcelService) Cancel(ctx context.Context, caller Caller, id string) error {
	parcel, err := s.load(ctx, caller, id)
	if err != nil {
		return err
	}
	if parcel.Status != models.PaymentStatusUnpaid {
		return fmt.Errorf("%w: %s", ErrParcelNotEditable, id)
	}
	if err := s.parcelRepo.DeleteUnpaid(ctx, parcel.ID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return s.explainMiss(ctx, parcel.ID, ErrParcelNotEditable)
		}
		return fmt.Errorf("failed to delete parcel %s: %w", id, err)
	}

	s.events.Record(ctx, models.ParcelEvent{
		ParcelID:   parcel.ID,
		TrackingID: parcel.TrackingID,
		Type:       models.EventParcelCancelled,
		Actor:      caller.Email,
	})
	return nil
}

// AdvanceDelivery moves a paid parcel to the next delivery stage. An empty
// target means whatever stage comes next.
func (s *parcelService) AdvanceDelivery(ctx context.Context, caller Caller, id string, target models.DeliveryStatus) (*models.Parcel, error) {
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: delivery status is changed by staff", ErrForbidden)
	}
	parcel, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if parcel.Status != models.PaymentStatusPaid {
		return nil, fmt.Errorf("%w: %s", ErrParcelNotPaid, id)
	}

	next, ok := parcel.DeliveryStatus.Next()
	if target == "" {
		target = next
	}
	if !ok || target != next {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, parcel.DeliveryStatus, target)
	}

	now := s.now().UTC()
	moved, err := s.parcelRepo.AdvanceDelivery(ctx, parcel.ID, parcel.DeliveryStatus, target, now)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, s.explainMiss(ctx, parcel.ID, ErrInvalidTransition)
		}
		return nil, fmt.Errorf("failed to advance parcel %s: %w", id, err)
	}

	s.events.Record(ctx, models.ParcelEvent{
		ParcelID:   moved.ID,
		TrackingID: moved.TrackingID,
		Type:       models.EventDeliveryStatusChanged,
		Actor:      caller.Email,
		Details:    map[string]interface{}{"from": string(parcel.DeliveryStatus), "to": string(target)},
		Timestamp:  now,
	})
	return moved, nil
}

func (s *parcelService) History(ctx context.Context, caller Caller, id string) ([]*models.ParcelEvent, error) {
	parcel, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return s.events.List(ctx, parcel)
}

func (s *parcelService) Track(ctx context.Context, trackingID string) (*TrackingInfo, error) {
	parcel, err := s.parcelRepo.GetByTrackingID(ctx, strings.TrimSpace(trackingID))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: tracking id %q", ErrParcelNotFound, trackingID)
		}
		return nil, fmt.Errorf("failed to track %q: %w", trackingID, err)
	}

	events, err := s.events.List(ctx, parcel)
	if err != nil {
		s.logger.Warn("Tracking without history", zap.String("trackingId", parcel.TrackingID), zap.Error(err))
		events = nil
	}

	info := &TrackingInfo{
		TrackingID:     parcel.TrackingID,
		ParcelType:     parcel.ParcelType,
		SenderRegion:   parcel.SenderRegion,
		ReceiverRegion: parcel.ReceiverRegion,
		Status:         parcel.Status,
		DeliveryStatus: parcel.DeliveryStatus,
		BookingDate:    parcel.BookingDate,
		Events:         make([]TrackingEvent, 0, len(events)),
	}
	for _, e := range events {
		te := TrackingEvent{Type: e.Type, Timestamp: e.Timestamp}
		if to, ok := e.Details["to"].(string); ok {
			te.Status = to
		}
		info.Events = append(info.Events, te)
	}
	return info, nil
}
