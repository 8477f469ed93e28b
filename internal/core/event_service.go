package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"profast-backend-go/internal/db"
	"profast-backend-go/internal/models"
)

// eventRecorder implements the EventRecorder interface.
type eventRecorder struct {
	repo   db.ParcelEventRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewEventRecorder creates a new EventRecorder instance.
func NewEventRecorder(repo db.ParcelEventRepository, logger *zap.Logger) EventRecorder {
	return &eventRecorder{repo: repo, logger: logger, now: time.Now}
}

// Record stores event. Storage failures are logged, not returned.
func (r *eventRecorder) Record(ctx context.Context, event models.ParcelEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = r.now().UTC()
	}
	if err := r.repo.Create(ctx, event); err != nil {
		r.logger.Warn("Failed to record parcel event",
			zap.String("parcelId", event.ParcelID.Hex()),
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
	}
}

func (r *eventRecorder) List(ctx context.Context, parcel *models.Parcel) ([]*models.ParcelEvent, error) {
	events, err := r.repo.ListByParcel(ctx, parcel.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history of parcel %s: %w", parcel.ID.Hex(), err)
	}
	return events, nil
}
