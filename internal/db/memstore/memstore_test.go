package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"profast-backend-go/internal/db"
	"profast-backend-go/internal/models"
)

func newParcel(tracking string) *models.Parcel {
	return &models.Parcel{
		ParcelName:     "Box",
		ParcelType:     models.ParcelTypeDocument,
		Status:         models.PaymentStatusUnpaid,
		DeliveryStatus: models.DeliveryStatusPending,
		TrackingID:     tracking,
		UserEmail:      "u@example.com",
		BookingDate:    time.Now(),
	}
}

func TestParcels_ConditionalWrites(t *testing.T) {
	ctx := context.Background()
	repo := New().Parcels()

	id, err := repo.Create(ctx, newParcel("ZAP1"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newParcel("ZAP1"))
	assert.True(t, errors.Is(err, db.ErrDuplicate), "tracking id must be unique")

	_, err = repo.AdvanceDelivery(ctx, id, models.DeliveryStatusPending, models.DeliveryStatusReadyToPickup, time.Now())
	assert.True(t, errors.Is(err, db.ErrNotFound), "unpaid parcels do not move")

	require.NoError(t, repo.MarkPaid(ctx, id, time.Now()))
	assert.True(t, errors.Is(repo.MarkPaid(ctx, id, time.Now()), db.ErrNotFound))

	_, err = repo.UpdateUnpaid(ctx, id, models.ParcelDetails{ParcelName: "New"}, models.CostBreakdown{}, time.Now())
	assert.True(t, errors.Is(err, db.ErrNotFound))
	assert.True(t, errors.Is(repo.DeleteUnpaid(ctx, id), db.ErrNotFound))

	moved, err := repo.AdvanceDelivery(ctx, id, models.DeliveryStatusPending, models.DeliveryStatusReadyToPickup, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusReadyToPickup, moved.DeliveryStatus)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Box", got.ParcelName)
	assert.NotNil(t, got.PaidAt)
}

func TestParcels_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := New().Parcels()
	id, err := repo.Create(ctx, newParcel("ZAP2"))
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	got.Status = models.PaymentStatusPaid

	again, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusUnpaid, again.Status)
}

func TestPayments_OnePerParcelUnderContention(t *testing.T) {
	ctx := context.Background()
	repo := New().Payments()
	parcelID := primitive.NewObjectID()

	var wg sync.WaitGroup
	var mu sync.Mutex
	inserted := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, &models.Payment{
				TransactionID: primitive.NewObjectID().Hex(),
				ParcelID:      parcelID,
			})
			if err == nil {
				mu.Lock()
				inserted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, inserted)
}

func TestRiders_OneOpenApplicationPerEmail(t *testing.T) {
	ctx := context.Background()
	repo := New().Riders()
	app := func() *models.RiderApplication {
		return &models.RiderApplication{ApplicantEmail: "r@example.com", Status: models.RiderStatusPending}
	}

	id, err := repo.Create(ctx, app())
	require.NoError(t, err)
	_, err = repo.Create(ctx, app())
	assert.True(t, errors.Is(err, db.ErrDuplicate))

	_, err = repo.UpdateStatus(ctx, id, models.RiderStatusPending, models.RiderStatusRejected, time.Now())
	require.NoError(t, err)
	_, err = repo.Create(ctx, app())
	assert.NoError(t, err, "a rejected applicant may apply again")
}
