package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"profast-backend-go/internal/models"
)

func toDoc(t *testing.T, v interface{}) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var doc bson.D
	require.NoError(t, bson.Unmarshal(raw, &doc))
	return doc
}

func sampleParcel(status models.PaymentStatus) models.Parcel {
	return models.Parcel{
		ID:             primitive.NewObjectID(),
		ParcelName:     "Books",
		ParcelType:     models.ParcelTypeNonDocument,
		ParcelWeight:   5,
		SenderRegion:   "Dhaka",
		ReceiverRegion: "Khulna",
		Cost:           270,
		Status:         status,
		DeliveryStatus: models.DeliveryStatusPending,
		TrackingID:     "ZAP1700000000000ABCDEF",
		UserEmail:      "a@example.com",
		BookingDate:    time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestMongoParcelRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "profast." + parcelsCollection

	mt.Run("create assigns an id", func(mt *mtest.T) {
		repo := NewMongoParcelRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		p := sampleParcel(models.PaymentStatusUnpaid)
		p.ID = primitive.NilObjectID
		id, err := repo.Create(context.Background(), &p)
		require.NoError(mt, err)
		assert.False(mt, id.IsZero())
		assert.Equal(mt, id, p.ID)
	})

	mt.Run("get by id", func(mt *mtest.T) {
		repo := NewMongoParcelRepository(mt.DB)
		p := sampleParcel(models.PaymentStatusUnpaid)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, toDoc(mt.T, p)))

		got, err := repo.GetByID(context.Background(), p.ID)
		require.NoError(mt, err)
		assert.Equal(mt, p.ID, got.ID)
		assert.Equal(mt, p.TrackingID, got.TrackingID)
		assert.Equal(mt, models.PaymentStatusUnpaid, got.Status)
	})

	mt.Run("get missing maps to ErrNotFound", func(mt *mtest.T) {
		repo := NewMongoParcelRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), primitive.NewObjectID())
		assert.True(mt, errors.Is(err, ErrNotFound))
	})

	mt.Run("list decodes every batch", func(mt *mtest.T) {
		repo := NewMongoParcelRepository(mt.DB)
		a, b := sampleParcel(models.PaymentStatusUnpaid), sampleParcel(models.PaymentStatusPaid)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, toDoc(mt.T, a)),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch, toDoc(mt.T, b)),
		)

		got, err := repo.List(context.Background(), models.ParcelFilter{UserEmail: "a@example.com"})
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, a.ID, got[0].ID)
		assert.Equal(mt, b.ID, got[1].ID)
	})

	mt.Run("update unpaid returns the new document", func(mt *mtest.T) {
		repo := NewMongoParcelRepository(mt.DB)
		p := sampleParcel(models.PaymentStatusUnpaid)
		p.ParcelName = "Letters"
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toDoc(mt.T, p)}))

		details := models.ParcelDetails{ParcelName: "Letters", ParcelType: models.ParcelTypeDocument}
		got, err := repo.UpdateUnpaid(context.Background(), p.ID, details, models.CostBreakdown{BaseFare: 80, Total: 80}, time.Now())
		require.NoError(mt, err)
		assert.Equal(mt, "Letters", got.ParcelName)
	})

	mt.Run("update with no unpaid match maps to ErrNotFound", func(mt *mtest.T) {
		repo := NewMongoParcelRepository(mt.DB)
		// A findAndModify reply without a value means nothing matched.
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		_, err := repo.UpdateUnpaid(context.Background(), primitive.NewObjectID(), models.ParcelDetails{}, models.CostBreakdown{}, time.Now())
		assert.True(mt, errors.Is(err, ErrNotFound))
	})

	mt.Run("delete unpaid", func(mt *mtest.T) {
		repo := NewMongoParcelRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		assert.NoError(mt, repo.DeleteUnpaid(context.Background(), primitive.NewObjectID()))

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		assert.True(mt, errors.Is(repo.DeleteUnpaid(context.Background(), primitive.NewObjectID()), ErrNotFound))
	})

	mt.Run("mark paid", func(mt *mtest.T) {
		repo := NewMongoParcelRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		assert.NoError(mt, repo.MarkPaid(context.Background(), primitive.NewObjectID(), time.Now()))

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		assert.True(mt, errors.Is(repo.MarkPaid(context.Background(), primitive.NewObjectID(), time.Now()), ErrNotFound))
	})

	mt.Run("advance delivery", func(mt *mtest.T) {
		repo := NewMongoParcelRepository(mt.DB)
		p := sampleParcel(models.PaymentStatusPaid)
		p.DeliveryStatus = models.DeliveryStatusReadyToPickup
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toDoc(mt.T, p)}))

		got, err := repo.AdvanceDelivery(context.Background(), p.ID, models.DeliveryStatusPending, models.DeliveryStatusReadyToPickup, time.Now())
		require.NoError(mt, err)
		assert.Equal(mt, models.DeliveryStatusReadyToPickup, got.DeliveryStatus)
	})
}

func TestMongoPaymentRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMongoPaymentRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := repo.Create(context.Background(), &models.Payment{TransactionID: "pi_1", ParcelID: primitive.NewObjectID()})
		require.NoError(mt, err)
		assert.False(mt, id.IsZero())
	})

	mt.Run("duplicate key maps to ErrDuplicate", func(mt *mtest.T) {
		repo := NewMongoPaymentRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: profast.payments index: parcelId_1",
		}))

		_, err := repo.Create(context.Background(), &models.Payment{TransactionID: "pi_2", ParcelID: primitive.NewObjectID()})
		assert.True(mt, errors.Is(err, ErrDuplicate))
	})
}

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "profast." + usersCollection

	mt.Run("get by email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		u := models.User{ID: primitive.NewObjectID(), Email: "admin@example.com", Role: models.RoleAdmin}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, toDoc(mt.T, u)))

		got, err := repo.GetByEmail(context.Background(), u.Email)
		require.NoError(mt, err)
		assert.Equal(mt, models.RoleAdmin, got.Role)
	})

	mt.Run("touch sign-in on unknown user", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.TouchSignIn(context.Background(), "ghost@example.com", time.Now())
		assert.True(mt, errors.Is(err, ErrNotFound))
	})

	mt.Run("set role", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		u := models.User{ID: primitive.NewObjectID(), Email: "r@example.com", Role: models.RoleRider}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toDoc(mt.T, u)}))

		got, err := repo.SetRole(context.Background(), u.Email, models.RoleRider)
		require.NoError(mt, err)
		assert.Equal(mt, models.RoleRider, got.Role)
	})
}

func TestMongoRiderRepository_UpdateStatusConflict(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("wrong current status", func(mt *mtest.T) {
		repo := NewMongoRiderRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		_, err := repo.UpdateStatus(context.Background(), primitive.NewObjectID(), models.RiderStatusPending, models.RiderStatusActive, time.Now())
		assert.True(mt, errors.Is(err, ErrNotFound))
	})
}

func TestMongoRiderRepository_OpenFlag(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create marks pending applications open", func(mt *mtest.T) {
		repo := NewMongoRiderRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		app := &models.RiderApplication{ApplicantEmail: "rider@example.com", Status: models.RiderStatusPending}
		_, err := repo.Create(context.Background(), app)
		require.NoError(mt, err)
		assert.True(mt, app.Open)
	})

	mt.Run("closing an application clears the flag", func(mt *mtest.T) {
		repo := NewMongoRiderRepository(mt.DB)
		app := models.RiderApplication{ID: primitive.NewObjectID(), Status: models.RiderStatusDeactivated}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toDoc(mt.T, app)}))

		_, err := repo.UpdateStatus(context.Background(), app.ID, models.RiderStatusActive, models.RiderStatusDeactivated, time.Now())
		require.NoError(mt, err)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.False(mt, started.Command.Lookup("update", "$set", "open").Boolean())
	})
}

func TestEnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("rider uniqueness uses an equality partial filter", func(mt *mtest.T) {
		for i := 0; i < 5; i++ {
			mt.AddMockResponses(mtest.CreateSuccessResponse())
		}
		require.NoError(mt, EnsureIndexes(context.Background(), mt.DB))

		type indexSpec struct {
			Key     bson.D `bson:"key"`
			Unique  bool   `bson:"unique"`
			Partial bson.D `bson:"partialFilterExpression"`
		}
		var riders []indexSpec
		for _, ev := range mt.GetAllStartedEvents() {
			var cmd struct {
				Collection string      `bson:"createIndexes"`
				Indexes    []indexSpec `bson:"indexes"`
			}
			require.NoError(mt, bson.Unmarshal(ev.Command, &cmd))
			if cmd.Collection == ridersCollection {
				riders = cmd.Indexes
			}
		}

		require.NotEmpty(mt, riders)
		unique := riders[0]
		assert.Equal(mt, "applicantEmail", unique.Key[0].Key)
		assert.True(mt, unique.Unique)
		assert.Equal(mt, bson.D{{Key: "open", Value: true}}, unique.Partial)
	})
}
