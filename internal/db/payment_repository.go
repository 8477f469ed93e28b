package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"profast-backend-go/internal/models"
)

type mongoPaymentRepository struct {
	coll *mongo.Collection
}

// NewMongoPaymentRepository creates a PaymentRepository. Uniqueness of
// transactionId and parcelId comes from the indexes made by EnsureIndexes.
func NewMongoPaymentRepository(database *mongo.Database) PaymentRepository {
	return &mongoPaymentRepository{coll: database.Collection(paymentsCollection)}
}

func (r *mongoPaymentRepository) Create(ctx context.Context, payment *models.Payment) (primitive.ObjectID, error) {
	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, payment); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to record payment '%s': %w", payment.TransactionID, translate(err))
	}
	return payment.ID, nil
}

func (r *mongoPaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.coll.FindOne(ctx, bson.M{"transactionId": transactionID}).Decode(&payment); err != nil {
		return nil, fmt.Errorf("failed to get payment '%s': %w", transactionID, translate(err))
	}
	return &payment, nil
}

func (r *mongoPaymentRepository) List(ctx context.Context, userEmail string) ([]*models.Payment, error) {
	filter := bson.M{}
	if userEmail != "" {
		filter["userEmail"] = userEmail
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "paidAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	payments, err := decodeAll[models.Payment](ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payments: %w", err)
	}
	return payments, nil
}
