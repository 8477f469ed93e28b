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

type mongoParcelEventRepository struct {
	coll *mongo.Collection
}

// NewMongoParcelEventRepository creates a ParcelEventRepository.
func NewMongoParcelEventRepository(database *mongo.Database) ParcelEventRepository {
	return &mongoParcelEventRepository{coll: database.Collection(eventsCollection)}
}

func (r *mongoParcelEventRepository) Create(ctx context.Context, event models.ParcelEvent) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to store %s event for parcel %s: %w", event.Type, event.ParcelID.Hex(), err)
	}
	return nil
}

func (r *mongoParcelEventRepository) ListByParcel(ctx context.Context, parcelID primitive.ObjectID) ([]*models.ParcelEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"parcelId": parcelID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for parcel %s: %w", parcelID.Hex(), err)
	}
	events, err := decodeAll[models.ParcelEvent](ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}
