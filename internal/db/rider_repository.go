package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"profast-backend-go/internal/models"
)

type mongoRiderRepository struct {
	coll *mongo.Collection
}

// NewMongoRiderRepository creates a RiderRepository.
func NewMongoRiderRepository(database *mongo.Database) RiderRepository {
	return &mongoRiderRepository{coll: database.Collection(ridersCollection)}
}

func (r *mongoRiderRepository) Create(ctx context.Context, app *models.RiderApplication) (primitive.ObjectID, error) {
	if app.ID.IsZero() {
		app.ID = primitive.NewObjectID()
	}
	app.Open = app.Status.Open()
	if _, err := r.coll.InsertOne(ctx, app); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create rider application for '%s': %w", app.ApplicantEmail, translate(err))
	}
	return app.ID, nil
}

func (r *mongoRiderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.RiderApplication, error) {
	var app models.RiderApplication
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&app); err != nil {
		return nil, fmt.Errorf("failed to get rider application %s: %w", id.Hex(), translate(err))
	}
	return &app, nil
}

func (r *mongoRiderRepository) ListByStatus(ctx context.Context, status models.RiderStatus) ([]*models.RiderApplication, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s riders: %w", status, err)
	}
	apps, err := decodeAll[models.RiderApplication](ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode rider applications: %w", err)
	}
	return apps, nil
}

func (r *mongoRiderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.RiderStatus, at time.Time) (*models.RiderApplication, error) {
	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "open": to.Open(), "updatedAt": at}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var app models.RiderApplication
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&app); err != nil {
		return nil, fmt.Errorf("failed to move rider %s to %s: %w", id.Hex(), to, translate(err))
	}
	return &app, nil
}
