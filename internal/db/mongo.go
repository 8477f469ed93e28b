package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	usersCollection    = "users"
	parcelsCollection  = "parcels"
	paymentsCollection = "payments"
	eventsCollection   = "parcelEvents"
	ridersCollection   = "riders"
)

const connectTimeout = 10 * time.Second

// ConnectMongo opens a client against uri and verifies it with a ping.
func ConnectMongo(ctx context.Context, uri string, logger *zap.Logger) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("Connected to MongoDB")
	return client, nil
}

// EnsureIndexes creates the unique and lookup indexes the repositories rely on.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	// Partial filters only take equality on servers before 6.0, hence the
	// denormalized open flag instead of a $in on status.
	openRider := bson.D{{Key: "open", Value: true}}

	specs := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		parcelsCollection: {
			{Keys: bson.D{{Key: "trackingId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "userEmail", Value: 1}, {Key: "bookingDate", Value: -1}}},
		},
		paymentsCollection: {
			{Keys: bson.D{{Key: "transactionId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "parcelId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "userEmail", Value: 1}, {Key: "paidAt", Value: -1}}},
		},
		eventsCollection: {
			{Keys: bson.D{{Key: "parcelId", Value: 1}, {Key: "timestamp", Value: 1}}},
		},
		ridersCollection: {
			{
				Keys:    bson.D{{Key: "applicantEmail", Value: 1}},
				Options: options.Index().SetUnique(true).SetPartialFilterExpression(openRider),
			},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
	}

	for name, idx := range specs {
		if _, err := database.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

// decodeAll drains cursor into a slice of T.
func decodeAll[T any](ctx context.Context, cursor *mongo.Cursor) ([]*T, error) {
	defer cursor.Close(ctx)
	out := make([]*T, 0)
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		out = append(out, &item)
	}
	return out, cursor.Err()
}
