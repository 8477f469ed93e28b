package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"profast-backend-go/internal/models"
)

// mongoUserRepository implements the UserRepository interface using MongoDB.
type mongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a new instance of mongoUserRepository.
func NewMongoUserRepository(database *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: database.Collection(usersCollection)}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	if user.Email == "" {
		return primitive.NilObjectID, errors.New("user email cannot be empty for Create operation")
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create user '%s': %w", user.Email, translate(err))
	}
	return user.ID, nil
}

func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to get user '%s': %w", email, translate(err))
	}
	return &user, nil
}

func (r *mongoUserRepository) TouchSignIn(ctx context.Context, email string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"lastSignInAt": at}})
	if err != nil {
		return fmt.Errorf("failed to update sign-in time for '%s': %w", email, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user '%s': %w", email, ErrNotFound)
	}
	return nil
}

func (r *mongoUserRepository) List(ctx context.Context) ([]*models.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users, err := decodeAll[models.User](ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (r *mongoUserRepository) SetRole(ctx context.Context, email string, role models.Role) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"role": role}}, opts).Decode(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to set role for '%s': %w", email, translate(err))
	}
	return &user, nil
}
