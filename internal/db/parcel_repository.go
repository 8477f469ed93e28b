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

type mongoParcelRepository struct {
	coll *mongo.Collection
}

// NewMongoParcelRepository creates a ParcelRepository backed by the parcels collection.
func NewMongoParcelRepository(database *mongo.Database) ParcelRepository {
	return &mongoParcelRepository{coll: database.Collection(parcelsCollection)}
}

func (r *mongoParcelRepository) Create(ctx context.Context, parcel *models.Parcel) (primitive.ObjectID, error) {
	if parcel.ID.IsZero() {
		parcel.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, parcel); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create parcel: %w", translate(err))
	}
	return parcel.ID, nil
}

func (r *mongoParcelRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Parcel, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoParcelRepository) GetByTrackingID(ctx context.Context, trackingID string) (*models.Parcel, error) {
	return r.findOne(ctx, bson.M{"trackingId": trackingID})
}

func (r *mongoParcelRepository) findOne(ctx context.Context, filter bson.M) (*models.Parcel, error) {
	var parcel models.Parcel
	if err := r.coll.FindOne(ctx, filter).Decode(&parcel); err != nil {
		return nil, fmt.Errorf("failed to get parcel %v: %w", filter, translate(err))
	}
	return &parcel, nil
}

func (r *mongoParcelRepository) List(ctx context.Context, f models.ParcelFilter) ([]*models.Parcel, error) {
	filter := bson.M{}
	if f.UserEmail != "" {
		filter["userEmail"] = f.UserEmail
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.DeliveryStatus != "" {
		filter["deliveryStatus"] = f.DeliveryStatus
	}

	opts := options.Find().SetSort(bson.D{{Key: "bookingDate", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list parcels: %w", err)
	}
	parcels, err := decodeAll[models.Parcel](ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode parcels: %w", err)
	}
	return parcels, nil
}

func (r *mongoParcelRepository) UpdateUnpaid(ctx context.Context, id primitive.ObjectID, d models.ParcelDetails, cost models.CostBreakdown, at time.Time) (*models.Parcel, error) {
	set := bson.M{
		"parcelName":          d.ParcelName,
		"parcelType":          d.ParcelType,
		"senderName":          d.SenderName,
		"senderContact":       d.SenderContact,
		"senderRegion":        d.SenderRegion,
		"senderWarehouse":     d.SenderWarehouse,
		"senderAddress":       d.SenderAddress,
		"pickupInstruction":   d.PickupInstruction,
		"receiverName":        d.ReceiverName,
		"receiverContact":     d.ReceiverContact,
		"receiverRegion":      d.ReceiverRegion,
		"receiverWarehouse":   d.ReceiverWarehouse,
		"receiverAddress":     d.ReceiverAddress,
		"deliveryInstruction": d.DeliveryInstruction,
		"cost":                cost.Total,
		"costBreakdown":       cost,
		"updatedAt":           at,
	}
	update := bson.M{"$set": set}
	if d.ParcelType == models.ParcelTypeNonDocument {
		set["parcelWeight"] = d.ParcelWeight
	} else {
		update["$unset"] = bson.M{"parcelWeight": ""}
	}

	filter := bson.M{"_id": id, "status": models.PaymentStatusUnpaid}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var parcel models.Parcel
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&parcel); err != nil {
		return nil, fmt.Errorf("failed to update unpaid parcel %s: %w", id.Hex(), translate(err))
	}
	return &parcel, nil
}

func (r *mongoParcelRepository) DeleteUnpaid(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "status": models.PaymentStatusUnpaid})
	if err != nil {
		return fmt.Errorf("failed to delete parcel %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("unpaid parcel %s: %w", id.Hex(), ErrNotFound)
	}
	return nil
}

func (r *mongoParcelRepository) MarkPaid(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	filter := bson.M{"_id": id, "status": models.PaymentStatusUnpaid}
	update := bson.M{"$set": bson.M{
		"status":    models.PaymentStatusPaid,
		"paidAt":    at,
		"updatedAt": at,
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark parcel %s paid: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("unpaid parcel %s: %w", id.Hex(), ErrNotFound)
	}
	return nil
}

func (r *mongoParcelRepository) AdvanceDelivery(ctx context.Context, id primitive.ObjectID, from, to models.DeliveryStatus, at time.Time) (*models.Parcel, error) {
	filter := bson.M{
		"_id":            id,
		"status":         models.PaymentStatusPaid,
		"deliveryStatus": from,
	}
	update := bson.M{"$set": bson.M{"deliveryStatus": to, "updatedAt": at}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var parcel models.Parcel
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&parcel); err != nil {
		return nil, fmt.Errorf("failed to move parcel %s to %s: %w", id.Hex(), to, translate(err))
	}
	return &parcel, nil
}
