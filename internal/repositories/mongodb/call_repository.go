package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/callops-backend/internal/models"
	"github.com/ArowuTest/callops-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure CallRepository implements the interface
var _ repositories.CallRepository = (*CallRepository)(nil)

// CallRepository handles MongoDB operations for Call
type CallRepository struct {
	collection *mongo.Collection
}

// NewCallRepository creates a new CallRepository
func NewCallRepository(db *mongo.Database) *CallRepository {
	return &CallRepository{
		collection: db.Collection("calls"),
	}
}

// Create inserts a new call record
func (r *CallRepository) Create(ctx context.Context, call *models.Call) error {
	call.ID = primitive.NewObjectID()
	call.CreatedAt = time.Now()
	call.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, call)
	return err
}

// FindByID finds a call by ID
func (r *CallRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Call, error) {
	var call models.Call
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&call)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: call %s", models.ErrNotFound, id.Hex())
		}
		return nil, err
	}
	return &call, nil
}

// Update updates an existing call record
func (r *CallRepository) Update(ctx context.Context, call *models.Call) error {
	call.UpdatedAt = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": call.ID}, bson.M{"$set": call})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: call %s", models.ErrNotFound, call.ID.Hex())
	}
	return nil
}

// Delete deletes a call record by ID
func (r *CallRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: call %s", models.ErrNotFound, id.Hex())
	}
	return nil
}

// FindByPhoneNumber returns the call history for a number, newest first
func (r *CallRepository) FindByPhoneNumber(ctx context.Context, number string) ([]*models.Call, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findAll(ctx, bson.M{"phoneNumber": number}, opts)
}

// FindByUserID returns the call history of a caller, newest first
func (r *CallRepository) FindByUserID(ctx context.Context, userID string) ([]*models.Call, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findAll(ctx, bson.M{"userId": userID}, opts)
}

// CountSince counts calls for a number created at or after the given time.
// The deletion guard uses this to protect numbers with fresh activity even
// when status bookkeeping is momentarily stale.
func (r *CallRepository) CountSince(ctx context.Context, number string, since time.Time) (int64, error) {
	filter := bson.M{
		"phoneNumber": number,
		"createdAt":   bson.M{"$gte": since},
	}
	return r.collection.CountDocuments(ctx, filter)
}

func (r *CallRepository) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Call, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	calls := []*models.Call{}
	if err = cursor.All(ctx, &calls); err != nil {
		return nil, err
	}
	return calls, nil
}
