package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/callops-backend/internal/models"
	"github.com/ArowuTest/callops-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// scanBatchSize bounds one store round trip; the cursor loop below keeps
// fetching batches until the scan is exhausted.
const scanBatchSize = 500

// Compile-time check to ensure PhoneNumberRepository implements the interface
var _ repositories.PhoneNumberRepository = (*PhoneNumberRepository)(nil)

// PhoneNumberRepository handles MongoDB operations for PhoneNumber
type PhoneNumberRepository struct {
	collection *mongo.Collection
}

// NewPhoneNumberRepository creates a new PhoneNumberRepository
func NewPhoneNumberRepository(db *mongo.Database) *PhoneNumberRepository {
	return &PhoneNumberRepository{
		collection: db.Collection("phone_numbers"),
	}
}

// Create inserts a new number. A duplicate canonical key surfaces as
// models.ErrDuplicate.
func (r *PhoneNumberRepository) Create(ctx context.Context, number *models.PhoneNumber) error {
	number.CreatedAt = time.Now()
	number.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, number)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", models.ErrDuplicate, number.Number)
		}
		return err
	}
	return nil
}

// FindByNumber finds a number by its canonical key
func (r *PhoneNumberRepository) FindByNumber(ctx context.Context, number string) (*models.PhoneNumber, error) {
	var entity models.PhoneNumber
	filter := bson.M{"_id": number}
	err := r.collection.FindOne(ctx, filter).Decode(&entity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: number %s", models.ErrNotFound, number)
		}
		return nil, err
	}
	fillLegacyDefaults(&entity)
	return &entity, nil
}

// UpdateMetadata patches name and address, the only two fields mutable after
// creation.
func (r *PhoneNumberRepository) UpdateMetadata(ctx context.Context, number, name, address string) (*models.PhoneNumber, error) {
	set := bson.M{"updatedAt": time.Now()}
	if name != "" {
		set["name"] = name
	}
	if address != "" {
		set["address"] = address
	}

	var updated models.PhoneNumber
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": number}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: number %s", models.ErrNotFound, number)
		}
		return nil, err
	}
	fillLegacyDefaults(&updated)
	return &updated, nil
}

// Delete deletes a number by its canonical key
func (r *PhoneNumberRepository) Delete(ctx context.Context, number string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": number})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: number %s", models.ErrNotFound, number)
	}
	return nil
}

// FindAvailable returns up to limit available numbers in store order
func (r *PhoneNumberRepository) FindAvailable(ctx context.Context, areaCode string, limit int64) ([]*models.PhoneNumber, error) {
	filter := bson.M{"status": models.StatusAvailable}
	if areaCode != "" {
		filter["areaCode"] = areaCode
	}
	opts := options.Find().SetLimit(limit).SetBatchSize(scanBatchSize)
	return r.findAll(ctx, filter, opts)
}

// FindAssignedTo returns a caller's numbers in the given statuses
func (r *PhoneNumberRepository) FindAssignedTo(ctx context.Context, userID, areaCode string, statuses []models.NumberStatus, limit int64) ([]*models.PhoneNumber, error) {
	filter := bson.M{
		"assignedTo": userID,
		"status":     bson.M{"$in": statuses},
	}
	if areaCode != "" {
		filter["areaCode"] = areaCode
	}
	opts := options.Find().SetBatchSize(scanBatchSize)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return r.findAll(ctx, filter, opts)
}

// FindByAreaCode returns every number in an area code, following the cursor
// until the scan is exhausted
func (r *PhoneNumberRepository) FindByAreaCode(ctx context.Context, areaCode string) ([]*models.PhoneNumber, error) {
	opts := options.Find().SetBatchSize(scanBatchSize)
	return r.findAll(ctx, bson.M{"areaCode": areaCode}, opts)
}

// UpdateStatusIf applies a status change conditioned on the current state.
// The condition and the write ride in one UpdateOne, which is the only
// atomicity the store offers; a concurrent writer that got there first makes
// this a matched-nothing no-op.
func (r *PhoneNumberRepository) UpdateStatusIf(ctx context.Context, number string, from []models.NumberStatus, change models.StatusChange) (bool, error) {
	filter := bson.M{
		"_id":    number,
		"status": bson.M{"$in": from},
	}
	set := bson.M{
		"status":    change.To,
		"updatedAt": time.Now(),
	}
	if change.AssignedTo != "" {
		set["assignedTo"] = change.AssignedTo
	}
	if change.BatchID != "" {
		set["batchId"] = change.BatchID
	}
	if change.AssignedAt != nil {
		set["assignedAt"] = *change.AssignedAt
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// AvailableAreaCodeCounts aggregates available inventory per area code,
// lexical area-code order
func (r *PhoneNumberRepository) AvailableAreaCodeCounts(ctx context.Context) ([]models.AreaCodeCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "status", Value: models.StatusAvailable}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$areaCode"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := []models.AreaCodeCount{}
	if err = cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// StatusCounts aggregates the pool by status, optionally scoped to one caller
func (r *PhoneNumberRepository) StatusCounts(ctx context.Context, userID string) (*models.PoolStats, error) {
	match := bson.D{}
	if userID != "" {
		match = bson.D{{Key: "assignedTo", Value: userID}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status models.NumberStatus `bson:"_id"`
		Count  int64               `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	stats := &models.PoolStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case models.StatusAvailable:
			stats.Available = row.Count
		case models.StatusAssigned:
			stats.Assigned = row.Count
		case models.StatusInUse:
			stats.InUse = row.Count
		case models.StatusCompleted:
			stats.Completed = row.Count
		}
	}
	return stats, nil
}

// findAll drains a filtered scan. cursor.Next transparently pulls further
// server batches, so the caller sees the complete result set, never one page.
func (r *PhoneNumberRepository) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.PhoneNumber, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	numbers := []*models.PhoneNumber{}
	for cursor.Next(ctx) {
		var entity models.PhoneNumber
		if err := cursor.Decode(&entity); err != nil {
			return nil, err
		}
		fillLegacyDefaults(&entity)
		numbers = append(numbers, &entity)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return numbers, nil
}

// fillLegacyDefaults backstops rows written before areaCode and the
// assignedTo sentinel became mandatory. Default-fill on read; a backfill
// would retire this.
func fillLegacyDefaults(n *models.PhoneNumber) {
	if n.AreaCode == "" {
		n.AreaCode = models.DefaultAreaCode
	}
	if n.AssignedTo == "" {
		n.AssignedTo = models.Unassigned
	}
}
