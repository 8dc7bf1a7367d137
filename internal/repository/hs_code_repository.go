package repository

import (
	"context"

	"github.com/guttosm/packing-list-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HSCodeRepository stores HS codes in MongoDB. A unique index on code
// rejects duplicates.
type HSCodeRepository struct {
	collection *mongo.Collection
}

// NewHSCodeRepository creates a new HS code repository.
func NewHSCodeRepository(db *MongoDB) *HSCodeRepository {
	return &HSCodeRepository{collection: db.HSCodes}
}

// List returns all codes in ascending order.
func (r *HSCodeRepository) List(ctx context.Context) ([]model.HSCode, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	codes := []model.HSCode{}
	if err := cursor.All(ctx, &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

// GetByID returns the code with the given id.
func (r *HSCodeRepository) GetByID(ctx context.Context, id string) (*model.HSCode, error) {
	var c model.HSCode
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, mapMongoError(err)
	}
	return &c, nil
}

// Create inserts a code, returning ErrDuplicate when it is already registered.
func (r *HSCodeRepository) Create(ctx context.Context, code *model.HSCode) error {
	_, err := r.collection.InsertOne(ctx, code)
	return mapMongoError(err)
}

// Delete removes a code.
func (r *HSCodeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
