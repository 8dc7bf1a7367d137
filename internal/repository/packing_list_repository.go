package repository

import (
	"context"
	"time"

	"github.com/guttosm/packing-list-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// PackingListRepository stores packing lists in MongoDB, one document per
// list with its packages embedded.
type PackingListRepository struct {
	collection *mongo.Collection
}

// NewPackingListRepository creates a new packing list repository.
func NewPackingListRepository(db *MongoDB) *PackingListRepository {
	return &PackingListRepository{collection: db.PackingLists}
}

// List returns lists newest first together with the total count.
func (r *PackingListRepository) List(ctx context.Context, opts ListOptions) ([]model.PackingList, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}, opts))
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	lists := []model.PackingList{}
	if err := cursor.All(ctx, &lists); err != nil {
		return nil, 0, err
	}
	return lists, total, nil
}

// GetByID returns the list with the given id.
func (r *PackingListRepository) GetByID(ctx context.Context, id string) (*model.PackingList, error) {
	var l model.PackingList
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		return nil, mapMongoError(err)
	}
	return &l, nil
}

// Create inserts a list.
func (r *PackingListRepository) Create(ctx context.Context, list *model.PackingList) error {
	_, err := r.collection.InsertOne(ctx, list)
	return mapMongoError(err)
}

// Update replaces a list. With a non-zero expectedUpdatedAt the replace only
// matches the revision the caller read.
func (r *PackingListRepository) Update(ctx context.Context, list *model.PackingList, expectedUpdatedAt time.Time) error {
	filter := bson.M{"_id": list.ID}
	if !expectedUpdatedAt.IsZero() {
		filter["updated_at"] = expectedUpdatedAt
	}

	res, err := r.collection.ReplaceOne(ctx, filter, list)
	if err != nil {
		return mapMongoError(err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": list.ID})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrVersionConflict
}

// Delete removes a list.
func (r *PackingListRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// NewMongoStore bundles the MongoDB repositories behind circuit breakers.
func NewMongoStore(db *MongoDB, breakers Breakers) *Store {
	return &Store{
		Backend:      "mongodb",
		Products:     NewProductRepositoryWithCircuitBreaker(NewProductRepository(db), breakers.Products),
		HSCodes:      NewHSCodeRepositoryWithCircuitBreaker(NewHSCodeRepository(db), breakers.HSCodes),
		PackingLists: NewPackingListRepositoryWithCircuitBreaker(NewPackingListRepository(db), breakers.PackingLists),
		HealthCheck:  db.HealthCheck,
		Close:        db.Close,
	}
}
