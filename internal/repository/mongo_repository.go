package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Kilat-Pet-Delivery/service-transit/internal/domain"
	routeDomain "github.com/Kilat-Pet-Delivery/service-transit/internal/domain/route"
	vehicleDomain "github.com/Kilat-Pet-Delivery/service-transit/internal/domain/vehicle"
)

// mongoRecord is the stored document: the native _id followed by the entity fields.
type mongoRecord[D any] struct {
	ID  bson.ObjectID `bson:"_id,omitempty"`
	Doc D             `bson:",inline"`
}

// MongoRepository implements domain.Repository over a MongoDB collection.
// The collection handle is safe for concurrent use.
type MongoRepository[T domain.Entity, D any] struct {
	collection *mongo.Collection
	mapper     DocumentMapper[T, D]
}

// NewMongoRepository creates a repository for T in db. The database's client
// must have been created with NewRegistry so coordinates are encoded correctly.
func NewMongoRepository[T domain.Entity, D any](db *mongo.Database, mapper DocumentMapper[T, D], opts ...Option) *MongoRepository[T, D] {
	s := resolveSettings[T](opts)
	return &MongoRepository[T, D]{
		collection: db.Collection(s.collection),
		mapper:     mapper,
	}
}

// CollectionName returns the name of the backing collection.
func (r *MongoRepository[T, D]) CollectionName() string {
	return r.collection.Name()
}

// GetAll returns every entity in the collection.
func (r *MongoRepository[T, D]) GetAll(ctx context.Context) ([]T, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, storageError("error occurred while retrieving all entities", err)
	}
	entities, err := r.decodeAll(ctx, cursor)
	if err != nil {
		return nil, storageError("error occurred while retrieving all entities", err)
	}
	return entities, nil
}

// GetPage returns one page using server-side skip and limit.
func (r *MongoRepository[T, D]) GetPage(ctx context.Context, page domain.Page) ([]T, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	opts := options.Find().SetSkip(page.Skip()).SetLimit(page.Limit())
	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, storageError("error occurred while retrieving paginated entities", err)
	}
	entities, err := r.decodeAll(ctx, cursor)
	if err != nil {
		return nil, storageError("error occurred while retrieving paginated entities", err)
	}
	return entities, nil
}

// GetByID returns the entity with the given id, or false when it does not exist.
func (r *MongoRepository[T, D]) GetByID(ctx context.Context, id string) (T, bool, error) {
	var zero T
	oid, err := parseObjectID(id)
	if err != nil {
		return zero, false, err
	}

	var rec mongoRecord[D]
	err = r.collection.FindOne(ctx, idFilter(oid)).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, storageError(fmt.Sprintf("error occurred while retrieving entity by ID '%s'", id), err)
	}
	return r.mapper.ToEntity(rec.ID.Hex(), rec.Doc), true, nil
}

// Insert stores entity and sets its id from the generated ObjectID.
func (r *MongoRepository[T, D]) Insert(ctx context.Context, entity T) error {
	if err := requireEntity(entity); err != nil {
		return err
	}
	doc, err := r.mapper.ToDocument(entity)
	if err != nil {
		return err
	}

	rec := mongoRecord[D]{Doc: doc}
	if id := entity.GetID(); id != "" {
		if rec.ID, err = parseObjectID(id); err != nil {
			return err
		}
	}

	res, err := r.collection.InsertOne(ctx, rec)
	if err != nil {
		return storageError("error occurred while inserting entity", err)
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		entity.SetID(oid.Hex())
	}
	return nil
}

// Update replaces the document stored under id with entity.
func (r *MongoRepository[T, D]) Update(ctx context.Context, id string, entity T) (bool, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return false, err
	}
	if err := requireEntity(entity); err != nil {
		return false, err
	}
	doc, err := r.mapper.ToDocument(entity)
	if err != nil {
		return false, err
	}

	res, err := r.collection.ReplaceOne(ctx, idFilter(oid), mongoRecord[D]{ID: oid, Doc: doc})
	if err != nil {
		return false, storageError(fmt.Sprintf("error occurred while updating entity with ID '%s'", id), err)
	}
	return res.ModifiedCount == 1, nil
}

// Delete removes the document stored under id.
func (r *MongoRepository[T, D]) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return false, err
	}

	res, err := r.collection.DeleteOne(ctx, idFilter(oid))
	if err != nil {
		return false, storageError(fmt.Sprintf("error occurred while deleting entity with ID '%s'", id), err)
	}
	return res.DeletedCount == 1, nil
}

// DeleteAll removes every document in the collection.
func (r *MongoRepository[T, D]) DeleteAll(ctx context.Context) (bool, error) {
	res, err := r.collection.DeleteMany(ctx, bson.D{})
	if err != nil {
		return false, storageError("error deleting all entities", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository[T, D]) decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]T, error) {
	var recs []mongoRecord[D]
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, err
	}
	entities := make([]T, len(recs))
	for i, rec := range recs {
		entities[i] = r.mapper.ToEntity(rec.ID.Hex(), rec.Doc)
	}
	return entities, nil
}

func idFilter(oid bson.ObjectID) bson.D {
	return bson.D{{Key: "_id", Value: oid}}
}

func parseObjectID(id string) (bson.ObjectID, error) {
	if err := requireID(id); err != nil {
		return bson.NilObjectID, err
	}
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, domain.NewInvalidArgument("'%s' is not a valid identifier", id)
	}
	return oid, nil
}

var (
	_ domain.Repository[*routeDomain.Route]     = (*MongoRepository[*routeDomain.Route, RouteDocument])(nil)
	_ domain.Repository[*vehicleDomain.Vehicle] = (*MongoRepository[*vehicleDomain.Vehicle, VehicleDocument])(nil)
)
