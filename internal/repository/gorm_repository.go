package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"gorm.io/gorm"

	"github.com/Kilat-Pet-Delivery/service-transit/internal/domain"
	routeDomain "github.com/Kilat-Pet-Delivery/service-transit/internal/domain/route"
	vehicleDomain "github.com/Kilat-Pet-Delivery/service-transit/internal/domain/vehicle"
)

// DocumentModel is the GORM model for the documents table. Every collection
// shares the table; Body holds the BSON-encoded document.
type DocumentModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Collection string    `gorm:"type:varchar(100);not null;index"`
	Body       []byte    `gorm:"type:bytea;not null"`
	CreatedAt  time.Time `gorm:"type:timestamptz;not null"`
	UpdatedAt  time.Time `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for the GORM model.
func (DocumentModel) TableName() string { return "documents" }

// GormRepository implements domain.Repository over a PostgreSQL document table.
type GormRepository[T domain.Entity, D any] struct {
	db         *gorm.DB
	registry   *bson.Registry
	mapper     DocumentMapper[T, D]
	collection string
}

// NewGormRepository creates a repository for T stored in the documents table.
func NewGormRepository[T domain.Entity, D any](db *gorm.DB, registry *bson.Registry, mapper DocumentMapper[T, D], opts ...Option) *GormRepository[T, D] {
	s := resolveSettings[T](opts)
	return &GormRepository[T, D]{
		db:         db,
		registry:   registry,
		mapper:     mapper,
		collection: s.collection,
	}
}

// CollectionName returns the collection discriminator used in the documents table.
func (r *GormRepository[T, D]) CollectionName() string {
	return r.collection
}

func (r *GormRepository[T, D]) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("collection = ?", r.collection)
}

// GetAll returns every entity in the collection.
func (r *GormRepository[T, D]) GetAll(ctx context.Context) ([]T, error) {
	var models []DocumentModel
	if err := r.scoped(ctx).Find(&models).Error; err != nil {
		return nil, storageError("error occurred while retrieving all entities", err)
	}
	return r.toEntities(models)
}

// GetPage returns one page using OFFSET and LIMIT.
func (r *GormRepository[T, D]) GetPage(ctx context.Context, page domain.Page) ([]T, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	var models []DocumentModel
	if err := r.scoped(ctx).
		Offset(int(page.Skip())).
		Limit(int(page.Limit())).
		Find(&models).Error; err != nil {
		return nil, storageError("error occurred while retrieving paginated entities", err)
	}
	return r.toEntities(models)
}

// GetByID returns the entity with the given id, or false when it does not exist.
func (r *GormRepository[T, D]) GetByID(ctx context.Context, id string) (T, bool, error) {
	var zero T
	uid, err := parseUUID(id)
	if err != nil {
		return zero, false, err
	}

	var model DocumentModel
	if err := r.scoped(ctx).Where("id = ?", uid).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, false, nil
		}
		return zero, false, storageError(fmt.Sprintf("error occurred while retrieving entity by ID '%s'", id), err)
	}

	entity, err := r.toEntity(&model)
	if err != nil {
		return zero, false, err
	}
	return entity, true, nil
}

// Insert stores entity under a new UUID unless it already carries one.
func (r *GormRepository[T, D]) Insert(ctx context.Context, entity T) error {
	if err := requireEntity(entity); err != nil {
		return err
	}

	uid := uuid.New()
	if id := entity.GetID(); id != "" {
		var err error
		if uid, err = parseUUID(id); err != nil {
			return err
		}
	}

	body, err := r.encode(entity)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	model := DocumentModel{
		ID:         uid,
		Collection: r.collection,
		Body:       body,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return storageError("error occurred while inserting entity", err)
	}

	entity.SetID(uid.String())
	return nil
}

// Update replaces the document stored under id with entity.
func (r *GormRepository[T, D]) Update(ctx context.Context, id string, entity T) (bool, error) {
	uid, err := parseUUID(id)
	if err != nil {
		return false, err
	}
	if err := requireEntity(entity); err != nil {
		return false, err
	}
	body, err := r.encode(entity)
	if err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Model(&DocumentModel{}).
		Where("id = ? AND collection = ?", uid, r.collection).
		Updates(map[string]interface{}{
			"body":       body,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, storageError(fmt.Sprintf("error occurred while updating entity with ID '%s'", id), result.Error)
	}
	return result.RowsAffected == 1, nil
}

// Delete removes the document stored under id.
func (r *GormRepository[T, D]) Delete(ctx context.Context, id string) (bool, error) {
	uid, err := parseUUID(id)
	if err != nil {
		return false, err
	}

	result := r.scoped(ctx).Where("id = ?", uid).Delete(&DocumentModel{})
	if result.Error != nil {
		return false, storageError(fmt.Sprintf("error occurred while deleting entity with ID '%s'", id), result.Error)
	}
	return result.RowsAffected == 1, nil
}

// DeleteAll removes every document in the collection.
func (r *GormRepository[T, D]) DeleteAll(ctx context.Context) (bool, error) {
	result := r.scoped(ctx).Delete(&DocumentModel{})
	if result.Error != nil {
		return false, storageError("error deleting all entities", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// --- Conversions ---

func (r *GormRepository[T, D]) encode(entity T) ([]byte, error) {
	doc, err := r.mapper.ToDocument(entity)
	if err != nil {
		return nil, err
	}
	body, err := Marshal(r.registry, doc)
	if err != nil {
		return nil, storageError("error encoding entity", err)
	}
	return body, nil
}

func (r *GormRepository[T, D]) toEntity(m *DocumentModel) (T, error) {
	var doc D
	if err := Unmarshal(r.registry, m.Body, &doc); err != nil {
		var zero T
		return zero, storageError(fmt.Sprintf("error decoding entity '%s'", m.ID), err)
	}
	return r.mapper.ToEntity(m.ID.String(), doc), nil
}

func (r *GormRepository[T, D]) toEntities(models []DocumentModel) ([]T, error) {
	entities := make([]T, len(models))
	for i := range models {
		e, err := r.toEntity(&models[i])
		if err != nil {
			return nil, err
		}
		entities[i] = e
	}
	return entities, nil
}

func parseUUID(id string) (uuid.UUID, error) {
	if err := requireID(id); err != nil {
		return uuid.Nil, err
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, domain.NewInvalidArgument("'%s' is not a valid identifier", id)
	}
	return uid, nil
}

var (
	_ domain.Repository[*routeDomain.Route]     = (*GormRepository[*routeDomain.Route, RouteDocument])(nil)
	_ domain.Repository[*vehicleDomain.Vehicle] = (*GormRepository[*vehicleDomain.Vehicle, VehicleDocument])(nil)
)
