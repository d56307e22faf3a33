package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-transit/internal/domain"
	routeDomain "github.com/Kilat-Pet-Delivery/service-transit/internal/domain/route"
	vehicleDomain "github.com/Kilat-Pet-Delivery/service-transit/internal/domain/vehicle"
)

// MemoryRepository implements domain.Repository in process memory. Documents
// are kept in insertion order, which is the natural order for paging.
// Every read maps a stored document to a fresh entity.
type MemoryRepository[T domain.Entity, D any] struct {
	mu         sync.RWMutex
	mapper     DocumentMapper[T, D]
	collection string
	ids        []string
	docs       map[string]D
}

// NewMemoryRepository creates an empty in-memory repository for T.
func NewMemoryRepository[T domain.Entity, D any](mapper DocumentMapper[T, D], opts ...Option) *MemoryRepository[T, D] {
	s := resolveSettings[T](opts)
	return &MemoryRepository[T, D]{
		mapper:     mapper,
		collection: s.collection,
		docs:       make(map[string]D),
	}
}

// CollectionName returns the configured collection name.
func (r *MemoryRepository[T, D]) CollectionName() string {
	return r.collection
}

func (r *MemoryRepository[T, D]) GetAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageError("error occurred while retrieving all entities", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.slice(0, len(r.ids)), nil
}

func (r *MemoryRepository[T, D]) GetPage(ctx context.Context, page domain.Page) ([]T, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, storageError("error occurred while retrieving paginated entities", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	total := int64(len(r.ids))
	start := min(page.Skip(), total)
	end := start + min(page.Limit(), total-start)
	return r.slice(int(start), int(end)), nil
}

func (r *MemoryRepository[T, D]) GetByID(ctx context.Context, id string) (T, bool, error) {
	var zero T
	if err := requireID(id); err != nil {
		return zero, false, err
	}
	if err := ctx.Err(); err != nil {
		return zero, false, storageError("error occurred while retrieving entity by ID", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok {
		return zero, false, nil
	}
	return r.mapper.ToEntity(id, doc), true, nil
}

func (r *MemoryRepository[T, D]) Insert(ctx context.Context, entity T) error {
	if err := requireEntity(entity); err != nil {
		return err
	}
	doc, err := r.mapper.ToDocument(entity)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return storageError("error occurred while inserting entity", err)
	}

	id := entity.GetID()
	if id == "" {
		id = uuid.New().String()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.docs[id]; exists {
		return domain.NewStorageError(domain.ReasonFailure, "error occurred while inserting entity",
			domain.NewInvalidState("duplicate id '%s'", id))
	}
	r.ids = append(r.ids, id)
	r.docs[id] = doc
	entity.SetID(id)
	return nil
}

func (r *MemoryRepository[T, D]) Update(ctx context.Context, id string, entity T) (bool, error) {
	if err := requireID(id); err != nil {
		return false, err
	}
	if err := requireEntity(entity); err != nil {
		return false, err
	}
	doc, err := r.mapper.ToDocument(entity)
	if err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, storageError("error occurred while updating entity", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return false, nil
	}
	r.docs[id] = doc
	return true, nil
}

func (r *MemoryRepository[T, D]) Delete(ctx context.Context, id string) (bool, error) {
	if err := requireID(id); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, storageError("error occurred while deleting entity", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return false, nil
	}
	delete(r.docs, id)
	for i, existing := range r.ids {
		if existing == id {
			r.ids = append(r.ids[:i], r.ids[i+1:]...)
			break
		}
	}
	return true, nil
}

func (r *MemoryRepository[T, D]) DeleteAll(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, storageError("error deleting all entities", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := len(r.ids) > 0
	r.ids = nil
	r.docs = make(map[string]D)
	return removed, nil
}

// slice maps ids[start:end] to entities. Callers hold the read lock.
func (r *MemoryRepository[T, D]) slice(start, end int) []T {
	entities := make([]T, 0, end-start)
	for _, id := range r.ids[start:end] {
		entities = append(entities, r.mapper.ToEntity(id, r.docs[id]))
	}
	return entities
}

var (
	_ domain.Repository[*routeDomain.Route]     = (*MemoryRepository[*routeDomain.Route, RouteDocument])(nil)
	_ domain.Repository[*vehicleDomain.Vehicle] = (*MemoryRepository[*vehicleDomain.Vehicle, VehicleDocument])(nil)
)
