package domain

import (
	"context"
	"reflect"
	"strings"
)

// Entity is a persisted record addressed by a string identifier.
// The identifier is empty until storage assigns one on insert.
type Entity interface {
	GetID() string
	SetID(id string)
}

// Repository defines the persistence contract shared by every entity type.
type Repository[T Entity] interface {
	// GetAll returns every entity in the collection, in no particular order.
	GetAll(ctx context.Context) ([]T, error)

	// GetPage returns one page of the collection in storage order.
	GetPage(ctx context.Context, page Page) ([]T, error)

	// GetByID returns the entity with the given id. The boolean is false
	// when no such entity exists; that is not an error.
	GetByID(ctx context.Context, id string) (T, bool, error)

	// Insert persists a new entity and sets its id when absent.
	Insert(ctx context.Context, entity T) error

	// Update replaces the entity stored under id and reports whether
	// exactly one document changed.
	Update(ctx context.Context, id string, entity T) (bool, error)

	// Delete removes the entity stored under id and reports whether one was removed.
	Delete(ctx context.Context, id string) (bool, error)

	// DeleteAll empties the collection and reports whether anything was removed.
	DeleteAll(ctx context.Context) (bool, error)
}

// IsNil reports whether e is nil or a typed nil pointer.
func IsNil(e Entity) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// DefaultCollectionName is the lower-cased type name of T, e.g. "route" for *route.Route.
func DefaultCollectionName[T Entity]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return strings.ToLower(t.Name())
}
