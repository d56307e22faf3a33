package handler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-transit/internal/domain"
)

// Paging defaults applied when the query omits them.
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
)

// EntityService is the service surface EntityHandler needs.
type EntityService[T domain.Entity] interface {
	Name() string
	GetPage(ctx context.Context, number, size int) ([]T, error)
	GetByID(ctx context.Context, id string) (T, bool, error)
	Insert(ctx context.Context, entity T) error
	Update(ctx context.Context, id string, entity T) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteAll(ctx context.Context) (bool, error)
}

// Presenter converts an entity into its response body.
type Presenter[T domain.Entity] func(T) (interface{}, error)

// EntityHandler serves CRUD endpoints for one entity type under /api/<name>.
type EntityHandler[T domain.Entity] struct {
	service   EntityService[T]
	newEntity func() T
	present   Presenter[T]
}

// NewEntityHandler creates an EntityHandler. newEntity allocates the value a
// request body is decoded into; a nil present returns entities unchanged.
func NewEntityHandler[T domain.Entity](service EntityService[T], newEntity func() T, present Presenter[T]) *EntityHandler[T] {
	if present == nil {
		present = func(e T) (interface{}, error) { return e, nil }
	}
	return &EntityHandler[T]{service: service, newEntity: newEntity, present: present}
}

// BasePath returns the collection path, e.g. "/api/route".
func (h *EntityHandler[T]) BasePath() string {
	return "/api/" + h.service.Name()
}

// RegisterRoutes registers the CRUD routes and returns the group so callers
// can add entity-specific routes.
func (h *EntityHandler[T]) RegisterRoutes(r *gin.RouterGroup) *gin.RouterGroup {
	group := r.Group(h.BasePath())
	{
		group.GET("", h.GetPage)
		group.GET("/:id", h.GetByID)
		group.POST("", h.Insert)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
		group.DELETE("", h.DeleteAll)
	}
	return group
}

// GetPage returns one page of entities.
func (h *EntityHandler[T]) GetPage(c *gin.Context) {
	number, err := queryInt(c, "pageNumber", DefaultPageNumber)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	size, err := queryInt(c, "pageSize", DefaultPageSize)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	entities, err := h.service.GetPage(c.Request.Context(), number, size)
	if err != nil {
		respondError(c, err)
		return
	}

	body := make([]interface{}, 0, len(entities))
	for _, e := range entities {
		v, err := h.present(e)
		if err != nil {
			respondError(c, err)
			return
		}
		body = append(body, v)
	}
	success(c, body)
}

// GetByID returns a single entity.
func (h *EntityHandler[T]) GetByID(c *gin.Context) {
	id := c.Param("id")
	entity, found, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		notFound(c, fmt.Sprintf("%s '%s' not found", h.service.Name(), id))
		return
	}

	body, err := h.present(entity)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, body)
}

// Insert creates an entity from the request body.
func (h *EntityHandler[T]) Insert(c *gin.Context) {
	entity := h.newEntity()
	if err := c.ShouldBindJSON(entity); err != nil {
		badRequest(c, err.Error())
		return
	}
	entity.SetID("")

	if err := h.service.Insert(c.Request.Context(), entity); err != nil {
		respondError(c, err)
		return
	}

	body, err := h.present(entity)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, h.BasePath()+"/"+entity.GetID(), body)
}

// Update replaces an entity with the request body.
func (h *EntityHandler[T]) Update(c *gin.Context) {
	entity := h.newEntity()
	if err := c.ShouldBindJSON(entity); err != nil {
		badRequest(c, err.Error())
		return
	}

	id := c.Param("id")
	changed, err := h.service.Update(c.Request.Context(), id, entity)
	if err != nil {
		respondError(c, err)
		return
	}
	if !changed {
		notFound(c, fmt.Sprintf("%s '%s' not found or unchanged", h.service.Name(), id))
		return
	}
	noContent(c)
}

// Delete removes an entity.
func (h *EntityHandler[T]) Delete(c *gin.Context) {
	id := c.Param("id")
	removed, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !removed {
		notFound(c, fmt.Sprintf("%s '%s' not found", h.service.Name(), id))
		return
	}
	noContent(c)
}

// DeleteAll empties the collection.
func (h *EntityHandler[T]) DeleteAll(c *gin.Context) {
	removed, err := h.service.DeleteAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if !removed {
		notFound(c, fmt.Sprintf("no %s to delete", h.service.Name()))
		return
	}
	noContent(c)
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}
