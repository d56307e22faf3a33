package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-transit/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-transit/internal/events"
)

// EventPublisher publishes change events. *events.Producer satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event events.CloudEvent) error
}

// ServiceOption configures an EntityService.
type ServiceOption[T domain.Entity] func(*EntityService[T])

// WithName overrides the entity name used in logs and event types.
func WithName[T domain.Entity](name string) ServiceOption[T] {
	return func(s *EntityService[T]) {
		if name != "" {
			s.name = name
		}
	}
}

// WithValidator registers a check run before Insert and Update.
func WithValidator[T domain.Entity](validate func(T) error) ServiceOption[T] {
	return func(s *EntityService[T]) { s.validate = validate }
}

// WithPublisher enables change events on topic.
func WithPublisher[T domain.Entity](publisher EventPublisher, topic string) ServiceOption[T] {
	return func(s *EntityService[T]) {
		s.publisher = publisher
		s.topic = topic
	}
}

// EntityService exposes the repository operations for one entity type and
// is where entity-specific rules are applied. It holds no per-call state.
type EntityService[T domain.Entity] struct {
	repo      domain.Repository[T]
	name      string
	validate  func(T) error
	publisher EventPublisher
	topic     string
	logger    *zap.Logger
}

// NewEntityService creates an EntityService over repo.
func NewEntityService[T domain.Entity](repo domain.Repository[T], logger *zap.Logger, opts ...ServiceOption[T]) *EntityService[T] {
	s := &EntityService[T]{
		repo:   repo,
		name:   domain.DefaultCollectionName[T](),
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the entity name, e.g. "route".
func (s *EntityService[T]) Name() string {
	return s.name
}

// GetAll returns every entity.
func (s *EntityService[T]) GetAll(ctx context.Context) ([]T, error) {
	entities, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list entities", zap.String("entity", s.name), zap.Error(err))
		return nil, fmt.Errorf("failed to list %s: %w", s.name, err)
	}
	return entities, nil
}

// GetPage returns page number of the given size, both 1-based and positive.
func (s *EntityService[T]) GetPage(ctx context.Context, number, size int) ([]T, error) {
	page, err := domain.NewPage(number, size)
	if err != nil {
		return nil, err
	}
	entities, err := s.repo.GetPage(ctx, page)
	if err != nil {
		s.logger.Error("failed to list entity page",
			zap.String("entity", s.name),
			zap.Int("page_number", number),
			zap.Int("page_size", size),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to list %s page: %w", s.name, err)
	}
	return entities, nil
}

// GetByID returns the entity with id; found is false when there is none.
func (s *EntityService[T]) GetByID(ctx context.Context, id string) (entity T, found bool, err error) {
	if id == "" {
		return entity, false, domain.NewInvalidArgument("%s id is required", s.name)
	}
	entity, found, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return entity, false, fmt.Errorf("failed to get %s: %w", s.name, err)
	}
	return entity, found, nil
}

// Insert validates and stores entity, which receives its new id.
func (s *EntityService[T]) Insert(ctx context.Context, entity T) error {
	if domain.IsNil(entity) {
		return domain.NewInvalidArgument("%s is required", s.name)
	}
	if err := s.check(entity); err != nil {
		return err
	}

	if err := s.repo.Insert(ctx, entity); err != nil {
		s.logger.Error("failed to insert entity", zap.String("entity", s.name), zap.Error(err))
		return fmt.Errorf("failed to insert %s: %w", s.name, err)
	}

	s.logger.Info("entity created", zap.String("entity", s.name), zap.String("id", entity.GetID()))
	s.publish(ctx, events.ActionCreated, entity.GetID(), entity)
	return nil
}

// Update replaces the entity stored under id. changed is false when no entity was modified.
func (s *EntityService[T]) Update(ctx context.Context, id string, entity T) (changed bool, err error) {
	if id == "" {
		return false, domain.NewInvalidArgument("%s id is required", s.name)
	}
	if domain.IsNil(entity) {
		return false, domain.NewInvalidArgument("%s is required", s.name)
	}
	if err := s.check(entity); err != nil {
		return false, err
	}

	changed, err = s.repo.Update(ctx, id, entity)
	if err != nil {
		s.logger.Error("failed to update entity", zap.String("entity", s.name), zap.String("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to update %s: %w", s.name, err)
	}
	if changed {
		entity.SetID(id)
		s.logger.Info("entity updated", zap.String("entity", s.name), zap.String("id", id))
		s.publish(ctx, events.ActionUpdated, id, entity)
	}
	return changed, nil
}

// Delete removes the entity stored under id. removed is false when there was none.
func (s *EntityService[T]) Delete(ctx context.Context, id string) (removed bool, err error) {
	if id == "" {
		return false, domain.NewInvalidArgument("%s id is required", s.name)
	}

	removed, err = s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete entity", zap.String("entity", s.name), zap.String("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to delete %s: %w", s.name, err)
	}
	if removed {
		s.logger.Info("entity deleted", zap.String("entity", s.name), zap.String("id", id))
		s.publish(ctx, events.ActionDeleted, id, nil)
	}
	return removed, nil
}

// DeleteAll empties the collection. removed is false when it was already empty.
func (s *EntityService[T]) DeleteAll(ctx context.Context) (removed bool, err error) {
	removed, err = s.repo.DeleteAll(ctx)
	if err != nil {
		s.logger.Error("failed to delete all entities", zap.String("entity", s.name), zap.Error(err))
		return false, fmt.Errorf("failed to delete all %s: %w", s.name, err)
	}
	if removed {
		s.logger.Info("collection cleared", zap.String("entity", s.name))
		s.publish(ctx, events.ActionCleared, "", nil)
	}
	return removed, nil
}

func (s *EntityService[T]) check(entity T) error {
	if s.validate == nil {
		return nil
	}
	return s.validate(entity)
}

// publish sends a change event. Failures are logged and never returned.
func (s *EntityService[T]) publish(ctx context.Context, action, id string, entity interface{}) {
	if s.publisher == nil {
		return
	}

	eventType := events.EventType(s.name, action)
	ce, err := events.NewCloudEvent(events.Source, eventType, id, events.ChangeEvent{
		Collection: s.name,
		Action:     action,
		ID:         id,
		Entity:     entity,
	})
	if err != nil {
		s.logger.Error("failed to create cloud event", zap.String("event_type", eventType), zap.Error(err))
		return
	}

	key := id
	if key == "" {
		key = s.name
	}
	if err := s.publisher.PublishEvent(ctx, s.topic, key, ce); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", s.topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
