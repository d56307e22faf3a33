package repository

import "github.com/Kilat-Pet-Delivery/service-transit/internal/domain"

// Option configures a repository.
type Option func(*settings)

type settings struct {
	collection string
}

// WithCollection overrides the collection name, which otherwise defaults to
// the entity type name in lower case.
func WithCollection(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.collection = name
		}
	}
}

func resolveSettings[T domain.Entity](opts []Option) settings {
	s := settings{collection: domain.DefaultCollectionName[T]()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
