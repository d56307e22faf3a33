package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Kilat-Pet-Delivery/service-transit/internal/domain"
)

// storageError converts a backend error into a domain storage error.
// Errors that already carry a domain kind pass through unchanged.
func storageError(message string, err error) error {
	if err == nil {
		return nil
	}
	if domain.KindOf(err) != "" {
		return err
	}

	reason := domain.ReasonFailure
	switch {
	case errors.Is(err, context.Canceled):
		reason = domain.ReasonCancelled
	case errors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err):
		reason = domain.ReasonTimeout
	}
	return domain.NewStorageError(reason, message, err)
}

func requireID(id string) error {
	if id == "" {
		return domain.NewInvalidArgument("id is required")
	}
	return nil
}

func requireEntity(e domain.Entity) error {
	if domain.IsNil(e) {
		return domain.NewInvalidArgument("entity is required")
	}
	return nil
}
