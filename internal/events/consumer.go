package events

import (
	"context"
	"errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// HandlerFunc processes one decoded event. Returning an error leaves the
// message uncommitted.
type HandlerFunc func(ctx context.Context, event CloudEvent) error

// Consumer reads change events from one topic within a consumer group.
type Consumer struct {
	reader *kafkago.Reader
	logger *zap.Logger
}

// NewConsumer creates a consumer for topic. A new group starts from the oldest offset.
func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:     brokers,
			GroupID:     groupID,
			Topic:       topic,
			MinBytes:    1,
			MaxBytes:    10e6,
			StartOffset: kafkago.FirstOffset,
		}),
		logger: logger,
	}
}

// Consume blocks, passing every event to handle until ctx is cancelled.
// Malformed messages are logged and committed so they are not redelivered.
func (c *Consumer) Consume(ctx context.Context, handle HandlerFunc) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			return err
		}

		event, err := ParseCloudEvent(msg.Value)
		if err != nil {
			c.logger.Error("dropping malformed event",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		} else if err := handle(ctx, event); err != nil {
			c.logger.Error("event handler failed",
				zap.String("event_type", event.Type),
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

// LogHandler returns a handler that records every change event at info level.
func LogHandler(logger *zap.Logger) HandlerFunc {
	return func(_ context.Context, event CloudEvent) error {
		var change ChangeEvent
		if err := event.ParseData(&change); err != nil {
			return err
		}
		logger.Info("change event",
			zap.String("event_type", event.Type),
			zap.String("event_id", event.ID),
			zap.String("collection", change.Collection),
			zap.String("id", change.ID),
		)
		return nil
	}
}
