package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// ReceivedEvent is an event read back from the topic. Data is left encoded so
// handlers decode only the payloads they care about.
type ReceivedEvent struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
	Version   string          `json:"version"`
	Data      json.RawMessage `json:"data"`
}

// DecodeData unmarshals the payload into dest
func (e *ReceivedEvent) DecodeData(dest interface{}) error {
	return json.Unmarshal(e.Data, dest)
}

// EventHandler processes one event. A returned error nacks the message so it is
// redelivered.
type EventHandler func(ctx context.Context, event *ReceivedEvent) error

type SubscriberConfig struct {
	KafkaBrokers  []string
	TopicName     string
	ConsumerGroup string
	Logger        *slog.Logger
}

// EventSubscriber consumes domain events through Watermill
type EventSubscriber struct {
	subscriber message.Subscriber
	logger     *slog.Logger
	topicName  string
}

func NewKafkaEventSubscriber(config SubscriberConfig) (*EventSubscriber, error) {
	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:       config.KafkaBrokers,
		Unmarshaler:   kafka.DefaultMarshaler{},
		ConsumerGroup: config.ConsumerGroup,
	}, watermill.NewSlogLogger(config.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka subscriber: %w", err)
	}
	return NewWatermillEventSubscriber(subscriber, config.TopicName, config.Logger), nil
}

func NewWatermillEventSubscriber(subscriber message.Subscriber, topic string, logger *slog.Logger) *EventSubscriber {
	return &EventSubscriber{
		subscriber: subscriber,
		logger:     logger,
		topicName:  topic,
	}
}

// Consume blocks until ctx is cancelled, handing every event to handler.
// Messages that cannot be decoded are acked and dropped.
func (s *EventSubscriber) Consume(ctx context.Context, handler EventHandler) error {
	messages, err := s.subscriber.Subscribe(ctx, s.topicName)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.topicName, err)
	}

	for msg := range messages {
		event, err := DecodeEvent(msg)
		if err != nil {
			s.logger.Warn("Dropping undecodable event", "message_id", msg.UUID, "error", err)
			msg.Ack()
			continue
		}

		if err := handler(msg.Context(), event); err != nil {
			s.logger.Error("Event handler failed",
				"event_id", event.ID,
				"event_type", event.Type,
				"error", err)
			msg.Nack()
			continue
		}
		msg.Ack()
	}

	return ctx.Err()
}

func (s *EventSubscriber) Close() error {
	return s.subscriber.Close()
}

func DecodeEvent(msg *message.Message) (*ReceivedEvent, error) {
	var event ReceivedEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.Type == "" {
		event.Type = EventType(msg.Metadata.Get("event_type"))
	}
	if event.Type == "" {
		return nil, fmt.Errorf("event %s has no type", msg.UUID)
	}
	return &event, nil
}
