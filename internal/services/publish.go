package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/course-exam-service/internal/events"
	"github.com/SAP-F-2025/course-exam-service/internal/observability"
)

// publishEvent is best effort: the operation that produced the event has already
// been committed, so a failed publish is logged and counted.
func publishEvent(ctx context.Context, publisher events.EventPublisher, logger *slog.Logger, event *events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		observability.ObserveEventPublishFailure()
		logger.Warn("Failed to publish event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
	}
}
