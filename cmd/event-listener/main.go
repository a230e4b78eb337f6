// Command event-listener follows the course exam event topic and logs each event.
// It is the starting point for downstream consumers such as notification senders.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/SAP-F-2025/course-exam-service/internal/config"
	"github.com/SAP-F-2025/course-exam-service/internal/events"
	"github.com/SAP-F-2025/course-exam-service/internal/utils"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.NewLogger(false).Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := utils.NewLogger(cfg.IsProduction()).With("component", "event-listener")

	subscriber, err := cfg.Events.CreateEventSubscriber(logger.Slog())
	if err != nil {
		logger.Error("Failed to create subscriber", "error", err)
		os.Exit(1)
	}
	defer subscriber.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Listening for events", "topic", cfg.Events.Topic, "group", cfg.Events.ConsumerGroup)
	err = subscriber.Consume(ctx, func(ctx context.Context, event *events.ReceivedEvent) error {
		return logEvent(ctx, logger, event)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event listener stopped", "error", err)
		os.Exit(1)
	}
}

func logEvent(ctx context.Context, logger utils.Logger, event *events.ReceivedEvent) error {
	log := logger.With("event_id", event.ID, "event_type", event.Type)

	switch event.Type {
	case events.EventSubmissionGraded:
		var data events.SubmissionGradedEvent
		if err := event.DecodeData(&data); err != nil {
			return err
		}
		log.InfoContext(ctx, "Submission graded",
			"submission_id", data.SubmissionID,
			"user_id", data.UserID,
			"percentage", data.Percentage,
			"passed", data.Passed)
	case events.EventLearnerEnrolled:
		var data events.LearnerEnrolledEvent
		if err := event.DecodeData(&data); err != nil {
			return err
		}
		log.InfoContext(ctx, "Learner enrolled", "course_id", data.CourseID, "user_id", data.UserID)
	case events.EventExamChanged:
		var data events.ExamChangedEvent
		if err := event.DecodeData(&data); err != nil {
			return err
		}
		log.InfoContext(ctx, "Exam changed", "course_id", data.CourseID, "action", data.Action)
	default:
		log.DebugContext(ctx, "Ignoring event")
	}
	return nil
}
