package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/course-exam-service/internal/events"
	"github.com/SAP-F-2025/course-exam-service/internal/models"
	"github.com/SAP-F-2025/course-exam-service/internal/repositories"
	"github.com/SAP-F-2025/course-exam-service/internal/validator"
	"gorm.io/gorm"
)

type enrollmentService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	opLogger  *ServiceLogger
	validator *validator.Validator
}

func NewEnrollmentService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		opLogger:  NewServiceLogger(logger, "enrollment"),
		validator: validator,
	}
}

// Enroll is idempotent per user and course. The bool result is true when a new
// enrollment was created.
func (s *enrollmentService) Enroll(ctx context.Context, courseID uint, req *EnrollRequest, actor Actor) (enrollment *models.Enrollment, created bool, err error) {
	op := s.opLogger.WithOperation(ctx, "enroll", actor.UserID)
	defer func() { op.LogResult(courseID, "course", err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, false, err
	}
	mode := req.Mode
	if mode == "" {
		mode = models.ModeAudit
	}

	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		exists, err := s.repo.Course().Exists(ctx, tx, courseID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrCourseNotFound
		}

		existing, err := s.repo.Enrollment().GetByUserAndCourse(ctx, tx, actor.UserID, courseID)
		if err == nil {
			enrollment = existing
			return nil
		}
		if !repositories.IsNotFoundError(err) {
			return err
		}

		enrollment = &models.Enrollment{
			UserID:       actor.UserID,
			CourseID:     courseID,
			DateEnrolled: time.Now().UTC(),
			Mode:         mode,
			Rating:       5,
		}
		if err := s.repo.Enrollment().Create(ctx, tx, enrollment); err != nil {
			return err
		}
		created = true
		return s.repo.Course().IncrementEnrollment(ctx, tx, courseID)
	})
	if err != nil {
		if repositories.IsDuplicateError(err) {
			// Lost a race with a concurrent enroll of the same user
			existing, getErr := s.repo.Enrollment().GetByUserAndCourse(ctx, nil, actor.UserID, courseID)
			if getErr != nil {
				return nil, false, fmt.Errorf("failed to load enrollment: %w", getErr)
			}
			return existing, false, nil
		}
		if errors.Is(err, ErrCourseNotFound) {
			return nil, false, err
		}
		return nil, false, fmt.Errorf("failed to enroll: %w", err)
	}

	if created {
		event := events.NewEvent(events.EventLearnerEnrolled, events.LearnerEnrolledEvent{
			EnrollmentID: enrollment.ID,
			CourseID:     courseID,
			UserID:       actor.UserID,
			Mode:         string(enrollment.Mode),
			EnrolledAt:   enrollment.DateEnrolled,
		})
		publishEvent(ctx, s.publisher, s.logger, event)
		op.LogAudit(AuditEventCreate, enrollment.ID, "enrollment", map[string]interface{}{"course_id": courseID})
	}
	return enrollment, created, nil
}

func (s *enrollmentService) Get(ctx context.Context, courseID uint, userID string) (*models.Enrollment, error) {
	enrollment, err := s.repo.Enrollment().GetByUserAndCourse(ctx, nil, userID, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return enrollment, nil
}

func (s *enrollmentService) ListByUser(ctx context.Context, userID string) ([]*models.Enrollment, error) {
	enrollments, err := s.repo.Enrollment().ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}

func (s *enrollmentService) IsEnrolled(ctx context.Context, courseID uint, userID string) (bool, error) {
	return s.repo.Enrollment().Exists(ctx, nil, userID, courseID)
}
