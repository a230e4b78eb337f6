package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/course-exam-service/internal/events"
	"github.com/SAP-F-2025/course-exam-service/internal/models"
	"github.com/SAP-F-2025/course-exam-service/internal/repositories"
	"github.com/SAP-F-2025/course-exam-service/internal/validator"
	"gorm.io/gorm"
)

type questionService struct {
	repo      repositories.Repository
	courses   CourseService
	publisher events.EventPublisher
	logger    *slog.Logger
	opLogger  *ServiceLogger
	validator *validator.Validator
	sanitizer *textSanitizer
}

func NewQuestionService(repo repositories.Repository, courses CourseService, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) QuestionService {
	return &questionService{
		repo:      repo,
		courses:   courses,
		publisher: publisher,
		logger:    logger,
		opLogger:  NewServiceLogger(logger, "question"),
		validator: validator,
		sanitizer: newTextSanitizer(),
	}
}

func (s *questionService) Create(ctx context.Context, courseID uint, req *CreateQuestionRequest, actor Actor) (question *models.Question, err error) {
	op := s.opLogger.WithOperation(ctx, "create_question", actor.UserID)
	defer func() {
		var id uint
		if question != nil {
			id = question.ID
		}
		op.LogResult(id, "question", err)
	}()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.requireAuthor(ctx, courseID, actor, "add question to"); err != nil {
		return nil, err
	}

	question = &models.Question{
		CourseID: courseID,
		Content:  s.sanitizer.Rich(req.Content),
		Grade:    req.Grade,
		Choices:  make([]models.Choice, 0, len(req.Choices)),
	}
	for _, c := range req.Choices {
		question.Choices = append(question.Choices, models.Choice{
			Content:   s.sanitizer.Plain(c.Content),
			IsCorrect: c.IsCorrect,
		})
	}
	if errs := s.validator.Question().ValidateQuestion(question); len(errs) > 0 {
		return nil, errs
	}

	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		if req.Order != nil {
			question.Order = *req.Order
		} else {
			next, err := s.repo.Question().GetNextOrder(ctx, tx, courseID)
			if err != nil {
				return err
			}
			question.Order = next
		}
		return s.repo.Question().Create(ctx, tx, question)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.examChanged(ctx, courseID, question.ID, "created")
	op.LogAudit(AuditEventCreate, question.ID, "question", map[string]interface{}{"course_id": courseID})
	return question, nil
}

func (s *questionService) Get(ctx context.Context, id uint, actor Actor) (*models.Question, error) {
	question, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireAuthor(ctx, question.CourseID, actor, "view"); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *questionService) ListByCourse(ctx context.Context, courseID uint, actor Actor) ([]*models.Question, error) {
	if err := s.requireAuthor(ctx, courseID, actor, "list questions of"); err != nil {
		return nil, err
	}
	questions, err := s.repo.Question().ListByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

func (s *questionService) Update(ctx context.Context, id uint, req *UpdateQuestionRequest, actor Actor) (question *models.Question, err error) {
	op := s.opLogger.WithOperation(ctx, "update_question", actor.UserID)
	defer func() { op.LogResult(id, "question", err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	question, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireAuthor(ctx, question.CourseID, actor, "update"); err != nil {
		return nil, err
	}

	if req.Content != nil {
		question.Content = s.sanitizer.Rich(*req.Content)
	}
	if req.Grade != nil {
		question.Grade = *req.Grade
	}
	if req.Order != nil {
		question.Order = *req.Order
	}
	if errs := s.validator.Question().ValidateQuestion(question); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.Question().Update(ctx, nil, question); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	s.examChanged(ctx, question.CourseID, question.ID, "updated")
	op.LogAudit(AuditEventUpdate, question.ID, "question", nil)
	return question, nil
}

func (s *questionService) Delete(ctx context.Context, id uint, actor Actor) (err error) {
	op := s.opLogger.WithOperation(ctx, "delete_question", actor.UserID)
	defer func() { op.LogResult(id, "question", err) }()

	question, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireAuthor(ctx, question.CourseID, actor, "delete"); err != nil {
		return err
	}

	if err := s.repo.Question().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to delete question: %w", err)
	}

	s.examChanged(ctx, question.CourseID, id, "deleted")
	op.LogAudit(AuditEventDelete, id, "question", nil)
	return nil
}

// ===== CHOICES =====

func (s *questionService) AddChoice(ctx context.Context, questionID uint, req *CreateChoiceRequest, actor Actor) (*models.Choice, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	question, err := s.load(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAuthor(ctx, question.CourseID, actor, "add choice to"); err != nil {
		return nil, err
	}

	choice := models.Choice{
		QuestionID: questionID,
		Content:    s.sanitizer.Plain(req.Content),
		IsCorrect:  req.IsCorrect,
	}
	if errs := s.validator.Question().ValidateChoices(append(question.Choices, choice)); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.Question().CreateChoice(ctx, nil, &choice); err != nil {
		return nil, fmt.Errorf("failed to create choice: %w", err)
	}

	s.examChanged(ctx, question.CourseID, questionID, "updated")
	s.logger.Info("Choice added", "question_id", questionID, "choice_id", choice.ID, "user_id", actor.UserID)
	return &choice, nil
}

func (s *questionService) DeleteChoice(ctx context.Context, choiceID uint, actor Actor) error {
	choice, err := s.repo.Question().GetChoiceByID(ctx, nil, choiceID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrChoiceNotFound
		}
		return fmt.Errorf("failed to get choice: %w", err)
	}
	question, err := s.load(ctx, choice.QuestionID)
	if err != nil {
		return err
	}
	if err := s.requireAuthor(ctx, question.CourseID, actor, "delete choice of"); err != nil {
		return err
	}
	if errs := s.validator.Question().ValidateChoiceRemoval(question, choiceID); len(errs) > 0 {
		return errs
	}

	if err := s.repo.Question().DeleteChoice(ctx, nil, choiceID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrChoiceNotFound
		}
		return fmt.Errorf("failed to delete choice: %w", err)
	}

	s.examChanged(ctx, question.CourseID, question.ID, "updated")
	s.logger.Info("Choice deleted", "question_id", question.ID, "choice_id", choiceID, "user_id", actor.UserID)
	return nil
}

// ===== HELPERS =====

func (s *questionService) load(ctx context.Context, id uint) (*models.Question, error) {
	question, err := s.repo.Question().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return question, nil
}

func (s *questionService) requireAuthor(ctx context.Context, courseID uint, actor Actor, action string) error {
	ok, err := s.courses.CanAuthor(ctx, courseID, actor)
	if err != nil {
		return err
	}
	if !ok {
		return NewPermissionError(actor.UserID, courseID, "course", action, "not an instructor of this course")
	}
	return nil
}

// examChanged drops the cached exam and announces the change
func (s *questionService) examChanged(ctx context.Context, courseID, questionID uint, action string) {
	s.courses.InvalidateExam(ctx, courseID)

	event := events.NewEvent(events.EventExamChanged, events.ExamChangedEvent{
		CourseID:   courseID,
		QuestionID: questionID,
		Action:     action,
	})
	publishEvent(ctx, s.publisher, s.logger, event)
}
