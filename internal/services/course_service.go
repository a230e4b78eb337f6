package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/course-exam-service/internal/cache"
	"github.com/SAP-F-2025/course-exam-service/internal/grading"
	"github.com/SAP-F-2025/course-exam-service/internal/models"
	"github.com/SAP-F-2025/course-exam-service/internal/observability"
	"github.com/SAP-F-2025/course-exam-service/internal/repositories"
	"github.com/SAP-F-2025/course-exam-service/internal/validator"
	"gorm.io/gorm"
)

type courseService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	examTTL   time.Duration
	logger    *slog.Logger
	opLogger  *ServiceLogger
	validator *validator.Validator
	sanitizer *textSanitizer
}

func NewCourseService(repo repositories.Repository, cacheService cache.CacheService, examTTL time.Duration, logger *slog.Logger, validator *validator.Validator) CourseService {
	return &courseService{
		repo:      repo,
		cache:     cacheService,
		examTTL:   examTTL,
		logger:    logger,
		opLogger:  NewServiceLogger(logger, "course"),
		validator: validator,
		sanitizer: newTextSanitizer(),
	}
}

func examCacheKey(courseID uint) string {
	return fmt.Sprintf("exam:%d", courseID)
}

// ===== CORE CRUD OPERATIONS =====

func (s *courseService) Create(ctx context.Context, req *CreateCourseRequest, actor Actor) (course *models.Course, err error) {
	op := s.opLogger.WithOperation(ctx, "create_course", actor.UserID)
	defer func() {
		var id uint
		if course != nil {
			id = course.ID
		}
		op.LogResult(id, "course", err)
	}()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	course = &models.Course{
		Name:        s.sanitizer.Plain(req.Name),
		Description: s.sanitizer.Plain(req.Description),
		ImageURL:    req.ImageURL,
		PubDate:     req.PubDate,
	}
	if course.Name == "" {
		return nil, ValidationErrors{*NewValidationError("name", "is required", req.Name)}
	}
	if course.PubDate == nil {
		now := time.Now().UTC()
		course.PubDate = &now
	}

	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Course().Create(ctx, tx, course); err != nil {
			return err
		}
		// Instructors who create a course author it
		if actor.Role == models.RoleInstructor {
			if _, err := s.repo.User().GetInstructor(ctx, tx, actor.UserID); err != nil {
				if !repositories.IsNotFoundError(err) {
					return err
				}
				if err := s.repo.User().SaveInstructor(ctx, tx, &models.Instructor{UserID: actor.UserID, FullTime: true}); err != nil {
					return err
				}
			}
			return s.repo.Course().AddInstructor(ctx, tx, course.ID, actor.UserID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	op.LogAudit(AuditEventCreate, course.ID, "course", map[string]interface{}{"name": course.Name})
	return course, nil
}

func (s *courseService) Get(ctx context.Context, id uint) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

func (s *courseService) List(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error) {
	courses, total, err := s.repo.Course().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return &CourseListResponse{Courses: courses, Total: total}, nil
}

func (s *courseService) Update(ctx context.Context, id uint, req *UpdateCourseRequest, actor Actor) (course *models.Course, err error) {
	op := s.opLogger.WithOperation(ctx, "update_course", actor.UserID)
	defer func() { op.LogResult(id, "course", err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.requireAuthor(ctx, id, actor, "update"); err != nil {
		return nil, err
	}

	course, err = s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		course.Name = s.sanitizer.Plain(*req.Name)
		if course.Name == "" {
			return nil, ValidationErrors{*NewValidationError("name", "is required", *req.Name)}
		}
	}
	if req.Description != nil {
		course.Description = s.sanitizer.Plain(*req.Description)
	}
	if req.ImageURL != nil {
		course.ImageURL = req.ImageURL
	}
	if req.PubDate != nil {
		course.PubDate = req.PubDate
	}

	if err := s.repo.Course().Update(ctx, nil, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	s.InvalidateExam(ctx, id)
	op.LogAudit(AuditEventUpdate, id, "course", nil)
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, id uint, actor Actor) (err error) {
	op := s.opLogger.WithOperation(ctx, "delete_course", actor.UserID)
	defer func() { op.LogResult(id, "course", err) }()

	if err := s.requireAuthor(ctx, id, actor, "delete"); err != nil {
		return err
	}

	if err := s.repo.Course().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to delete course: %w", err)
	}

	s.InvalidateExam(ctx, id)
	op.LogAudit(AuditEventDelete, id, "course", nil)
	return nil
}

// ===== LESSONS =====

func (s *courseService) AddLesson(ctx context.Context, courseID uint, req *CreateLessonRequest, actor Actor) (*models.Lesson, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.requireAuthor(ctx, courseID, actor, "add lesson to"); err != nil {
		return nil, err
	}

	lesson := &models.Lesson{
		CourseID: courseID,
		Title:    s.sanitizer.Plain(req.Title),
		Content:  s.sanitizer.Rich(req.Content),
	}
	if req.Order != nil {
		lesson.Order = *req.Order
	}

	if err := s.repo.Course().CreateLesson(ctx, nil, lesson); err != nil {
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}

	s.logger.Info("Lesson created", "course_id", courseID, "lesson_id", lesson.ID, "user_id", actor.UserID)
	return lesson, nil
}

func (s *courseService) ListLessons(ctx context.Context, courseID uint) ([]*models.Lesson, error) {
	if err := s.ensureCourseExists(ctx, courseID); err != nil {
		return nil, err
	}
	lessons, err := s.repo.Course().ListLessons(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	return lessons, nil
}

// ===== EXAM =====

func (s *courseService) GetExam(ctx context.Context, courseID uint) (*ExamResponse, error) {
	var cached ExamResponse
	if err := s.cache.Get(ctx, examCacheKey(courseID), &cached); err == nil {
		observability.ObserveExamCache(true)
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Exam cache read failed", "course_id", courseID, "error", err)
	}
	observability.ObserveExamCache(false)

	course, err := s.repo.Course().GetExam(ctx, nil, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load exam: %w", err)
	}

	exam := toExamResponse(course)
	if err := s.cache.Set(ctx, examCacheKey(courseID), exam, s.examTTL); err != nil {
		s.logger.Warn("Exam cache write failed", "course_id", courseID, "error", err)
	}
	return exam, nil
}

func (s *courseService) InvalidateExam(ctx context.Context, courseID uint) {
	if err := s.cache.Delete(ctx, examCacheKey(courseID)); err != nil {
		s.logger.Warn("Exam cache invalidation failed", "course_id", courseID, "error", err)
	}
}

func toExamResponse(course *models.Course) *ExamResponse {
	exam := &ExamResponse{
		CourseID:         course.ID,
		CourseName:       course.Name,
		TotalPoints:      course.TotalPoints,
		PassingThreshold: grading.PassingThreshold,
		Questions:        make([]ExamQuestion, 0, len(course.Questions)),
	}
	for _, q := range course.Questions {
		eq := ExamQuestion{
			ID:      q.ID,
			Content: q.Content,
			Grade:   q.Grade,
			Order:   q.Order,
			Choices: make([]ExamChoice, 0, len(q.Choices)),
		}
		for _, c := range q.Choices {
			eq.Choices = append(eq.Choices, ExamChoice{ID: c.ID, Content: c.Content})
		}
		exam.Questions = append(exam.Questions, eq)
	}
	return exam
}

// ===== PERMISSIONS =====

func (s *courseService) CanAuthor(ctx context.Context, courseID uint, actor Actor) (bool, error) {
	if err := s.ensureCourseExists(ctx, courseID); err != nil {
		return false, err
	}
	if actor.IsAdmin() {
		return true, nil
	}
	if actor.Role != models.RoleInstructor {
		return false, nil
	}
	return s.repo.Course().IsInstructor(ctx, nil, courseID, actor.UserID)
}

func (s *courseService) requireAuthor(ctx context.Context, courseID uint, actor Actor, action string) error {
	ok, err := s.CanAuthor(ctx, courseID, actor)
	if err != nil {
		return err
	}
	if !ok {
		return NewPermissionError(actor.UserID, courseID, "course", action, "not an instructor of this course")
	}
	return nil
}

func (s *courseService) ensureCourseExists(ctx context.Context, courseID uint) error {
	exists, err := s.repo.Course().Exists(ctx, nil, courseID)
	if err != nil {
		return fmt.Errorf("failed to check course: %w", err)
	}
	if !exists {
		return ErrCourseNotFound
	}
	return nil
}
