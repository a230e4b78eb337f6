package services

import (
	"log/slog"
	"time"

	"github.com/SAP-F-2025/course-exam-service/internal/cache"
	"github.com/SAP-F-2025/course-exam-service/internal/events"
	"github.com/SAP-F-2025/course-exam-service/internal/repositories"
	"github.com/SAP-F-2025/course-exam-service/internal/validator"
)

type serviceManager struct {
	course     CourseService
	question   QuestionService
	enrollment EnrollmentService
	submission SubmissionService
	user       UserService
}

// ManagerConfig holds the shared dependencies of every service
type ManagerConfig struct {
	Repo      repositories.Repository
	Cache     cache.CacheService
	Publisher events.EventPublisher
	Logger    *slog.Logger
	Validator *validator.Validator
	ExamTTL   time.Duration
}

func NewServiceManager(cfg ManagerConfig) ServiceManager {
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNoopCache()
	}
	if cfg.Validator == nil {
		cfg.Validator = validator.New()
	}

	course := NewCourseService(cfg.Repo, cfg.Cache, cfg.ExamTTL, cfg.Logger, cfg.Validator)
	return &serviceManager{
		course:     course,
		question:   NewQuestionService(cfg.Repo, course, cfg.Publisher, cfg.Logger, cfg.Validator),
		enrollment: NewEnrollmentService(cfg.Repo, cfg.Publisher, cfg.Logger, cfg.Validator),
		submission: NewSubmissionService(cfg.Repo, course, cfg.Publisher, cfg.Logger, cfg.Validator),
		user:       NewUserService(cfg.Repo, cfg.Cache, cfg.Logger, cfg.Validator),
	}
}

func (m *serviceManager) Course() CourseService         { return m.course }
func (m *serviceManager) Question() QuestionService     { return m.question }
func (m *serviceManager) Enrollment() EnrollmentService { return m.enrollment }
func (m *serviceManager) Submission() SubmissionService { return m.submission }
func (m *serviceManager) User() UserService             { return m.user }
