package services

import (
	"bytes"
	"context"

	"github.com/SAP-F-2025/course-exam-service/internal/auth"
	"github.com/SAP-F-2025/course-exam-service/internal/models"
	"github.com/SAP-F-2025/course-exam-service/internal/repositories"
)

// Actor is the authenticated caller of a service operation
type Actor struct {
	UserID string
	Role   models.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

type CourseService interface {
	Create(ctx context.Context, req *CreateCourseRequest, actor Actor) (*models.Course, error)
	Get(ctx context.Context, id uint) (*models.Course, error)
	List(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error)
	Update(ctx context.Context, id uint, req *UpdateCourseRequest, actor Actor) (*models.Course, error)
	Delete(ctx context.Context, id uint, actor Actor) error

	AddLesson(ctx context.Context, courseID uint, req *CreateLessonRequest, actor Actor) (*models.Lesson, error)
	ListLessons(ctx context.Context, courseID uint) ([]*models.Lesson, error)

	// GetExam returns the learner view of the exam; correctness flags are not exposed
	GetExam(ctx context.Context, courseID uint) (*ExamResponse, error)
	InvalidateExam(ctx context.Context, courseID uint)

	// CanAuthor reports whether actor may change the course content
	CanAuthor(ctx context.Context, courseID uint, actor Actor) (bool, error)
}

type QuestionService interface {
	Create(ctx context.Context, courseID uint, req *CreateQuestionRequest, actor Actor) (*models.Question, error)
	Get(ctx context.Context, id uint, actor Actor) (*models.Question, error)
	ListByCourse(ctx context.Context, courseID uint, actor Actor) ([]*models.Question, error)
	Update(ctx context.Context, id uint, req *UpdateQuestionRequest, actor Actor) (*models.Question, error)
	Delete(ctx context.Context, id uint, actor Actor) error

	AddChoice(ctx context.Context, questionID uint, req *CreateChoiceRequest, actor Actor) (*models.Choice, error)
	DeleteChoice(ctx context.Context, choiceID uint, actor Actor) error
}

type EnrollmentService interface {
	Enroll(ctx context.Context, courseID uint, req *EnrollRequest, actor Actor) (*models.Enrollment, bool, error)
	Get(ctx context.Context, courseID uint, userID string) (*models.Enrollment, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Enrollment, error)
	IsEnrolled(ctx context.Context, courseID uint, userID string) (bool, error)
}

type SubmissionService interface {
	Submit(ctx context.Context, courseID uint, req *SubmitRequest, actor Actor) (*SubmissionResult, error)
	GetResult(ctx context.Context, submissionID uint, actor Actor) (*SubmissionResult, error)
	ListByEnrollment(ctx context.Context, courseID uint, actor Actor) ([]*SubmissionResult, error)
	ExportCourseResults(ctx context.Context, courseID uint, actor Actor) (*bytes.Buffer, error)
}

// UserService mirrors token identities into the users, learners and instructors tables
type UserService interface {
	auth.IdentitySyncer
	GetLearner(ctx context.Context, userID string) (*models.Learner, error)
	UpdateLearnerProfile(ctx context.Context, req *UpdateLearnerRequest, actor Actor) (*models.Learner, error)
}

type ServiceManager interface {
	Course() CourseService
	Question() QuestionService
	Enrollment() EnrollmentService
	Submission() SubmissionService
	User() UserService
}
