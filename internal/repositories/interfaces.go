package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/course-exam-service/internal/models"
	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

type CourseFilters struct {
	Search    string     `json:"search"` // matched against name and description
	PubFrom   *time.Time `json:"pub_from"`
	PubTo     *time.Time `json:"pub_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortBy    string     `json:"sort_by"`    // "name", "pub_date", "created_at"
	SortOrder string     `json:"sort_order"` // "asc", "desc"
}

// Repository groups the entity repositories behind a single transactional entry point
type Repository interface {
	Course() CourseRepository
	Question() QuestionRepository
	Enrollment() EnrollmentRepository
	Submission() SubmissionRepository
	User() UserRepository

	// WithTransaction runs fn inside a database transaction; the tx handle is passed
	// to repository calls that must join it.
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Ping(ctx context.Context) error
	Close() error
}

type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error)
	GetExam(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) // questions and choices, ordered
	List(ctx context.Context, tx *gorm.DB, filters CourseFilters) ([]*models.Course, int64, error)
	Update(ctx context.Context, tx *gorm.DB, course *models.Course) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	IncrementEnrollment(ctx context.Context, tx *gorm.DB, id uint) error

	// Instructors
	AddInstructor(ctx context.Context, tx *gorm.DB, courseID uint, instructorUserID string) error
	IsInstructor(ctx context.Context, tx *gorm.DB, courseID uint, userID string) (bool, error)

	// Lessons
	CreateLesson(ctx context.Context, tx *gorm.DB, lesson *models.Lesson) error
	ListLessons(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Lesson, error)
}

type QuestionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, question *models.Question) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error)
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Question, error)
	Update(ctx context.Context, tx *gorm.DB, question *models.Question) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	GetNextOrder(ctx context.Context, tx *gorm.DB, courseID uint) (int, error)

	// Choices
	CreateChoice(ctx context.Context, tx *gorm.DB, choice *models.Choice) error
	GetChoiceByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Choice, error)
	DeleteChoice(ctx context.Context, tx *gorm.DB, id uint) error
	// FilterCourseChoiceIDs returns the subset of ids that belong to questions of the course
	FilterCourseChoiceIDs(ctx context.Context, tx *gorm.DB, courseID uint, ids []uint) ([]uint, error)
}

type EnrollmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error)
	GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID string, courseID uint) (*models.Enrollment, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.Enrollment, error)
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Enrollment, error)
	Exists(ctx context.Context, tx *gorm.DB, userID string, courseID uint) (bool, error)
}

// SubmissionRepository has no update or delete: submissions are append-only
type SubmissionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Submission, error)
	ListByEnrollment(ctx context.Context, tx *gorm.DB, enrollmentID uint) ([]*models.Submission, error)
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Submission, error)
	CountByEnrollment(ctx context.Context, tx *gorm.DB, enrollmentID uint) (int64, error)
}

// UserRepository keeps the local mirror of identities issued by the token provider
type UserRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)

	SaveInstructor(ctx context.Context, tx *gorm.DB, instructor *models.Instructor) error
	GetInstructor(ctx context.Context, tx *gorm.DB, userID string) (*models.Instructor, error)
	SaveLearner(ctx context.Context, tx *gorm.DB, learner *models.Learner) error
	GetLearner(ctx context.Context, tx *gorm.DB, userID string) (*models.Learner, error)
}
