package postgres

import (
	"context"

	"github.com/SAP-F-2025/course-exam-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db         *gorm.DB
	course     repositories.CourseRepository
	question   repositories.QuestionRepository
	enrollment repositories.EnrollmentRepository
	submission repositories.SubmissionRepository
	user       repositories.UserRepository
}

// NewRepository wires every gorm-backed repository onto one connection
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		db:         db,
		course:     NewCoursePostgreSQL(db),
		question:   NewQuestionPostgreSQL(db),
		enrollment: NewEnrollmentPostgreSQL(db),
		submission: NewSubmissionPostgreSQL(db),
		user:       NewUserPostgreSQL(db),
	}
}

func (r *repository) Course() repositories.CourseRepository         { return r.course }
func (r *repository) Question() repositories.QuestionRepository     { return r.question }
func (r *repository) Enrollment() repositories.EnrollmentRepository { return r.enrollment }
func (r *repository) Submission() repositories.SubmissionRepository { return r.submission }
func (r *repository) User() repositories.UserRepository             { return r.user }

func (r *repository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
