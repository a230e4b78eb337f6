package postgres

import (
	"context"

	"github.com/SAP-F-2025/course-exam-service/internal/models"
	"github.com/SAP-F-2025/course-exam-service/internal/repositories"
	"gorm.io/gorm"
)

type SubmissionPostgreSQL struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{db: db}
}

// Create inserts the submission and its submission_choices rows. The referenced
// choices must already exist and are never rewritten.
func (s *SubmissionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	return getDB(s.db, tx).WithContext(ctx).
		Omit("Enrollment", "Choices.*").
		Create(submission).Error
}

func (s *SubmissionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Submission, error) {
	var submission models.Submission
	if err := getDB(s.db, tx).WithContext(ctx).
		Preload("Choices", selectedChoices).
		Preload("Enrollment").
		First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (s *SubmissionPostgreSQL) ListByEnrollment(ctx context.Context, tx *gorm.DB, enrollmentID uint) ([]*models.Submission, error) {
	var submissions []*models.Submission
	if err := getDB(s.db, tx).WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Preload("Choices", selectedChoices).
		Order("created_at DESC, id DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (s *SubmissionPostgreSQL) ListByCourse(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Submission, error) {
	var submissions []*models.Submission
	if err := getDB(s.db, tx).WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.id = submissions.enrollment_id").
		Where("enrollments.course_id = ?", courseID).
		Preload("Enrollment.User").
		Order("submissions.created_at ASC, submissions.id ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (s *SubmissionPostgreSQL) CountByEnrollment(ctx context.Context, tx *gorm.DB, enrollmentID uint) (int64, error) {
	var count int64
	if err := getDB(s.db, tx).WithContext(ctx).
		Model(&models.Submission{}).
		Where("enrollment_id = ?", enrollmentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// selectedChoices loads the recorded selection including choices deleted since
func selectedChoices(db *gorm.DB) *gorm.DB {
	return db.Unscoped().Order("choices.id ASC")
}
