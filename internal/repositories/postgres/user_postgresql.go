package postgres

import (
	"context"

	"github.com/SAP-F-2025/course-exam-service/internal/models"
	"github.com/SAP-F-2025/course-exam-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

// Upsert refreshes the profile fields of a known user or inserts a new one
func (u *UserPostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, user *models.User) error {
	return getDB(u.db, tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"full_name", "email", "role", "last_seen_at", "updated_at"}),
		}).
		Create(user).Error
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := getDB(u.db, tx).WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) SaveInstructor(ctx context.Context, tx *gorm.DB, instructor *models.Instructor) error {
	return getDB(u.db, tx).WithContext(ctx).
		Omit("User").
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(instructor).Error
}

func (u *UserPostgreSQL) GetInstructor(ctx context.Context, tx *gorm.DB, userID string) (*models.Instructor, error) {
	var instructor models.Instructor
	if err := getDB(u.db, tx).WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&instructor).Error; err != nil {
		return nil, err
	}
	return &instructor, nil
}

func (u *UserPostgreSQL) SaveLearner(ctx context.Context, tx *gorm.DB, learner *models.Learner) error {
	return getDB(u.db, tx).WithContext(ctx).
		Omit("User").
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(learner).Error
}

func (u *UserPostgreSQL) GetLearner(ctx context.Context, tx *gorm.DB, userID string) (*models.Learner, error) {
	var learner models.Learner
	if err := getDB(u.db, tx).WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&learner).Error; err != nil {
		return nil, err
	}
	return &learner, nil
}
