package postgres

import (
	"context"

	"github.com/SAP-F-2025/course-exam-service/internal/models"
	"github.com/SAP-F-2025/course-exam-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

// Create inserts the question together with its choices
func (q *QuestionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	return getDB(q.db, tx).WithContext(ctx).Create(question).Error
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error) {
	var question models.Question
	if err := getDB(q.db, tx).WithContext(ctx).
		Preload("Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (q *QuestionPostgreSQL) ListByCourse(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Question, error) {
	var questions []*models.Question
	if err := getDB(q.db, tx).WithContext(ctx).
		Where("course_id = ?", courseID).
		Preload("Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Order("question_order ASC, id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// Update writes the question's own columns; choices are managed separately
func (q *QuestionPostgreSQL) Update(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	result := getDB(q.db, tx).WithContext(ctx).
		Model(&models.Question{ID: question.ID}).
		Updates(map[string]interface{}{
			"content":        question.Content,
			"grade":          question.Grade,
			"question_order": question.Order,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete soft-deletes the question and its choices. submission_choices rows are
// left alone.
func (q *QuestionPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	run := func(db *gorm.DB) error {
		result := db.Delete(&models.Question{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return db.Where("question_id = ?", id).Delete(&models.Choice{}).Error
	}

	if tx != nil {
		return run(tx.WithContext(ctx))
	}
	return q.db.WithContext(ctx).Transaction(run)
}

func (q *QuestionPostgreSQL) GetNextOrder(ctx context.Context, tx *gorm.DB, courseID uint) (int, error) {
	var maxOrder int
	if err := getDB(q.db, tx).WithContext(ctx).
		Model(&models.Question{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(MAX(question_order), 0)").
		Scan(&maxOrder).Error; err != nil {
		return 0, err
	}
	return maxOrder + 1, nil
}

func (q *QuestionPostgreSQL) CreateChoice(ctx context.Context, tx *gorm.DB, choice *models.Choice) error {
	return getDB(q.db, tx).WithContext(ctx).Omit("Question").Create(choice).Error
}

func (q *QuestionPostgreSQL) GetChoiceByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Choice, error) {
	var choice models.Choice
	if err := getDB(q.db, tx).WithContext(ctx).First(&choice, id).Error; err != nil {
		return nil, err
	}
	return &choice, nil
}

// DeleteChoice soft-deletes the choice
func (q *QuestionPostgreSQL) DeleteChoice(ctx context.Context, tx *gorm.DB, id uint) error {
	result := getDB(q.db, tx).WithContext(ctx).Delete(&models.Choice{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (q *QuestionPostgreSQL) FilterCourseChoiceIDs(ctx context.Context, tx *gorm.DB, courseID uint, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var found []uint
	if err := getDB(q.db, tx).WithContext(ctx).
		Model(&models.Choice{}).
		Joins("JOIN questions ON questions.id = choices.question_id").
		Where("questions.course_id = ? AND questions.deleted_at IS NULL AND choices.id IN ?", courseID, ids).
		Pluck("choices.id", &found).Error; err != nil {
		return nil, err
	}
	return found, nil
}
