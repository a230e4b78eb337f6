package postgres

import (
	"context"

	"github.com/SAP-F-2025/course-exam-service/internal/models"
	"github.com/SAP-F-2025/course-exam-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var courseSortColumns = map[string]string{
	"":           "courses.id",
	"name":       "courses.name",
	"pub_date":   "courses.pub_date",
	"created_at": "courses.created_at",
}

type CoursePostgreSQL struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db}
}

func (c *CoursePostgreSQL) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	return getDB(c.db, tx).WithContext(ctx).Omit(clause.Associations).Create(course).Error
}

func (c *CoursePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	var course models.Course
	if err := getDB(c.db, tx).WithContext(ctx).
		Preload("Instructors.User").
		First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *CoursePostgreSQL) GetExam(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	var course models.Course
	if err := getDB(c.db, tx).WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_order ASC, id ASC")
		}).
		Preload("Questions.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&course, id).Error; err != nil {
		return nil, err
	}

	for _, q := range course.Questions {
		course.TotalPoints += q.Grade
	}
	return &course, nil
}

func (c *CoursePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	var courses []*models.Course
	var total int64

	query := getDB(c.db, tx).WithContext(ctx).Model(&models.Course{})
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		query = query.Where("courses.name LIKE ? OR courses.description LIKE ?", like, like)
	}
	if filters.PubFrom != nil {
		query = query.Where("courses.pub_date >= ?", *filters.PubFrom)
	}
	if filters.PubTo != nil {
		query = query.Where("courses.pub_date <= ?", *filters.PubTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, courseSortColumns, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)
	if err := query.Find(&courses).Error; err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (c *CoursePostgreSQL) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	return getDB(c.db, tx).WithContext(ctx).Omit(clause.Associations).Save(course).Error
}

func (c *CoursePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	result := getDB(c.db, tx).WithContext(ctx).Delete(&models.Course{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (c *CoursePostgreSQL) Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	var count int64
	if err := getDB(c.db, tx).WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (c *CoursePostgreSQL) IncrementEnrollment(ctx context.Context, tx *gorm.DB, id uint) error {
	return getDB(c.db, tx).WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", id).
		UpdateColumn("total_enrollment", gorm.Expr("total_enrollment + ?", 1)).Error
}

func (c *CoursePostgreSQL) AddInstructor(ctx context.Context, tx *gorm.DB, courseID uint, instructorUserID string) error {
	return getDB(c.db, tx).WithContext(ctx).
		Table("course_instructors").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(map[string]interface{}{
			"course_id":          courseID,
			"instructor_user_id": instructorUserID,
		}).Error
}

func (c *CoursePostgreSQL) IsInstructor(ctx context.Context, tx *gorm.DB, courseID uint, userID string) (bool, error) {
	var count int64
	if err := getDB(c.db, tx).WithContext(ctx).
		Table("course_instructors").
		Where("course_id = ? AND instructor_user_id = ?", courseID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (c *CoursePostgreSQL) CreateLesson(ctx context.Context, tx *gorm.DB, lesson *models.Lesson) error {
	return getDB(c.db, tx).WithContext(ctx).Create(lesson).Error
}

func (c *CoursePostgreSQL) ListLessons(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Lesson, error) {
	var lessons []*models.Lesson
	if err := getDB(c.db, tx).WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("lesson_order ASC, id ASC").
		Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}
