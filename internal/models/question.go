package models

import (
	"time"

	"gorm.io/gorm"
)

// Question belongs to one course. Grade is the point value earned when the
// selected choices match the correct set exactly. Questions and choices are
// soft-deleted so submissions keep pointing at what was selected.
type Question struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	CourseID uint    `json:"course_id" gorm:"not null;index"`
	Content  string  `json:"content" gorm:"not null;type:text"`
	Grade    float64 `json:"grade" gorm:"not null;default:0"`
	Order    int     `json:"order" gorm:"column:question_order;default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Choices []Choice `json:"choices" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

func (Question) TableName() string {
	return "questions"
}

// CorrectChoiceIDs returns the ids of the choices flagged as correct.
func (q *Question) CorrectChoiceIDs() []uint {
	ids := make([]uint, 0, len(q.Choices))
	for _, c := range q.Choices {
		if c.IsCorrect {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

type Choice struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Content    string `json:"content" gorm:"not null;size:500"`
	IsCorrect  bool   `json:"is_correct" gorm:"not null;default:false"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Question *Question `json:"-" gorm:"foreignKey:QuestionID"`
}

func (Choice) TableName() string {
	return "choices"
}
