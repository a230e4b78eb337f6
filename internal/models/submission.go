package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission is one exam attempt tied to an enrollment. It is written once with its
// selected choices and the grading snapshot taken at that moment, and never updated.
type Submission struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	EnrollmentID uint `json:"enrollment_id" gorm:"not null;index"`

	// Grading snapshot
	Percentage       int            `json:"percentage"`
	AchievedPoints   float64        `json:"achieved_points"`
	TotalPoints      float64        `json:"total_points"`
	Passed           bool           `json:"passed"`
	NoGradablePoints bool           `json:"no_gradable_points"`
	Breakdown        datatypes.JSON `json:"breakdown" gorm:"type:jsonb"` // []grading.QuestionResult

	CreatedAt time.Time `json:"created_at" gorm:"index"`

	// Relations
	Enrollment *Enrollment `json:"-" gorm:"foreignKey:EnrollmentID"`
	Choices    []Choice    `json:"choices" gorm:"many2many:submission_choices"`
}

func (Submission) TableName() string {
	return "submissions"
}

// ChoiceIDs returns the ids of the selected choices.
func (s *Submission) ChoiceIDs() []uint {
	ids := make([]uint, len(s.Choices))
	for i, c := range s.Choices {
		ids[i] = c.ID
	}
	return ids
}
