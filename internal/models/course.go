package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	Name            string     `json:"name" gorm:"not null;size:30;index" validate:"required,min=1,max=30"`
	Description     string     `json:"description" gorm:"type:text" validate:"max=1000"`
	ImageURL        *string    `json:"image_url" gorm:"size:500" validate:"omitempty,url"`
	PubDate         *time.Time `json:"pub_date" gorm:"index"`
	TotalEnrollment int        `json:"total_enrollment" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Instructors []Instructor `json:"instructors,omitempty" gorm:"many2many:course_instructors;joinForeignKey:CourseID;joinReferences:InstructorUserID"`
	Lessons     []Lesson     `json:"lessons,omitempty" gorm:"foreignKey:CourseID"`
	Questions   []Question   `json:"questions,omitempty" gorm:"foreignKey:CourseID"`

	// Computed fields (not stored)
	TotalPoints float64 `json:"total_points" gorm:"-"`
}

func (Course) TableName() string {
	return "courses"
}

type Lesson struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	CourseID uint   `json:"course_id" gorm:"not null;index"`
	Title    string `json:"title" gorm:"not null;size:200;default:title" validate:"required,max=200"`
	Order    int    `json:"order" gorm:"column:lesson_order;default:0" validate:"min=0"`
	Content  string `json:"content" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Lesson) TableName() string {
	return "lessons"
}
