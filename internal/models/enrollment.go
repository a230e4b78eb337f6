package models

import "time"

type EnrollmentMode string

const (
	ModeAudit EnrollmentMode = "audit"
	ModeHonor EnrollmentMode = "honor"
	ModeBeta  EnrollmentMode = "BETA"
)

type Enrollment struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	UserID       string         `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_enrollment_user_course"`
	CourseID     uint           `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	DateEnrolled time.Time      `json:"date_enrolled" gorm:"not null"`
	Mode         EnrollmentMode `json:"mode" gorm:"size:5;default:audit"`
	Rating       float64        `json:"rating" gorm:"default:5"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
