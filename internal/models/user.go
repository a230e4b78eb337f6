package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string
type Role = UserRole // Alias for compatibility

const (
	RoleStudent    UserRole = "student"
	RoleInstructor UserRole = "instructor"
	RoleAdmin      UserRole = "admin"
)

// User mirrors the identity issued by the token provider. The service never owns
// credentials, it only keeps enough to link enrollments and instructors.
type User struct {
	ID       string   `json:"id" gorm:"primaryKey;size:255"`
	FullName string   `json:"full_name" gorm:"size:100"`
	Email    string   `json:"email" gorm:"index;size:255"`
	Role     UserRole `json:"role" gorm:"size:20;default:student"`

	LastSeenAt *time.Time `json:"last_seen_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

type Occupation string

const (
	OccupationStudent       Occupation = "student"
	OccupationDeveloper     Occupation = "developer"
	OccupationDataScientist Occupation = "data_scientist"
	OccupationDBA           Occupation = "dba"
)

type Instructor struct {
	UserID        string `json:"user_id" gorm:"primaryKey;size:255"`
	FullTime      bool   `json:"full_time" gorm:"default:true"`
	TotalLearners int    `json:"total_learners" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"user" gorm:"foreignKey:UserID"`
}

func (Instructor) TableName() string {
	return "instructors"
}

type Learner struct {
	UserID     string     `json:"user_id" gorm:"primaryKey;size:255"`
	Occupation Occupation `json:"occupation" gorm:"size:20;default:student" validate:"omitempty,occupation"`
	SocialLink string     `json:"social_link" gorm:"size:200" validate:"omitempty,url,max=200"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"user" gorm:"foreignKey:UserID"`
}

func (Learner) TableName() string {
	return "learners"
}
