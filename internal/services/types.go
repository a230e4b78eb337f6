package services

import (
	"time"

	"github.com/SAP-F-2025/course-exam-service/internal/grading"
	"github.com/SAP-F-2025/course-exam-service/internal/models"
)

// ===== COURSE =====

type CreateCourseRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=30"`
	Description string     `json:"description" validate:"max=1000"`
	ImageURL    *string    `json:"image_url" validate:"omitempty,url"`
	PubDate     *time.Time `json:"pub_date"`
}

type UpdateCourseRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=30"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	ImageURL    *string    `json:"image_url" validate:"omitempty,url"`
	PubDate     *time.Time `json:"pub_date"`
}

type CourseListResponse struct {
	Courses []*models.Course `json:"courses"`
	Total   int64            `json:"total"`
}

type CreateLessonRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Order   *int   `json:"order" validate:"omitempty,min=0"`
	Content string `json:"content"`
}

// ===== EXAM (learner view) =====

type ExamChoice struct {
	ID      uint   `json:"id"`
	Content string `json:"content"`
}

type ExamQuestion struct {
	ID      uint         `json:"id"`
	Content string       `json:"content"`
	Grade   float64      `json:"grade"`
	Order   int          `json:"order"`
	Choices []ExamChoice `json:"choices"`
}

type ExamResponse struct {
	CourseID         uint           `json:"course_id"`
	CourseName       string         `json:"course_name"`
	TotalPoints      float64        `json:"total_points"`
	PassingThreshold int            `json:"passing_threshold"`
	Questions        []ExamQuestion `json:"questions"`
}

// ===== QUESTIONS =====

type ChoiceInput struct {
	Content   string `json:"content" validate:"required,max=500"`
	IsCorrect bool   `json:"is_correct"`
}

type CreateQuestionRequest struct {
	Content string        `json:"content" validate:"required"`
	Grade   float64       `json:"grade" validate:"non_negative"`
	Order   *int          `json:"order" validate:"omitempty,min=0"`
	Choices []ChoiceInput `json:"choices" validate:"required,dive"`
}

type UpdateQuestionRequest struct {
	Content *string  `json:"content" validate:"omitempty,min=1"`
	Grade   *float64 `json:"grade" validate:"omitempty,non_negative"`
	Order   *int     `json:"order" validate:"omitempty,min=0"`
}

type CreateChoiceRequest struct {
	ChoiceInput
}

// ===== ENROLLMENT =====

type EnrollRequest struct {
	Mode models.EnrollmentMode `json:"mode" validate:"omitempty,enrollment_mode"`
}

type UpdateLearnerRequest struct {
	Occupation models.Occupation `json:"occupation" validate:"omitempty,occupation"`
	SocialLink string            `json:"social_link" validate:"omitempty,url,max=200"`
}

// ===== SUBMISSIONS =====

// SubmitRequest carries the selected choice ids of one exam attempt
type SubmitRequest struct {
	ChoiceIDs []uint `json:"choice_ids" validate:"omitempty,dive,gt=0"`
}

type SubmissionResult struct {
	SubmissionID      uint           `json:"submission_id"`
	EnrollmentID      uint           `json:"enrollment_id"`
	CourseID          uint           `json:"course_id"`
	SelectedChoiceIDs []uint         `json:"selected_choice_ids"`
	SubmittedAt       time.Time      `json:"submitted_at"`
	Result            grading.Result `json:"result"`
}
