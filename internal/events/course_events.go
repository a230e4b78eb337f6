package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of events the service emits
type EventType string

const (
	EventLearnerEnrolled  EventType = "enrollment.created"
	EventSubmissionGraded EventType = "submission.graded"
	EventExamChanged      EventType = "exam.changed"
)

const (
	eventSource  = "course-exam-service"
	eventVersion = "1.0"
)

// Event is the envelope published for every domain event
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewEvent wraps a payload in an envelope with a fresh id and timestamp
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

type LearnerEnrolledEvent struct {
	EnrollmentID uint      `json:"enrollment_id"`
	CourseID     uint      `json:"course_id"`
	UserID       string    `json:"user_id"`
	Mode         string    `json:"mode"`
	EnrolledAt   time.Time `json:"enrolled_at"`
}

type SubmissionGradedEvent struct {
	SubmissionID     uint      `json:"submission_id"`
	EnrollmentID     uint      `json:"enrollment_id"`
	CourseID         uint      `json:"course_id"`
	UserID           string    `json:"user_id"`
	Percentage       int       `json:"percentage"`
	Passed           bool      `json:"passed"`
	NoGradablePoints bool      `json:"no_gradable_points"`
	GradedAt         time.Time `json:"graded_at"`
}

type ExamChangedEvent struct {
	CourseID   uint   `json:"course_id"`
	QuestionID uint   `json:"question_id,omitempty"`
	Action     string `json:"action"` // created, updated, deleted
}
