package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	event := NewEvent(EventSubmissionGraded, SubmissionGradedEvent{SubmissionID: 7, Percentage: 90, Passed: true})

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, EventSubmissionGraded, event.Type)
	assert.Equal(t, "course-exam-service", event.Source)
	assert.Equal(t, "1.0", event.Version)
	assert.False(t, event.Timestamp.IsZero())
	assert.NotEqual(t, event.ID, NewEvent(EventSubmissionGraded, nil).ID)
}

func TestToMessage(t *testing.T) {
	event := NewEvent(EventLearnerEnrolled, LearnerEnrolledEvent{EnrollmentID: 3, CourseID: 1, UserID: "u-1"})

	msg, err := toMessage(context.Background(), event)
	require.NoError(t, err)

	assert.Equal(t, event.ID, msg.UUID)
	assert.Equal(t, "enrollment.created", msg.Metadata.Get("event_type"))
	assert.Equal(t, "course-exam-service", msg.Metadata.Get("source"))

	var decoded struct {
		Type EventType            `json:"type"`
		Data LearnerEnrolledEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
	assert.Equal(t, EventLearnerEnrolled, decoded.Type)
	assert.Equal(t, "u-1", decoded.Data.UserID)
}

func TestMockEventPublisher(t *testing.T) {
	pub := NewMockEventPublisher(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	require.NoError(t, pub.Publish(context.Background(), NewEvent(EventExamChanged, ExamChangedEvent{CourseID: 1, Action: "created"})))
	require.NoError(t, pub.Publish(context.Background(), NewEvent(EventExamChanged, ExamChangedEvent{CourseID: 1, Action: "deleted"})))

	published := pub.GetPublishedEvents()
	require.Len(t, published, 2)
	assert.Equal(t, EventExamChanged, published[1].Type)

	pub.ClearEvents()
	assert.Empty(t, pub.GetPublishedEvents())
	assert.NoError(t, pub.Close())
}
