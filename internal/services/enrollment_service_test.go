package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/course-exam-service/internal/events"
	"github.com/SAP-F-2025/course-exam-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentService_EnrollIsIdempotent(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	course, _ := env.seedCourse(t)

	first, created, err := env.services.Enrollment().Enroll(ctx, course.ID, &EnrollRequest{Mode: models.ModeHonor}, studentActor)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.ModeHonor, first.Mode)
	assert.Equal(t, float64(5), first.Rating)

	second, created, err := env.services.Enrollment().Enroll(ctx, course.ID, &EnrollRequest{}, studentActor)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	got, err := env.services.Course().Get(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalEnrollment)

	assert.Len(t, eventsOfType(env.publisher, events.EventLearnerEnrolled), 1)

	ok, err := env.services.Enrollment().IsEnrolled(ctx, course.ID, studentActor.UserID)
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := env.services.Enrollment().ListByUser(ctx, studentActor.UserID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, course.ID, list[0].CourseID)
}

func TestEnrollmentService_Errors(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	course, _ := env.seedCourse(t)

	_, _, err := env.services.Enrollment().Enroll(ctx, 9999, &EnrollRequest{}, studentActor)
	assert.ErrorIs(t, err, ErrCourseNotFound)

	_, _, err = env.services.Enrollment().Enroll(ctx, course.ID, &EnrollRequest{Mode: "vip"}, studentActor)
	assert.True(t, IsValidation(err))

	_, err = env.services.Enrollment().Get(ctx, course.ID, otherStudent.UserID)
	assert.ErrorIs(t, err, ErrEnrollmentNotFound)
}
