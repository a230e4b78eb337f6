package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/course-exam-service/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionService_Create(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	course, questions := env.seedCourse(t)

	tests := []struct {
		name    string
		actor   Actor
		req     *CreateQuestionRequest
		wantErr func(error) bool
	}{
		{
			name:  "valid question gets next order",
			actor: instructorActor,
			req: &CreateQuestionRequest{
				Content: "Channels are",
				Grade:   1.5,
				Choices: []ChoiceInput{{Content: "typed", IsCorrect: true}, {Content: "untyped"}},
			},
		},
		{
			name:    "single choice",
			actor:   instructorActor,
			req:     &CreateQuestionRequest{Content: "Only one", Grade: 1, Choices: []ChoiceInput{{Content: "a", IsCorrect: true}}},
			wantErr: IsValidation,
		},
		{
			name:    "no correct choice",
			actor:   instructorActor,
			req:     &CreateQuestionRequest{Content: "None right", Grade: 1, Choices: []ChoiceInput{{Content: "a"}, {Content: "b"}}},
			wantErr: IsValidation,
		},
		{
			name:    "negative grade",
			actor:   instructorActor,
			req:     &CreateQuestionRequest{Content: "Neg", Grade: -1, Choices: []ChoiceInput{{Content: "a", IsCorrect: true}, {Content: "b"}}},
			wantErr: IsValidation,
		},
		{
			name:    "not an author",
			actor:   otherInstructor,
			req:     &CreateQuestionRequest{Content: "Hijack", Grade: 1, Choices: []ChoiceInput{{Content: "a", IsCorrect: true}, {Content: "b"}}},
			wantErr: IsUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.publisher.ClearEvents()
			q, err := env.services.Question().Create(ctx, course.ID, tt.req, tt.actor)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "unexpected error: %v", err)
				assert.Empty(t, env.publisher.GetPublishedEvents())
				return
			}
			require.NoError(t, err)
			assert.Greater(t, q.Order, questions[1].Order)
			assert.Len(t, q.Choices, 2)
			assert.Len(t, eventsOfType(env.publisher, events.EventExamChanged), 1)
		})
	}
}

func TestQuestionService_AuthorOnlyReads(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	course, questions := env.seedCourse(t)

	q, err := env.services.Question().Get(ctx, questions[0].ID, instructorActor)
	require.NoError(t, err)
	assert.Len(t, q.Choices, 3)

	_, err = env.services.Question().Get(ctx, questions[0].ID, studentActor)
	assert.ErrorIs(t, err, ErrForbidden)

	list, err := env.services.Question().ListByCourse(ctx, course.ID, adminActor)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = env.services.Question().Get(ctx, 9999, adminActor)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestQuestionService_UpdateAndDelete(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	course, questions := env.seedCourse(t)

	grade := 4.0
	updated, err := env.services.Question().Update(ctx, questions[1].ID, &UpdateQuestionRequest{Grade: &grade}, instructorActor)
	require.NoError(t, err)
	assert.Equal(t, 4.0, updated.Grade)

	exam, err := env.services.Course().GetExam(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 6.0, exam.TotalPoints)

	require.NoError(t, env.services.Question().Delete(ctx, questions[1].ID, instructorActor))
	exam, err = env.services.Course().GetExam(ctx, course.ID)
	require.NoError(t, err)
	assert.Len(t, exam.Questions, 1)
	assert.Len(t, eventsOfType(env.publisher, events.EventExamChanged), 2)

	assert.ErrorIs(t, env.services.Question().Delete(ctx, questions[1].ID, instructorActor), ErrQuestionNotFound)
}

func TestQuestionService_Choices(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	_, questions := env.seedCourse(t)
	q2 := questions[1]

	choice, err := env.services.Question().AddChoice(ctx, q2.ID, &CreateChoiceRequest{ChoiceInput{Content: "maybe"}}, instructorActor)
	require.NoError(t, err)
	assert.NotZero(t, choice.ID)

	_, err = env.services.Question().AddChoice(ctx, q2.ID, &CreateChoiceRequest{ChoiceInput{Content: "Maybe"}}, instructorActor)
	assert.True(t, IsValidation(err), "duplicate choice text must be rejected")

	// Removing the only correct choice would leave the question ungradable
	err = env.services.Question().DeleteChoice(ctx, q2.Choices[0].ID, instructorActor)
	assert.True(t, IsValidation(err))

	require.NoError(t, env.services.Question().DeleteChoice(ctx, choice.ID, instructorActor))
	assert.ErrorIs(t, env.services.Question().DeleteChoice(ctx, choice.ID, instructorActor), ErrChoiceNotFound)

	// Two choices left, removing one would drop below the minimum
	err = env.services.Question().DeleteChoice(ctx, q2.Choices[1].ID, instructorActor)
	assert.True(t, IsValidation(err))
}
