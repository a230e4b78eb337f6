package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/course-exam-service/internal/events"
	"github.com/SAP-F-2025/course-exam-service/internal/grading"
	"github.com/SAP-F-2025/course-exam-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func enroll(t *testing.T, env *testEnv, courseID uint, actor Actor) {
	t.Helper()
	_, _, err := env.services.Enrollment().Enroll(context.Background(), courseID, &EnrollRequest{}, actor)
	require.NoError(t, err)
}

func TestSubmissionService_Submit(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	course, questions := env.seedCourse(t)
	enroll(t, env, course.ID, studentActor)

	q1, q2 := questions[0], questions[1]

	tests := []struct {
		name       string
		choices    []uint
		percentage int
		passed     bool
		achieved   float64
	}{
		{"all correct", []uint{q1.Choices[0].ID, q1.Choices[1].ID, q2.Choices[0].ID}, 100, true, 3},
		{"duplicate ids count once", []uint{q2.Choices[0].ID, q2.Choices[0].ID, q1.Choices[1].ID, q1.Choices[0].ID}, 100, true, 3},
		{"partial selection is wrong", []uint{q1.Choices[0].ID, q1.Choices[1].ID}, 67, false, 2},
		{"extra wrong choice", []uint{q1.Choices[0].ID, q1.Choices[1].ID, q1.Choices[2].ID, q2.Choices[0].ID}, 33, false, 1},
		{"empty selection", nil, 0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := env.services.Submission().Submit(ctx, course.ID, &SubmitRequest{ChoiceIDs: tt.choices}, studentActor)
			require.NoError(t, err)
			assert.Equal(t, tt.percentage, res.Result.Percentage)
			assert.Equal(t, tt.passed, res.Result.Passed)
			assert.Equal(t, tt.achieved, res.Result.AchievedPoints)
			assert.Equal(t, float64(3), res.Result.TotalPoints)
			assert.False(t, res.Result.NoGradablePoints)
			assert.Len(t, res.Result.Questions, 2)
			assert.NotZero(t, res.SubmissionID)
		})
	}

	assert.Len(t, eventsOfType(env.publisher, events.EventSubmissionGraded), len(tests))

	results, err := env.services.Submission().ListByEnrollment(ctx, course.ID, studentActor)
	require.NoError(t, err)
	assert.Len(t, results, len(tests))
}

func TestSubmissionService_SubmitRejections(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	course, questions := env.seedCourse(t)

	other, err := env.services.Course().Create(ctx, &CreateCourseRequest{Name: "Other"}, instructorActor)
	require.NoError(t, err)
	foreign, err := env.services.Question().Create(ctx, other.ID, &CreateQuestionRequest{
		Content: "Elsewhere",
		Grade:   1,
		Choices: []ChoiceInput{{Content: "a", IsCorrect: true}, {Content: "b"}},
	}, instructorActor)
	require.NoError(t, err)

	_, err = env.services.Submission().Submit(ctx, course.ID, &SubmitRequest{}, studentActor)
	assert.ErrorIs(t, err, ErrNotEnrolled)

	_, err = env.services.Submission().Submit(ctx, 9999, &SubmitRequest{}, studentActor)
	assert.ErrorIs(t, err, ErrCourseNotFound)

	enroll(t, env, course.ID, studentActor)

	_, err = env.services.Submission().Submit(ctx, course.ID, &SubmitRequest{
		ChoiceIDs: []uint{questions[0].Choices[0].ID, foreign.Choices[0].ID},
	}, studentActor)
	require.Error(t, err)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "choice_ids", verrs[0].Field)

	_, err = env.services.Submission().Submit(ctx, course.ID, &SubmitRequest{ChoiceIDs: []uint{0}}, studentActor)
	assert.True(t, IsValidation(err))
}

func TestSubmissionService_NoGradablePoints(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	course, err := env.services.Course().Create(ctx, &CreateCourseRequest{Name: "Empty"}, instructorActor)
	require.NoError(t, err)
	enroll(t, env, course.ID, studentActor)

	res, err := env.services.Submission().Submit(ctx, course.ID, &SubmitRequest{}, studentActor)
	require.NoError(t, err)
	assert.True(t, res.Result.NoGradablePoints)
	assert.Equal(t, 0, res.Result.Percentage)
	assert.False(t, res.Result.Passed)
}

func TestSubmissionService_GetResult(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	course, questions := env.seedCourse(t)
	enroll(t, env, course.ID, studentActor)

	submitted, err := env.services.Submission().Submit(ctx, course.ID, &SubmitRequest{
		ChoiceIDs: []uint{questions[1].Choices[0].ID},
	}, studentActor)
	require.NoError(t, err)

	// Later edits to the exam do not change a stored result
	grade := 10.0
	_, err = env.services.Question().Update(ctx, questions[1].ID, &UpdateQuestionRequest{Grade: &grade}, instructorActor)
	require.NoError(t, err)

	got, err := env.services.Submission().GetResult(ctx, submitted.SubmissionID, studentActor)
	require.NoError(t, err)
	assert.Equal(t, 33, got.Result.Percentage)
	assert.Equal(t, float64(3), got.Result.TotalPoints)
	assert.Equal(t, []uint{questions[1].Choices[0].ID}, got.SelectedChoiceIDs)
	require.Len(t, got.Result.Questions, 2)
	assert.False(t, got.Result.Questions[0].Correct)
	assert.True(t, got.Result.Questions[1].Correct)
	assert.Equal(t, grading.CategoryMissed, got.Result.Questions[0].Choices[0].Category)
	assert.Equal(t, grading.CategorySelectedCorrect, got.Result.Questions[1].Choices[0].Category)

	_, err = env.services.Submission().GetResult(ctx, submitted.SubmissionID, otherStudent)
	assert.ErrorIs(t, err, ErrSubmissionAccessDenied)

	_, err = env.services.Submission().GetResult(ctx, submitted.SubmissionID, otherInstructor)
	assert.ErrorIs(t, err, ErrSubmissionAccessDenied)

	_, err = env.services.Submission().GetResult(ctx, submitted.SubmissionID, instructorActor)
	assert.NoError(t, err)

	_, err = env.services.Submission().GetResult(ctx, 9999, adminActor)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestSubmissionService_ResultSurvivesExamDeletes(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	course, questions := env.seedCourse(t)
	enroll(t, env, course.ID, studentActor)

	primes := questions[0]
	wrong := primes.Choices[2].ID
	selected := []uint{primes.Choices[0].ID, wrong}
	submitted, err := env.services.Submission().Submit(ctx, course.ID, &SubmitRequest{ChoiceIDs: selected}, studentActor)
	require.NoError(t, err)
	require.Equal(t, 0, submitted.Result.Percentage)

	require.NoError(t, env.services.Question().DeleteChoice(ctx, wrong, instructorActor))
	require.NoError(t, env.services.Question().Delete(ctx, questions[1].ID, instructorActor))

	got, err := env.services.Submission().GetResult(ctx, submitted.SubmissionID, studentActor)
	require.NoError(t, err)
	assert.Equal(t, selected, got.SelectedChoiceIDs)
	assert.Equal(t, float64(3), got.Result.TotalPoints)
	assert.Len(t, got.Result.Questions, 2)
	assert.Equal(t, grading.CategorySelectedIncorrect, choiceCategory(t, got.Result, primes.ID, wrong))

	history, err := env.services.Submission().ListByEnrollment(ctx, course.ID, studentActor)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, selected, history[0].SelectedChoiceIDs)

	// Deleted choices can no longer be submitted
	_, err = env.services.Submission().Submit(ctx, course.ID, &SubmitRequest{ChoiceIDs: selected}, studentActor)
	assert.True(t, IsValidation(err))

	exam, err := env.services.Course().GetExam(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, exam.Questions, 1)
	assert.Len(t, exam.Questions[0].Choices, 2)
}

func choiceCategory(t *testing.T, result grading.Result, questionID, choiceID uint) grading.ChoiceCategory {
	t.Helper()
	for _, q := range result.Questions {
		if q.QuestionID != questionID {
			continue
		}
		for _, c := range q.Choices {
			if c.ChoiceID == choiceID {
				return c.Category
			}
		}
	}
	t.Fatalf("choice %d of question %d not in result", choiceID, questionID)
	return ""
}

func TestSubmissionService_ExportCourseResults(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	course, questions := env.seedCourse(t)
	enroll(t, env, course.ID, studentActor)
	enroll(t, env, course.ID, otherStudent)

	all := []uint{questions[0].Choices[0].ID, questions[0].Choices[1].ID, questions[1].Choices[0].ID}
	_, err := env.services.Submission().Submit(ctx, course.ID, &SubmitRequest{ChoiceIDs: all}, studentActor)
	require.NoError(t, err)
	_, err = env.services.Submission().Submit(ctx, course.ID, &SubmitRequest{}, otherStudent)
	require.NoError(t, err)

	_, err = env.services.Submission().ExportCourseResults(ctx, course.ID, studentActor)
	assert.ErrorIs(t, err, ErrForbidden)

	buf, err := env.services.Submission().ExportCourseResults(ctx, course.ID, instructorActor)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(resultsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Submission ID", rows[0][0])

	learners := []string{rows[1][1], rows[2][1]}
	assert.ElementsMatch(t, []string{studentActor.UserID, otherStudent.UserID}, learners)
	for _, row := range rows[1:] {
		if row[1] == studentActor.UserID {
			assert.Equal(t, "User "+studentActor.UserID, row[2])
			assert.Equal(t, "100", row[7])
		}
	}
}

func TestToGradingQuestions(t *testing.T) {
	qs := toGradingQuestions([]models.Question{{ID: 1, Grade: 2.5, Choices: []models.Choice{{ID: 3, IsCorrect: true}, {ID: 4}}}})
	require.Len(t, qs, 1)
	assert.Equal(t, 2.5, qs[0].Points)
	assert.Equal(t, []grading.Choice{{ID: 3, IsCorrect: true}, {ID: 4}}, qs[0].Choices)
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []uint{1, 2, 5}, uniqueIDs([]uint{5, 1, 2, 1, 5}))
	assert.Empty(t, uniqueIDs(nil))
}
