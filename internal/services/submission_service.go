package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/SAP-F-2025/course-exam-service/internal/events"
	"github.com/SAP-F-2025/course-exam-service/internal/grading"
	"github.com/SAP-F-2025/course-exam-service/internal/models"
	"github.com/SAP-F-2025/course-exam-service/internal/observability"
	"github.com/SAP-F-2025/course-exam-service/internal/repositories"
	"github.com/SAP-F-2025/course-exam-service/internal/validator"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const resultsSheet = "Results"

type submissionService struct {
	repo      repositories.Repository
	courses   CourseService
	publisher events.EventPublisher
	logger    *slog.Logger
	opLogger  *ServiceLogger
	validator *validator.Validator
}

func NewSubmissionService(repo repositories.Repository, courses CourseService, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) SubmissionService {
	return &submissionService{
		repo:      repo,
		courses:   courses,
		publisher: publisher,
		logger:    logger,
		opLogger:  NewServiceLogger(logger, "submission"),
		validator: validator,
	}
}

// Submit records one exam attempt for the caller's enrollment and grades it. The
// selection is stored together with the grading snapshot in a single transaction.
func (s *submissionService) Submit(ctx context.Context, courseID uint, req *SubmitRequest, actor Actor) (result *SubmissionResult, err error) {
	op := s.opLogger.WithOperation(ctx, "submit_exam", actor.UserID)
	defer func() {
		var id uint
		if result != nil {
			id = result.SubmissionID
		}
		op.LogResult(id, "submission", err)
	}()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	enrollment, err := s.repo.Enrollment().GetByUserAndCourse(ctx, nil, actor.UserID, courseID)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to get enrollment: %w", err)
		}
		exists, existsErr := s.repo.Course().Exists(ctx, nil, courseID)
		if existsErr != nil {
			return nil, fmt.Errorf("failed to check course: %w", existsErr)
		}
		if !exists {
			return nil, ErrCourseNotFound
		}
		return nil, ErrNotEnrolled
	}

	choiceIDs := uniqueIDs(req.ChoiceIDs)

	var submission *models.Submission
	var graded grading.Result
	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		// Checked in the same transaction that reads the exam and stores the selection
		if err := s.checkChoicesBelongToCourse(ctx, tx, courseID, choiceIDs); err != nil {
			return err
		}
		exam, err := s.repo.Course().GetExam(ctx, tx, courseID)
		if err != nil {
			return err
		}

		graded = grading.Evaluate(toGradingQuestions(exam.Questions), grading.NewSelection(choiceIDs...))
		breakdown, err := json.Marshal(graded.Questions)
		if err != nil {
			return fmt.Errorf("failed to encode breakdown: %w", err)
		}

		submission = &models.Submission{
			EnrollmentID:     enrollment.ID,
			Percentage:       graded.Percentage,
			AchievedPoints:   graded.AchievedPoints,
			TotalPoints:      graded.TotalPoints,
			Passed:           graded.Passed,
			NoGradablePoints: graded.NoGradablePoints,
			Breakdown:        datatypes.JSON(breakdown),
			Choices:          make([]models.Choice, 0, len(choiceIDs)),
		}
		for _, id := range choiceIDs {
			submission.Choices = append(submission.Choices, models.Choice{ID: id})
		}
		return s.repo.Submission().Create(ctx, tx, submission)
	})
	if err != nil {
		if IsValidation(err) {
			return nil, err
		}
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}

	observability.ObserveSubmission(graded.Percentage, graded.Passed, graded.NoGradablePoints)
	if graded.NoGradablePoints {
		s.logger.Warn("Exam graded without gradable points", "course_id", courseID, "submission_id", submission.ID)
	}

	event := events.NewEvent(events.EventSubmissionGraded, events.SubmissionGradedEvent{
		SubmissionID:     submission.ID,
		EnrollmentID:     enrollment.ID,
		CourseID:         courseID,
		UserID:           actor.UserID,
		Percentage:       graded.Percentage,
		Passed:           graded.Passed,
		NoGradablePoints: graded.NoGradablePoints,
		GradedAt:         submission.CreatedAt,
	})
	publishEvent(ctx, s.publisher, s.logger, event)
	op.LogAudit(AuditEventSubmit, submission.ID, "submission", map[string]interface{}{
		"course_id":  courseID,
		"percentage": graded.Percentage,
		"passed":     graded.Passed,
	})

	return &SubmissionResult{
		SubmissionID:      submission.ID,
		EnrollmentID:      enrollment.ID,
		CourseID:          courseID,
		SelectedChoiceIDs: choiceIDs,
		SubmittedAt:       submission.CreatedAt,
		Result:            graded,
	}, nil
}

// GetResult returns the grading snapshot stored with the submission
func (s *submissionService) GetResult(ctx context.Context, submissionID uint, actor Actor) (*SubmissionResult, error) {
	submission, err := s.repo.Submission().GetByID(ctx, nil, submissionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if submission.Enrollment == nil {
		return nil, ErrEnrollmentNotFound
	}

	if submission.Enrollment.UserID != actor.UserID {
		ok, err := s.courses.CanAuthor(ctx, submission.Enrollment.CourseID, actor)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrSubmissionAccessDenied
		}
	}

	return toSubmissionResult(submission, submission.Enrollment.CourseID)
}

func (s *submissionService) ListByEnrollment(ctx context.Context, courseID uint, actor Actor) ([]*SubmissionResult, error) {
	enrollment, err := s.repo.Enrollment().GetByUserAndCourse(ctx, nil, actor.UserID, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	submissions, err := s.repo.Submission().ListByEnrollment(ctx, nil, enrollment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	results := make([]*SubmissionResult, 0, len(submissions))
	for _, submission := range submissions {
		result, err := toSubmissionResult(submission, courseID)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// ExportCourseResults writes every submission of the course to an xlsx workbook
func (s *submissionService) ExportCourseResults(ctx context.Context, courseID uint, actor Actor) (*bytes.Buffer, error) {
	ok, err := s.courses.CanAuthor(ctx, courseID, actor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewPermissionError(actor.UserID, courseID, "course", "export results of", "not an instructor of this course")
	}

	submissions, err := s.repo.Submission().ListByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	headers := []interface{}{
		"Submission ID", "Learner ID", "Learner Name", "Email", "Submitted At",
		"Achieved Points", "Total Points", "Percentage", "Passed",
	}
	if err := f.SetSheetRow(resultsSheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, submission := range submissions {
		var userID, name, email string
		if submission.Enrollment != nil {
			userID = submission.Enrollment.UserID
			if submission.Enrollment.User != nil {
				name = submission.Enrollment.User.FullName
				email = submission.Enrollment.User.Email
			}
		}
		row := []interface{}{
			submission.ID, userID, name, email, submission.CreatedAt,
			submission.AchievedPoints, submission.TotalPoints, submission.Percentage, submission.Passed,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(resultsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported course results", "course_id", courseID, "rows", len(submissions), "user_id", actor.UserID)
	return buf, nil
}

// ===== HELPERS =====

func (s *submissionService) checkChoicesBelongToCourse(ctx context.Context, tx *gorm.DB, courseID uint, choiceIDs []uint) error {
	if len(choiceIDs) == 0 {
		return nil
	}
	found, err := s.repo.Question().FilterCourseChoiceIDs(ctx, tx, courseID, choiceIDs)
	if err != nil {
		return fmt.Errorf("failed to check choices: %w", err)
	}
	if len(found) == len(choiceIDs) {
		return nil
	}

	known := grading.NewSelection(found...)
	var errs ValidationErrors
	for _, id := range choiceIDs {
		if !known.Has(id) {
			errs = append(errs, *NewValidationError("choice_ids", "choice does not belong to this course", id))
		}
	}
	return errs
}

func toGradingQuestions(questions []models.Question) []grading.Question {
	out := make([]grading.Question, 0, len(questions))
	for _, q := range questions {
		gq := grading.Question{
			ID:      q.ID,
			Points:  q.Grade,
			Choices: make([]grading.Choice, 0, len(q.Choices)),
		}
		for _, c := range q.Choices {
			gq.Choices = append(gq.Choices, grading.Choice{ID: c.ID, IsCorrect: c.IsCorrect})
		}
		out = append(out, gq)
	}
	return out
}

func toSubmissionResult(submission *models.Submission, courseID uint) (*SubmissionResult, error) {
	result := &SubmissionResult{
		SubmissionID:      submission.ID,
		EnrollmentID:      submission.EnrollmentID,
		CourseID:          courseID,
		SelectedChoiceIDs: submission.ChoiceIDs(),
		SubmittedAt:       submission.CreatedAt,
		Result: grading.Result{
			Percentage:       submission.Percentage,
			Passed:           submission.Passed,
			AchievedPoints:   submission.AchievedPoints,
			TotalPoints:      submission.TotalPoints,
			NoGradablePoints: submission.NoGradablePoints,
		},
	}
	if len(submission.Breakdown) > 0 {
		if err := json.Unmarshal(submission.Breakdown, &result.Result.Questions); err != nil {
			return nil, fmt.Errorf("failed to decode breakdown of submission %d: %w", submission.ID, err)
		}
	}
	return result, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
