package validator

import (
	"fmt"
	"math"
	"strings"

	"github.com/SAP-F-2025/course-exam-service/internal/errors"
	"github.com/SAP-F-2025/course-exam-service/internal/models"
)

const (
	MinChoicesPerQuestion = 2
	MaxChoicesPerQuestion = 10
)

// QuestionValidator handles author-time checks on questions and their choices
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion checks a question together with its full choice set.
func (v *QuestionValidator) ValidateQuestion(question *models.Question) errors.ValidationErrors {
	var errs errors.ValidationErrors

	if strings.TrimSpace(question.Content) == "" {
		errs = append(errs, *errors.NewValidationErrorWithRule("content", "is required", "required", question.Content))
	}

	if question.Grade < 0 || math.IsNaN(question.Grade) || math.IsInf(question.Grade, 0) {
		errs = append(errs, *errors.NewValidationErrorWithRule("grade", "must not be negative", "non_negative", question.Grade))
	}

	errs = append(errs, v.ValidateChoices(question.Choices)...)
	return errs
}

// ValidateChoices checks that a choice set can be graded.
func (v *QuestionValidator) ValidateChoices(choices []models.Choice) errors.ValidationErrors {
	var errs errors.ValidationErrors

	if len(choices) < MinChoicesPerQuestion {
		errs = append(errs, *errors.NewValidationErrorWithRule("choices",
			fmt.Sprintf("must have at least %d choices", MinChoicesPerQuestion), "min", len(choices)))
	}
	if len(choices) > MaxChoicesPerQuestion {
		errs = append(errs, *errors.NewValidationErrorWithRule("choices",
			fmt.Sprintf("cannot have more than %d choices", MaxChoicesPerQuestion), "max", len(choices)))
	}

	correct := 0
	seen := make(map[string]bool, len(choices))
	for i, c := range choices {
		text := strings.TrimSpace(c.Content)
		if text == "" {
			errs = append(errs, *errors.NewValidationErrorWithRule(fmt.Sprintf("choices[%d].content", i), "is required", "required", c.Content))
			continue
		}
		key := strings.ToLower(text)
		if seen[key] {
			errs = append(errs, *errors.NewValidationErrorWithRule(fmt.Sprintf("choices[%d].content", i), "must not duplicate another choice", "unique", c.Content))
		}
		seen[key] = true
		if c.IsCorrect {
			correct++
		}
	}

	if len(choices) > 0 && correct == 0 {
		errs = append(errs, *errors.NewValidationErrorWithRule("choices", "must have at least 1 correct choice", "min", correct))
	}

	return errs
}

// ValidateChoiceRemoval checks that removing a choice leaves a gradable question.
func (v *QuestionValidator) ValidateChoiceRemoval(question *models.Question, choiceID uint) errors.ValidationErrors {
	remaining := make([]models.Choice, 0, len(question.Choices))
	for _, c := range question.Choices {
		if c.ID != choiceID {
			remaining = append(remaining, c)
		}
	}
	return v.ValidateChoices(remaining)
}
