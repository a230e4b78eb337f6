package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/course-exam-service/internal/errors"
	"github.com/SAP-F-2025/course-exam-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator is the main validator instance that combines all validation types
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New(validator.WithRequiredStructEnabled())

	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and converts failures to ValidationErrors
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := errors.ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("user_role", validateUserRole)
	validate.RegisterValidation("enrollment_mode", validateEnrollmentMode)
	validate.RegisterValidation("occupation", validateOccupation)
	validate.RegisterValidation("non_negative", validateNonNegative)

	// Report json names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch models.UserRole(fl.Field().String()) {
	case models.RoleStudent, models.RoleInstructor, models.RoleAdmin:
		return true
	}
	return false
}

func validateEnrollmentMode(fl validator.FieldLevel) bool {
	switch models.EnrollmentMode(fl.Field().String()) {
	case models.ModeAudit, models.ModeHonor, models.ModeBeta:
		return true
	}
	return false
}

func validateOccupation(fl validator.FieldLevel) bool {
	switch models.Occupation(fl.Field().String()) {
	case models.OccupationStudent, models.OccupationDeveloper, models.OccupationDataScientist, models.OccupationDBA:
		return true
	}
	return false
}

func validateNonNegative(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		return fl.Field().Float() >= 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fl.Field().Int() >= 0
	}
	return true
}
