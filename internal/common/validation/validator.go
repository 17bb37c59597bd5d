package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate runs struct-tag validation and returns per-field messages.
// Returns nil when the value is valid.
func Validate(data interface{}) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrors []FieldError
	for _, err := range err.(validator.ValidationErrors) {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   err.Field(),
			Message: fmt.Sprintf("field must satisfy %s constraint", err.Tag()),
		})
	}
	return fieldErrors
}

// Describe flattens field errors into a single details string for AppError.
func Describe(fieldErrors []FieldError) string {
	details := ""
	for i, fe := range fieldErrors {
		if i > 0 {
			details += "; "
		}
		details += fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return details
}
