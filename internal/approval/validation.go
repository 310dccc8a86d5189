package approval

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

const notesRequiredMessage = "Please provide a reason for your decision"

type DecisionForm struct {
	RequestID string `validate:"required"`
	Status    string `validate:"required,oneof=Approved Rejected"`
	Notes     string `validate:"required"`
	ManagerID string `validate:"required"`
}

// ValidationError is a form problem shown next to the decision controls.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var validate = validator.New()

// ValidateDecision reports the first problem with the form. Notes are expected trimmed.
func ValidateDecision(form DecisionForm) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return &ValidationError{Message: "Invalid decision"}
	}

	// Notes are reported first, whatever order the struct fields failed in.
	for _, e := range errs {
		if e.Field() == "Notes" {
			return &ValidationError{Field: "Notes", Message: notesRequiredMessage}
		}
	}
	e := errs[0]
	switch e.Field() {
	case "Status":
		return &ValidationError{Field: "Status", Message: "Please choose Approve or Reject"}
	default:
		return &ValidationError{Field: e.Field(), Message: "Invalid decision"}
	}
}
