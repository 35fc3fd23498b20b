package shell

import (
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
)

var commandValidator = validator.New(validator.WithRequiredStructEnabled())

// ValidateCommand checks the `validate` struct tags of a command and reports the first violation
// as a circulation Invalid error. It is called before any store access.
func ValidateCommand(command any) error {
	err := commandValidator.Struct(command)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return circulation.Invalid(err.Error())
	}

	return circulation.Invalid(describeViolation(validationErrs[0]))
}

func describeViolation(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		if fe.Kind().String() == "string" {
			return field + " must be at most " + fe.Param() + " characters long"
		}

		return field + " must be at most " + fe.Param()
	case "min":
		if fe.Kind().String() == "string" {
			return field + " must be at least " + fe.Param() + " characters long"
		}

		return field + " must be at least " + fe.Param()
	case "gte":
		return field + " must be greater than or equal to " + fe.Param()
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "oneof":
		return field + " must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "email":
		return field + " must be a valid email address"
	default:
		return field + " is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])

	return string(runes)
}
