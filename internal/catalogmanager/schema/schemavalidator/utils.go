package schemavalidator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mugiliam/notecatalogsrv/internal/apperrors"
)

// Get the JSON tag for a given field, or fallback to field name if not found
func GetJSONTag(field reflect.StructField) string {
	jsonTag := field.Tag.Get("json")
	if jsonTag == "" {
		return field.Name
	}
	return strings.Split(jsonTag, ",")[0]
}

// FieldErrors converts the result of V().Struct into field level errors. It returns
// nil when err carries no field errors.
func FieldErrors(err error) []apperrors.FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	fields := make([]apperrors.FieldError, 0, len(ve))
	for _, e := range ve {
		fields = append(fields, apperrors.FieldError{
			Field:  e.Field(),
			Reason: reason(e),
		})
	}
	return fields
}

func reason(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "missing required attribute"
	case "notblank":
		return "must not be blank"
	case "drivelink":
		return "must be a Google Drive or Docs link"
	case "weblink":
		return "must be an http or https URL"
	case "contactemail", "email":
		return "must be a valid email address"
	case "max":
		return "must be at most " + e.Param() + " characters"
	default:
		return "validation failed for attribute"
	}
}
