// Package validation runs the canonical item field rules and renders them as
// per-field messages. The rules live once, as validator tags on the input
// structs, and are consumed by both the server handlers and the client SDK.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mamadbah2/inventaire/internal/domain/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report errors under the JSON field name rather than the Go field name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidateCreate checks a full candidate item. An empty map means valid.
// Callers must Normalize the input first.
func ValidateCreate(in *models.CreateItemInput) map[string]string {
	return run(in)
}

// ValidateUpdate checks only the fields present in a partial patch. An empty
// map means valid. Callers must Normalize the input first.
func ValidateUpdate(in *models.UpdateItemInput) map[string]string {
	return run(in)
}

func run(s any) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": "invalid input"}
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = message(fe)
	}
	return fields
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("Validation failed on '%s'", fe.Tag())
	}
}
