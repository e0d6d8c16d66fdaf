// Package validation checks inbound request payloads before they reach a
// service. Rules are declared with struct tags on the request types; only
// the first failing field is reported.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	appErrors "todo-backend/pkg/errors"

	"github.com/go-playground/validator/v10"
)

// Validator wraps a configured validator.Validate.
type Validator struct {
	validate *validator.Validate
}

var (
	instance *Validator
	once     sync.Once
)

// Default returns the shared validator instance.
func Default() *Validator {
	once.Do(func() {
		instance = New()
	})
	return instance
}

// New creates a validator with JSON field names and the custom rules.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("isodate", isoDate)

	return &Validator{validate: v}
}

// Struct validates s and returns a validation error describing the first
// failing field, or nil.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return appErrors.NewValidation(message(fieldErrs[0]))
	}
	return appErrors.NewInternal("validation failed", err)
}

// Layouts accepted as ISO 8601 date or date-time.
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

func isoDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, layout := range isoLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

func message(fe validator.FieldError) string {
	field := fmt.Sprintf("%q", fe.Field())
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if fe.Kind() == reflect.String && param == "1" {
			return field + " is not allowed to be empty"
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s length must be at least %s characters long", field, param)
		}
		return fmt.Sprintf("%s must contain at least %s items", field, param)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s length must be less than or equal to %s characters long", field, param)
		}
		return fmt.Sprintf("%s must contain less than or equal to %s items", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, strings.ReplaceAll(param, " ", ", "))
	case "email":
		return field + " must be a valid email"
	case "isodate":
		return field + " must be in ISO 8601 date format"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
