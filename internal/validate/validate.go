// Package validate checks request structs with go-playground/validator and
// turns failures into per-field messages.
package validate

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	must(v.RegisterValidation("weekday", isWeekday))
	must(v.RegisterValidation("clock", isClock))
	must(v.RegisterValidation("isodate", isISODate))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

func isWeekday(fl validator.FieldLevel) bool {
	return weekdays[strings.ToLower(fl.Field().String())]
}

// isClock accepts 24-hour HH:MM.
func isClock(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	_, err := time.Parse("15:04", s)
	return err == nil && len(s) == 5
}

func isISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return newError(verrs)
		}
		return err
	}
	return nil
}

// Error carries a message per failing field.
type Error struct {
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, m := range e.Fields {
		msgs = append(msgs, m)
	}
	slices.Sort(msgs)
	return e.Message + ": " + strings.Join(msgs, "; ")
}

// Fieldf builds a single-field validation error for checks tags cannot
// express.
func Fieldf(field, format string, args ...any) *Error {
	return &Error{Message: "validation failed", Fields: map[string]string{field: fmt.Sprintf(format, args...)}}
}

func newError(errs validator.ValidationErrors) *Error {
	fields := make(map[string]string, len(errs))
	for _, err := range errs {
		field := err.Field()
		switch err.Tag() {
		case "required":
			fields[field] = fmt.Sprintf("%s is required", field)
		case "min":
			fields[field] = fmt.Sprintf("%s must be at least %s", field, err.Param())
		case "max":
			fields[field] = fmt.Sprintf("%s must be at most %s", field, err.Param())
		case "gte":
			fields[field] = fmt.Sprintf("%s must be greater than or equal to %s", field, err.Param())
		case "lte":
			fields[field] = fmt.Sprintf("%s must be less than or equal to %s", field, err.Param())
		case "oneof":
			fields[field] = fmt.Sprintf("%s must be one of: %s", field, err.Param())
		case "weekday":
			fields[field] = fmt.Sprintf("%s must be a day of the week", field)
		case "clock":
			fields[field] = fmt.Sprintf("%s must be a time as HH:MM", field)
		case "isodate":
			fields[field] = fmt.Sprintf("%s must be a date as YYYY-MM-DD", field)
		default:
			fields[field] = fmt.Sprintf("%s validation failed on '%s' tag", field, err.Tag())
		}
	}
	return &Error{Message: "validation failed", Fields: fields}
}

// IsError reports whether err is a validation failure.
func IsError(err error) bool {
	var verr *Error
	return errors.As(err, &verr)
}

// Fields extracts the per-field messages from a validation failure.
func Fields(err error) map[string]string {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}
