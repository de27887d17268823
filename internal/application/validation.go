package application

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/example/study-planner/internal/scheduler"
)

const (
	notBlankTag = "notblank"
	paletteTag  = "palette"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation(paletteTag, func(fl validator.FieldLevel) bool {
		return slices.Contains(Palette, strings.ToUpper(fl.Field().String()))
	})
	return v
}

// validationStage is one step of form validation. A stage returns nil or an empty
// ValidationError to let the next stage run.
type validationStage func() *ValidationError

// runStages runs stages in order and reports the first one that fails, so a form with
// a blank title and a bad range is always rejected as a missing field.
func runStages(stages ...validationStage) *ValidationError {
	for _, stage := range stages {
		if vErr := stage(); vErr.HasErrors() {
			return vErr
		}
	}
	return nil
}

// requiredFields checks the validate tags of input. Every failing field is reported
// as a missing field; extra lets the caller add parse failures found in the same pass.
func requiredFields(input any, extra func(vErr *ValidationError)) *ValidationError {
	vErr := &ValidationError{Kind: KindMissingField}
	if err := validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			vErr.add("form", err.Error())
			return vErr
		}
		for _, fe := range fieldErrs {
			vErr.add(fe.Field(), fieldMessage(fe))
		}
	}
	if extra != nil {
		parsed := &ValidationError{}
		extra(parsed)
		vErr.merge(parsed)
	}
	return vErr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", notBlankTag, "required_if", "required_with":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case paletteTag:
		return fmt.Sprintf("%s must be a palette color", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// timeRange checks start < end.
func timeRange(start, end scheduler.DecimalTime) *ValidationError {
	if start < end {
		return nil
	}
	vErr := &ValidationError{Kind: KindInvalidRange}
	vErr.add("end", "end must be after start")
	return vErr
}

// timeConflict checks candidate against existing entries of the same scope.
func timeConflict(candidate scheduler.TimeInterval, existing []scheduler.TimeInterval, excludeID string) *ValidationError {
	other, found := scheduler.FindConflict(candidate, existing, excludeID)
	if !found {
		return nil
	}
	vErr := &ValidationError{Kind: KindTimeConflict, ConflictID: other.ID}
	vErr.add("start", fmt.Sprintf("overlaps %s-%s", other.Start, other.End))
	return vErr
}

// parseCalendarDate accepts dd/mm/yyyy and yyyy-mm-dd and returns the civil date at
// midnight UTC.
func parseCalendarDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"02/01/2006", "2/1/2006", "2006-01-02"} {
		if date, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// civilDate returns the calendar date of t at midnight UTC.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// inLocation returns the instant of a civil date plus a time of day in loc.
func inLocation(date time.Time, at scheduler.DecimalTime, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).Add(at.Duration())
}

func withMessage(vErr *ValidationError, message string) *ValidationError {
	if vErr != nil {
		vErr.message = message
	}
	return vErr
}
