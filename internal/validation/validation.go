// Package validation collects form errors as field -> message code.
package validation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Date layouts accepted from HTML forms.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records code for field unless the field already has a violation.
func (v Violations) Add(field, code string) {
	if _, exists := v[field]; !exists {
		v[field] = code
	}
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "required")
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v.Add(field, "must_be_positive")
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v.Add(field, "out_of_range")
	}
}

// OneOf records invalid_choice when value is not in allowed.
func OneOf(field, value string, allowed []string, v Violations) {
	for _, a := range allowed {
		if a == value {
			return
		}
	}
	v.Add(field, "invalid_choice")
}

// Date parses a YYYY-MM-DD value. Empty input yields nil.
func Date(field, value string, v Violations) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	t, err := time.ParseInLocation(DateLayout, value, time.Local)
	if err != nil {
		v.Add(field, "invalid_date")
		return nil
	}
	return &t
}

// RequiredDate is Date with the field mandatory.
func RequiredDate(field, value string, v Violations) time.Time {
	Required(field, value, v)
	if t := Date(field, value, v); t != nil {
		return *t
	}
	return time.Time{}
}

// DateTime parses a YYYY-MM-DDTHH:MM value from a datetime-local input.
func DateTime(field, value string, v Violations) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		v.Add(field, "required")
		return time.Time{}
	}
	t, err := time.ParseInLocation(DateTimeLayout, value, time.Local)
	if err != nil {
		v.Add(field, "invalid_date")
		return time.Time{}
	}
	return t
}

// Float parses a decimal number, accepting a comma as decimal separator.
// Empty input yields nil.
func Float(field, value string, v Violations) *float64 {
	value = strings.TrimSpace(strings.ReplaceAll(value, ",", "."))
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		v.Add(field, "invalid_number")
		return nil
	}
	return &f
}

// ID parses an optional positive identifier. Empty input yields nil.
func ID(field, value string, v Violations) *uint {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil || n == 0 {
		v.Add(field, "invalid_choice")
		return nil
	}
	id := uint(n)
	return &id
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report form field names rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct runs `validate` tags on s and merges failures into v.
func Struct(s any, v Violations) {
	err := validate.Struct(s)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		v.Add("_form", "invalid")
		return
	}
	for _, fe := range fieldErrs {
		v.Add(fe.Field(), codeFor(fe))
	}
}

func codeFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "email":
		return "invalid_email"
	case "oneof":
		return "invalid_choice"
	case "gt", "gte":
		return "must_be_positive"
	case "min":
		return "too_short"
	case "max":
		return "too_long"
	default:
		return "invalid"
	}
}
