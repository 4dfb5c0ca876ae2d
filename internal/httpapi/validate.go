package httpapi

import (
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/eleven-am/taskboard/internal/apperr"
)

// fieldRules collects validation failures for one request. Handlers run
// their rule chain first and short-circuit with a 422 before touching the
// store.
type fieldRules struct {
	errs []apperr.FieldError
}

func (v *fieldRules) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// err returns the accumulated 422 error, or nil when every rule passed.
func (v *fieldRules) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.Validation(v.errs)
}

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
var digitPattern = regexp.MustCompile(`\d`)

func (v *fieldRules) requireEmail(field, value string) {
	if _, err := mail.ParseAddress(value); err != nil {
		v.add(field, "Please provide a valid email address")
	}
}

func (v *fieldRules) requireText(field, value string, min, max int) {
	value = strings.TrimSpace(value)
	if value == "" {
		v.add(field, field+" is required")
		return
	}
	v.textLength(field, value, min, max)
}

func (v *fieldRules) textLength(field, value string, min, max int) {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	if n < min || n > max {
		v.add(field, field+" must be between "+strconv.Itoa(min)+" and "+strconv.Itoa(max)+" characters")
	}
}

func (v *fieldRules) optionalText(field string, value *string, max int) {
	if value == nil {
		return
	}
	if utf8.RuneCountInString(strings.TrimSpace(*value)) > max {
		v.add(field, field+" cannot exceed "+strconv.Itoa(max)+" characters")
	}
}

func (v *fieldRules) requirePassword(field, value string, minLength int) {
	if utf8.RuneCountInString(value) < minLength {
		v.add(field, "Password must be at least "+strconv.Itoa(minLength)+" characters long")
		return
	}
	if !digitPattern.MatchString(value) {
		v.add(field, "Password must contain at least one number")
	}
}

func (v *fieldRules) hexColor(field string, value *string) {
	if value == nil || *value == "" {
		return
	}
	if !hexColorPattern.MatchString(*value) {
		v.add(field, "Color must be a valid hex color (e.g., #6366f1)")
	}
}

func (v *fieldRules) requireUUID(field, value string) {
	if _, err := uuid.Parse(value); err != nil {
		v.add(field, "Invalid "+field+" format")
	}
}

func (v *fieldRules) optionalUUID(field string, value *string) {
	if value == nil || *value == "" {
		return
	}
	v.requireUUID(field, *value)
}

func (v *fieldRules) oneOf(field string, value *string, allowed func(string) bool, message string) {
	if value == nil || *value == "" {
		return
	}
	if !allowed(*value) {
		v.add(field, message)
	}
}
