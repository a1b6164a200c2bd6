package services

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ValidationError содержит ошибки по полям; errors.Is(err, ErrValidationFailed) == true.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

type validator struct {
	fields map[string]string
}

func newValidator() *validator {
	return &validator{fields: make(map[string]string)}
}

func (v *validator) check(ok bool, field, message string) {
	if !ok {
		if _, exists := v.fields[field]; !exists {
			v.fields[field] = message
		}
	}
}

func (v *validator) length(value, field string, min, max int) {
	n := utf8.RuneCountInString(value)
	v.check(n >= min && n <= max, field, lengthMessage(min, max))
}

func (v *validator) optionalLength(value *string, field string, max int) {
	if value != nil {
		v.length(*value, field, 0, max)
	}
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}

func lengthMessage(min, max int) string {
	if min > 0 {
		return "must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max) + " characters"
	}
	return "must not exceed " + strconv.Itoa(max) + " characters"
}

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// NormalizePhone проверяет номер в формате E.164 и добавляет ведущий "+".
func NormalizePhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if !phonePattern.MatchString(phone) {
		return "", ErrInvalidPhoneNumber
	}
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}
	return phone, nil
}

var timeEndedPattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
