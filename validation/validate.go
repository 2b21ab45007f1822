package validation

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/kbukum/sessionauth/errors"
)

// FieldError is one entry of details.fields in an INVALID_INPUT error.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(wireName)
	return val
}

// wireName is the name a client sent the field under.
func wireName(f reflect.StructField) string {
	for _, key := range []string{"form", "json"} {
		if name, _, _ := strings.Cut(f.Tag.Get(key), ","); name != "" && name != "-" {
			return name
		}
	}
	return snake(f.Name)
}

var tagMessages = map[string]string{
	"email":       "must be a valid email address",
	"uuid":        "must be a valid UUID",
	"uuid4":       "must be a valid UUID",
	"hexadecimal": "must be hexadecimal",
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	}
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return msg
	}
	return "is invalid"
}

// Validate checks the `validate` tags of s. The first missing required
// field wins as MISSING_FIELD; other failures are collected into one
// INVALID_INPUT error.
func Validate(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var fes validator.ValidationErrors
	if !errors.As(err, &fes) {
		return apperrors.Validation("validation failed")
	}

	for _, fe := range fes {
		if fe.Tag() == "required" {
			return apperrors.MissingField(fe.Field())
		}
	}

	fields := make([]FieldError, len(fes))
	msgs := make([]string, len(fes))
	for i, fe := range fes {
		fields[i] = FieldError{Field: fe.Field(), Message: describe(fe)}
		msgs[i] = fe.Field() + ": " + fields[i].Message
	}
	return apperrors.Validation(strings.Join(msgs, "; ")).WithDetail("fields", fields)
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
