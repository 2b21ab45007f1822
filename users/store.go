package users

import (
	"context"
	"fmt"
	"sort"

	apperrors "github.com/kbukum/sessionauth/errors"
)

// Criteria selects users by column. Values are strings, *string or nil
// (matching an unset column).
type Criteria map[string]interface{}

// Fields lists column updates. A nil value clears an optional column.
type Fields map[string]interface{}

// Store persists users.
type Store interface {
	// AddUser inserts a user and fails with DUPLICATE_EMAIL if the email is taken.
	AddUser(ctx context.Context, email, hashedPassword string) (*User, error)
	// FindUserBy returns the first user matching every criterion.
	FindUserBy(ctx context.Context, criteria Criteria) (*User, error)
	// Search returns all users matching every criterion.
	Search(ctx context.Context, criteria Criteria) ([]User, error)
	// UpdateUser applies fields to the user with the given id.
	UpdateUser(ctx context.Context, id string, fields Fields) error
}

// checkKeys rejects empty or unknown column sets.
func checkKeys[M ~map[string]interface{}](m M) error {
	if len(m) == 0 {
		return apperrors.InvalidCriteria()
	}
	var unknown []string
	for k := range m {
		if _, ok := allowedFields[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return apperrors.InvalidCriteria(unknown...)
	}
	return nil
}

func checkUpdate(fields Fields) error {
	if err := checkKeys(fields); err != nil {
		return err
	}
	if _, ok := fields[FieldID]; ok {
		return apperrors.InvalidCriteria(FieldID)
	}
	for k, v := range fields {
		if v == nil && (k == FieldEmail || k == FieldHashedPassword) {
			return apperrors.InvalidInput(k, "cannot be null")
		}
	}
	return nil
}

// normalize turns a criterion or field value into *string.
func normalize(v interface{}) (*string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return &val, nil
	case *string:
		return val, nil
	default:
		return nil, apperrors.InvalidInput("value", fmt.Sprintf("unsupported type %T", v))
	}
}
