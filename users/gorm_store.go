package users

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kbukum/sessionauth/database"
	apperrors "github.com/kbukum/sessionauth/errors"
)

// GormStore keeps users in the users table. Email uniqueness is enforced
// by the unique index.
type GormStore struct {
	db *database.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore creates a store on db. The User model must be migrated.
func NewGormStore(db *database.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) AddUser(ctx context.Context, email, hashedPassword string) (*User, error) {
	u := &User{Email: email, HashedPassword: hashedPassword}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if database.IsDuplicateError(err) {
			return nil, apperrors.DuplicateEmail(email).WithCause(err)
		}
		return nil, database.FromDatabase(err, "user")
	}
	return u, nil
}

func (s *GormStore) FindUserBy(ctx context.Context, criteria Criteria) (*User, error) {
	where, err := whereClause(criteria)
	if err != nil {
		return nil, err
	}
	var u User
	if err := s.db.WithContext(ctx).Where(where).Order("created_at").First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user", "")
		}
		return nil, database.FromDatabase(err, "user")
	}
	return &u, nil
}

func (s *GormStore) Search(ctx context.Context, criteria Criteria) ([]User, error) {
	where, err := whereClause(criteria)
	if err != nil {
		return nil, err
	}
	var out []User
	if err := s.db.WithContext(ctx).Where(where).Order("created_at").Find(&out).Error; err != nil {
		return nil, database.FromDatabase(err, "user")
	}
	return out, nil
}

func (s *GormStore) UpdateUser(ctx context.Context, id string, fields Fields) error {
	if err := checkUpdate(fields); err != nil {
		return err
	}
	updates := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		val, err := normalize(v)
		if err != nil {
			return err
		}
		if val == nil {
			updates[k] = nil
			continue
		}
		updates[k] = *val
	}

	res := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if database.IsDuplicateError(res.Error) {
			email, _ := fields[FieldEmail].(string)
			return apperrors.DuplicateEmail(email).WithCause(res.Error)
		}
		return database.FromDatabase(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("user", id)
	}
	return nil
}

// whereClause converts criteria into a gorm map condition; nil values
// become IS NULL.
func whereClause(criteria Criteria) (map[string]interface{}, error) {
	if err := checkKeys(criteria); err != nil {
		return nil, err
	}
	where := make(map[string]interface{}, len(criteria))
	for k, v := range criteria {
		val, err := normalize(v)
		if err != nil {
			return nil, err
		}
		if val == nil {
			where[k] = nil
			continue
		}
		where[k] = *val
	}
	return where, nil
}
