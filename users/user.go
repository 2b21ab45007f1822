// Package users holds user accounts and the registration, login, session
// and password-reset flows built on them.
package users

import (
	"github.com/kbukum/sessionauth/database"
)

// Queryable and updatable user columns.
const (
	FieldID             = "id"
	FieldEmail          = "email"
	FieldHashedPassword = "hashed_password"
	FieldSessionID      = "session_id"
	FieldResetToken     = "reset_token"
)

var allowedFields = map[string]struct{}{
	FieldID:             {},
	FieldEmail:          {},
	FieldHashedPassword: {},
	FieldSessionID:      {},
	FieldResetToken:     {},
}

// User is a registered account. Secrets never leave the process as JSON.
type User struct {
	database.BaseModel
	Email          string  `gorm:"type:varchar(250);uniqueIndex;not null" json:"email"`
	HashedPassword string  `gorm:"type:varchar(250);not null" json:"-"`
	SessionID      *string `gorm:"type:varchar(250);index" json:"-"`
	ResetToken     *string `gorm:"type:varchar(250);index" json:"-"`
}

// TableName pins the table name.
func (User) TableName() string { return "users" }

// field returns the value of a column, nil for unset optional columns.
func (u *User) field(name string) *string {
	switch name {
	case FieldID:
		return &u.ID
	case FieldEmail:
		return &u.Email
	case FieldHashedPassword:
		return &u.HashedPassword
	case FieldSessionID:
		return u.SessionID
	case FieldResetToken:
		return u.ResetToken
	}
	return nil
}
