package session

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/kbukum/sessionauth/database"
)

// UserSession is the persisted form of a Record.
type UserSession struct {
	SessionID string    `gorm:"type:varchar(36);primaryKey"`
	UserID    string    `gorm:"type:varchar(36);index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName pins the table name.
func (UserSession) TableName() string { return "user_sessions" }

func (s UserSession) record() Record {
	return Record{SessionID: s.SessionID, UserID: s.UserID, CreatedAt: s.CreatedAt}
}

// DBRegistry stores sessions in the user_sessions table so they survive
// restarts and are shared between instances.
type DBRegistry struct {
	db  *database.DB
	now func() time.Time
}

var _ Registry = (*DBRegistry)(nil)

// NewDBRegistry creates a registry on db. The UserSession model must be migrated.
func NewDBRegistry(db *database.DB) *DBRegistry {
	return &DBRegistry{db: db, now: time.Now}
}

func (r *DBRegistry) Put(ctx context.Context, sessionID string, rec Record) error {
	rec = prepare(sessionID, rec, r.now)
	row := UserSession{SessionID: rec.SessionID, UserID: rec.UserID, CreatedAt: rec.CreatedAt}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
	if err != nil {
		return database.FromDatabase(err, "session")
	}
	return nil
}

func (r *DBRegistry) Get(ctx context.Context, sessionID string) (*Record, error) {
	var rows []UserSession
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Limit(1).Find(&rows).Error; err != nil {
		return nil, database.FromDatabase(err, "session")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	rec := rows[0].record()
	return &rec, nil
}

func (r *DBRegistry) Delete(ctx context.Context, sessionID string) error {
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&UserSession{}).Error; err != nil {
		return database.FromDatabase(err, "session")
	}
	return nil
}

func (r *DBRegistry) FindByField(ctx context.Context, field, value string) ([]Record, error) {
	if err := checkField(field); err != nil {
		return nil, err
	}
	var rows []UserSession
	if err := r.db.WithContext(ctx).Where(clause.Eq{Column: clause.Column{Name: field}, Value: value}).Find(&rows).Error; err != nil {
		return nil, database.FromDatabase(err, "session")
	}
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.record())
	}
	return out, nil
}
