// Package database opens the GORM connection used by the credential store
// and the database-backed session registry.
//
// The dialector is chosen by Config.Driver: "sqlite" (default, file or
// ":memory:") or "postgres" (pgx). Errors are translated by gorm so that
// unique violations surface as gorm.ErrDuplicatedKey, and FromDatabase maps
// the rest onto the application error taxonomy.
//
//	db, err := database.Open(ctx, database.Config{DSN: ":memory:"}, log)
//	err = db.AutoMigrate(&users.User{})
package database
