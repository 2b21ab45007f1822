package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kbukum/sessionauth/logger"
)

var gormLevels = map[string]gormlogger.LogLevel{
	"silent": gormlogger.Silent,
	"error":  gormlogger.Error,
	"warn":   gormlogger.Warn,
	"info":   gormlogger.Info,
}

func parseLogLevel(level string) gormlogger.LogLevel {
	if l, ok := gormLevels[level]; ok {
		return l
	}
	return gormlogger.Warn
}

// queryLogger routes gorm output through the service logger. Query text
// is only emitted at debug level.
type queryLogger struct {
	log   *logger.Logger
	level gormlogger.LogLevel
	slow  time.Duration
}

func newGormLogger(log *logger.Logger, slow time.Duration, level gormlogger.LogLevel) gormlogger.Interface {
	return queryLogger{log: log.WithComponent("gorm"), level: level, slow: slow}
}

func (q queryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	q.level = level
	return q
}

func (q queryLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if q.level >= gormlogger.Info {
		q.log.WithContext(ctx).Info(fmt.Sprintf(msg, args...))
	}
}

func (q queryLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if q.level >= gormlogger.Warn {
		q.log.WithContext(ctx).Warn(fmt.Sprintf(msg, args...))
	}
}

func (q queryLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if q.level >= gormlogger.Error {
		q.log.WithContext(ctx).Error(fmt.Sprintf(msg, args...))
	}
}

// expected reports errors the stores treat as normal results: a missing
// row or a unique-index hit on registration.
func expected(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || IsDuplicateError(err)
}

func (q queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if q.level == gormlogger.Silent {
		return
	}
	took := time.Since(begin)
	stmt, rows := fc()
	fields := logger.Fields("sql", stmt, "rows", rows, "duration", took.String())
	log := q.log.WithContext(ctx)

	if err != nil && !expected(err) {
		if q.level >= gormlogger.Error {
			fields["error"] = err.Error()
			log.Error("Query failed", fields)
		}
		return
	}
	if q.slow > 0 && took > q.slow {
		if q.level >= gormlogger.Warn {
			log.Warn("Slow query", fields)
		}
		return
	}
	if q.level >= gormlogger.Info {
		log.Debug("Query", fields)
	}
}
