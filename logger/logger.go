package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a zerolog logger that redacts PII before writing.
type Logger struct {
	zl      zerolog.Logger
	service string
	redact  *redactor
}

var global *Logger

// Init configures the global logger and zerolog's global level.
func Init(cfg Config) {
	cfg.ApplyDefaults()
	global = New(&cfg, "")
	if isConsole(cfg.Format) {
		log.Logger = consoleLogger(&cfg, outputWriter(cfg.Output))
	}
}

// Global returns the logger set by Init, or a console logger before Init.
func Global() *Logger {
	if global == nil {
		global = NewDefault("")
	}
	return global
}

// New creates a logger writing to cfg.Output.
func New(cfg *Config, service string) *Logger {
	return NewWithWriter(cfg, service, outputWriter(cfg.Output))
}

// NewWithWriter creates a logger writing to w. An unknown level falls back
// to info.
func NewWithWriter(cfg *Config, service string, w io.Writer) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var zl zerolog.Logger
	if isConsole(cfg.Format) {
		zl = consoleLogger(cfg, w)
	} else {
		zl = zerolog.New(w)
		if cfg.Timestamp {
			zl = zl.With().Timestamp().Logger()
		}
	}
	if cfg.Caller {
		zl = zl.With().Caller().Logger()
	}
	if service != "" {
		zl = zl.With().Str("service", service).Logger()
	}
	return &Logger{zl: zl, service: service, redact: newRedactor(cfg)}
}

// NewDefault creates a console logger at info level.
func NewDefault(service string) *Logger {
	cfg := &Config{Format: "console"}
	cfg.ApplyDefaults()
	return New(cfg, service)
}

type contextKey string

// ContextWithRequestID stores a request id for WithContext.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey(FieldRequestID), id)
}

// ContextWithUserID stores the authenticated user id for WithContext.
func ContextWithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey(FieldUserID), id)
}

// WithContext tags the logger with the ids stored in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	zc := l.zl.With()
	for _, key := range []string{FieldTraceID, FieldSpanID, FieldRequestID, FieldUserID} {
		if v, ok := ctx.Value(contextKey(key)).(string); ok && v != "" {
			zc = zc.Str(key, v)
		}
	}
	return l.derive(zc.Logger())
}

// WithComponent tags the logger with a component name. A nil receiver
// derives from Global.
func (l *Logger) WithComponent(name string) *Logger {
	if l == nil {
		l = Global()
	}
	return l.derive(l.zl.With().Str(FieldComponent, name).Logger())
}

// WithFields attaches fields to every line, redacting as Info does.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	zc := l.zl.With()
	for k, v := range fields {
		zc = zc.Interface(k, l.redact.value(k, v))
	}
	return l.derive(zc.Logger())
}

func (l *Logger) derive(zl zerolog.Logger) *Logger {
	return &Logger{zl: zl, service: l.service, redact: l.redact}
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.write(l.zl.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.write(l.zl.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.write(l.zl.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.write(l.zl.Error(), msg, fields)
}

func (l *Logger) write(e *zerolog.Event, msg string, fields []map[string]interface{}) {
	if e == nil {
		return
	}
	for _, fm := range fields {
		for k, v := range fm {
			e.Interface(k, l.redact.value(k, v))
		}
	}
	e.Msg(l.redact.message(msg))
}

// Package-level helpers log through Global.

func Debug(msg string, fields ...map[string]interface{}) { Global().Debug(msg, fields...) }
func Info(msg string, fields ...map[string]interface{})  { Global().Info(msg, fields...) }
func Warn(msg string, fields ...map[string]interface{})  { Global().Warn(msg, fields...) }
func Error(msg string, fields ...map[string]interface{}) { Global().Error(msg, fields...) }

func isConsole(format string) bool {
	switch strings.ToLower(format) {
	case "console", "pretty", "text":
		return true
	}
	return false
}

func outputWriter(output string) io.Writer {
	if strings.EqualFold(output, "stderr") {
		return os.Stderr
	}
	return os.Stdout
}

var levelTags = map[string][2]string{
	"debug": {"DBG", "36"},
	"info":  {"INF", "32"},
	"warn":  {"WRN", "33"},
	"error": {"ERR", "31"},
	"fatal": {"FTL", "35"},
}

func consoleLogger(cfg *Config, w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    cfg.NoColor,
		FormatLevel: func(i interface{}) string {
			lvl, _ := i.(string)
			tag, ok := levelTags[lvl]
			switch {
			case !ok:
				return "[" + strings.ToUpper(lvl) + "]"
			case cfg.NoColor:
				return "[" + tag[0] + "]"
			}
			return fmt.Sprintf("\033[%sm[%s]\033[0m", tag[1], tag[0])
		},
		FormatFieldName: func(i interface{}) string { return fmt.Sprintf("%s:", i) },
	}).With().Timestamp().Logger()
}
