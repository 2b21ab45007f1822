package logger

import (
	"regexp"
	"strings"
)

// FilterDatum masks the value of each named field in a "key=value<sep>" log
// message. Only values up to the next separator are replaced.
//
//	FilterDatum([]string{"password"}, "***", "name=bob;password=hunter2;", ";")
//	// name=bob;password=***;
func FilterDatum(fields []string, redaction, message, separator string) string {
	for _, f := range fields {
		message = datumPattern(f, separator).ReplaceAllLiteralString(message, f+"="+redaction+separator)
	}
	return message
}

func datumPattern(field, separator string) *regexp.Regexp {
	sep := regexp.QuoteMeta(separator)
	return regexp.MustCompile(regexp.QuoteMeta(field) + "=[^" + sep + "]*" + sep)
}

// redactor masks configured keys in field maps and "key=value;" pairs in
// messages. A nil redactor passes everything through.
type redactor struct {
	keys      map[string]struct{}
	patterns  []*regexp.Regexp
	fields    []string
	redaction string
	separator string
}

func newRedactor(cfg *Config) *redactor {
	if cfg.DisableRedaction || len(cfg.RedactFields) == 0 {
		return nil
	}
	r := &redactor{
		keys:      make(map[string]struct{}, len(cfg.RedactFields)),
		redaction: cfg.Redaction,
		separator: cfg.Separator,
	}
	if r.redaction == "" {
		r.redaction = DefaultRedaction
	}
	if r.separator == "" {
		r.separator = DefaultSeparator
	}
	for _, k := range cfg.RedactFields {
		r.keys[strings.ToLower(k)] = struct{}{}
		r.fields = append(r.fields, k)
		r.patterns = append(r.patterns, datumPattern(k, r.separator))
	}
	return r
}

func (r *redactor) value(key string, v interface{}) interface{} {
	if r == nil {
		return v
	}
	if _, ok := r.keys[strings.ToLower(key)]; ok {
		return r.redaction
	}
	return v
}

// message applies FilterDatum with the precompiled patterns.
func (r *redactor) message(msg string) string {
	if r == nil || !strings.Contains(msg, "=") {
		return msg
	}
	for i, re := range r.patterns {
		msg = re.ReplaceAllLiteralString(msg, r.fields[i]+"="+r.redaction+r.separator)
	}
	return msg
}
