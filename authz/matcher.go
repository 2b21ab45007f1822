package authz

import "strings"

// Wildcard marks the end of a prefix rule: "/api/v1/stat*" exempts every
// path that starts with "/api/v1/stat".
const Wildcard = "*"

// Rule is a single compiled exemption rule.
type Rule struct {
	// Pattern is the normalized pattern (trailing "/" for exact rules,
	// the text before the first "*" for prefix rules).
	Pattern string
	// WildcardPrefix is true when the rule compares prefixes only.
	WildcardPrefix bool
}

// Matches reports whether the normalized path falls under the rule.
func (r Rule) Matches(path string) bool {
	if r.WildcardPrefix {
		return strings.HasPrefix(path, r.Pattern)
	}
	return path == r.Pattern
}

// CompileRule turns a configured pattern into a Rule. Exact patterns are
// normalized, so "/api/v1/status" also exempts "/api/v1/status/".
func CompileRule(pattern string) Rule {
	if i := strings.Index(pattern, Wildcard); i >= 0 {
		return Rule{Pattern: pattern[:i], WildcardPrefix: true}
	}
	return Rule{Pattern: Normalize(pattern)}
}

// Normalize appends a trailing "/" unless the path already ends with one,
// so "/api/v1/status" and "/api/v1/status/" are the same path.
func Normalize(path string) string {
	if strings.HasSuffix(path, "/") {
		return path
	}
	return path + "/"
}

// RequiresAuth reports whether path must be authenticated given the
// excluded patterns. It fails closed: an empty path or an empty rule set
// always requires authentication.
func RequiresAuth(path string, excluded []string) bool {
	return NewPathMatcher(excluded).RequiresAuth(path)
}
