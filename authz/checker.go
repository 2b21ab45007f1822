package authz

// Checker decides whether a request path needs authentication.
type Checker interface {
	RequiresAuth(path string) bool
}

// CheckerFunc is an adapter to use ordinary functions as Checker.
type CheckerFunc func(path string) bool

// RequiresAuth implements Checker.
func (f CheckerFunc) RequiresAuth(path string) bool {
	return f(path)
}

// PathMatcher is a Checker over exemption rules compiled once at startup.
// Rules are evaluated in declaration order; the first match exempts the path.
type PathMatcher struct {
	rules []Rule
}

// NewPathMatcher compiles the excluded patterns. Empty patterns are skipped.
//
//	m := authz.NewPathMatcher([]string{"/api/v1/status/", "/api/v1/auth_session/*"})
//	m.RequiresAuth("/api/v1/status")            // false
//	m.RequiresAuth("/api/v1/auth_session/login") // false
//	m.RequiresAuth("/api/v1/users")             // true
func NewPathMatcher(excluded []string) *PathMatcher {
	m := &PathMatcher{rules: make([]Rule, 0, len(excluded))}
	for _, p := range excluded {
		if p == "" {
			continue
		}
		m.rules = append(m.rules, CompileRule(p))
	}
	return m
}

// RequiresAuth implements Checker.
func (m *PathMatcher) RequiresAuth(path string) bool {
	if path == "" || m == nil || len(m.rules) == 0 {
		return true
	}
	path = Normalize(path)
	for _, r := range m.rules {
		if r.Matches(path) {
			return false
		}
	}
	return true
}

// Rules returns a copy of the compiled rules.
func (m *PathMatcher) Rules() []Rule {
	out := make([]Rule, len(m.rules))
	copy(out, m.rules)
	return out
}
