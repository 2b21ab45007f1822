package server

import (
	"path"
	"slices"
	"strings"
)

// Route is one registered route, with a short handler name.
type Route struct {
	Method  string
	Path    string
	Handler string
}

var (
	systemPaths = []string{"/health", "/info", "/metrics"}
	methodRank  = map[string]int{"GET": 0, "POST": 1, "PUT": 2, "PATCH": 3, "DELETE": 4}
)

func rank(method string) int {
	if r, ok := methodRank[method]; ok {
		return r
	}
	return len(methodRank)
}

// Routes lists registered routes by path, system endpoints last.
func (s *Server) Routes() []Route {
	var routes []Route
	for _, r := range s.engine.Routes() {
		routes = append(routes, Route{Method: r.Method, Path: r.Path, Handler: handlerName(r.Handler)})
	}
	slices.SortFunc(routes, func(a, b Route) int {
		as, bs := slices.Contains(systemPaths, a.Path), slices.Contains(systemPaths, b.Path)
		switch {
		case as != bs && as:
			return 1
		case as != bs:
			return -1
		case a.Path != b.Path:
			return strings.Compare(a.Path, b.Path)
		}
		return rank(a.Method) - rank(b.Method)
	})
	return routes
}

// LogRoutes writes the route table at debug level.
func (s *Server) LogRoutes() {
	for _, r := range s.Routes() {
		s.log.Debug("Route", map[string]interface{}{"method": r.Method, "path": r.Path, "handler": r.Handler})
	}
}

// handlerName shortens gin's "example.com/x/api.(*Handlers).Login-fm" to
// "Handlers.Login" and closures like "endpoint.Health.func1" to "health".
func handlerName(full string) string {
	name := path.Base(strings.TrimSuffix(full, "-fm"))
	name = strings.NewReplacer("(*", "", ")", "").Replace(name)
	parts := strings.Split(name, ".")

	if strings.HasPrefix(parts[len(parts)-1], "func") {
		for i := len(parts) - 1; i >= 0; i-- {
			if !strings.HasPrefix(parts[i], "func") {
				return strings.ToLower(parts[i])
			}
		}
	}
	if len(parts) > 1 && strings.ToLower(parts[0]) == parts[0] {
		parts = parts[1:]
	}
	return strings.Join(parts, ".")
}
