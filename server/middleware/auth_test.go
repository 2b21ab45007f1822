package middleware_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/sessionauth/auth"
	"github.com/kbukum/sessionauth/auth/password"
	"github.com/kbukum/sessionauth/authz"
	"github.com/kbukum/sessionauth/logger"
	"github.com/kbukum/sessionauth/server/middleware"
	"github.com/kbukum/sessionauth/session"
	"github.com/kbukum/sessionauth/users"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type authFixture struct {
	engine *gin.Engine
	sid    string
}

func newAuthFixture(t *testing.T, strategy func(users.Store, password.Hasher, *logger.Logger) auth.Strategy) *authFixture {
	t.Helper()
	log := logger.NewDefault("test")
	store := users.NewMemoryStore()
	hasher := password.NewBcryptHasher(password.WithCost(4))
	if _, err := users.NewService(store, hasher, log).RegisterUser(context.Background(), "bob@hbtn.io", "pw"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	s := strategy(store, hasher, log)
	f := &authFixture{engine: gin.New()}
	if ss, ok := s.(auth.SessionStrategy); ok {
		u, _ := store.FindUserBy(context.Background(), users.Criteria{users.FieldEmail: "bob@hbtn.io"})
		sid, err := ss.CreateSession(context.Background(), u.ID)
		if err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
		f.sid = sid
	}

	api := f.engine.Group("/api/v1")
	api.Use(middleware.Auth(middleware.AuthConfig{
		Strategy: s,
		Checker:  authz.NewPathMatcher([]string{"/api/v1/status/", "/api/v1/public/*"}),
		Logger:   log,
	}))
	api.GET("/status", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "OK"}) })
	api.GET("/public/info", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })
	api.GET("/users/me", func(c *gin.Context) {
		u, ok := middleware.CurrentUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": u.Email, "id": c.GetString(middleware.UserIDKey)})
	})
	return f
}

func (f *authFixture) do(path string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	if mutate != nil {
		mutate(req)
	}
	rr := httptest.NewRecorder()
	f.engine.ServeHTTP(rr, req)
	return rr
}

func withHeader(v string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", v) }
}

func withCookie(name, v string) func(*http.Request) {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: name, Value: v}) }
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rr.Body.String(), err)
	}
	return body["error"]
}

func TestAuth_Basic(t *testing.T) {
	f := newAuthFixture(t, func(s users.Store, h password.Hasher, l *logger.Logger) auth.Strategy {
		return auth.NewBasicAuth(s, h, l)
	})
	good := "Basic " + base64.StdEncoding.EncodeToString([]byte("bob@hbtn.io:pw"))
	bad := "Basic " + base64.StdEncoding.EncodeToString([]byte("bob@hbtn.io:nope"))

	tests := []struct {
		name   string
		path   string
		mutate func(*http.Request)
		code   int
		err    string
	}{
		{"exempt exact", "/api/v1/status", nil, http.StatusOK, ""},
		{"exempt prefix", "/api/v1/public/info", nil, http.StatusOK, ""},
		{"no credential", "/api/v1/users/me", nil, http.StatusUnauthorized, "Unauthorized"},
		{"bad credential", "/api/v1/users/me", withHeader(bad), http.StatusForbidden, "Forbidden"},
		{"malformed header", "/api/v1/users/me", withHeader("Basic %%%"), http.StatusForbidden, "Forbidden"},
		{"good credential", "/api/v1/users/me", withHeader(good), http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := f.do(tt.path, tt.mutate)
			if rr.Code != tt.code {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tt.code, rr.Body.String())
			}
			if tt.err != "" && errorBody(t, rr) != tt.err {
				t.Errorf("error = %q, want %q", errorBody(t, rr), tt.err)
			}
		})
	}
}

func TestAuth_Session(t *testing.T) {
	f := newAuthFixture(t, func(s users.Store, _ password.Hasher, l *logger.Logger) auth.Strategy {
		return auth.NewSessionAuth("_my_session_id", session.NewMemoryRegistry(), s, l)
	})

	if rr := f.do("/api/v1/users/me", nil); rr.Code != http.StatusUnauthorized {
		t.Errorf("no cookie: status = %d, want 401", rr.Code)
	}
	if rr := f.do("/api/v1/users/me", withCookie("_my_session_id", "stale")); rr.Code != http.StatusForbidden {
		t.Errorf("unknown session: status = %d, want 403", rr.Code)
	}
	rr := f.do("/api/v1/users/me", withCookie("_my_session_id", f.sid))
	if rr.Code != http.StatusOK {
		t.Fatalf("live session: status = %d, want 200", rr.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rr.Body.Bytes(), &body)
	if body["email"] != "bob@hbtn.io" || body["id"] == "" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestAuth_NullRejectsEverything(t *testing.T) {
	f := newAuthFixture(t, func(users.Store, password.Hasher, *logger.Logger) auth.Strategy {
		return auth.NullAuth{}
	})
	if rr := f.do("/api/v1/users/me", withHeader("Basic abc")); rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rr.Code)
	}
	if rr := f.do("/api/v1/status", nil); rr.Code != http.StatusOK {
		t.Errorf("exempt path status = %d, want 200", rr.Code)
	}
}
