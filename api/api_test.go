package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/sessionauth/auth"
	"github.com/kbukum/sessionauth/auth/jwt"
	"github.com/kbukum/sessionauth/auth/password"
	"github.com/kbukum/sessionauth/authz"
	"github.com/kbukum/sessionauth/session"
	"github.com/kbukum/sessionauth/testutil"
	"github.com/kbukum/sessionauth/users"
)

type fixture struct {
	t      *testing.T
	engine *gin.Engine
	svc    *users.Service
}

func newFixture(t *testing.T, authType auth.Type) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := testutil.NewLogger(t)

	db := testutil.NewDB(t, &users.User{}, &session.UserSession{})
	hasher := password.NewBcryptHasher(password.WithCost(4))
	svc := users.NewService(users.NewGormStore(db), hasher, log)

	cfg := auth.Config{Type: authType, SessionName: "_my_session_id", JWT: &jwt.Config{Secret: "test-secret"}}
	cfg.ApplyDefaults()
	tokens, err := auth.NewTokenService(cfg.JWT)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	strategies := auth.Build(cfg, auth.Deps{
		Users:      svc.Store(),
		Hasher:     hasher,
		Sessions:   session.NewMemoryRegistry(),
		DBSessions: session.NewDBRegistry(db),
		Tokens:     tokens,
		Logger:     log,
	})

	h := New(Config{
		Users:       svc,
		Strategies:  strategies,
		Checker:     authz.NewPathMatcher(cfg.ExcludedPaths),
		SessionName: cfg.SessionName,
		Logger:      log,
	})
	engine := gin.New()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h.Register(ctx, engine)
	return &fixture{t: t, engine: engine, svc: svc}
}

type request struct {
	method string
	path   string
	form   url.Values
	cookie *http.Cookie
	header string
}

func (f *fixture) do(r request) *httptest.ResponseRecorder {
	f.t.Helper()
	var body *strings.Reader
	if r.form != nil {
		body = strings.NewReader(r.form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if r.cookie != nil {
		req.AddCookie(r.cookie)
	}
	if r.header != "" {
		req.Header.Set("Authorization", r.header)
	}
	rr := httptest.NewRecorder()
	f.engine.ServeHTTP(rr, req)
	return rr
}

func (f *fixture) register(email, pw string) {
	f.t.Helper()
	if _, err := f.svc.RegisterUser(context.Background(), email, pw); err != nil {
		f.t.Fatalf("RegisterUser: %v", err)
	}
}

func cookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON %q: %v", rr.Body.String(), err)
	}
	return body
}

func creds(email, pw string) url.Values {
	return url.Values{"email": {email}, "password": {pw}}
}

func TestWelcome(t *testing.T) {
	f := newFixture(t, auth.TypeNone)
	rr := f.do(request{method: http.MethodGet, path: "/"})
	if rr.Code != http.StatusOK || decode(t, rr)["message"] != "Bienvenue" {
		t.Fatalf("unexpected response %d %s", rr.Code, rr.Body.String())
	}
}

func TestRegisterUser(t *testing.T) {
	f := newFixture(t, auth.TypeNone)

	rr := f.do(request{method: http.MethodPost, path: "/users", form: creds("a@x.com", "pw1")})
	if rr.Code != http.StatusOK {
		t.Fatalf("first register: %d %s", rr.Code, rr.Body.String())
	}
	if body := decode(t, rr); body["email"] != "a@x.com" || body["message"] != "user created" {
		t.Errorf("unexpected body %v", body)
	}

	rr = f.do(request{method: http.MethodPost, path: "/users", form: creds("a@x.com", "pw1")})
	if rr.Code != http.StatusBadRequest || decode(t, rr)["message"] != "email already registered" {
		t.Errorf("duplicate register: %d %s", rr.Code, rr.Body.String())
	}

	rr = f.do(request{method: http.MethodPost, path: "/users", form: url.Values{"email": {"b@x.com"}}})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing password: status = %d, want 400", rr.Code)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t, auth.TypeNone)
	f.register("a@x.com", "pw1")

	rr := f.do(request{method: http.MethodPost, path: "/sessions", form: creds("a@x.com", "nope")})
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
	if c := cookie(rr, CookieName); c != nil {
		t.Errorf("no cookie expected, got %v", c)
	}
}

func TestSessionLifecycle(t *testing.T) {
	f := newFixture(t, auth.TypeNone)
	f.register("a@x.com", "pw1")

	rr := f.do(request{method: http.MethodPost, path: "/sessions", form: creds("a@x.com", "pw1")})
	if rr.Code != http.StatusOK {
		t.Fatalf("login: %d", rr.Code)
	}
	if body := decode(t, rr); body["message"] != "logged in" {
		t.Errorf("unexpected body %v", body)
	}
	sid := cookie(rr, CookieName)
	if sid == nil || sid.Value == "" {
		t.Fatal("expected session cookie")
	}

	rr = f.do(request{method: http.MethodGet, path: "/profile", cookie: sid})
	if rr.Code != http.StatusOK || decode(t, rr)["email"] != "a@x.com" {
		t.Fatalf("profile: %d %s", rr.Code, rr.Body.String())
	}

	rr = f.do(request{method: http.MethodDelete, path: "/sessions", cookie: sid})
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/" {
		t.Fatalf("logout: %d location=%q", rr.Code, rr.Header().Get("Location"))
	}

	if rr = f.do(request{method: http.MethodGet, path: "/profile", cookie: sid}); rr.Code != http.StatusForbidden {
		t.Errorf("profile after logout: %d, want 403", rr.Code)
	}
	if rr = f.do(request{method: http.MethodDelete, path: "/sessions", cookie: sid}); rr.Code != http.StatusForbidden {
		t.Errorf("second logout: %d, want 403", rr.Code)
	}
	if rr = f.do(request{method: http.MethodGet, path: "/profile"}); rr.Code != http.StatusForbidden {
		t.Errorf("profile without cookie: %d, want 403", rr.Code)
	}
}

func TestPasswordReset(t *testing.T) {
	f := newFixture(t, auth.TypeNone)
	f.register("a@x.com", "pw1")

	rr := f.do(request{method: http.MethodPost, path: "/reset_password", form: url.Values{"email": {"ghost@x.com"}}})
	if rr.Code != http.StatusForbidden {
		t.Errorf("unknown email: %d, want 403", rr.Code)
	}

	rr = f.do(request{method: http.MethodPost, path: "/reset_password", form: url.Values{"email": {"a@x.com"}}})
	if rr.Code != http.StatusOK {
		t.Fatalf("reset token: %d", rr.Code)
	}
	token, _ := decode(t, rr)["reset_token"].(string)
	if token == "" {
		t.Fatal("expected a reset token")
	}

	update := func(tok string) *httptest.ResponseRecorder {
		return f.do(request{method: http.MethodPut, path: "/update_password", form: url.Values{
			"email": {"a@x.com"}, "reset_token": {tok}, "new_password": {"pw2"},
		}})
	}
	if rr = update("wrong"); rr.Code != http.StatusForbidden {
		t.Errorf("wrong token: %d, want 403", rr.Code)
	}
	rr = update(token)
	if rr.Code != http.StatusOK || decode(t, rr)["message"] != "Password updated" {
		t.Fatalf("update: %d %s", rr.Code, rr.Body.String())
	}
	if rr = update(token); rr.Code != http.StatusForbidden {
		t.Errorf("reused token: %d, want 403", rr.Code)
	}

	if rr = f.do(request{method: http.MethodPost, path: "/sessions", form: creds("a@x.com", "pw1")}); rr.Code != http.StatusUnauthorized {
		t.Errorf("old password: %d, want 401", rr.Code)
	}
	if rr = f.do(request{method: http.MethodPost, path: "/sessions", form: creds("a@x.com", "pw2")}); rr.Code != http.StatusOK {
		t.Errorf("new password: %d, want 200", rr.Code)
	}
}

func TestAPI_ExemptRoutes(t *testing.T) {
	f := newFixture(t, auth.TypeBasic)
	tests := []struct {
		path string
		code int
	}{
		{"/api/v1/status", http.StatusOK},
		{"/api/v1/unauthorized", http.StatusUnauthorized},
		{"/api/v1/forbidden", http.StatusForbidden},
		{"/api/v1/users/me", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		if rr := f.do(request{method: http.MethodGet, path: tt.path}); rr.Code != tt.code {
			t.Errorf("%s: status = %d, want %d", tt.path, rr.Code, tt.code)
		}
	}
}

func TestAPI_BasicAuth(t *testing.T) {
	f := newFixture(t, auth.TypeBasic)
	f.register("bob@hbtn.io", "H0lberton")
	basic := func(s string) string { return "Basic " + base64.StdEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"valid", basic("bob@hbtn.io:H0lberton"), http.StatusOK},
		{"wrong password", basic("bob@hbtn.io:nope"), http.StatusForbidden},
		{"no colon", basic("bob@hbtn.io"), http.StatusForbidden},
		{"malformed base64", "Basic !!!", http.StatusForbidden},
		{"wrong scheme", "Bearer abc", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := f.do(request{method: http.MethodGet, path: "/api/v1/users/me", header: tt.header})
			if rr.Code != tt.code {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tt.code, rr.Body.String())
			}
			if tt.code == http.StatusOK {
				body := decode(t, rr)
				if body["email"] != "bob@hbtn.io" {
					t.Errorf("unexpected user %v", body)
				}
				if _, leaked := body["hashed_password"]; leaked {
					t.Error("password hash must not be serialized")
				}
			}
		})
	}
}

func TestAPI_SessionLogin(t *testing.T) {
	for _, authType := range []auth.Type{auth.TypeSession, auth.TypeSessionExp, auth.TypeSessionDB} {
		t.Run(string(authType), func(t *testing.T) {
			f := newFixture(t, authType)
			f.register("bob@hbtn.io", "pw")

			login := func(form url.Values) *httptest.ResponseRecorder {
				return f.do(request{method: http.MethodPost, path: "/api/v1/auth_session/login", form: form})
			}
			errorTests := []struct {
				form url.Values
				code int
				msg  string
			}{
				{url.Values{}, http.StatusBadRequest, "email missing"},
				{url.Values{"email": {"bob@hbtn.io"}}, http.StatusBadRequest, "password missing"},
				{creds("ghost@hbtn.io", "pw"), http.StatusNotFound, "no user found for this email"},
				{creds("bob@hbtn.io", "nope"), http.StatusUnauthorized, "wrong password"},
			}
			for _, tt := range errorTests {
				rr := login(tt.form)
				if rr.Code != tt.code || decode(t, rr)["error"] != tt.msg {
					t.Errorf("login(%v) = %d %s, want %d %q", tt.form, rr.Code, rr.Body.String(), tt.code, tt.msg)
				}
			}

			rr := login(creds("bob@hbtn.io", "pw"))
			if rr.Code != http.StatusOK || decode(t, rr)["email"] != "bob@hbtn.io" {
				t.Fatalf("login: %d %s", rr.Code, rr.Body.String())
			}
			sid := cookie(rr, "_my_session_id")
			if sid == nil {
				t.Fatal("expected _my_session_id cookie")
			}

			if rr = f.do(request{method: http.MethodGet, path: "/api/v1/users/me", cookie: sid}); rr.Code != http.StatusOK {
				t.Fatalf("me: %d", rr.Code)
			}
			logout := request{method: http.MethodDelete, path: "/api/v1/auth_session/logout", cookie: sid}
			if rr = f.do(logout); rr.Code != http.StatusOK || rr.Body.String() != "{}" {
				t.Fatalf("logout: %d %s", rr.Code, rr.Body.String())
			}
			if rr = f.do(request{method: http.MethodGet, path: "/api/v1/users/me", cookie: sid}); rr.Code != http.StatusForbidden {
				t.Errorf("me after logout: %d, want 403", rr.Code)
			}
			if rr = f.do(logout); rr.Code != http.StatusForbidden {
				t.Errorf("logout with stale cookie is rejected by the middleware: %d, want 403", rr.Code)
			}
		})
	}
}

func TestAPI_SessionLoginNeedsSessionStrategy(t *testing.T) {
	f := newFixture(t, auth.TypeBasic)
	f.register("bob@hbtn.io", "pw")
	rr := f.do(request{method: http.MethodPost, path: "/api/v1/auth_session/login", form: creds("bob@hbtn.io", "pw")})
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestAPI_TokenLogin(t *testing.T) {
	f := newFixture(t, auth.TypeBearer)
	f.register("bob@hbtn.io", "pw")

	rr := f.do(request{method: http.MethodPost, path: "/api/v1/auth_token/login", form: creds("bob@hbtn.io", "pw")})
	if rr.Code != http.StatusOK {
		t.Fatalf("token login: %d %s", rr.Code, rr.Body.String())
	}
	body := decode(t, rr)
	token, _ := body["access_token"].(string)
	if token == "" || body["token_type"] != "Bearer" {
		t.Fatalf("unexpected body %v", body)
	}

	rr = f.do(request{method: http.MethodGet, path: "/api/v1/users/me", header: "Bearer " + token})
	if rr.Code != http.StatusOK || decode(t, rr)["email"] != "bob@hbtn.io" {
		t.Errorf("me with token: %d %s", rr.Code, rr.Body.String())
	}
	if rr = f.do(request{method: http.MethodGet, path: "/api/v1/users/me", header: "Bearer garbage"}); rr.Code != http.StatusForbidden {
		t.Errorf("bad token: %d, want 403", rr.Code)
	}
}

func TestAPI_ShowUser(t *testing.T) {
	f := newFixture(t, auth.TypeBasic)
	f.register("bob@hbtn.io", "pw")
	other, err := f.svc.RegisterUser(context.Background(), "amy@hbtn.io", "pw")
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	header := "Basic " + base64.StdEncoding.EncodeToString([]byte("bob@hbtn.io:pw"))

	rr := f.do(request{method: http.MethodGet, path: "/api/v1/users/" + other.ID, header: header})
	if rr.Code != http.StatusOK || decode(t, rr)["email"] != "amy@hbtn.io" {
		t.Errorf("show other: %d %s", rr.Code, rr.Body.String())
	}
	if rr = f.do(request{method: http.MethodGet, path: "/api/v1/users/unknown", header: header}); rr.Code != http.StatusNotFound {
		t.Errorf("show unknown: %d, want 404", rr.Code)
	}
}

func TestLoginRateLimit(t *testing.T) {
	f := newFixture(t, auth.TypeNone)
	f.engine = gin.New()
	h := New(Config{Users: f.svc, Strategies: auth.NewRegistry(), LoginRateLimit: 2, Logger: testutil.NewLogger(t)})
	h.Register(context.Background(), f.engine)

	var last int
	for i := 0; i < 3; i++ {
		last = f.do(request{method: http.MethodPost, path: "/sessions", form: creds("a@x.com", "nope")}).Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third attempt: %d, want 429", last)
	}
}
