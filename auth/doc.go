// Package auth resolves the identity behind an HTTP request.
//
// A Strategy reads the Authorization header or the session cookie and
// returns the matching *users.User, or nil. Strategies never fail loudly:
// a missing, malformed or stale credential is simply no identity, and the
// middleware decides between 401 and 403.
//
// Variants:
//
//   - none             NullAuth, resolves nobody
//   - basic_auth       BasicAuth, "Basic base64(email:password)"
//   - session_auth     SessionAuth, session cookie looked up in a session.Registry
//   - session_exp_auth ExpiringSessionAuth, SessionAuth plus a lifetime
//   - session_db_auth  DBSessionAuth, expiring sessions stored in the database
//   - bearer_auth      BearerAuth, "Bearer <jwt>" issued by auth/jwt
//
// Session variants wrap one another rather than embedding, so each layer
// only overrides how a session id turns into a user id.
//
// Configuration:
//
//	auth:
//	  type: session_exp_auth
//	  session_name: _my_session_id
//	  session_duration: 60
//	  excluded_paths: ["/api/v1/status/", "/api/v1/auth_session/login/"]
//	  password:
//	    algorithm: bcrypt
package auth
