// Package api registers the HTTP routes of the auth service.
//
// Two surfaces share one gin engine:
//
//   - the flat user service (/users, /sessions, /profile, /reset_password,
//     /update_password), which tracks one session per user on the user row
//   - the strategy-protected API under /api/v1, guarded by the installed
//     auth strategy through middleware.Auth
package api
