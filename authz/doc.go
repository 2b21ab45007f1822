// Package authz decides which request paths bypass authentication.
//
// Exemption rules are either exact paths, compared after both sides gain a
// trailing "/", or prefix rules ending in "*". Matching fails closed: with
// no rules, or for an empty path, authentication is required.
//
//	authz.RequiresAuth("/api/v1/status", []string{"/api/v1/status/"}) // false
//	authz.RequiresAuth("/api/v1/stats", []string{"/api/v1/stat*"})   // false
//	authz.RequiresAuth("/api/v1/users", nil)                         // true
package authz
