// Package errors defines the error taxonomy shared by the credential store,
// the session registries and the HTTP layer. Every failure is an *AppError
// carrying a machine-readable code and the HTTP status it maps to.
package errors
