// Package component defines the lifecycle contract shared by the database,
// redis and HTTP server components, and a Registry that starts them in
// registration order and stops them in reverse.
package component
