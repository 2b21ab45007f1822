// Package logger is the zerolog-backed structured logger used by every
// package in the service.
//
// Values of personally identifiable keys (name, email, phone, ssn and
// password by default) are replaced with "***" in field maps, and
// "key=value;" pairs for the same keys are masked inside messages with
// FilterDatum.
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  redact_fields: ["email", "password"]
//
//	log := logger.New(&cfg, "authsvc").WithComponent("auth")
//	log.Info("login", logger.Fields("email", email)) // email=***
package logger
