// Package config loads service configuration with Viper.
//
// Values come from, in increasing precedence: registered defaults, a
// config.yml file and the process environment, with a .env file loaded
// into the environment by godotenv. Every field of the target struct is
// bound to the variable named after its dotted key
// (auth.session_name -> AUTH_SESSION_NAME); extra names can be bound with
// WithEnvAliases.
package config
