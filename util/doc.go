// Package util parses human sizes from config and masks secrets for logs.
package util
