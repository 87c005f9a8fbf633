// Package config resolves askgpt runtime settings from a .env file, the
// process environment and command-line flags, in increasing precedence.
package config
