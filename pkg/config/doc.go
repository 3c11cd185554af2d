// Package config loads application configuration from a YAML file with
// environment variable overrides. It is the configuration store the session
// manager and front controller consume; in particular it carries the
// application key whose absence is a fatal startup error.
package config
