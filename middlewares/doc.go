// Package middlewares provides HTTP middleware for beacon applications:
// request ID propagation, panic recovery, and request timeouts.
package middlewares
