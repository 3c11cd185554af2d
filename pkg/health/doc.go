// Package health provides liveness and readiness HTTP handlers.
// Readiness fans out dependency checks in parallel and fails fast on
// the first unhealthy dependency.
package health
