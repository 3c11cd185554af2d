// Package db provides PostgreSQL pool construction with retry logic,
// embedded goose migrations, transaction helpers, and health/shutdown
// hooks. The pool backs the database session driver and the job queue.
package db
