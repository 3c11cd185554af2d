// Package job runs background and scheduled tasks on a River queue
// backed by PostgreSQL.
//
// Tasks are registered by name with typed JSON payloads; a single River
// worker routes every job through the registry, so one queue table
// serves all task kinds. Periodic tasks use five-field cron
// expressions. The framework wires session sweeping here as a
// scheduled function.
package job
