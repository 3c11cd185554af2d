package job

import (
	"context"
	"log/slog"
)

type config struct {
	registry   *taskRegistry
	queues     map[string]int
	logger     *slog.Logger
	schedules  []scheduleConfig
	maxWorkers int
}

func newConfig() *config {
	return &config{
		registry: newTaskRegistry(),
		queues:   make(map[string]int),
	}
}

// scheduledHandler is the body of a periodic task.
type scheduledHandler func(ctx context.Context) error

type scheduleConfig struct {
	handler  scheduledHandler
	name     string
	schedule string
}

// Option configures the job manager.
type Option func(*config)

// WithTask registers a task handler. The payload type is inferred from
// the Handle signature.
//
// Example:
//
//	type SendWelcome struct{ mailer Mailer }
//
//	func (t *SendWelcome) Name() string { return "send_welcome" }
//	func (t *SendWelcome) Handle(ctx context.Context, p WelcomePayload) error {
//	    return t.mailer.Send(ctx, p.Email)
//	}
//
//	job.WithTask(&SendWelcome{mailer})
func WithTask[P any, T interface {
	Name() string
	Handle(context.Context, P) error
}](task T) Option {
	return func(c *config) {
		c.registry.register(task.Name(), newTaskWrapper[P, T](task))
	}
}

// WithScheduledTask registers a periodic task. Schedule() returns a
// five-field cron expression (min hour day month weekday).
func WithScheduledTask[T interface {
	Name() string
	Schedule() string
	Handle(context.Context) error
}](task T) Option {
	return func(c *config) {
		c.schedules = append(c.schedules, scheduleConfig{
			name:     task.Name(),
			schedule: task.Schedule(),
			handler:  task.Handle,
		})
	}
}

// WithScheduledFunc registers a periodic task from a bare function.
// Useful for wiring maintenance closures such as session sweeps.
func WithScheduledFunc(name, schedule string, fn func(context.Context) error) Option {
	return func(c *config) {
		c.schedules = append(c.schedules, scheduleConfig{
			name:     name,
			schedule: schedule,
			handler:  fn,
		})
	}
}

// WithQueue configures a named queue with its own worker count.
func WithQueue(name string, workers int) Option {
	return func(c *config) {
		if workers > 0 {
			c.queues[name] = workers
		}
	}
}

// WithLogger sets the logger for job processing. Defaults to a noop
// logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxWorkers caps the default queue's concurrency. Defaults to 100.
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}
