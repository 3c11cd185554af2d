package internal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/beacon/pkg/cookie"
	"github.com/dmitrymomot/beacon/pkg/job"
	"github.com/dmitrymomot/beacon/pkg/sanitizer"
	"github.com/dmitrymomot/beacon/pkg/session"
	"github.com/dmitrymomot/beacon/pkg/view"
)

// JobClient enqueues background jobs. Satisfied by both *job.Enqueuer
// and *job.Manager.
type JobClient interface {
	Enqueue(ctx context.Context, name string, payload any, opts ...job.EnqueueOption) error
	EnqueueTx(ctx context.Context, tx pgx.Tx, name string, payload any, opts ...job.EnqueueOption) error
}

// Context provides request/response access to actions, filters, and
// middleware. It implements context.Context by delegating to the
// request context.
//
// The session accessors follow an explicit lifecycle: StartSession
// provisions exactly one Payload for the request, Session fails with
// session.ErrNotStarted before that, and SessionStarted is a pure
// predicate. There is no implicit auto-start.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the underlying http.ResponseWriter.
	Response() http.ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// Method returns the HTTP verb of the current request.
	Method() string

	// Param returns the URL parameter value by name.
	Param(name string) string

	// Query returns the query parameter value by name.
	Query(name string) string

	// QueryDefault returns the query parameter value or a default.
	QueryDefault(name, defaultValue string) string

	// Form returns the form value by name.
	Form(name string) string

	// Header returns the request header value by name.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// Written reports whether a response has already been written.
	Written() bool

	// ResponseWriter returns the wrapped writer for advanced usage.
	ResponseWriter() *ResponseWriter

	// JSON writes a JSON response with the given status code.
	JSON(code int, v any) error

	// String writes a plain text response with the given status code.
	String(code int, s string) error

	// NoContent writes a response with no body.
	NoContent(code int) error

	// Redirect redirects to the given URL.
	Redirect(code int, url string) error

	// Render renders a view with the given status code.
	Render(code int, v view.View) error

	// Error creates an HTTPError without writing a response.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// Logger returns the request logger.
	Logger() *slog.Logger

	// LogDebug logs a debug message with optional attributes.
	LogDebug(msg string, attrs ...any)

	// LogInfo logs an info message with optional attributes.
	LogInfo(msg string, attrs ...any)

	// LogWarn logs a warning message with optional attributes.
	LogWarn(msg string, attrs ...any)

	// LogError logs an error message with optional attributes.
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context.
	Set(key any, value any)

	// Get retrieves a value from the request context.
	Get(key any) any

	// Cookie returns a plain cookie value.
	Cookie(name string) (string, error)

	// SetCookie sets a plain cookie.
	SetCookie(name, value string, maxAge int)

	// DeleteCookie removes a cookie.
	DeleteCookie(name string)

	// CookieSigned returns a signed cookie value.
	CookieSigned(name string) (string, error)

	// SetCookieSigned sets a signed cookie.
	SetCookieSigned(name, value string, maxAge int) error

	// CookieEncrypted returns an encrypted cookie value.
	CookieEncrypted(name string) (string, error)

	// SetCookieEncrypted sets an encrypted cookie.
	SetCookieEncrypted(name, value string, maxAge int) error

	// StartSession provisions the request's session payload from the
	// client token, registering a flush hook that persists it and
	// refreshes the cookie before the response is written.
	// Returns session.ErrNotConfigured without a manager and
	// session.ErrAlreadyStarted on repeat calls.
	StartSession() error

	// Session returns the request's payload.
	// Returns session.ErrNotStarted before StartSession.
	Session() (*session.Payload, error)

	// SessionStarted reports whether StartSession has been called.
	SessionStarted() bool

	// DestroySession removes the session and clears the cookie.
	DestroySession() error

	// CSRFToken returns the session's CSRF token, or "" before start.
	CSRFToken() string

	// FlashInput flashes the request's sanitized form input for
	// redisplay on the next request.
	FlashInput() error

	// Old returns a flashed input field from the previous request.
	Old(key string) string

	// Enqueue adds a background job.
	// Returns job.ErrNotConfigured without a job client.
	Enqueue(name string, payload any, opts ...job.EnqueueOption) error

	// EnqueueTx adds a background job within a transaction.
	EnqueueTx(tx pgx.Tx, name string, payload any, opts ...job.EnqueueOption) error
}

// requestContext implements Context.
type requestContext struct {
	response *ResponseWriter
	request  *http.Request
	logger   *slog.Logger
	cookies  *cookie.Manager
	sessions *session.Manager
	jobs     JobClient

	payload *session.Payload
}

// sessionPayloadKey propagates a started payload to contexts created
// deeper in the middleware chain, so each request holds exactly one.
type sessionPayloadKey struct{}

func newContext(w http.ResponseWriter, r *http.Request, a *App) *requestContext {
	c := &requestContext{
		response: NewResponseWriter(w),
		request:  r,
		logger:   a.logger,
		cookies:  a.cookies,
		sessions: a.sessions,
		jobs:     a.jobs,
	}
	// An upstream layer owns the flush hook for an inherited payload.
	if p, ok := r.Context().Value(sessionPayloadKey{}).(*session.Payload); ok {
		c.payload = p
	}
	return c
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.response
}

func (c *requestContext) Context() context.Context {
	return c.request.Context()
}

func (c *requestContext) Method() string {
	return c.request.Method
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	if v := c.request.URL.Query().Get(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *requestContext) Form(name string) string {
	return c.request.FormValue(name)
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestContext) Written() bool {
	return c.response.Written()
}

func (c *requestContext) ResponseWriter() *ResponseWriter {
	return c.response
}

func (c *requestContext) JSON(code int, v any) error {
	c.response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *requestContext) Render(code int, v view.View) error {
	c.response.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.response.WriteHeader(code)
	return v.Render(c.request.Context(), c.response)
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Cookie(name string) (string, error) {
	return c.cookies.Get(c.request, name)
}

func (c *requestContext) SetCookie(name, value string, maxAge int) {
	c.cookies.Set(c.response, name, value, maxAge)
}

func (c *requestContext) DeleteCookie(name string) {
	c.cookies.Delete(c.response, name)
}

func (c *requestContext) CookieSigned(name string) (string, error) {
	return c.cookies.GetSigned(c.request, name)
}

func (c *requestContext) SetCookieSigned(name, value string, maxAge int) error {
	return c.cookies.SetSigned(c.response, name, value, maxAge)
}

func (c *requestContext) CookieEncrypted(name string) (string, error) {
	return c.cookies.GetEncrypted(c.request, name)
}

func (c *requestContext) SetCookieEncrypted(name, value string, maxAge int) error {
	return c.cookies.SetEncrypted(c.response, name, value, maxAge)
}

func (c *requestContext) StartSession() error {
	if c.sessions == nil {
		return session.ErrNotConfigured
	}
	if c.payload != nil {
		return session.ErrAlreadyStarted
	}

	token, err := c.cookies.Get(c.request, c.sessions.CookieName())
	if err != nil {
		token = ""
	}

	payload, err := c.sessions.Start(c.Context(), token)
	if err != nil {
		return err
	}
	c.payload = payload
	c.Set(sessionPayloadKey{}, payload)

	// Flush before the first response byte: the refreshed token must
	// travel in a Set-Cookie header.
	c.response.OnBeforeWrite(func() {
		if payload.Destroyed() {
			return
		}
		tok, err := payload.Save(c.Context())
		if err != nil {
			c.logger.ErrorContext(c.Context(), "failed to save session", slog.Any("error", err))
			return
		}
		c.cookies.Set(c.response.Unwrap(), c.sessions.CookieName(), tok, int(c.sessions.Lifetime()/time.Second))
	})

	return nil
}

func (c *requestContext) Session() (*session.Payload, error) {
	if c.sessions == nil {
		return nil, session.ErrNotConfigured
	}
	if c.payload == nil {
		return nil, session.ErrNotStarted
	}
	return c.payload, nil
}

func (c *requestContext) SessionStarted() bool {
	return c.payload != nil
}

func (c *requestContext) DestroySession() error {
	if c.sessions == nil {
		return session.ErrNotConfigured
	}
	if c.payload == nil {
		return session.ErrNotStarted
	}
	if err := c.payload.Destroy(c.Context()); err != nil {
		return err
	}
	c.cookies.Delete(c.response, c.sessions.CookieName())
	return nil
}

func (c *requestContext) CSRFToken() string {
	if c.payload == nil {
		return ""
	}
	return c.payload.Token()
}

func (c *requestContext) FlashInput() error {
	sess, err := c.Session()
	if err != nil {
		return err
	}
	if err := c.request.ParseForm(); err != nil {
		return err
	}

	input := make(map[string]string, len(c.request.PostForm))
	for key := range c.request.PostForm {
		input[key] = c.request.PostForm.Get(key)
	}
	sess.Flash(session.OldInputKey, sanitizer.StripMap(input))
	return nil
}

func (c *requestContext) Old(key string) string {
	if c.payload == nil {
		return ""
	}
	v, ok := c.payload.Get(session.OldInputKey)
	if !ok {
		return ""
	}
	input, ok := v.(map[string]string)
	if !ok {
		// records loaded from JSON stores decode as map[string]any
		if m, ok := v.(map[string]any); ok {
			s, _ := m[key].(string)
			return s
		}
		return ""
	}
	return input[key]
}

func (c *requestContext) Enqueue(name string, payload any, opts ...job.EnqueueOption) error {
	if c.jobs == nil {
		return job.ErrNotConfigured
	}
	return c.jobs.Enqueue(c.Context(), name, payload, opts...)
}

func (c *requestContext) EnqueueTx(tx pgx.Tx, name string, payload any, opts ...job.EnqueueOption) error {
	if c.jobs == nil {
		return job.ErrNotConfigured
	}
	return c.jobs.EnqueueTx(c.Context(), tx, name, payload, opts...)
}
