package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"

	"github.com/dmitrymomot/beacon/pkg/view"
)

// Response is the canonical result of a dispatched action. Render
// writes the status code, headers, and body.
type Response interface {
	StatusCode() int
	Render(ctx context.Context, w http.ResponseWriter) error
}

// Prepare normalizes an arbitrary action result into a Response:
// Responses pass through, renderable views become HTML, strings plain
// text, errors status pages, nil an empty 200, and everything else
// JSON.
func Prepare(v any) Response {
	switch r := v.(type) {
	case nil:
		return &emptyResponse{code: http.StatusOK}
	case Response:
		return r
	case view.View:
		return &htmlResponse{code: http.StatusOK, body: r}
	case string:
		return &textResponse{code: http.StatusOK, body: r}
	case *HTTPError:
		return &statusPageResponse{code: r.Code, message: r.Message}
	case error:
		return ErrorResponse(http.StatusInternalServerError)
	default:
		return &jsonResponse{code: http.StatusOK, body: v}
	}
}

// ErrorResponse is the standardized status page used for every soft
// not-found and failure outcome.
func ErrorResponse(code int) Response {
	return &statusPageResponse{code: code}
}

// Redirect responds with a Location header and the given status code.
func Redirect(code int, location string) Response {
	return &redirectResponse{code: code, location: location}
}

// HTML responds with a rendered view and the given status code.
func HTML(code int, v view.View) Response {
	return &htmlResponse{code: code, body: v}
}

// Text responds with a plain text body and the given status code.
func Text(code int, s string) Response {
	return &textResponse{code: code, body: s}
}

// JSON responds with a JSON-encoded body and the given status code.
func JSON(code int, v any) Response {
	return &jsonResponse{code: code, body: v}
}

// NoContent responds with an empty body and the given status code.
func NoContent(code int) Response {
	return &emptyResponse{code: code}
}

type htmlResponse struct {
	body view.View
	code int
}

func (r *htmlResponse) StatusCode() int { return r.code }

func (r *htmlResponse) Render(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(r.code)
	return r.body.Render(ctx, w)
}

type textResponse struct {
	body string
	code int
}

func (r *textResponse) StatusCode() int { return r.code }

func (r *textResponse) Render(_ context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(r.code)
	_, err := w.Write([]byte(r.body))
	return err
}

type jsonResponse struct {
	body any
	code int
}

func (r *jsonResponse) StatusCode() int { return r.code }

func (r *jsonResponse) Render(_ context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(r.code)
	return json.NewEncoder(w).Encode(r.body)
}

type emptyResponse struct {
	code int
}

func (r *emptyResponse) StatusCode() int { return r.code }

func (r *emptyResponse) Render(_ context.Context, w http.ResponseWriter) error {
	w.WriteHeader(r.code)
	return nil
}

type redirectResponse struct {
	location string
	code     int
}

func (r *redirectResponse) StatusCode() int { return r.code }

func (r *redirectResponse) Render(_ context.Context, w http.ResponseWriter) error {
	w.Header().Set("Location", r.location)
	w.WriteHeader(r.code)
	return nil
}

// statusPageResponse renders a minimal HTML status page.
type statusPageResponse struct {
	message string
	code    int
}

func (r *statusPageResponse) StatusCode() int { return r.code }

func (r *statusPageResponse) Render(_ context.Context, w http.ResponseWriter) error {
	message := r.message
	if message == "" {
		message = http.StatusText(r.code)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(r.code)
	_, err := fmt.Fprintf(w, "<!DOCTYPE html><html><head><title>%d %s</title></head><body><h1>%d</h1><p>%s</p></body></html>",
		r.code, http.StatusText(r.code), r.code, html.EscapeString(message))
	return err
}
