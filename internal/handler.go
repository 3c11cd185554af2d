package internal

// HandlerFunc is the signature for raw route handlers that bypass the
// controller pipeline. Returning a non-nil error triggers the error
// handler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// Middleware can inspect the request, short-circuit processing, or wrap
// the response.
//
// Example:
//
//	func Auth(next beacon.HandlerFunc) beacon.HandlerFunc {
//	    return func(c beacon.Context) error {
//	        if !c.SessionStarted() {
//	            return c.Redirect(302, "/login")
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from raw handlers and renderers.
type ErrorHandler func(Context, error) error
