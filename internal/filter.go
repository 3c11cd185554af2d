package internal

import (
	"slices"
	"strings"
	"sync"
)

// BeforeFilter runs ahead of an action. A non-nil return value
// short-circuits the pipeline: the action never runs and the value is
// normalized into the response.
type BeforeFilter func(c Context, params ...string) any

// AfterFilter runs after the response is normalized. It may mutate the
// response through c but its return value is discarded.
type AfterFilter func(c Context, resp Response, params ...string)

// Filter events.
const (
	FilterBefore = "before"
	FilterAfter  = "after"
)

// FilterCollection is an ordered group of named filters bound to
// static parameters, optionally scoped to a subset of methods.
type FilterCollection struct {
	names  []string
	params []string
	only   []string
	except []string
}

// newFilterCollection splits a pipe-delimited spec ("auth|csrf") into
// filter names.
func newFilterCollection(spec string, params ...string) *FilterCollection {
	var names []string
	for _, name := range strings.Split(spec, "|") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return &FilterCollection{names: names, params: params}
}

// Only restricts the collection to the given methods.
func (fc *FilterCollection) Only(methods ...string) *FilterCollection {
	fc.only = append(fc.only, methods...)
	return fc
}

// Except excludes the given methods from the collection.
func (fc *FilterCollection) Except(methods ...string) *FilterCollection {
	fc.except = append(fc.except, methods...)
	return fc
}

// AppliesTo reports whether the collection admits a method. With no
// restrictions every method is admitted.
func (fc *FilterCollection) AppliesTo(method string) bool {
	if len(fc.only) > 0 {
		return slices.Contains(fc.only, method)
	}
	if len(fc.except) > 0 {
		return !slices.Contains(fc.except, method)
	}
	return true
}

// Names returns the filter names in registration order.
func (fc *FilterCollection) Names() []string {
	return fc.names
}

// Params returns the static parameters passed to every filter in the
// collection.
func (fc *FilterCollection) Params() []string {
	return fc.params
}

// FilterRegistry maps filter names to their functions. Controllers
// reference filters by name; the dispatcher looks them up here.
type FilterRegistry struct {
	mu     sync.RWMutex
	before map[string]BeforeFilter
	after  map[string]AfterFilter
}

// NewFilterRegistry creates a registry preloaded with the built-in
// auth and csrf filters.
func NewFilterRegistry() *FilterRegistry {
	r := &FilterRegistry{
		before: make(map[string]BeforeFilter),
		after:  make(map[string]AfterFilter),
	}
	r.Before("auth", authFilter)
	r.Before("csrf", csrfFilter)
	return r
}

// Before registers a named before filter.
func (r *FilterRegistry) Before(name string, f BeforeFilter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.before[name] = f
}

// After registers a named after filter.
func (r *FilterRegistry) After(name string, f AfterFilter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.after[name] = f
}

func (r *FilterRegistry) beforeFilter(name string) (BeforeFilter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.before[name]
	return f, ok
}

func (r *FilterRegistry) afterFilter(name string) (AfterFilter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.after[name]
	return f, ok
}

// authFilter redirects guests to the login page. The first parameter
// overrides the redirect target.
func authFilter(c Context, params ...string) any {
	target := "/login"
	if len(params) > 0 && params[0] != "" {
		target = params[0]
	}

	if !c.SessionStarted() {
		return Redirect(302, target)
	}
	sess, err := c.Session()
	if err != nil || sess.GetString("user_id") == "" {
		return Redirect(302, target)
	}
	return nil
}

// csrfFilter rejects state-changing requests whose submitted token does
// not match the session token.
func csrfFilter(c Context, _ ...string) any {
	switch c.Method() {
	case "POST", "PUT", "PATCH", "DELETE":
	default:
		return nil
	}

	token := c.CSRFToken()
	if token == "" || c.Form("_token") != token {
		return ErrorResponse(403)
	}
	return nil
}
