package view

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/a-h/templ"
)

// View is a renderable page fragment.
type View = templ.Component

// Layout wraps a content view into a full page.
type Layout func(content View) View

// Registry maps names to views and layouts. Controllers resolve their
// layout by name at construction; a missing name is a registration bug
// and surfaces as an error immediately.
type Registry struct {
	mu      sync.RWMutex
	views   map[string]View
	layouts map[string]Layout
}

// NewRegistry creates an empty view registry.
func NewRegistry() *Registry {
	return &Registry{
		views:   make(map[string]View),
		layouts: make(map[string]Layout),
	}
}

// Register adds a named view. Registering the same name twice replaces
// the previous view.
func (r *Registry) Register(name string, v View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[name] = v
}

// RegisterLayout adds a named layout.
func (r *Registry) RegisterLayout(name string, l Layout) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layouts[name] = l
}

// Make returns the view registered under name.
func (r *Registry) Make(name string) (View, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.views[name]
	if !ok {
		return nil, errors.Join(ErrViewNotFound, errors.New(name))
	}
	return v, nil
}

// Layout returns the layout registered under name.
func (r *Registry) Layout(name string) (Layout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.layouts[name]
	if !ok {
		return nil, errors.Join(ErrLayoutNotFound, errors.New(name))
	}
	return l, nil
}

// HasLayout reports whether a layout is registered under name.
func (r *Registry) HasLayout(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.layouts[name]
	return ok
}

// HTML returns a view that renders pre-built markup verbatim.
func HTML(markup string) View {
	return templ.Raw(markup)
}

// Func adapts a render function into a View.
func Func(fn func(ctx context.Context, w io.Writer) error) View {
	return templ.ComponentFunc(fn)
}

// Text returns a view that renders escaped plain text.
func Text(s string) View {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(s))
		return err
	})
}
