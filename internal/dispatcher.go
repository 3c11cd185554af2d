package internal

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/beacon/pkg/view"
)

// Dispatcher maps destination strings to controller actions and runs
// the filtered execution protocol around them.
type Dispatcher struct {
	bundles *Bundles
	views   *view.Registry
	filters *FilterRegistry
	logger  *slog.Logger
}

// NewDispatcher wires the dispatcher's collaborators.
func NewDispatcher(bundles *Bundles, views *view.Registry, filters *FilterRegistry, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		bundles: bundles,
		views:   views,
		filters: filters,
		logger:  logger,
	}
}

// Call resolves and executes a destination. Missing controllers,
// actions, and malformed destinations all yield the standardized 404
// page; Call never returns an error and never panics on a bad
// destination.
func (d *Dispatcher) Call(c Context, destination string, params []string) Response {
	dest, ok := d.bundles.Parse(destination)
	if !ok {
		return ErrorResponse(http.StatusNotFound)
	}

	bundle, ok := d.bundles.Get(dest.Bundle)
	if !ok {
		return ErrorResponse(http.StatusNotFound)
	}
	if err := bundle.Start(c); err != nil {
		d.logger.ErrorContext(c, "bundle boot failed",
			slog.String("bundle", dest.Bundle),
			slog.Any("error", err),
		)
		return ErrorResponse(http.StatusInternalServerError)
	}

	method, rest := Backreference(dest.Method, params)

	ctrl := d.resolve(bundle, dest)
	if ctrl == nil {
		return ErrorResponse(http.StatusNotFound)
	}

	return d.execute(c, ctrl, method, rest)
}

// resolve turns a destination into a controller instance. A container
// registration wins over the bundle's own factory; the layout is bound
// once, here.
func (d *Dispatcher) resolve(bundle *Bundle, dest Destination) Controller {
	var ctrl Controller

	key := Identifier(dest.Bundle, dest.Controller)
	if d.bundles.container != nil && d.bundles.container.Registered(key) {
		resolved, err := d.bundles.container.Resolve(key)
		if err != nil {
			d.logger.Error("container resolution failed",
				slog.String("key", key),
				slog.Any("error", err),
			)
			return nil
		}
		ctrl = resolved
	} else if factory, ok := bundle.factory(dest.Controller); ok {
		ctrl = factory()
	}
	if ctrl == nil {
		return nil
	}

	if name := ctrl.LayoutName(); name != "" && ctrl.BoundLayout() == nil && d.views != nil {
		layout, err := d.views.Make(name)
		switch {
		case err == nil:
			ctrl.BindLayout(layout)
		case d.views.HasLayout(name):
			// view results compose through the registered layout instead
		default:
			d.logger.Warn("layout not registered", slog.String("layout", name))
		}
	}

	return ctrl
}

// execute runs the strictly ordered pipeline: before-filters (non-nil
// return short-circuits, skipping the action), the Before hook and the
// action, normalization, the After hook, then after-filters. Every
// step runs exactly once; after-filters run even when a before-filter
// short-circuited.
func (d *Dispatcher) execute(c Context, ctrl Controller, method string, params []string) Response {
	var result any
	short := false

	for _, fc := range ctrl.FiltersFor(FilterBefore, method) {
		for _, name := range fc.Names() {
			f, ok := d.filters.beforeFilter(name)
			if !ok {
				d.logger.Warn("before filter not registered", slog.String("filter", name))
				continue
			}
			if v := f(c, fc.Params()...); v != nil {
				result = v
				short = true
				break
			}
		}
		if short {
			break
		}
	}

	if !short {
		ctrl.Before(c)
		result = d.respond(c, ctrl, method, params)
	}

	resp := Prepare(result)

	ctrl.After(c, resp)

	for _, fc := range ctrl.FiltersFor(FilterAfter, method) {
		for _, name := range fc.Names() {
			f, ok := d.filters.afterFilter(name)
			if !ok {
				d.logger.Warn("after filter not registered", slog.String("filter", name))
				continue
			}
			f(c, resp, fc.Params()...)
		}
	}

	return resp
}

// respond invokes the action behind the method name. RESTful
// controllers look up verb-prefixed keys, others the action_ prefix; a
// missing key is the soft not-found outcome. A nil return with a bound
// layout makes the layout the response; view returns compose through
// the registered layout when one exists.
func (d *Dispatcher) respond(c Context, ctrl Controller, method string, params []string) any {
	key := "action_" + method
	if ctrl.IsRESTful() {
		key = strings.ToLower(c.Method()) + "_" + method
	}

	action, ok := ctrl.Action(key)
	if !ok {
		return ErrorResponse(http.StatusNotFound)
	}

	out := action(c, params...)
	if out == nil && ctrl.BoundLayout() != nil {
		return ctrl.BoundLayout()
	}
	return d.compose(ctrl, out)
}

// compose wraps a view result in the layout registered under the
// controller's layout name. Non-view results and controllers without a
// registered layout pass through untouched.
func (d *Dispatcher) compose(ctrl Controller, out any) any {
	v, ok := out.(view.View)
	if !ok {
		return out
	}
	name := ctrl.LayoutName()
	if name == "" || d.views == nil {
		return out
	}
	layout, err := d.views.Layout(name)
	if err != nil {
		return out
	}
	return layout(v)
}
