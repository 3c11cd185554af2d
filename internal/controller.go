package internal

import (
	"github.com/dmitrymomot/beacon/pkg/view"
)

// Action is a controller method body. Parameters arrive positionally
// after backreference consumption; the return value is normalized
// through Prepare.
type Action func(c Context, params ...string) any

// Controller is implemented by dispatchable handler objects. Embed
// Base for the canonical implementation; the dispatcher creates one
// instance per request.
type Controller interface {
	// Action returns the registered body for a fully prefixed method
	// key ("action_show", "get_users").
	Action(key string) (Action, bool)

	// FiltersFor returns, in registration order, every collection for
	// the event that admits the logical method name.
	FiltersFor(event, method string) []*FilterCollection

	// Before runs after before-filters pass, ahead of the action.
	Before(c Context)

	// After runs once the response is normalized and may mutate it.
	After(c Context, resp Response)

	// LayoutName names the layout to resolve at construction, or "".
	LayoutName() string

	// BindLayout installs the resolved renderable. Called once, during
	// resolution.
	BindLayout(v view.View)

	// BoundLayout returns the resolved layout, or nil.
	BoundLayout() view.View

	// IsRESTful selects verb-prefixed action lookup.
	IsRESTful() bool
}

// Base is the canonical Controller implementation for embedding.
//
//	type Users struct {
//	    internal.Base
//	}
//
//	func NewUsers() *Users {
//	    u := &Users{}
//	    u.Layout = "main"
//	    u.Handle("action_show", u.show)
//	    u.Filter(internal.FilterBefore, "auth").Except("index")
//	    return u
//	}
type Base struct {
	// Layout names the layout resolved once at construction.
	Layout string
	// RESTful switches action lookup to verb-prefixed keys.
	RESTful bool

	actions map[string]Action
	filters map[string][]*FilterCollection
	layout  view.View
}

// Handle registers an action under its full method key.
func (b *Base) Handle(key string, a Action) {
	if b.actions == nil {
		b.actions = make(map[string]Action)
	}
	b.actions[key] = a
}

// Filter appends a collection for the event and returns it for fluent
// Only/Except scoping.
func (b *Base) Filter(event, spec string, params ...string) *FilterCollection {
	if b.filters == nil {
		b.filters = make(map[string][]*FilterCollection)
	}
	fc := newFilterCollection(spec, params...)
	b.filters[event] = append(b.filters[event], fc)
	return fc
}

func (b *Base) Action(key string) (Action, bool) {
	a, ok := b.actions[key]
	return a, ok
}

func (b *Base) FiltersFor(event, method string) []*FilterCollection {
	var out []*FilterCollection
	for _, fc := range b.filters[event] {
		if fc.AppliesTo(method) {
			out = append(out, fc)
		}
	}
	return out
}

func (b *Base) Before(Context) {}

func (b *Base) After(Context, Response) {}

func (b *Base) LayoutName() string {
	return b.Layout
}

func (b *Base) BindLayout(v view.View) {
	b.layout = v
}

func (b *Base) BoundLayout() view.View {
	return b.layout
}

func (b *Base) IsRESTful() bool {
	return b.RESTful
}
