package internal

import (
	"context"
	"strings"
	"sync"
)

// ControllerFactory constructs a fresh controller instance. One
// instance serves exactly one request and is never pooled.
type ControllerFactory func() Controller

// Container is the dependency-injection extension point. When a
// registration exists under a composite key it wins over the bundle's
// own factory, allowing constructor-injected controllers.
type Container interface {
	Registered(key string) bool
	Resolve(key string) (Controller, error)
}

// Identifier builds the composite container key for a controller.
func Identifier(bundle, controller string) string {
	return bundle + "::" + strings.ToLower(controller)
}

// Bundle is a named, independently bootable group of controllers.
type Bundle struct {
	name     string
	boot     func(ctx context.Context) error
	factories map[string]ControllerFactory

	once    sync.Once
	bootErr error
}

// NewBundle creates an empty bundle.
func NewBundle(name string) *Bundle {
	return &Bundle{
		name:      name,
		factories: make(map[string]ControllerFactory),
	}
}

// Name returns the bundle name.
func (b *Bundle) Name() string {
	return b.name
}

// OnBoot sets a hook run exactly once, before the bundle serves its
// first dispatch.
func (b *Bundle) OnBoot(fn func(ctx context.Context) error) *Bundle {
	b.boot = fn
	return b
}

// Controller registers a factory under a dot-separated path. Paths are
// matched case-insensitively.
func (b *Bundle) Controller(path string, f ControllerFactory) *Bundle {
	b.factories[strings.ToLower(path)] = f
	return b
}

// Start runs the boot hook once per process. Safe to call on every
// dispatch; repeat calls return the first boot result.
func (b *Bundle) Start(ctx context.Context) error {
	b.once.Do(func() {
		if b.boot != nil {
			b.bootErr = b.boot(ctx)
		}
	})
	return b.bootErr
}

// factory returns the controller factory for a path, if registered.
func (b *Bundle) factory(path string) (ControllerFactory, bool) {
	f, ok := b.factories[strings.ToLower(path)]
	return f, ok
}

// Bundles is the registry the dispatcher resolves destinations
// against.
type Bundles struct {
	byName    map[string]*Bundle
	container Container
}

// NewBundles creates a registry holding the given bundles. A bundle
// named DefaultBundle is created implicitly when absent.
func NewBundles(bundles ...*Bundle) *Bundles {
	bs := &Bundles{byName: make(map[string]*Bundle)}
	for _, b := range bundles {
		bs.byName[b.name] = b
	}
	if _, ok := bs.byName[DefaultBundle]; !ok {
		bs.byName[DefaultBundle] = NewBundle(DefaultBundle)
	}
	return bs
}

// Add registers a bundle, replacing any previous one with the same
// name.
func (bs *Bundles) Add(b *Bundle) {
	bs.byName[b.name] = b
}

// SetContainer installs the dependency-injection container.
func (bs *Bundles) SetContainer(c Container) {
	bs.container = c
}

// Get returns a bundle by name.
func (bs *Bundles) Get(name string) (*Bundle, bool) {
	b, ok := bs.byName[name]
	return b, ok
}

// Default returns the default bundle.
func (bs *Bundles) Default() *Bundle {
	return bs.byName[DefaultBundle]
}

// Parse splits a destination string against the registered bundle
// names.
func (bs *Bundles) Parse(destination string) (Destination, bool) {
	return splitDestination(destination, func(name string) bool {
		_, ok := bs.byName[name]
		return ok
	})
}
