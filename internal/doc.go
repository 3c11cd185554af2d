// Package internal contains the framework core: the controller dispatch
// pipeline, bundles, filters, response normalization, the request
// context, and the server runtime. The root beacon package re-exports
// the public surface.
package internal
