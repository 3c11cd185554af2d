// Package view provides a named registry for templ components and page
// layouts. Actions return views; controllers may name a layout that
// wraps whatever the action produced.
package view
