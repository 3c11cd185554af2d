// Package controllers holds the example application's controllers.
package controllers

import (
	"github.com/dmitrymomot/beacon"
	"github.com/dmitrymomot/beacon/example/views"
)

// Pages serves the public site pages.
type Pages struct {
	beacon.Base
}

func NewPages() beacon.Controller {
	p := &Pages{}
	p.Layout = "main"
	p.Handle("action_index", p.index)
	p.Handle("action_about", p.about)
	return p
}

// index returns nil so the layout itself is the page.
func (p *Pages) index(beacon.Context, ...string) any {
	return nil
}

func (p *Pages) about(beacon.Context, ...string) any {
	return views.About()
}
