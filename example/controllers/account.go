package controllers

import (
	"github.com/dmitrymomot/beacon"
	"github.com/dmitrymomot/beacon/example/views"
)

// Account serves pages for signed-in users only.
type Account struct {
	beacon.Base
}

func NewAccount() beacon.Controller {
	a := &Account{}
	a.Layout = "main"
	a.Handle("action_show", a.show)
	a.Filter(beacon.FilterBefore, "auth")
	return a
}

func (a *Account) show(c beacon.Context, _ ...string) any {
	sess, err := c.Session()
	if err != nil {
		return beacon.ErrInternal("session unavailable", beacon.WithError(err))
	}
	return views.Account(sess.GetString("user_id"), c.CSRFToken())
}
