package controllers

import (
	"net/http"

	"github.com/dmitrymomot/beacon"
	"github.com/dmitrymomot/beacon/example/views"
)

// Auth handles sign-in and sign-out. The session is started by the
// app-wide middleware before any filter runs.
type Auth struct {
	beacon.Base
}

func NewAuth() beacon.Controller {
	a := &Auth{}
	a.Layout = "main"
	a.Handle("action_show", a.show)
	a.Handle("action_login", a.login)
	a.Handle("action_logout", a.logout)
	a.Filter(beacon.FilterBefore, "csrf").Only("login", "logout")
	return a
}

func (a *Auth) show(c beacon.Context, _ ...string) any {
	notice := ""
	if sess, err := c.Session(); err == nil {
		notice = sess.GetString("notice")
	}
	return views.LoginForm(c.CSRFToken(), notice, c.Old("email"))
}

func (a *Auth) login(c beacon.Context, _ ...string) any {
	sess, err := c.Session()
	if err != nil {
		return beacon.ErrInternal("session unavailable", beacon.WithError(err))
	}

	email := c.Form("email")
	password := c.Form("password")
	if email == "" || password == "" {
		_ = c.FlashInput()
		sess.Flash("notice", "email and password are required")
		return beacon.Redirect(http.StatusSeeOther, "/login")
	}

	// A real application verifies credentials here.
	if err := sess.Regenerate(c.Context()); err != nil {
		return beacon.ErrInternal("failed to rotate session", beacon.WithError(err))
	}
	sess.Put("user_id", email)

	return beacon.Redirect(http.StatusSeeOther, "/account")
}

func (a *Auth) logout(c beacon.Context, _ ...string) any {
	if err := c.DestroySession(); err != nil {
		return beacon.ErrInternal("failed to destroy session", beacon.WithError(err))
	}
	return beacon.Redirect(http.StatusSeeOther, "/login")
}
