// Package views holds the example application's templates.
package views

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/dmitrymomot/beacon/pkg/view"
)

// Shell is the shared page chrome; content renders inside the body.
func Shell() view.Layout {
	return func(content view.View) view.View {
		return view.Func(func(ctx context.Context, w io.Writer) error {
			if _, err := io.WriteString(w, `<!DOCTYPE html><html><head><title>Beacon Example</title></head><body><h1>Beacon</h1><p><a href="/">Home</a> | <a href="/about">About</a> | <a href="/account">Account</a></p>`); err != nil {
				return err
			}
			if content != nil {
				if err := content.Render(ctx, w); err != nil {
					return err
				}
			}
			_, err := io.WriteString(w, `</body></html>`)
			return err
		})
	}
}

// Main is the home page, the shell around a welcome blurb.
func Main() view.View {
	return Shell()(view.HTML(`<p>Welcome.</p>`))
}

// About is a static content page.
func About() view.View {
	return view.HTML(`<article><h2>About</h2><p>A small demo of the dispatch pipeline.</p></article>`)
}

// LoginForm renders the login page with the CSRF token embedded.
func LoginForm(csrfToken, notice, oldEmail string) view.View {
	return view.Func(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<form method="post" action="/login">%s<input type="hidden" name="_token" value="%s"><input name="email" value="%s" placeholder="email"><input type="password" name="password"><button>Sign in</button></form>`,
			noticeBlock(notice), html.EscapeString(csrfToken), html.EscapeString(oldEmail))
		return err
	})
}

// Account greets the signed-in user.
func Account(userID, csrfToken string) view.View {
	return view.Func(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<section><h2>Account</h2><p>Signed in as %s.</p><form method="post" action="/logout"><input type="hidden" name="_token" value="%s"><button>Sign out</button></form></section>`,
			html.EscapeString(userID), html.EscapeString(csrfToken))
		return err
	})
}

func noticeBlock(notice string) string {
	if notice == "" {
		return ""
	}
	return fmt.Sprintf(`<p class="notice">%s</p>`, html.EscapeString(notice))
}
