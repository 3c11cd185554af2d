// Package sanitizer strips dangerous HTML from user-supplied strings before
// they are flashed into the session and re-rendered on the next request.
package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	safePolicy   *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()

		safePolicy = bluemonday.NewPolicy()
		safePolicy.AllowStandardURLs()
		safePolicy.AllowElements(
			"p", "br",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
		)
		safePolicy.AllowAttrs("href").OnElements("a")
		safePolicy.RequireNoFollowOnLinks(true)
	})
}

// Strip removes ALL HTML and returns plain text. This is what old-input
// flashing uses: re-rendered form values must never carry markup.
func Strip(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}

// SanitizeHTML allows a small set of formatting tags (p, a, strong, em,
// lists, code) for user-generated content that legitimately carries markup.
// Scripts, event handlers and javascript: URLs are always removed.
func SanitizeHTML(s string) string {
	initPolicies()
	return safePolicy.Sanitize(s)
}

// StripMap returns a copy of m with every value passed through Strip.
func StripMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = Strip(v)
	}
	return out
}
