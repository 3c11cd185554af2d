package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/beacon/pkg/sanitizer"
)

func TestStrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "hello world", "hello world"},
		{"script removed", `<script>alert(1)</script>hi`, "hi"},
		{"tags removed", "<b>bold</b>", "bold"},
		{"event handler removed", `<img src=x onerror=alert(1)>ok`, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizer.Strip(tt.in))
		})
	}
}

func TestSanitizeHTML(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<strong>hi</strong>", sanitizer.SanitizeHTML("<strong>hi</strong>"))
	assert.NotContains(t, sanitizer.SanitizeHTML(`<a href="javascript:alert(1)">x</a>`), "javascript:")
}

func TestStripMap(t *testing.T) {
	t.Parallel()

	got := sanitizer.StripMap(map[string]string{
		"name": "<i>bob</i>",
		"bio":  "plain",
	})
	assert.Equal(t, map[string]string{"name": "bob", "bio": "plain"}, got)
}
