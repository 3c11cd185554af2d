package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundlesParse(t *testing.T) {
	t.Parallel()

	bundles := NewBundles(NewBundle("admin"))

	tests := []struct {
		name string
		in   string
		want Destination
		ok   bool
	}{
		{
			name: "default bundle",
			in:   "users@show",
			want: Destination{Bundle: DefaultBundle, Controller: "users", Method: "show"},
			ok:   true,
		},
		{
			name: "known bundle prefix",
			in:   "admin.users@show",
			want: Destination{Bundle: "admin", Controller: "users", Method: "show"},
			ok:   true,
		},
		{
			name: "unknown prefix stays in controller path",
			in:   "shop.cart@view",
			want: Destination{Bundle: DefaultBundle, Controller: "shop.cart", Method: "view"},
			ok:   true,
		},
		{
			name: "nested controller path",
			in:   "admin.reports.daily@run",
			want: Destination{Bundle: "admin", Controller: "reports.daily", Method: "run"},
			ok:   true,
		},
		{name: "missing separator", in: "users", ok: false},
		{name: "empty method", in: "users@", ok: false},
		{name: "empty controller", in: "@show", ok: false},
		{name: "double separator", in: "users@show@extra", ok: false},
		{name: "empty string", in: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := bundles.Parse(tt.in)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestBackreference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		params     []string
		wantMethod string
		wantRest   []string
	}{
		{
			name:       "consumes first parameter",
			method:     "show(:1)",
			params:     []string{"42"},
			wantMethod: "show42",
			wantRest:   []string{},
		},
		{
			name:       "residual token defaults to index",
			method:     "(:1)",
			params:     nil,
			wantMethod: "index",
			wantRest:   []string{},
		},
		{
			name:       "survivors keep relative order",
			method:     "edit(:2)",
			params:     []string{"a", "b", "c"},
			wantMethod: "editb",
			wantRest:   []string{"a", "c"},
		},
		{
			name:       "multiple tokens",
			method:     "(:1)_(:2)",
			params:     []string{"get", "users"},
			wantMethod: "get_users",
			wantRest:   []string{},
		},
		{
			name:       "no tokens passes parameters through",
			method:     "show",
			params:     []string{"42", "edit"},
			wantMethod: "show",
			wantRest:   []string{"42", "edit"},
		},
		{
			name:       "repeated token consumes once",
			method:     "x(:1)y(:1)",
			params:     []string{"7"},
			wantMethod: "x7y7",
			wantRest:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			method, rest := Backreference(tt.method, tt.params)
			assert.Equal(t, tt.wantMethod, method)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestDestinationString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "users@show", Destination{Bundle: DefaultBundle, Controller: "users", Method: "show"}.String())
	assert.Equal(t, "admin.users@show", Destination{Bundle: "admin", Controller: "users", Method: "show"}.String())
}
