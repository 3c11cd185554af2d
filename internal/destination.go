package internal

import (
	"fmt"
	"strings"
)

// DefaultBundle is assumed when a destination names no bundle.
const DefaultBundle = "application"

// Destination identifies a controller action: bundle, dot-separated
// controller path, and logical method name.
type Destination struct {
	Bundle     string
	Controller string
	Method     string
}

func (d Destination) String() string {
	if d.Bundle == DefaultBundle {
		return d.Controller + "@" + d.Method
	}
	return d.Bundle + "." + d.Controller + "@" + d.Method
}

// splitDestination breaks "[bundle.]controller@method" into its parts.
// knownBundle reports whether a leading segment names a registered
// bundle; unknown prefixes stay part of the controller path under the
// default bundle. Destinations without exactly one "@" are malformed
// and return ok=false.
func splitDestination(s string, knownBundle func(string) bool) (Destination, bool) {
	left, method, found := strings.Cut(s, "@")
	if !found || left == "" || method == "" || strings.Contains(method, "@") {
		return Destination{}, false
	}

	d := Destination{Bundle: DefaultBundle, Controller: left, Method: method}
	if head, rest, ok := strings.Cut(left, "."); ok && rest != "" && knownBundle(head) {
		d.Bundle = head
		d.Controller = rest
	}
	return d, true
}

// Backreference substitutes `(:N)` tokens in the method name with the
// N-th (1-based) positional parameter, consuming each substituted
// parameter. Surviving parameters keep their relative order. Any
// residual `(:1)` resolves to "index", the default method shorthand.
func Backreference(method string, params []string) (string, []string) {
	consumed := make([]bool, len(params))
	for i, p := range params {
		token := fmt.Sprintf("(:%d)", i+1)
		if strings.Contains(method, token) {
			method = strings.ReplaceAll(method, token, p)
			consumed[i] = true
		}
	}

	rest := make([]string, 0, len(params))
	for i, p := range params {
		if !consumed[i] {
			rest = append(rest, p)
		}
	}

	method = strings.ReplaceAll(method, "(:1)", "index")
	return method, rest
}
