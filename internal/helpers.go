package internal

import "strconv"

// scalar constrains the types convertible from raw route and query strings.
type scalar interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// ContextValue returns the typed value stored under key, or the zero
// value when absent or of another type.
func ContextValue[T any](c Context, key any) T {
	v, _ := c.Get(key).(T)
	return v
}

// Param returns the named route parameter converted to T. Conversion
// failures yield the zero value.
func Param[T scalar](c Context, name string) T {
	v, _ := convert[T](c.Param(name))
	return v
}

// Query returns the named query parameter converted to T. Conversion
// failures yield the zero value.
func Query[T scalar](c Context, name string) T {
	v, _ := convert[T](c.Query(name))
	return v
}

// QueryDefault returns the named query parameter converted to T, or
// fallback when the parameter is empty or unparseable.
func QueryDefault[T scalar](c Context, name string, fallback T) T {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	if v, ok := convert[T](raw); ok {
		return v
	}
	return fallback
}

func convert[T scalar](raw string) (T, bool) {
	var zero T
	var out any
	var err error

	switch any(zero).(type) {
	case string:
		out = raw
	case int:
		out, err = strconv.Atoi(raw)
	case int64:
		out, err = strconv.ParseInt(raw, 10, 64)
	case float64:
		out, err = strconv.ParseFloat(raw, 64)
	case bool:
		out, err = strconv.ParseBool(raw)
	default:
		return zero, false
	}
	if err != nil {
		return zero, false
	}
	return out.(T), true
}
