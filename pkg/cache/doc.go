// Package cache provides a byte-oriented key/value cache with TTL support
// and two interchangeable backends: an in-process memory cache with a
// background janitor, and a Redis-backed cache. Values are raw bytes;
// callers handle their own serialization.
package cache
