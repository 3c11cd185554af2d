// Package redis provides Redis client construction with retry logic,
// a health check closure, and a graceful shutdown hook. The client feeds
// the redis session driver and the Redis-backed cache.
package redis
