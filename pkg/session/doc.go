// Package session provides per-request session payloads over pluggable
// storage drivers.
//
// The Manager owns one driver, chosen at construction from a closed set
// (memory, cookie, database, file, memcache, redis), and builds exactly
// one Payload per request via Start. Payloads carry persistent data,
// two generations of flash data, and a CSRF token under the "_token"
// key. Configuration faults (unknown driver, missing resource) fail at
// construction, never mid-request.
//
// The cookie driver differs from the rest: it seals the whole record
// into the client token, so nothing is stored server-side. Expired
// records on drivers without native TTL are purged by a scheduled job
// running Manager.SweepFunc.
package session
