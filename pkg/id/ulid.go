// Package id provides sortable ID generation for session identifiers.
package id

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// Crockford's Base32 alphabet (excludes I, L, O, U to avoid confusion).
const crockfordBase32 = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewULID generates a ULID (Universally Unique Lexicographically Sortable
// Identifier): 10 chars of 48-bit millisecond timestamp followed by 16 chars
// of 80-bit randomness, 26 characters total. ULIDs sort by creation time,
// which keeps session tables and file listings naturally ordered.
func NewULID() string {
	ms := uint64(time.Now().UnixMilli())

	entropy := make([]byte, 10)
	if _, err := rand.Read(entropy); err != nil {
		// Degraded fallback: time-based entropy keeps IDs unique enough
		// to not break session provisioning when the CSPRNG is unavailable.
		binary.BigEndian.PutUint64(entropy[:8], uint64(time.Now().UnixNano()))
	}

	var out [26]byte

	// 48-bit timestamp -> 10 base32 chars, most significant first.
	for i := 0; i < 10; i++ {
		shift := uint(45 - i*5)
		out[i] = crockfordBase32[(ms>>shift)&0x1F]
	}

	// 80 random bits -> 16 base32 chars. Work through the byte slice five
	// bits at a time.
	var acc uint64
	var bits uint
	pos := 10
	for _, b := range entropy {
		acc = acc<<8 | uint64(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out[pos] = crockfordBase32[(acc>>bits)&0x1F]
			pos++
		}
	}

	return string(out[:])
}
