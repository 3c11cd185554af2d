// Package cookie provides a cookie manager with plain, HMAC-signed, and
// AES-GCM-encrypted variants, plus a standalone Codec that other components
// (notably the cookie session driver) reuse to seal their own payloads with
// the application secret.
//
// Signed cookies guarantee integrity: the client can read the value but any
// modification is detected. Encrypted cookies additionally hide the value.
// Both require a secret of at least 32 bytes.
package cookie
