package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"strings"
)

// Codec signs and encrypts values with a shared application secret.
// The session cookie driver reuses it to seal whole session records,
// and the Manager uses it for signed/encrypted cookies.
type Codec struct {
	secret []byte
}

// NewCodec creates a codec from the application secret.
// The secret must be at least 32 bytes.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if len(secret) < 32 {
		return nil, ErrBadSecret
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Sign returns base64(value).base64(hmac-sha256(value)).
func (c *Codec) Sign(value []byte) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(value)
	sig := mac.Sum(nil)

	return base64.RawURLEncoding.EncodeToString(value) +
		"." + base64.RawURLEncoding.EncodeToString(sig)
}

// Verify checks the signature produced by Sign and returns the value.
// Returns ErrBadSig on any malformed or tampered input.
func (c *Codec) Verify(encoded string) ([]byte, error) {
	parts := strings.SplitN(encoded, ".", 2)
	if len(parts) != 2 {
		return nil, ErrBadSig
	}

	value, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, ErrBadSig
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, ErrBadSig
	}

	mac := hmac.New(sha256.New, c.secret)
	mac.Write(value)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return nil, ErrBadSig
	}

	return value, nil
}

// Encrypt seals the plaintext with AES-GCM and returns it base64-encoded.
func (c *Codec) Encrypt(plaintext []byte) (string, error) {
	aead, err := c.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt.
// Returns ErrDecrypt on any malformed or tampered input.
func (c *Codec) Decrypt(encoded string) ([]byte, error) {
	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrDecrypt
	}

	aead, err := c.aead()
	if err != nil {
		return nil, err
	}

	if len(data) < aead.NonceSize() {
		return nil, ErrDecrypt
	}
	nonce, sealed := data[:aead.NonceSize()], data[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

// aead derives a 32-byte key from the secret and builds the AES-GCM cipher.
func (c *Codec) aead() (cipher.AEAD, error) {
	key := sha256.Sum256(c.secret)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
