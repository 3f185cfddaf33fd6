// Package token mints and decodes the encrypted single-use redemption
// tokens handed to customers after booking.  A token carries a snapshot
// of the booking it belongs to; the authoritative used/unused state is
// kept on the booking row and flipped by an atomic conditional update,
// never inferred from the token itself.
package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

// ErrInvalid covers every decode failure: wrong key, truncated or
// tampered ciphertext, malformed payload.  Callers must not surface a
// more specific reason to the scanner.
var ErrInvalid = errors.New("invalid token")

// Payload is the verification snapshot embedded in a token.  Date is
// the booking's calendar day formatted as "2006-01-02" so the encoding
// is stable across timezones.
type Payload struct {
	BookingID  uint64 `json:"booking_id"`
	FacilityID uint64 `json:"facility_id"`
	Date       string `json:"date"`
	Used       bool   `json:"used"`
}

// DateLayout is the wire format for Payload.Date.
const DateLayout = "2006-01-02"

// Codec encrypts and decrypts redemption tokens with AES-256-GCM under
// a key derived from the configured secret.  A fresh random nonce is
// generated for every Mint and prepended to the ciphertext, so equal
// payloads never produce equal tokens and tampering is detected by the
// GCM tag.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec derives a 32-byte key from secret via SHA-256 and prepares
// the AEAD.  An empty secret is rejected.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: empty encryption secret")
	}
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Codec{aead: aead}, nil
}

// Mint serializes the payload, encrypts it and returns the base64url
// string stored with the booking and shown to the customer.
func (c *Codec) Mint(p Payload) (string, error) {
	plain, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := c.aead.Seal(nonce, nonce, plain, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decode decrypts a token string back into its payload.  Any failure,
// from bad base64 to a failed authentication tag, is reported as
// ErrInvalid without further detail.
func (c *Codec) Decode(s string) (Payload, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Payload{}, ErrInvalid
	}
	ns := c.aead.NonceSize()
	if len(raw) < ns {
		return Payload{}, ErrInvalid
	}
	plain, err := c.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return Payload{}, ErrInvalid
	}
	var p Payload
	if err := json.Unmarshal(plain, &p); err != nil {
		return Payload{}, ErrInvalid
	}
	return p, nil
}

// FormatDate renders a booking date in the payload wire format (UTC).
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
