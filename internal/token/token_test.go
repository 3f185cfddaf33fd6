package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec("unit-test-secret")
	require.NoError(t, err)
	return c
}

func TestCodec_RoundTrip(t *testing.T) {
	c := newCodec(t)

	p := Payload{
		BookingID:  42,
		FacilityID: 7,
		Date:       FormatDate(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)),
	}
	tok, err := c.Mint(p)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	got, err := c.Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestCodec_FreshNoncePerMint(t *testing.T) {
	c := newCodec(t)

	p := Payload{BookingID: 1, FacilityID: 1, Date: "2026-01-01"}
	a, err := c.Mint(p)
	require.NoError(t, err)
	b, err := c.Mint(p)
	require.NoError(t, err)

	// Identical payloads must never yield identical ciphertext.
	assert.NotEqual(t, a, b)
}

func TestCodec_TamperedTokenRejected(t *testing.T) {
	c := newCodec(t)

	tok, err := c.Mint(Payload{BookingID: 9, FacilityID: 3, Date: "2026-05-05"})
	require.NoError(t, err)

	// Flip one character of the encoded token.
	mut := []byte(tok)
	if mut[len(mut)-1] == 'A' {
		mut[len(mut)-1] = 'B'
	} else {
		mut[len(mut)-1] = 'A'
	}
	_, err = c.Decode(string(mut))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestCodec_WrongKeyRejected(t *testing.T) {
	a := newCodec(t)
	b, err := NewCodec("a-different-secret")
	require.NoError(t, err)

	tok, err := a.Mint(Payload{BookingID: 5, FacilityID: 2, Date: "2026-02-02"})
	require.NoError(t, err)

	_, err = b.Decode(tok)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestCodec_GarbageRejected(t *testing.T) {
	c := newCodec(t)
	for _, s := range []string{"", "not base64!!", "YWJj", "AAAA"} {
		_, err := c.Decode(s)
		assert.ErrorIs(t, err, ErrInvalid, "input %q", s)
	}
}

func TestNewCodec_EmptySecret(t *testing.T) {
	_, err := NewCodec("")
	assert.Error(t, err)
}
