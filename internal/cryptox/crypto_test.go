package cryptox

import (
	"bytes"
	"testing"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCipher(t *testing.T) *Cipher {
	t.Helper()
	c, err := NewCipher(common.GenerateRandByteArray(KeySize))
	require.NoError(t, err)
	return c
}

func TestNewCipher_RejectsWrongKeySize(t *testing.T) {
	for _, n := range []int{0, 16, 31, 33, 64} {
		_, err := NewCipher(make([]byte, n))
		assert.ErrorIs(t, err, common.ErrKeyUnavailable, "key size %d must be rejected", n)
	}
}

func TestSealOpen_RoundTrip(t *testing.T) {
	c := newTestCipher(t)

	plaintext := []byte("%PDF-1.4 not really a pdf")
	sealed, err := c.Seal(plaintext)
	require.NoError(t, err)
	require.NotEqual(t, plaintext, sealed)

	opened, err := c.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestSeal_IsProbabilistic(t *testing.T) {
	c := newTestCipher(t)

	plaintext := []byte("same bytes")
	a, err := c.Seal(plaintext)
	require.NoError(t, err)
	b, err := c.Seal(plaintext)
	require.NoError(t, err)

	assert.False(t, bytes.Equal(a, b), "two seals of identical plaintext must differ")
}

func TestOpen_TamperedCiphertext(t *testing.T) {
	c := newTestCipher(t)

	sealed, err := c.Seal([]byte("sensitive"))
	require.NoError(t, err)

	for i := range sealed {
		tampered := append([]byte(nil), sealed...)
		tampered[i] ^= 0x01

		_, err := c.Open(tampered)
		assert.ErrorIs(t, err, common.ErrDecryptionFailed, "flipped byte at %d must not decrypt", i)
	}
}

func TestOpen_WrongKey(t *testing.T) {
	c1 := newTestCipher(t)
	c2 := newTestCipher(t)

	sealed, err := c1.Seal([]byte("foreign"))
	require.NoError(t, err)

	_, err = c2.Open(sealed)
	assert.ErrorIs(t, err, common.ErrDecryptionFailed)
}

func TestOpen_TooShort(t *testing.T) {
	c := newTestCipher(t)

	for _, blob := range [][]byte{nil, {}, {1, 2, 3}} {
		_, err := c.Open(blob)
		assert.ErrorIs(t, err, common.ErrDecryptionFailed)
	}
}
