// Package cryptox implements the authenticated encryption used for payloads
// at rest. Ciphertexts are AES-256-GCM with a random nonce prepended, so a
// sealed blob is self-contained and two seals of the same plaintext never
// produce equal ciphertexts.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"github.com/dmitrijs2005/filevault/internal/common"
)

// KeySize is the required key length in bytes (AES-256).
const KeySize = 32

// Cipher seals and opens byte payloads with a single long-lived symmetric key.
// It is safe for concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher constructs a Cipher from a raw AES-256 key. A wrong-sized key is
// rejected so a misconfigured deployment can never fall back to weaker or
// absent encryption.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("cipher key must be %d bytes, got %d: %w", KeySize, len(key), common.ErrKeyUnavailable)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init aes: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// Seal encrypts plaintext and returns nonce||ciphertext. A fresh random nonce
// is generated per call.
func (c *Cipher) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	// appends ciphertext after the nonce
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a blob produced by Seal. Any tampering, truncation or
// wrong-key condition yields common.ErrDecryptionFailed; corrupted plaintext
// is never returned.
func (c *Cipher) Open(sealed []byte) ([]byte, error) {
	ns := c.aead.NonceSize()
	if len(sealed) < ns {
		return nil, common.ErrDecryptionFailed
	}

	nonce, ciphertext := sealed[:ns], sealed[ns:]

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}

	return plaintext, nil
}
