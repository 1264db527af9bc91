package secure

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
)

// Crypter seals cached transcript payloads with AES-GCM. The cipher key is
// derived from the configured passphrase with SHA-256, so any non-trivial
// passphrase length works.
type Crypter struct {
	key []byte
}

func NewCrypter(passphrase string) (*Crypter, error) {
	if len(passphrase) < 16 {
		return nil, fmt.Errorf("passphrase length must be >= 16 bytes, got %d", len(passphrase))
	}
	key := sha256.Sum256([]byte(passphrase))
	return &Crypter{key: key[:]}, nil
}

// Encrypt seals data, prefixing the random nonce.
func (c *Crypter) Encrypt(data []byte) ([]byte, error) {
	aesgcm, err := c.gcm()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return aesgcm.Seal(nonce, nonce, data, nil), nil
}

// Decrypt opens a nonce-prefixed ciphertext.
func (c *Crypter) Decrypt(data []byte) ([]byte, error) {
	aesgcm, err := c.gcm()
	if err != nil {
		return nil, err
	}
	nonceSize := aesgcm.NonceSize()
	if len(data) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	return aesgcm.Open(nil, nonce, ciphertext, nil)
}

func (c *Crypter) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
