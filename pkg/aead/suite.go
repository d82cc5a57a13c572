// Package aead provides authenticated encryption keys that are each bound to their own nonce sequence.
package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// KeySize is the length of the keys used by every Suite.
	KeySize = 32
	// NonceSize is the length of the nonces used by every Suite.
	NonceSize = 12
	// TagSize is the length of the authentication tag appended to each ciphertext.
	TagSize = 16
)

// Suite identifies an authenticated cipher with a 256 bit key and a 96 bit nonce.
type Suite uint8

const (
	// ChaCha20Poly1305 is the IETF variant from RFC 8439.
	ChaCha20Poly1305 Suite = iota
	// AES256GCM is AES with a 256 bit key in Galois/Counter mode.
	AES256GCM
)

// String implements fmt.Stringer.
func (s Suite) String() string {
	switch s {
	case ChaCha20Poly1305:
		return "chacha20poly1305"
	case AES256GCM:
		return "aes256gcm"
	default:
		return fmt.Sprintf("Suite(%d)", uint8(s))
	}
}

// Overhead returns the difference between ciphertext and plaintext lengths.
func (s Suite) Overhead() int {
	return TagSize
}

// SuiteFromName parses the name returned by Suite.String.
func SuiteFromName(name string) (Suite, error) {
	for _, s := range []Suite{ChaCha20Poly1305, AES256GCM} {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("aead: unknown suite %q", name)
}

// newAEAD instantiates the cipher for key.
func (s Suite) newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: %s key must be %d bytes, got %d", ErrKeyConstruction, s, KeySize, len(key))
	}
	switch s {
	case ChaCha20Poly1305:
		aead, err := chacha20poly1305.New(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrKeyConstruction, err)
		}
		return aead, nil
	case AES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrKeyConstruction, err)
		}
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrKeyConstruction, err)
		}
		return aead, nil
	default:
		return nil, fmt.Errorf("%w: unknown suite %s", ErrKeyConstruction, s)
	}
}
