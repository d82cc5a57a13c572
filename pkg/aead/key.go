package aead

import (
	"crypto/cipher"
	"fmt"
)

// boundKey is a cipher bound to exactly one NonceSequence.
//
// Because the key and its nonce source can't be separated, a (key, nonce) pair can
// only repeat if the sequence itself repeats.
type boundKey struct {
	suite Suite
	aead  cipher.AEAD
	seq   NonceSequence
}

func newBoundKey(suite Suite, key []byte, seq NonceSequence) (boundKey, error) {
	if seq == nil {
		return boundKey{}, fmt.Errorf("%w: nil nonce sequence", ErrKeyConstruction)
	}
	aead, err := suite.newAEAD(key)
	if err != nil {
		return boundKey{}, err
	}
	return boundKey{suite: suite, aead: aead, seq: seq}, nil
}

func (k *boundKey) nextNonce() ([NonceSize]byte, error) {
	if k.aead == nil {
		return [NonceSize]byte{}, ErrWiped
	}
	return k.seq.Advance()
}

// Suite returns the cipher used by this key.
func (k *boundKey) Suite() Suite {
	return k.suite
}

// Wipe drops the cipher, further calls fail with ErrWiped.
func (k *boundKey) Wipe() {
	k.aead = nil
	k.seq = nil
}

// SealingKey encrypts messages, each under the next nonce of its sequence.
type SealingKey struct {
	boundKey
}

// NewSealingKey copies key into a new cipher for suite, bound to seq.
func NewSealingKey(suite Suite, key []byte, seq NonceSequence) (*SealingKey, error) {
	k, err := newBoundKey(suite, key, seq)
	if err != nil {
		return nil, fmt.Errorf("aead.NewSealingKey: %w", err)
	}
	return &SealingKey{k}, nil
}

// Seal encrypts and authenticates plaintext and aad, and returns the ciphertext with the tag appended.
func (k *SealingKey) Seal(aad, plaintext []byte) ([]byte, error) {
	nonce, err := k.nextNonce()
	if err != nil {
		return nil, fmt.Errorf("aead.Seal: %w", err)
	}
	return k.aead.Seal(make([]byte, 0, len(plaintext)+TagSize), nonce[:], plaintext, aad), nil
}

// OpeningKey decrypts messages produced by a SealingKey with the same key and an identical sequence.
type OpeningKey struct {
	boundKey
}

// NewOpeningKey copies key into a new cipher for suite, bound to seq.
func NewOpeningKey(suite Suite, key []byte, seq NonceSequence) (*OpeningKey, error) {
	k, err := newBoundKey(suite, key, seq)
	if err != nil {
		return nil, fmt.Errorf("aead.NewOpeningKey: %w", err)
	}
	return &OpeningKey{k}, nil
}

// Open authenticates and decrypts ciphertext.
//
// The nonce is consumed even when authentication fails, mirroring Seal.
func (k *OpeningKey) Open(aad, ciphertext []byte) ([]byte, error) {
	nonce, err := k.nextNonce()
	if err != nil {
		return nil, fmt.Errorf("aead.Open: %w", err)
	}
	if len(ciphertext) < TagSize {
		return nil, fmt.Errorf("aead.Open: ciphertext too short: %w", ErrDecryption)
	}
	plaintext, err := k.aead.Open(make([]byte, 0, len(ciphertext)-TagSize), nonce[:], ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("aead.Open: %w", ErrDecryption)
	}
	return plaintext, nil
}
