package aead

import "errors"

var (
	// ErrKeyConstruction is returned when key material can't be used to build a cipher.
	ErrKeyConstruction = errors.New("aead: invalid key material")
	// ErrDecryption is returned when a ciphertext fails authentication.
	ErrDecryption = errors.New("aead: message authentication failed")
	// ErrNonceExhausted is returned once a NonceSequence has no fresh nonce left.
	ErrNonceExhausted = errors.New("aead: nonce sequence exhausted")
	// ErrWiped is returned when using a key after Wipe.
	ErrWiped = errors.New("aead: key was wiped")
)
