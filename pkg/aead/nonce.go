package aead

import (
	"encoding/binary"
	"math"
)

// NonceSequence produces the nonces used by a single key.
//
// Implementations must never return the same nonce twice.
type NonceSequence interface {
	// Advance returns the next nonce, or ErrNonceExhausted.
	Advance() ([NonceSize]byte, error)
}

// CounterNonceSequence is a 32 bit big-endian counter stored in the last 4 bytes
// of an otherwise zero nonce.
//
// The counter starts at a chosen value, and is incremented once per call to Advance.
// It never wraps around.
type CounterNonceSequence struct {
	next      uint32
	exhausted bool
}

// NewCounterNonceSequence returns a sequence whose first nonce encodes start.
func NewCounterNonceSequence(start uint32) *CounterNonceSequence {
	return &CounterNonceSequence{next: start}
}

// Advance implements NonceSequence.
func (c *CounterNonceSequence) Advance() ([NonceSize]byte, error) {
	var nonce [NonceSize]byte
	if c.exhausted {
		return nonce, ErrNonceExhausted
	}
	binary.BigEndian.PutUint32(nonce[NonceSize-4:], c.next)
	if c.next == math.MaxUint32 {
		c.exhausted = true
	} else {
		c.next++
	}
	return nonce, nil
}
