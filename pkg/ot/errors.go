package ot

import (
	"errors"

	"github.com/taurusgroup/oblivious-transfer/pkg/aead"
	"github.com/taurusgroup/oblivious-transfer/pkg/math/sample"
)

var (
	// ErrInvalidIndex is returned by Receiver.Choose when the index is not below N.
	ErrInvalidIndex = errors.New("ot: chosen index out of range")
	// ErrInvalidCount is returned when a session is configured with no message.
	ErrInvalidCount = errors.New("ot: message count must be at least 1")
	// ErrLengthMismatch is returned when the number of keys, messages or ciphertexts is not N.
	ErrLengthMismatch = errors.New("ot: length mismatch")
	// ErrInvalidPoint is returned when a point received from the other party is unusable.
	ErrInvalidPoint = errors.New("ot: invalid point")
	// ErrState is returned when an operation is called out of order, or twice.
	ErrState = errors.New("ot: operation not allowed in current state")
	// ErrNoResult is returned by Chosen when no ciphertext could be opened.
	ErrNoResult = errors.New("ot: no message could be decrypted")

	// ErrRandomGeneration is returned when the random source fails.
	ErrRandomGeneration = sample.ErrRandomGeneration
	// ErrKeyConstruction is returned when a derived key can't be turned into a cipher.
	ErrKeyConstruction = aead.ErrKeyConstruction
	// ErrDecryption is the per index authentication failure. Decrypt reports it
	// as a Result with OK set to false rather than returning it.
	ErrDecryption = aead.ErrDecryption
)
