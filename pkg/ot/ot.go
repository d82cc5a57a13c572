// Package ot implements 1-out-of-n oblivious transfer, following the "Simplest OT"
// of Chou and Orlandi (https://eprint.iacr.org/2015/267), generalised to n messages.
//
// The Sender holds n messages. The Receiver picks one index, and learns exactly
// that message, while the Sender learns nothing about the index.
//
//	Sender                               Receiver
//	y <- Zq, S = y·G      ---- S ---->
//	                                     x <- Zq, R = c·S + x·G
//	                      <--- R -----   K = H(x·S)
//	Kᵢ = H(y·R - i·y·S)
//	eᵢ = Seal(Kᵢ, mᵢ)     -- e₀..eₙ₋₁ ->  m_c = Open(K, e_c)
//
// The security model is semi-honest: both parties are assumed to follow the protocol.
package ot

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/taurusgroup/oblivious-transfer/pkg/aead"
	"github.com/taurusgroup/oblivious-transfer/pkg/hash"
	"github.com/taurusgroup/oblivious-transfer/pkg/math/curve"
)

// ProtocolID identifies this protocol inside the session hash.
const ProtocolID = "ot/simplest-1-of-n"

// KeySize is the length of a derived key.
const KeySize = aead.KeySize

// Key is a symmetric key derived from a group element.
type Key [KeySize]byte

// Config holds the parameters shared by the Sender and the Receiver of one session.
//
// Both parties must use the same N, Group, Suite and SessionID.
type Config struct {
	// N is the number of messages, at least 1.
	N uint32
	// Group defaults to curve.Ristretto255.
	Group curve.Curve
	// Suite is the authenticated cipher transporting the messages.
	Suite aead.Suite
	// SessionID is an optional identifier, unique to this session.
	// It's bound into the derived keys and into each ciphertext.
	SessionID []byte
	// Rand defaults to crypto/rand.Reader.
	Rand io.Reader
	// Logger defaults to a disabled logger. Secret values are never logged.
	Logger *zerolog.Logger
}

// Validate checks that the configuration describes a valid session.
func (c Config) Validate() error {
	if c.N == 0 {
		return ErrInvalidCount
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Group == nil {
		c.Group = curve.Ristretto255{}
	}
	if c.Rand == nil {
		c.Rand = rand.Reader
	}
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
	return c
}

// sessionHash returns the initial hash state for this configuration.
func (c Config) sessionHash() (*hash.Hash, error) {
	var count [4]byte
	binary.BigEndian.PutUint32(count[:], c.N)

	h := hash.New()
	err := h.WriteAny(
		&hash.BytesWithDomain{TheDomain: "Protocol ID", Bytes: []byte(ProtocolID)},
		&hash.BytesWithDomain{TheDomain: "Group Name", Bytes: []byte(c.Group.Name())},
		&hash.BytesWithDomain{TheDomain: "Cipher Suite", Bytes: []byte(c.Suite.String())},
		&hash.BytesWithDomain{TheDomain: "Message Count", Bytes: count[:]},
		&hash.BytesWithDomain{TheDomain: "Session ID", Bytes: c.SessionID},
	)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// associatedData binds a ciphertext to its session and its position.
func (c Config) associatedData(idx uint32) []byte {
	out := make([]byte, len(c.SessionID)+4)
	copy(out, c.SessionID)
	binary.BigEndian.PutUint32(out[len(c.SessionID):], idx)
	return out
}

// newNonceSequence returns the nonces used under the key of index idx.
// The counter starts at idx, so the Receiver's single key never sees a nonce twice.
func newNonceSequence(idx uint32) aead.NonceSequence {
	return aead.NewCounterNonceSequence(idx)
}

// DeriveKey hashes the compressed encoding of p into a Key.
//
// h is the session hash, and is left untouched.
func DeriveKey(h *hash.Hash, p curve.Point) (Key, error) {
	var key Key
	compressed, err := p.MarshalBinary()
	if err != nil {
		return key, fmt.Errorf("ot.DeriveKey: %w", err)
	}
	h = h.Clone()
	if err = h.WriteAny(&hash.BytesWithDomain{TheDomain: "OT Key", Bytes: compressed}); err != nil {
		return key, fmt.Errorf("ot.DeriveKey: %w", err)
	}
	if _, err = io.ReadFull(h.Digest(), key[:]); err != nil {
		return key, fmt.Errorf("ot.DeriveKey: %w", err)
	}
	return key, nil
}

// validatePoint rejects points received from the other party that can't be used safely.
func validatePoint(group curve.Curve, p curve.Point) error {
	if p == nil {
		return fmt.Errorf("%w: nil", ErrInvalidPoint)
	}
	if p.Curve().Name() != group.Name() {
		return fmt.Errorf("%w: expected group %s, got %s", ErrInvalidPoint, group.Name(), p.Curve().Name())
	}
	if p.IsIdentity() {
		return fmt.Errorf("%w: identity", ErrInvalidPoint)
	}
	return nil
}
