package ot

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/taurusgroup/oblivious-transfer/pkg/aead"
	"github.com/taurusgroup/oblivious-transfer/pkg/hash"
	"github.com/taurusgroup/oblivious-transfer/pkg/math/curve"
	"github.com/taurusgroup/oblivious-transfer/pkg/math/sample"
)

type senderState uint8

const (
	senderInit senderState = iota
	senderSetup
	senderDerived
	senderDone
)

// Sender holds the n messages of one session.
//
// A Sender is used for a single session, and is not safe for concurrent use.
type Sender struct {
	config Config
	hash   *hash.Hash
	log    zerolog.Logger
	state  senderState
	nonces func(idx uint32) aead.NonceSequence

	// After Setup
	y  curve.Scalar
	_S curve.Point
}

// NewSender creates the Sender for a session with config.N messages.
func NewSender(config Config) (*Sender, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("ot.NewSender: %w", err)
	}
	config = config.withDefaults()
	h, err := config.sessionHash()
	if err != nil {
		return nil, fmt.Errorf("ot.NewSender: %w", err)
	}
	log := config.Logger.With().
		Str("role", "sender").
		Uint32("n", config.N).
		Str("group", config.Group.Name()).
		Logger()
	return &Sender{config: config, hash: h, log: log, nonces: newNonceSequence}, nil
}

// N returns the number of messages.
func (s *Sender) N() uint32 {
	return s.config.N
}

// Setup samples the secret y, and returns S = y·G.
func (s *Sender) Setup() (curve.Point, error) {
	if s.state != senderInit {
		return nil, fmt.Errorf("ot.Sender.Setup: %w", ErrState)
	}
	y, err := sample.Scalar(s.config.Rand, s.config.Group)
	if err != nil {
		return nil, fmt.Errorf("ot.Sender.Setup: %w", err)
	}
	s.y = y
	s._S = y.ActOnBase()
	s.state = senderSetup
	s.log.Debug().Msg("setup done")
	return s._S, nil
}

// DeriveKeys computes the n candidate keys from the Receiver's point R:
//
//	T = y·S
//	Kᵢ = H(y·R - i·T)
//
// Only the key at the Receiver's chosen index matches the Receiver's own key.
// S must be the point returned by Setup.
func (s *Sender) DeriveKeys(S, R curve.Point) ([]Key, error) {
	if s.state != senderSetup {
		return nil, fmt.Errorf("ot.Sender.DeriveKeys: %w", ErrState)
	}
	group := s.config.Group
	if err := validatePoint(group, S); err != nil {
		return nil, fmt.Errorf("ot.Sender.DeriveKeys: S: %w", err)
	}
	if !S.Equal(s._S) {
		return nil, fmt.Errorf("ot.Sender.DeriveKeys: S: %w: does not match setup", ErrInvalidPoint)
	}
	if err := validatePoint(group, R); err != nil {
		return nil, fmt.Errorf("ot.Sender.DeriveKeys: R: %w", err)
	}

	T := s.y.Act(S)
	// P₀ = y·R, and Pᵢ₊₁ = Pᵢ - T, so that Pᵢ = y·R - i·T
	P := s.y.Act(R)
	keys := make([]Key, s.config.N)
	for i := range keys {
		if i > 0 {
			P = P.Sub(T)
		}
		key, err := DeriveKey(s.hash, P)
		if err != nil {
			return nil, fmt.Errorf("ot.Sender.DeriveKeys: index %d: %w", i, err)
		}
		keys[i] = key
	}
	s.state = senderDerived
	s.log.Debug().Int("keys", len(keys)).Msg("keys derived")
	return keys, nil
}

// Encrypt seals messages[i] under keys[i], and returns the n ciphertexts in order.
//
// Each index gets its own sealing key, bound to a nonce counter starting at i, so
// no (key, nonce) pair is ever used twice. The secret y is erased afterwards,
// and the Sender can't be used again.
func (s *Sender) Encrypt(keys []Key, messages [][]byte) ([][]byte, error) {
	if s.state != senderDerived {
		return nil, fmt.Errorf("ot.Sender.Encrypt: %w", ErrState)
	}
	n := int(s.config.N)
	if len(keys) != n || len(messages) != n {
		return nil, fmt.Errorf("ot.Sender.Encrypt: %w: %d keys, %d messages, expected %d",
			ErrLengthMismatch, len(keys), len(messages), n)
	}

	ciphertexts := make([][]byte, n)
	for i := range keys {
		idx := uint32(i)
		key, err := aead.NewSealingKey(s.config.Suite, keys[i][:], s.nonces(idx))
		if err != nil {
			return nil, fmt.Errorf("ot.Sender.Encrypt: index %d: %w", i, err)
		}
		ciphertexts[i], err = key.Seal(s.config.associatedData(idx), messages[i])
		key.Wipe()
		if err != nil {
			return nil, fmt.Errorf("ot.Sender.Encrypt: index %d: %w", i, err)
		}
	}

	s.y.Set(s.config.Group.NewScalar())
	s.state = senderDone
	s.log.Debug().Str("suite", s.config.Suite.String()).Int("ciphertexts", n).Msg("messages encrypted")
	return ciphertexts, nil
}

// Transfer runs DeriveKeys then Encrypt.
func (s *Sender) Transfer(S, R curve.Point, messages [][]byte) ([][]byte, error) {
	keys, err := s.DeriveKeys(S, R)
	if err != nil {
		return nil, err
	}
	return s.Encrypt(keys, messages)
}
