package ot

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/taurusgroup/oblivious-transfer/pkg/aead"
	"github.com/taurusgroup/oblivious-transfer/pkg/hash"
	"github.com/taurusgroup/oblivious-transfer/pkg/math/curve"
	"github.com/taurusgroup/oblivious-transfer/pkg/math/sample"
)

type receiverState uint8

const (
	receiverInit receiverState = iota
	receiverChosen
	receiverDone
)

// Result is the outcome of opening one ciphertext.
type Result struct {
	// Plaintext is nil unless OK is set.
	Plaintext []byte
	// OK is true if the ciphertext was authenticated under the Receiver's key.
	OK bool
}

// Receiver obtains one of the Sender's messages.
//
// A Receiver is used for a single session, and is not safe for concurrent use.
type Receiver struct {
	config Config
	hash   *hash.Hash
	log    zerolog.Logger
	state  receiverState

	nonces func(idx uint32) aead.NonceSequence

	// After Choose
	key     Key
	openers []*aead.OpeningKey
}

// NewReceiver creates the Receiver for a session with config.N messages.
func NewReceiver(config Config) (*Receiver, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("ot.NewReceiver: %w", err)
	}
	config = config.withDefaults()
	h, err := config.sessionHash()
	if err != nil {
		return nil, fmt.Errorf("ot.NewReceiver: %w", err)
	}
	log := config.Logger.With().
		Str("role", "receiver").
		Uint32("n", config.N).
		Str("group", config.Group.Name()).
		Logger()
	return &Receiver{config: config, hash: h, log: log, nonces: newNonceSequence}, nil
}

// N returns the number of messages.
func (r *Receiver) N() uint32 {
	return r.config.N
}

// Choose commits to index, given the Sender's point S, and returns the point R
// to send back:
//
//	x <- Zq
//	R = index·S + x·G
//	K = H(x·S)
//
// ErrInvalidIndex is returned before anything is sampled if index ≥ N.
func (r *Receiver) Choose(index uint32, S curve.Point) (curve.Point, error) {
	if index >= r.config.N {
		return nil, fmt.Errorf("ot.Receiver.Choose: %w: %d ≥ %d", ErrInvalidIndex, index, r.config.N)
	}
	if r.state != receiverInit {
		return nil, fmt.Errorf("ot.Receiver.Choose: %w", ErrState)
	}
	group := r.config.Group
	if err := validatePoint(group, S); err != nil {
		return nil, fmt.Errorf("ot.Receiver.Choose: S: %w", err)
	}

	x, err := sample.Scalar(r.config.Rand, group)
	if err != nil {
		return nil, fmt.Errorf("ot.Receiver.Choose: %w", err)
	}
	R := curve.NewIndexScalar(group, index).Act(S).Add(x.ActOnBase())
	key, err := DeriveKey(r.hash, x.Act(S))
	x.Set(group.NewScalar())
	if err != nil {
		return nil, fmt.Errorf("ot.Receiver.Choose: %w", err)
	}

	// One opening key per index, with the same counters as the Sender's sealing keys.
	openers := make([]*aead.OpeningKey, r.config.N)
	for i := range openers {
		openers[i], err = aead.NewOpeningKey(r.config.Suite, key[:], r.nonces(uint32(i)))
		if err != nil {
			return nil, fmt.Errorf("ot.Receiver.Choose: index %d: %w", i, err)
		}
	}

	r.key = key
	r.openers = openers
	r.state = receiverChosen
	r.log.Debug().Msg("choice made")
	return R, nil
}

// Key returns the key derived in Choose.
func (r *Receiver) Key() Key {
	return r.key
}

// Decrypt tries to open every ciphertext, and returns one Result per index.
//
// Only the chosen index is expected to succeed. Authentication failures at the
// other indices are reported as a Result with OK = false, and never abort the batch.
// The Receiver's key material is erased afterwards, even when an error is returned.
func (r *Receiver) Decrypt(ciphertexts [][]byte) ([]Result, error) {
	if r.state != receiverChosen {
		return nil, fmt.Errorf("ot.Receiver.Decrypt: %w", ErrState)
	}
	if len(ciphertexts) != int(r.config.N) {
		return nil, fmt.Errorf("ot.Receiver.Decrypt: %w: %d ciphertexts, expected %d",
			ErrLengthMismatch, len(ciphertexts), r.config.N)
	}

	defer r.erase()

	results := make([]Result, len(ciphertexts))
	opened := 0
	for i, ciphertext := range ciphertexts {
		plaintext, err := r.openers[i].Open(r.config.associatedData(uint32(i)), ciphertext)
		switch {
		case err == nil:
			results[i] = Result{Plaintext: plaintext, OK: true}
			opened++
		case errors.Is(err, aead.ErrDecryption):
		default:
			return nil, fmt.Errorf("ot.Receiver.Decrypt: index %d: %w", i, err)
		}
	}

	r.log.Debug().Int("opened", opened).Msg("ciphertexts decrypted")
	return results, nil
}

// erase wipes the openers and the key, and ends the session.
func (r *Receiver) erase() {
	for _, opener := range r.openers {
		opener.Wipe()
	}
	r.openers = nil
	r.key = Key{}
	r.state = receiverDone
}

// Chosen returns the single plaintext that could be decrypted, along with its index.
func Chosen(results []Result) ([]byte, uint32, error) {
	for i, result := range results {
		if result.OK {
			return result.Plaintext, uint32(i), nil
		}
	}
	return nil, 0, ErrNoResult
}
