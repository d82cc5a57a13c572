package ot

import (
	"github.com/taurusgroup/oblivious-transfer/internal/round"
)

// round4S outputs the Sender's transcript.
type round4S struct {
	*round3S
	ciphertexts [][]byte
}

// VerifyMessage implements round.Round.
func (r *round4S) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (r *round4S) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Round.
func (r *round4S) Finalize(chan<- *round.Message) (round.Session, error) {
	return r.ResultRound(&SendResult{S: r.S, R: r.R, Ciphertexts: r.ciphertexts}), nil
}

// MessageContent implements round.Round.
func (round4S) MessageContent() round.Content { return nil }

// Number implements round.Round.
func (round4S) Number() round.Number { return 4 }
