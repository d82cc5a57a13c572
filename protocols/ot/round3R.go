package ot

import (
	"github.com/taurusgroup/oblivious-transfer/internal/round"
)

// round3R waits while the Sender encrypts.
type round3R struct {
	*round2R
}

// VerifyMessage implements round.Round.
func (r *round3R) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (r *round3R) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Round.
func (r *round3R) Finalize(chan<- *round.Message) (round.Session, error) {
	return &round4R{round3R: r}, nil
}

// MessageContent implements round.Round.
func (round3R) MessageContent() round.Content { return nil }

// Number implements round.Round.
func (round3R) Number() round.Number { return 3 }
