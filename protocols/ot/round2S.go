package ot

import (
	"github.com/taurusgroup/oblivious-transfer/internal/round"
	"github.com/taurusgroup/oblivious-transfer/pkg/math/curve"
)

// round2S waits while the Receiver makes its choice.
type round2S struct {
	*round1S
	S curve.Point
}

// VerifyMessage implements round.Round.
func (r *round2S) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (r *round2S) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Round.
func (r *round2S) Finalize(chan<- *round.Message) (round.Session, error) {
	return &round3S{round2S: r}, nil
}

// MessageContent implements round.Round.
func (round2S) MessageContent() round.Content { return nil }

// Number implements round.Round.
func (round2S) Number() round.Number { return 2 }
