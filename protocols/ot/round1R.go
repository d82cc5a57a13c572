package ot

import (
	"github.com/taurusgroup/oblivious-transfer/internal/round"
	core "github.com/taurusgroup/oblivious-transfer/pkg/ot"
)

// round1R corresponds to the first round from the Receiver's perspective.
type round1R struct {
	*round.Helper
	receiver *core.Receiver
	index    uint32
}

// VerifyMessage implements round.Round.
func (r *round1R) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (r *round1R) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Round.
//
// The Receiver has nothing to send before it knows S.
func (r *round1R) Finalize(chan<- *round.Message) (round.Session, error) {
	return &round2R{round1R: r}, nil
}

// MessageContent implements round.Round.
func (round1R) MessageContent() round.Content { return nil }

// Number implements round.Round.
func (round1R) Number() round.Number { return 1 }
