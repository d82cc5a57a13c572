package ot

import (
	"github.com/taurusgroup/oblivious-transfer/internal/round"
	"github.com/taurusgroup/oblivious-transfer/pkg/math/curve"
	core "github.com/taurusgroup/oblivious-transfer/pkg/ot"
)

// message1S carries the Sender's public point.
type message1S struct {
	S *curve.MarshallablePoint
}

func (message1S) RoundNumber() round.Number { return 2 }

// round1S corresponds to the first round from the Sender's perspective.
type round1S struct {
	*round.Helper
	sender   *core.Sender
	messages [][]byte
}

// VerifyMessage implements round.Round.
//
// Since this is the start of the protocol, we aren't expecting to have received
// any messages yet, so we do nothing.
func (r *round1S) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Round.
func (r *round1S) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Round.
func (r *round1S) Finalize(out chan<- *round.Message) (round.Session, error) {
	S, err := r.sender.Setup()
	if err != nil {
		return r, err
	}
	if err = r.SendMessage(out, &message1S{S: curve.NewMarshallablePoint(S)}, otherID(r.Helper)); err != nil {
		return r, err
	}
	return &round2S{round1S: r, S: S}, nil
}

// MessageContent implements round.Round.
func (round1S) MessageContent() round.Content { return nil }

// Number implements round.Round.
func (round1S) Number() round.Number { return 1 }
