package ot

import (
	"errors"

	"github.com/taurusgroup/oblivious-transfer/internal/round"
	"github.com/taurusgroup/oblivious-transfer/pkg/math/curve"
	core "github.com/taurusgroup/oblivious-transfer/pkg/ot"
)

// round2R receives S, and commits to the chosen index.
type round2R struct {
	*round1R
	S curve.Point
}

// VerifyMessage implements round.Round.
func (r *round2R) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message1S)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	return checkPoint(r.Group(), body.S)
}

// StoreMessage implements round.Round.
func (r *round2R) StoreMessage(msg round.Message) error {
	r.S = msg.Content.(*message1S).S.Point
	return nil
}

// Finalize implements round.Round.
func (r *round2R) Finalize(out chan<- *round.Message) (round.Session, error) {
	R, err := r.receiver.Choose(r.index, r.S)
	if errors.Is(err, core.ErrInvalidPoint) {
		return r.AbortRound(err, otherID(r.Helper)), nil
	}
	if err != nil {
		return r, err
	}
	if err = r.SendMessage(out, &message2R{R: curve.NewMarshallablePoint(R)}, otherID(r.Helper)); err != nil {
		return r, err
	}
	return &round3R{round2R: r}, nil
}

// MessageContent implements round.Round.
func (round2R) MessageContent() round.Content { return &message1S{} }

// Number implements round.Round.
func (round2R) Number() round.Number { return 2 }
