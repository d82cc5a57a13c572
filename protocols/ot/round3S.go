package ot

import (
	"errors"

	"github.com/taurusgroup/oblivious-transfer/internal/round"
	"github.com/taurusgroup/oblivious-transfer/pkg/math/curve"
	core "github.com/taurusgroup/oblivious-transfer/pkg/ot"
)

// message2R carries the Receiver's blinded choice.
type message2R struct {
	R *curve.MarshallablePoint
}

func (message2R) RoundNumber() round.Number { return 3 }

// message3S carries one ciphertext per message, in order.
type message3S struct {
	Ciphertexts [][]byte
}

func (message3S) RoundNumber() round.Number { return 4 }

// round3S derives the keys from R, and encrypts the messages.
type round3S struct {
	*round2S
	R curve.Point
}

// VerifyMessage implements round.Round.
func (r *round3S) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message2R)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	return checkPoint(r.Group(), body.R)
}

// StoreMessage implements round.Round.
func (r *round3S) StoreMessage(msg round.Message) error {
	r.R = msg.Content.(*message2R).R.Point
	return nil
}

// Finalize implements round.Round.
func (r *round3S) Finalize(out chan<- *round.Message) (round.Session, error) {
	ciphertexts, err := r.sender.Transfer(r.S, r.R, r.messages)
	if errors.Is(err, core.ErrInvalidPoint) {
		return r.AbortRound(err, otherID(r.Helper)), nil
	}
	if err != nil {
		return r, err
	}
	if err = r.SendMessage(out, &message3S{Ciphertexts: ciphertexts}, otherID(r.Helper)); err != nil {
		return r, err
	}
	return &round4S{round3S: r, ciphertexts: ciphertexts}, nil
}

// MessageContent implements round.Round.
func (round3S) MessageContent() round.Content { return &message2R{} }

// Number implements round.Round.
func (round3S) Number() round.Number { return 3 }
