package ot

import (
	"fmt"

	"github.com/taurusgroup/oblivious-transfer/internal/round"
	core "github.com/taurusgroup/oblivious-transfer/pkg/ot"
)

// round4R decrypts the ciphertexts, and outputs the chosen message.
type round4R struct {
	*round3R
	ciphertexts [][]byte
}

// VerifyMessage implements round.Round.
func (r *round4R) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message3S)
	if !ok || body == nil {
		return round.ErrInvalidContent
	}
	if n := r.receiver.N(); len(body.Ciphertexts) != int(n) {
		return fmt.Errorf("%w: %d ciphertexts, expected %d", core.ErrLengthMismatch, len(body.Ciphertexts), n)
	}
	return nil
}

// StoreMessage implements round.Round.
func (r *round4R) StoreMessage(msg round.Message) error {
	r.ciphertexts = msg.Content.(*message3S).Ciphertexts
	return nil
}

// Finalize implements round.Round.
func (r *round4R) Finalize(chan<- *round.Message) (round.Session, error) {
	results, err := r.receiver.Decrypt(r.ciphertexts)
	if err != nil {
		return r, err
	}
	message, index, err := core.Chosen(results)
	if err != nil {
		return r.AbortRound(err, otherID(r.Helper)), nil
	}
	if index != r.index {
		return r.AbortRound(fmt.Errorf("decrypted index %d instead of %d", index, r.index), otherID(r.Helper)), nil
	}
	return r.ResultRound(&ReceiveResult{Index: index, Message: message}), nil
}

// MessageContent implements round.Round.
func (round4R) MessageContent() round.Content { return &message3S{} }

// Number implements round.Round.
func (round4R) Number() round.Number { return 4 }
