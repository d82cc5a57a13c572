// Package ot runs the 1-out-of-n oblivious transfer of pkg/ot as a round based
// protocol between two parties, so that it can be driven by a protocol.Handler.
//
// The Sender starts the protocol, and is expected to be the leader of a
// protocol.TwoPartyHandler:
//
//	round 1: Sender -> Receiver: S
//	round 2: Receiver -> Sender: R
//	round 3: Sender -> Receiver: e₀, …, eₙ₋₁
//	round 4: both parties output their result
package ot

import (
	"fmt"

	"github.com/taurusgroup/oblivious-transfer/internal/round"
	"github.com/taurusgroup/oblivious-transfer/pkg/math/curve"
	core "github.com/taurusgroup/oblivious-transfer/pkg/ot"
	"github.com/taurusgroup/oblivious-transfer/pkg/party"
	"github.com/taurusgroup/oblivious-transfer/pkg/protocol"
)

const (
	protocolID                  = "ot/simplest-1-of-n/rounds"
	protocolRounds round.Number = 4
)

// SendResult is the output of the Sender: the public transcript of the session.
type SendResult struct {
	S, R        curve.Point
	Ciphertexts [][]byte
}

// ReceiveResult is the output of the Receiver.
type ReceiveResult struct {
	// Index is the index that was chosen.
	Index uint32
	// Message is the Sender's message at Index.
	Message []byte
}

func newHelper(config *core.Config, selfID, otherID party.ID, sessionID []byte) (*round.Helper, error) {
	if config.Group == nil {
		config.Group = curve.Ristretto255{}
	}
	info := round.Info{
		ProtocolID:       protocolID,
		FinalRoundNumber: protocolRounds,
		SelfID:           selfID,
		PartyIDs:         []party.ID{selfID, otherID},
		Group:            config.Group,
	}
	helper, err := round.NewSession(info, sessionID)
	if err != nil {
		return nil, err
	}
	// both parties derive the same SSID, which then binds the keys and ciphertexts
	config.SessionID = helper.SSID()
	return helper, nil
}

// StartSend returns the StartFunc of the Sender, offering messages to otherID.
//
// config.N is set to len(messages).
func StartSend(config core.Config, selfID, otherID party.ID, messages [][]byte) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		config.N = uint32(len(messages))
		helper, err := newHelper(&config, selfID, otherID, sessionID)
		if err != nil {
			return nil, fmt.Errorf("ot.StartSend: %w", err)
		}
		sender, err := core.NewSender(config)
		if err != nil {
			return nil, fmt.Errorf("ot.StartSend: %w", err)
		}
		return &round1S{Helper: helper, sender: sender, messages: messages}, nil
	}
}

// StartReceive returns the StartFunc of the Receiver, obtaining message index out of config.N from otherID.
//
// An index out of range is reported here, before anything is sent.
func StartReceive(config core.Config, selfID, otherID party.ID, index uint32) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("ot.StartReceive: %w", err)
		}
		if index >= config.N {
			return nil, fmt.Errorf("ot.StartReceive: %w: %d ≥ %d", core.ErrInvalidIndex, index, config.N)
		}
		helper, err := newHelper(&config, selfID, otherID, sessionID)
		if err != nil {
			return nil, fmt.Errorf("ot.StartReceive: %w", err)
		}
		receiver, err := core.NewReceiver(config)
		if err != nil {
			return nil, fmt.Errorf("ot.StartReceive: %w", err)
		}
		return &round1R{Helper: helper, receiver: receiver, index: index}, nil
	}
}

// otherID returns the ID of the other party.
func otherID(h *round.Helper) party.ID {
	return h.OtherPartyIDs()[0]
}

// checkPoint verifies that a received point is present and in our group.
func checkPoint(group curve.Curve, p *curve.MarshallablePoint) error {
	if p == nil || p.Point == nil {
		return round.ErrNilFields
	}
	if p.Point.Curve().Name() != group.Name() {
		return fmt.Errorf("%w: expected group %s, got %s", core.ErrInvalidPoint, group.Name(), p.Point.Curve().Name())
	}
	return nil
}
