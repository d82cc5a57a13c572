package protocol

import (
	"fmt"

	"github.com/taurusgroup/oblivious-transfer/internal/round"
	"github.com/taurusgroup/oblivious-transfer/pkg/party"
)

// Message is the wire envelope exchanged between handlers.
type Message struct {
	// SSID is a byte string which uniquely identifies the session this message belongs to.
	SSID []byte
	// From is the party.ID of the sender
	From party.ID
	// To is the intended recipient for this message. It is empty only for the abort notice,
	// which goes to every other party.
	To party.ID
	// Protocol identifies the protocol this message belongs to
	Protocol string
	// RoundNumber is the index of the round this message belongs to.
	// A message with RoundNumber 0 carries the error which made the sender abort.
	RoundNumber round.Number
	// Data is the actual content consumed by the round.
	Data []byte
}

// String implements fmt.Stringer.
func (m Message) String() string {
	return fmt.Sprintf("message: round %d, from: %s, to %v, protocol: %s", m.RoundNumber, m.From, m.To, m.Protocol)
}

// IsFor returns true if the message is intended for the designated party.
func (m Message) IsFor(id party.ID) bool {
	if m.From == id {
		return false
	}
	return m.To == "" || m.To == id
}
