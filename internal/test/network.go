package test

import (
	"fmt"

	"github.com/taurusgroup/oblivious-transfer/pkg/party"
	"github.com/taurusgroup/oblivious-transfer/pkg/protocol"
)

// inboxSize bounds the messages a party may have pending. A two party session
// exchanges one message per round, plus an abort notice.
const inboxSize = 8

// Network is an in-memory transport between the handlers of a test.
//
// Every party owns a buffered inbox, created up front, so that the set of
// inboxes never changes and Send needs no locking.
type Network struct {
	inboxes map[party.ID]chan *protocol.Message
}

// NewNetwork creates an inbox for each of parties.
func NewNetwork(parties party.IDSlice) *Network {
	inboxes := make(map[party.ID]chan *protocol.Message, len(parties))
	for _, id := range parties {
		inboxes[id] = make(chan *protocol.Message, inboxSize)
	}
	return &Network{inboxes: inboxes}
}

// Next returns the inbox of id. It is nil, and therefore blocks forever, for unknown parties.
func (n *Network) Next(id party.ID) <-chan *protocol.Message {
	return n.inboxes[id]
}

// Send queues msg in the inbox of every party it is for.
func (n *Network) Send(msg *protocol.Message) error {
	for id, inbox := range n.inboxes {
		if !msg.IsFor(id) {
			continue
		}
		select {
		case inbox <- msg:
		default:
			return fmt.Errorf("test: inbox of %s is full", id)
		}
	}
	return nil
}
