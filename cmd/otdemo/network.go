package main

import (
	"context"

	"github.com/taurusgroup/oblivious-transfer/pkg/party"
	"github.com/taurusgroup/oblivious-transfer/pkg/protocol"
)

// Network delivers protocol messages between the parties of one process.
type Network interface {
	Send(msg *protocol.Message)
	Next(id party.ID) <-chan *protocol.Message
}

type chanNetwork struct {
	parties        party.IDSlice
	listenChannels map[party.ID]chan *protocol.Message
}

// NewNetwork returns a Network backed by one buffered channel per party.
func NewNetwork(parties party.IDSlice) Network {
	n := len(parties)
	lc := make(map[party.ID]chan *protocol.Message, n)
	for _, id := range parties {
		lc[id] = make(chan *protocol.Message, 2*n)
	}
	return &chanNetwork{
		parties:        parties,
		listenChannels: lc,
	}
}

func (c *chanNetwork) Next(id party.ID) <-chan *protocol.Message {
	return c.listenChannels[id]
}

func (c *chanNetwork) Send(msg *protocol.Message) {
	for _, id := range c.parties {
		if msg.IsFor(id) {
			c.listenChannels[id] <- msg
		}
	}
}

// handlerLoop relays messages between h and the network, until h is done or ctx expires.
func handlerLoop(ctx context.Context, id party.ID, h protocol.Handler, network Network) error {
	for {
		select {
		case <-ctx.Done():
			h.Stop()
			return ctx.Err()

		// outgoing messages
		case msg, ok := <-h.Listen():
			if !ok {
				// the channel was closed, indicating that the protocol is done executing.
				return nil
			}
			network.Send(msg)

		// incoming messages
		case msg := <-network.Next(id):
			h.Accept(msg)
		}
	}
}
