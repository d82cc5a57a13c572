package test

import (
	"github.com/taurusgroup/oblivious-transfer/pkg/party"
	"github.com/taurusgroup/oblivious-transfer/pkg/protocol"
)

// HandlerLoop relays messages between h and network until h closes its out channel.
// The outcome of the session is then given by h.Result().
func HandlerLoop(id party.ID, h protocol.Handler, network *Network) error {
	inbox := network.Next(id)
	for {
		select {
		case msg, ok := <-h.Listen():
			if !ok {
				return nil
			}
			if err := network.Send(msg); err != nil {
				return err
			}
		case msg := <-inbox:
			h.Accept(msg)
		}
	}
}
