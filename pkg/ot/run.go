package ot

import (
	"fmt"

	"github.com/taurusgroup/oblivious-transfer/pkg/math/curve"
)

// Transcript holds the public values exchanged during one session, and the Receiver's output.
type Transcript struct {
	S           curve.Point
	R           curve.Point
	Ciphertexts [][]byte
	Results     []Result
	// Message is the plaintext at the chosen index.
	Message []byte
}

// Run executes both sides of one session in the same process:
// Setup, Choose, DeriveKeys and Encrypt, then Decrypt.
//
// If config.N is 0, it is set to len(messages).
func Run(config Config, messages [][]byte, index uint32) (*Transcript, error) {
	if config.N == 0 {
		config.N = uint32(len(messages))
	}
	sender, err := NewSender(config)
	if err != nil {
		return nil, err
	}
	receiver, err := NewReceiver(config)
	if err != nil {
		return nil, err
	}

	S, err := sender.Setup()
	if err != nil {
		return nil, err
	}
	R, err := receiver.Choose(index, S)
	if err != nil {
		return nil, err
	}
	keys, err := sender.DeriveKeys(S, R)
	if err != nil {
		return nil, err
	}
	ciphertexts, err := sender.Encrypt(keys, messages)
	if err != nil {
		return nil, err
	}
	results, err := receiver.Decrypt(ciphertexts)
	if err != nil {
		return nil, err
	}
	message, chosen, err := Chosen(results)
	if err != nil {
		return nil, fmt.Errorf("ot.Run: %w", err)
	}
	if chosen != index {
		return nil, fmt.Errorf("ot.Run: decrypted index %d instead of %d", chosen, index)
	}
	return &Transcript{S: S, R: R, Ciphertexts: ciphertexts, Results: results, Message: message}, nil
}
