package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"
	"github.com/taurusgroup/oblivious-transfer/internal/round"
)

// ErrNotFinished is returned by Result while the protocol is still running.
var ErrNotFinished = errors.New("protocol: not finished")

// TwoPartyHandler represents a restriction of the Handler for 2 party protocols.
//
// Both parties run their rounds in lockstep. Rounds that expect no message are
// finalized as soon as they are reached.
type TwoPartyHandler struct {
	round    round.Session
	leader   bool
	err      error
	result   interface{}
	messages map[round.Number]*Message
	out      chan *Message
	closed   bool
	log      zerolog.Logger
	mtx      sync.Mutex
}

// HandlerOption configures a TwoPartyHandler.
type HandlerOption func(*TwoPartyHandler)

// WithLogger sets the logger used by the handler. Handlers are silent by default.
func WithLogger(log zerolog.Logger) HandlerOption {
	return func(h *TwoPartyHandler) {
		h.log = log
	}
}

// NewTwoPartyHandler creates the first round with create, and returns a handler for it.
//
// The leader is the party that sends the first message, its first round is executed immediately.
func NewTwoPartyHandler(create StartFunc, sessionID []byte, leader bool, opts ...HandlerOption) (*TwoPartyHandler, error) {
	r, err := create(sessionID)
	if err != nil {
		return nil, fmt.Errorf("protocol: failed to create round: %w", err)
	}
	if r.N() != 2 {
		return nil, fmt.Errorf("protocol: two party handler used with %d parties", r.N())
	}
	handler := &TwoPartyHandler{
		round:    r,
		leader:   leader,
		messages: map[round.Number]*Message{},
		out:      make(chan *Message, 4),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(handler)
	}
	handler.log = handler.log.With().
		Str("protocol", r.ProtocolID()).
		Str("party", string(r.SelfID())).
		Logger()
	handler.log.Debug().Bool("leader", leader).Msg("start")

	if leader {
		handler.mtx.Lock()
		handler.advance()
		handler.mtx.Unlock()
	}
	return handler, nil
}

// Result returns the protocol result if the protocol completed successfully. Otherwise an error is returned.
func (h *TwoPartyHandler) Result() (interface{}, error) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.result != nil {
		return h.result, nil
	}
	if h.err != nil {
		return nil, h.err
	}
	return nil, ErrNotFinished
}

// Listen returns a channel with outgoing messages that must be sent to the other party.
// The channel is closed when the protocol finishes or aborts.
func (h *TwoPartyHandler) Listen() <-chan *Message {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.out
}

// Stop aborts the protocol if it is still running, and notifies the other party.
func (h *TwoPartyHandler) Stop() {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.err == nil && h.result == nil {
		h.abort(errors.New("aborted by user"))
	}
}

func (h *TwoPartyHandler) String() string {
	return fmt.Sprintf("party: %s, protocol: %s", h.round.SelfID(), h.round.ProtocolID())
}

// abort sets err, sends it to the other party, and closes the out channel.
// A nil error only closes the channel.
func (h *TwoPartyHandler) abort(err error) {
	if h.closed {
		return
	}
	if err != nil {
		h.err = err
		h.log.Warn().Err(err).Msg("abort")
		select {
		case h.out <- &Message{
			SSID:     h.round.SSID(),
			From:     h.round.SelfID(),
			Protocol: h.round.ProtocolID(),
			Data:     []byte(h.err.Error()),
		}:
		default:
		}
	}
	h.closed = true
	close(h.out)
}

func (h *TwoPartyHandler) canAdvance() bool {
	if h.round.MessageContent() == nil {
		return true
	}
	return h.messages[h.round.Number()] != nil
}

func extractRoundMessage(r round.Session, msg *Message) (round.Message, error) {
	content := r.MessageContent()
	if err := cbor.Unmarshal(msg.Data, content); err != nil {
		return round.Message{}, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return round.Message{From: msg.From, To: msg.To, Content: content}, nil
}

func (h *TwoPartyHandler) verifyMessage(msg *Message) error {
	if msg == nil {
		return nil
	}
	r := h.round
	roundMsg, err := extractRoundMessage(r, msg)
	if err != nil {
		return Error{RoundNumber: r.Number(), Culprit: msg.From, Err: err}
	}

	if err = r.VerifyMessage(roundMsg); err != nil {
		return Error{RoundNumber: r.Number(), Culprit: msg.From, Err: err}
	}

	if err = r.StoreMessage(roundMsg); err != nil {
		return Error{RoundNumber: r.Number(), Culprit: msg.From, Err: err}
	}

	return nil
}

// advance finalizes rounds for as long as their messages are available.
// h.mtx must be held.
func (h *TwoPartyHandler) advance() {
	for h.canAdvance() {
		number := h.round.Number()
		msg := h.messages[number]
		delete(h.messages, number)
		if err := h.verifyMessage(msg); err != nil {
			h.abort(err)
			return
		}
		out := make(chan *round.Message, 1)
		newRound, err := h.round.Finalize(out)
		close(out)
		if err != nil {
			h.abort(Error{RoundNumber: number, Err: err})
			return
		}
		if newRound == nil {
			h.abort(Error{RoundNumber: number, Err: errors.New("no round returned")})
			return
		}
		for roundMsg := range out {
			data, err := cbor.Marshal(roundMsg.Content)
			if err != nil {
				h.abort(Error{RoundNumber: number, Err: fmt.Errorf("failed to marshal round message: %w", err)})
				return
			}
			msg := &Message{
				SSID:        newRound.SSID(),
				From:        newRound.SelfID(),
				To:          roundMsg.To,
				Protocol:    newRound.ProtocolID(),
				RoundNumber: roundMsg.Content.RoundNumber(),
				Data:        data,
			}
			h.log.Debug().Stringer("msg", msg).Msg("send")
			h.out <- msg
		}
		h.round = newRound
		switch R := newRound.(type) {
		// An abort happened
		case *round.Abort:
			h.abort(Error{RoundNumber: number, Culprit: R.Culprit, Err: R.Err})
			return
		// We have the result
		case *round.Output:
			h.result = R.Result
			h.log.Debug().Msg("done")
			h.abort(nil)
			return
		default:
		}
	}
}

// CanAccept checks the header of msg against the current session.
func (h *TwoPartyHandler) CanAccept(msg *Message) bool {
	r := h.round
	if msg == nil {
		return false
	}
	if !msg.IsFor(r.SelfID()) {
		return false
	}
	if msg.Protocol != r.ProtocolID() {
		return false
	}
	if !bytes.Equal(msg.SSID, r.SSID()) {
		return false
	}
	if !r.PartyIDs().Contains(msg.From) {
		return false
	}
	if msg.Data == nil {
		return false
	}
	if msg.RoundNumber > r.FinalRoundNumber() {
		return false
	}
	return true
}

// Accept stores msg, and advances the protocol as far as possible.
// Messages which can't be accepted are dropped.
func (h *TwoPartyHandler) Accept(msg *Message) {
	if msg == nil {
		return
	}
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.err != nil || h.result != nil || !h.CanAccept(msg) {
		h.log.Debug().Stringer("msg", msg).Msg("dropped message")
		return
	}

	if msg.RoundNumber == 0 {
		h.abort(Error{Culprit: msg.From, Err: fmt.Errorf("aborted by other party with error: \"%s\"", msg.Data)})
		return
	}

	if h.messages[msg.RoundNumber] != nil {
		h.log.Debug().Stringer("msg", msg).Msg("duplicate message")
		return
	}
	h.messages[msg.RoundNumber] = msg

	h.advance()
}
