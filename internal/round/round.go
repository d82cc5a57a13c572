package round

import "errors"

var (
	// ErrOutChanFull is returned when a message cannot be sent through the out channel.
	ErrOutChanFull = errors.New("round: out channel is full")
	// ErrInvalidContent is returned when a message's content has the wrong type for the round.
	ErrInvalidContent = errors.New("round: content is not the expected type")
	// ErrInvalidRecipient is returned when a message is addressed to self, or to a party outside the session.
	ErrInvalidRecipient = errors.New("round: invalid recipient")
	// ErrNilFields is returned when a message is missing some of its fields.
	ErrNilFields = errors.New("round: message contained empty fields")
)

// Round is a single step of a protocol.
type Round interface {
	// VerifyMessage handles an incoming Message and validates its content with regard to the protocol specification.
	// The content argument can be cast to the appropriate type for this round without error check.
	// In rounds that expect no message, this function returns nil.
	// This function should not modify any saved state as it may be running concurrently.
	VerifyMessage(msg Message) error

	// StoreMessage should be called after VerifyMessage and should only store the appropriate fields from the
	// content.
	StoreMessage(msg Message) error

	// Finalize is called after all messages from the parties have been processed in the current round.
	// Messages for the next round are sent out through the out channel.
	// If a non-critical error occurs (like a failure to sample, hash, or send a message), the current round can be
	// returned so that the caller may try to finalize again.
	//
	// If an abort occurs, the expected behavior is to return
	//   r.AbortRound(err, culprit), nil.
	// This indicates to the caller that the protocol has aborted due to a "math" error.
	//
	// In the last round, Finalize should return
	//   r.ResultRound(result), nil
	// where result is the output of the protocol.
	Finalize(out chan<- *Message) (Session, error)

	// MessageContent returns an uninitialized message.Content for this round.
	//
	// Rounds which don't expect any message return nil.
	MessageContent() Content

	// Number returns the current round number.
	Number() Number
}
