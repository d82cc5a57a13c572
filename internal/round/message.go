package round

import (
	"github.com/taurusgroup/oblivious-transfer/pkg/party"
)

// Content is the body of a message emitted by Round.Finalize.
type Content interface {
	// RoundNumber is the number of the round which consumes this content.
	RoundNumber() Number
}

// Message is a Content addressed by one party to another.
type Message struct {
	From, To party.ID
	Content  Content
}
