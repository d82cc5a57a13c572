package protocol

import (
	"fmt"

	"github.com/taurusgroup/oblivious-transfer/internal/round"
	"github.com/taurusgroup/oblivious-transfer/pkg/party"
)

// Error is the reason a TwoPartyHandler stopped without a result.
type Error struct {
	// RoundNumber is the round being processed, or 0 when the other party sent an abort notice.
	RoundNumber round.Number
	// Culprit is the other party when the failure is attributed to it, and empty otherwise.
	Culprit party.ID
	Err     error
}

func (e Error) Error() string {
	blame := "local failure"
	if e.Culprit != "" {
		blame = "blaming " + string(e.Culprit)
	}
	return fmt.Sprintf("protocol: round %d, %s: %v", e.RoundNumber, blame, e.Err)
}

func (e Error) Unwrap() error {
	return e.Err
}
