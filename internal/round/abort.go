package round

import (
	"fmt"

	"github.com/taurusgroup/oblivious-transfer/pkg/party"
)

// Abort is the terminal round of a failed execution.
//
// It accepts no further messages, and finalizes to itself.
type Abort struct {
	*Helper
	// Culprit is the party blamed for Err, and is empty when the failure is local.
	Culprit party.ID
	Err     error
}

func (r *Abort) Error() string {
	if r.Culprit == "" {
		return fmt.Sprintf("abort: %v", r.Err)
	}
	return fmt.Sprintf("abort: blaming %s: %v", r.Culprit, r.Err)
}

func (r *Abort) Unwrap() error { return r.Err }

func (*Abort) VerifyMessage(Message) error                 { return nil }
func (*Abort) StoreMessage(Message) error                  { return nil }
func (r *Abort) Finalize(chan<- *Message) (Session, error) { return r, nil }
func (*Abort) MessageContent() Content                     { return nil }
func (*Abort) Number() Number                              { return 0 }
