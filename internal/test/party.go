package test

import (
	"fmt"

	"github.com/taurusgroup/oblivious-transfer/pkg/party"
)

// PartyIDs returns n sorted IDs "p00", "p01", ….
func PartyIDs(n int) party.IDSlice {
	ids := make([]party.ID, n)
	for i := range ids {
		ids[i] = party.ID(fmt.Sprintf("p%02d", i))
	}
	return party.NewIDSlice(ids)
}
