package curve

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var groups = []Curve{Ristretto255{}, Secp256k1{}}

type marshalTester struct {
	P *MarshallablePoint
}

func TestMarshall(t *testing.T) {
	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			s := marshalTester{
				P: NewMarshallablePoint(group.NewBasePoint()),
			}
			data, err := cbor.Marshal(s)
			require.NoError(t, err)
			var s2 marshalTester
			err = cbor.Unmarshal(data, &s2)
			require.NoError(t, err)
			assert.True(t, s.P.Point.Equal(s2.P.Point))
			assert.Equal(t, group.Name(), s2.P.Point.Curve().Name())
		})
	}

	_, err := cbor.Marshal(NewMarshallablePoint(nil))
	assert.Error(t, err)
}

func TestFromName(t *testing.T) {
	for _, group := range groups {
		g, err := FromName(group.Name())
		require.NoError(t, err)
		assert.Equal(t, group, g)
	}
	_, err := FromName("p256")
	assert.Error(t, err)
}
