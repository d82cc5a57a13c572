package curve

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// serializedElement is the wire form of a group element.
type serializedElement struct {
	Group string
	Data  []byte
}

// MarshallablePoint wraps a Point so that it can be serialized along with its group.
//
// The encoded form is the group name and the compressed encoding of the point.
type MarshallablePoint struct {
	Point Point
}

// NewMarshallablePoint wraps p.
func NewMarshallablePoint(p Point) *MarshallablePoint {
	return &MarshallablePoint{Point: p}
}

func (m *MarshallablePoint) MarshalCBOR() ([]byte, error) {
	if m.Point == nil {
		return nil, fmt.Errorf("curve.MarshallablePoint: nil point")
	}
	data, err := m.Point.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(serializedElement{Group: m.Point.Curve().Name(), Data: data})
}

func (m *MarshallablePoint) UnmarshalCBOR(data []byte) error {
	var se serializedElement
	if err := cbor.Unmarshal(data, &se); err != nil {
		return err
	}
	group, err := FromName(se.Group)
	if err != nil {
		return err
	}
	point := group.NewPoint()
	if err = point.UnmarshalBinary(se.Data); err != nil {
		return err
	}
	m.Point = point
	return nil
}
