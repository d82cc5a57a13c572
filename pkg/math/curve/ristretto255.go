package curve

import (
	"encoding/hex"
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/gtank/ristretto255"
)

var ristretto255Order *saferith.Modulus

func init() {
	// ℓ = 2²⁵² + 27742317777372353535851937790883648493
	bytes, err := hex.DecodeString("1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed")
	if err != nil {
		panic(err)
	}
	ristretto255Order = saferith.ModulusFromBytes(bytes)
}

// Ristretto255 is the prime order group built on top of Curve25519.
//
// Points have a canonical 32 byte encoding, and every valid encoding is an element
// of the prime order group.
type Ristretto255 struct{}

func (Ristretto255) NewPoint() Point {
	return &ristretto255Point{value: *ristretto255.NewElement().Zero()}
}

func (Ristretto255) NewBasePoint() Point {
	return &ristretto255Point{value: *ristretto255.NewElement().Base()}
}

func (Ristretto255) NewScalar() Scalar {
	return &ristretto255Scalar{value: *ristretto255.NewScalar()}
}

func (Ristretto255) Name() string {
	return "ristretto255"
}

func (Ristretto255) SafeScalarBytes() int {
	return 64
}

func (Ristretto255) PointBytes() int {
	return 32
}

func (Ristretto255) Order() *saferith.Modulus {
	return ristretto255Order
}

type ristretto255Scalar struct {
	value ristretto255.Scalar
}

func ristretto255CastScalar(generic Scalar) *ristretto255Scalar {
	out, ok := generic.(*ristretto255Scalar)
	if !ok {
		panic(fmt.Sprintf("failed to convert to ristretto255Scalar: %v", generic))
	}
	return out
}

func (*ristretto255Scalar) Curve() Curve {
	return Ristretto255{}
}

// MarshalBinary returns the canonical 32 byte little-endian encoding.
func (s *ristretto255Scalar) MarshalBinary() ([]byte, error) {
	return s.value.Encode(nil), nil
}

func (s *ristretto255Scalar) UnmarshalBinary(data []byte) error {
	if len(data) != 32 {
		return fmt.Errorf("invalid length for ristretto255 scalar: %d", len(data))
	}
	if err := s.value.Decode(data); err != nil {
		return fmt.Errorf("invalid bytes for ristretto255 scalar: %w", err)
	}
	return nil
}

func (s *ristretto255Scalar) Add(that Scalar) Scalar {
	other := ristretto255CastScalar(that)

	s.value.Add(&s.value, &other.value)
	return s
}

func (s *ristretto255Scalar) Sub(that Scalar) Scalar {
	other := ristretto255CastScalar(that)

	s.value.Subtract(&s.value, &other.value)
	return s
}

func (s *ristretto255Scalar) Mul(that Scalar) Scalar {
	other := ristretto255CastScalar(that)

	s.value.Multiply(&s.value, &other.value)
	return s
}

func (s *ristretto255Scalar) Negate() Scalar {
	s.value.Negate(&s.value)
	return s
}

func (s *ristretto255Scalar) Invert() Scalar {
	s.value.Invert(&s.value)
	return s
}

func (s *ristretto255Scalar) Equal(that Scalar) bool {
	other := ristretto255CastScalar(that)

	return s.value.Equal(&other.value) == 1
}

func (s *ristretto255Scalar) IsZero() bool {
	return s.value.Equal(ristretto255.NewScalar()) == 1
}

func (s *ristretto255Scalar) Set(that Scalar) Scalar {
	other := ristretto255CastScalar(that)

	s.value = other.value
	return s
}

func (s *ristretto255Scalar) SetNat(x *saferith.Nat) Scalar {
	bytes := reduce(x, ristretto255Order, 32)
	// saferith is big-endian, ristretto255 wants little-endian.
	for i, j := 0, len(bytes)-1; i < j; i, j = i+1, j-1 {
		bytes[i], bytes[j] = bytes[j], bytes[i]
	}
	if err := s.value.Decode(bytes); err != nil {
		panic(fmt.Sprintf("ristretto255Scalar.SetNat: reduced value is not canonical: %v", err))
	}
	return s
}

func (s *ristretto255Scalar) Act(that Point) Point {
	other := ristretto255CastPoint(that)

	out := new(ristretto255Point)
	out.value.ScalarMult(&s.value, &other.value)
	return out
}

func (s *ristretto255Scalar) ActOnBase() Point {
	out := new(ristretto255Point)
	out.value.ScalarBaseMult(&s.value)
	return out
}

type ristretto255Point struct {
	value ristretto255.Element
}

func ristretto255CastPoint(generic Point) *ristretto255Point {
	out, ok := generic.(*ristretto255Point)
	if !ok {
		panic(fmt.Sprintf("failed to convert to ristretto255Point: %v", generic))
	}
	return out
}

func (*ristretto255Point) Curve() Curve {
	return Ristretto255{}
}

// MarshalBinary returns the canonical 32 byte encoding of the element.
func (p *ristretto255Point) MarshalBinary() ([]byte, error) {
	return p.value.Encode(nil), nil
}

// UnmarshalBinary rejects non-canonical encodings, so a successful decode always
// yields an element of the prime order group.
func (p *ristretto255Point) UnmarshalBinary(data []byte) error {
	if len(data) != 32 {
		return fmt.Errorf("invalid length for ristretto255Point: %d", len(data))
	}
	if err := p.value.Decode(data); err != nil {
		return fmt.Errorf("ristretto255Point.UnmarshalBinary: %w", err)
	}
	return nil
}

func (p *ristretto255Point) Add(that Point) Point {
	other := ristretto255CastPoint(that)

	out := new(ristretto255Point)
	out.value.Add(&p.value, &other.value)
	return out
}

func (p *ristretto255Point) Sub(that Point) Point {
	other := ristretto255CastPoint(that)

	out := new(ristretto255Point)
	out.value.Subtract(&p.value, &other.value)
	return out
}

func (p *ristretto255Point) Negate() Point {
	out := new(ristretto255Point)
	out.value.Negate(&p.value)
	return out
}

func (p *ristretto255Point) Set(that Point) Point {
	other := ristretto255CastPoint(that)

	p.value = other.value
	return p
}

func (p *ristretto255Point) Equal(that Point) bool {
	other := ristretto255CastPoint(that)

	return p.value.Equal(&other.value) == 1
}

func (p *ristretto255Point) IsIdentity() bool {
	return p.value.Equal(ristretto255.NewElement().Zero()) == 1
}
