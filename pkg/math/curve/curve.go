package curve

import (
	"encoding"
	"fmt"

	"github.com/cronokirby/saferith"
)

// Curve represents a prime order group, along with its scalar field.
//
// The oblivious transfer only ever needs a fixed generator, scalar multiplication,
// point addition and a canonical compressed encoding, so that's all we ask for.
type Curve interface {
	// NewPoint returns the identity element of the group.
	NewPoint() Point
	// NewBasePoint returns the fixed public generator of the group.
	NewBasePoint() Point
	// NewScalar returns the scalar 0.
	NewScalar() Scalar
	// Name returns a human readable name for this group.
	Name() string
	// SafeScalarBytes returns the number of random bytes needed to sample a scalar
	// with negligible bias, through reduction modulo the order.
	SafeScalarBytes() int
	// PointBytes returns the length of the compressed encoding of a point.
	PointBytes() int
	// Order returns the order of the group, as a modulus.
	Order() *saferith.Modulus
}

// Scalar represents an integer modulo the order of a group.
//
// Methods with a Scalar argument modify the receiver, and return it.
type Scalar interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	// Curve returns the group this scalar belongs to.
	Curve() Curve
	// Add sets s = s + that, and returns s.
	Add(that Scalar) Scalar
	// Sub sets s = s - that, and returns s.
	Sub(that Scalar) Scalar
	// Mul sets s = s * that, and returns s.
	Mul(that Scalar) Scalar
	// Negate sets s = -s, and returns s.
	Negate() Scalar
	// Invert sets s = 1/s, and returns s. The result is undefined when s = 0.
	Invert() Scalar
	// Equal returns true if s and that represent the same value.
	Equal(that Scalar) bool
	// IsZero returns true if s = 0.
	IsZero() bool
	// Set sets s = that, and returns s.
	Set(that Scalar) Scalar
	// SetNat sets s = x mod q, and returns s.
	SetNat(x *saferith.Nat) Scalar
	// Act returns s * that, as a new point.
	Act(that Point) Point
	// ActOnBase returns s * G, where G is the generator of the group.
	ActOnBase() Point
}

// Point represents an element of a group.
//
// Methods on points never modify the receiver, and return a new value instead.
type Point interface {
	// MarshalBinary returns the canonical compressed encoding of the point.
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	// Curve returns the group this point belongs to.
	Curve() Curve
	// Add returns p + that.
	Add(that Point) Point
	// Sub returns p - that.
	Sub(that Point) Point
	// Negate returns -p.
	Negate() Point
	// Set sets p = that, and returns p.
	Set(that Point) Point
	// Equal returns true if p and that represent the same element.
	Equal(that Point) bool
	// IsIdentity returns true if p is the identity element.
	IsIdentity() bool
}

// NewIndexScalar returns the scalar representing a message index.
func NewIndexScalar(group Curve, idx uint32) Scalar {
	return group.NewScalar().SetNat(new(saferith.Nat).SetUint64(uint64(idx)))
}

// FromName returns the group registered under name.
func FromName(name string) (Curve, error) {
	switch name {
	case Ristretto255{}.Name():
		return Ristretto255{}, nil
	case Secp256k1{}.Name():
		return Secp256k1{}, nil
	default:
		return nil, fmt.Errorf("curve: unknown group %q", name)
	}
}

// reduce returns x mod q as a big-endian byte slice of size bytes.
func reduce(x *saferith.Nat, q *saferith.Modulus, size int) []byte {
	reduced := new(saferith.Nat).Mod(x, q)
	out := make([]byte, size)
	return reduced.FillBytes(out)
}
