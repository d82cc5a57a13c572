package sample

import (
	"errors"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/oblivious-transfer/pkg/math/curve"
)

const maxIterations = 255

// ErrRandomGeneration is returned when the random source fails, or keeps producing zero scalars.
var ErrRandomGeneration = errors.New("sample: failed to generate randomness")

func readBits(rand io.Reader, buf []byte) error {
	if _, err := io.ReadFull(rand, buf); err != nil {
		return fmt.Errorf("%w: %v", ErrRandomGeneration, err)
	}
	return nil
}

// Scalar returns a new uniformly random, non-zero curve.Scalar.
//
// Twice the order's size is read from rand before reducing, so the bias is negligible.
// An error is returned if rand fails; no fallback value is ever substituted.
func Scalar(rand io.Reader, group curve.Curve) (curve.Scalar, error) {
	buf := make([]byte, group.SafeScalarBytes())
	for i := 0; i < maxIterations; i++ {
		if err := readBits(rand, buf); err != nil {
			return nil, err
		}
		s := group.NewScalar().SetNat(new(saferith.Nat).SetBytes(buf))
		if !s.IsZero() {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: zero scalar after %d iterations", ErrRandomGeneration, maxIterations)
}
