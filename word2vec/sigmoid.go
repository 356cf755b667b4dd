package word2vec

import "math"

const (
	// DefaultSigmoidBins is the number of bins in the
	// table built by NewSigmoidTable(0, 0).
	DefaultSigmoidBins = 1000

	// DefaultSigmoidBound is the largest |x| represented in
	// the table built by NewSigmoidTable(0, 0).
	DefaultSigmoidBound = 6
)

// A SigmoidTable approximates the logistic function with a
// precomputed table.
//
// Inputs outside [-Bound, Bound] saturate to exactly 0 or
// 1. Inside the range, neighboring bins are linearly
// interpolated, so Value is monotonically non-decreasing.
//
// A SigmoidTable is never modified after construction and
// may be shared by any number of goroutines.
type SigmoidTable struct {
	bound  float32
	scale  float32
	values []float32
}

// NewSigmoidTable builds a table with the given number of
// bins over [-bound, bound].
//
// If bins is 0, DefaultSigmoidBins is used.
// If bound is 0, DefaultSigmoidBound is used.
func NewSigmoidTable(bins int, bound float64) *SigmoidTable {
	if bins == 0 {
		bins = DefaultSigmoidBins
	}
	if bound == 0 {
		bound = DefaultSigmoidBound
	}
	if bins < 2 || bound < 0 {
		panic("invalid sigmoid table dimensions")
	}
	res := &SigmoidTable{
		bound:  float32(bound),
		scale:  float32(float64(bins) / (2 * bound)),
		values: make([]float32, bins+1),
	}
	for i := range res.values {
		x := (float64(i)/float64(bins)*2 - 1) * bound
		res.values[i] = float32(1 / (1 + math.Exp(-x)))
	}
	return res
}

// Bound returns the saturation bound of the table.
func (s *SigmoidTable) Bound() float32 {
	return s.bound
}

// Value approximates 1 / (1 + exp(-x)).
// NaN saturates to 0.
func (s *SigmoidTable) Value(x float32) float32 {
	if x >= s.bound {
		return 1
	} else if !(x > -s.bound) {
		return 0
	}
	pos := (x + s.bound) * s.scale
	idx := int(pos)
	if idx >= len(s.values)-1 {
		return s.values[len(s.values)-1]
	}
	frac := pos - float32(idx)
	return s.values[idx] + frac*(s.values[idx+1]-s.values[idx])
}
