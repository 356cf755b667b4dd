package word2vec

import (
	"math"
	"math/rand"
)

const (
	// DefaultTableSize is the number of entries in a
	// SamplingTable when no size is given.
	DefaultTableSize = 1e8

	// DefaultPower is the smoothing exponent applied to the
	// word frequencies of a SamplingTable.
	DefaultPower = 0.75
)

// A CollisionPolicy decides what happens when a negative
// sample is drawn that equals the target word.
type CollisionPolicy int

const (
	// SkipCollisions drops the colliding draw, so fewer
	// than K negatives are used for that sample.
	SkipCollisions CollisionPolicy = iota

	// RedrawCollisions draws again, up to maxRedraws times.
	RedrawCollisions

	// AcceptCollisions trains on the colliding draw as a
	// negative example.
	AcceptCollisions
)

const maxRedraws = 8

func (c CollisionPolicy) String() string {
	switch c {
	case SkipCollisions:
		return "skip"
	case RedrawCollisions:
		return "redraw"
	case AcceptCollisions:
		return "accept"
	default:
		return "unknown"
	}
}

// ParseCollisionPolicy parses the String form of a policy.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	for _, c := range []CollisionPolicy{SkipCollisions, RedrawCollisions, AcceptCollisions} {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, newError(InvalidConfiguration, "unknown collision policy %q", s)
}

// A SamplingTable maps uniform random draws to vocabulary
// indices according to a smoothed unigram distribution.
//
// Index i occupies a share of the table proportional to
// freq(i)^power, so drawing a uniform table slot takes
// O(1) time.
//
// A SamplingTable is read-only after construction and may
// be shared by any number of goroutines, provided each
// goroutine uses its own *rand.Rand.
type SamplingTable struct {
	table []int32
	words int
}

// NewSamplingTable builds a SamplingTable.
//
// If size is 0, DefaultTableSize is used.
// If power is 0, DefaultPower is used.
func NewSamplingTable(freqs []float64, power float64, size int) (*SamplingTable, error) {
	if size == 0 {
		size = DefaultTableSize
	}
	if power == 0 {
		power = DefaultPower
	}
	if size < 0 {
		return nil, newError(InvalidConfiguration, "negative table size %d", size)
	}
	if len(freqs) == 0 {
		return nil, newError(InvalidConfiguration, "empty vocabulary")
	}
	if len(freqs) > math.MaxInt32 {
		return nil, newError(InvalidConfiguration, "vocabulary too large")
	}

	var total float64
	for i, f := range freqs {
		if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, newError(InvalidConfiguration, "bad frequency %v for word %d", f, i)
		}
		total += math.Pow(f, power)
	}
	if total == 0 {
		return nil, newError(InvalidConfiguration, "all frequencies are zero")
	}

	res := &SamplingTable{
		table: make([]int32, size),
		words: len(freqs),
	}
	last := lastNonZero(freqs)
	var i int
	cumulative := math.Pow(freqs[0], power) / total
	for a := range res.table {
		pos := (float64(a) + 0.5) / float64(size)
		for pos > cumulative && i < last {
			i++
			cumulative += math.Pow(freqs[i], power) / total
		}
		res.table[a] = int32(i)
	}
	return res, nil
}

// Len returns the number of table slots.
func (s *SamplingTable) Len() int {
	return len(s.table)
}

// NumWords returns the vocabulary size of the table.
func (s *SamplingTable) NumWords() int {
	return s.words
}

// Draw samples a single vocabulary index.
func (s *SamplingTable) Draw(r *rand.Rand) int {
	return int(s.table[r.Intn(len(s.table))])
}

// DrawN appends k draws (with replacement) to dst and
// returns the result.
//
// Draws equal to target are handled by policy. With
// SkipCollisions, fewer than k indices may be returned.
func (s *SamplingTable) DrawN(dst []int, r *rand.Rand, k, target int, policy CollisionPolicy) []int {
	for d := 0; d < k; d++ {
		w := s.Draw(r)
		if w == target {
			switch policy {
			case SkipCollisions:
				continue
			case RedrawCollisions:
				for tries := 0; tries < maxRedraws && w == target; tries++ {
					w = s.Draw(r)
				}
				if w == target {
					continue
				}
			}
		}
		dst = append(dst, w)
	}
	return dst
}

func lastNonZero(freqs []float64) int {
	for i := len(freqs) - 1; i >= 0; i-- {
		if freqs[i] > 0 {
			return i
		}
	}
	return 0
}

// A Subsampler randomly discards frequent words, following
// the word2vec subsampling heuristic.
//
// A word with frequency f out of N total words is kept
// with probability (sqrt(f/(t*N)) + 1) * (t*N)/f, where t
// is the threshold.
type Subsampler struct {
	keep []float64
}

// NewSubsampler creates a Subsampler for the frequency
// vector.
//
// If threshold is 0, every word is always kept.
func NewSubsampler(freqs []float64, threshold float64) (*Subsampler, error) {
	if threshold < 0 || math.IsNaN(threshold) {
		return nil, newError(InvalidConfiguration, "bad subsampling threshold %v", threshold)
	}
	var total float64
	for _, f := range freqs {
		total += f
	}
	res := &Subsampler{keep: make([]float64, len(freqs))}
	for i, f := range freqs {
		if threshold == 0 || f == 0 {
			res.keep[i] = 1
			continue
		}
		scaled := threshold * total
		p := (math.Sqrt(f/scaled) + 1) * scaled / f
		res.keep[i] = math.Min(p, 1)
	}
	return res, nil
}

// KeepProb returns the probability that word is kept.
// Words outside the vocabulary are never kept.
func (s *Subsampler) KeepProb(word int) float64 {
	if word < 0 || word >= len(s.keep) {
		return 0
	}
	return s.keep[word]
}

// Keep randomly decides whether to keep an occurrence of
// the word.
func (s *Subsampler) Keep(word int, r *rand.Rand) bool {
	p := s.KeepProb(word)
	return p >= 1 || r.Float64() < p
}
