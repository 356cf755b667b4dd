package word2vec

import "math/rand"

// A Sample is one CBOW training example: a target word and
// the words surrounding it.
type Sample struct {
	// Target is the vocabulary index of the word being
	// predicted.
	Target int

	// Context holds the vocabulary indices of the
	// surrounding words.
	Context []int

	// Rate is the current learning rate.
	Rate float32

	// Weight scales Rate for this sample.
	//
	// If 0, 1 is used.
	Weight float32
}

func (s *Sample) rate() float32 {
	if s.Weight == 0 {
		return s.Rate
	}
	return s.Rate * s.Weight
}

// Window appends the context of corpus[pos] to buf and
// returns the result.
//
// Up to radius words are taken from each side of pos;
// corpus[pos] itself is excluded.
func Window(buf, corpus []int, pos, radius int) []int {
	start := pos - radius
	if start < 0 {
		start = 0
	}
	end := pos + radius + 1
	if end > len(corpus) {
		end = len(corpus)
	}
	buf = append(buf, corpus[start:pos]...)
	return append(buf, corpus[pos+1:end]...)
}

// Scratch holds the per-worker buffers used by a Kernel.
//
// A Scratch must not be used by more than one goroutine at
// a time.
type Scratch struct {
	hidden    []float32
	errors    []float32
	negatives []int

	// Rand is the worker's private random source for
	// negative sampling.
	Rand *rand.Rand
}

// NewScratch creates a Scratch for vectors of the given
// dimension.
//
// If r is nil, a new source is seeded from the global one.
func NewScratch(dim int, r *rand.Rand) *Scratch {
	if r == nil {
		r = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Scratch{
		hidden: make([]float32, dim),
		errors: make([]float32, dim),
		Rand:   r,
	}
}

// Errors returns the error gradient accumulated by the
// most recent update that used the Scratch.
func (s *Scratch) Errors() []float32 {
	return s.errors
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
