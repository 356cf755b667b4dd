package word2vec

import (
	"math"
	"math/rand"
	"sync/atomic"
	"unsafe"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
	"gonum.org/v1/gonum/blas/blas32"
)

func init() {
	var s Store
	serializer.RegisterTypedDeserializer(s.SerializerType(), DeserializeStore)
}

// A Table identifies one of the matrices in a Store.
type Table int

const (
	// InputTable is syn0, the context representation.
	InputTable Table = iota

	// TreeTable is syn1, one row per internal tree node.
	TreeTable

	// NegativeTable is syn1neg, one row per word.
	NegativeTable
)

func (t Table) String() string {
	switch t {
	case InputTable:
		return "syn0"
	case TreeTable:
		return "syn1"
	case NegativeTable:
		return "syn1neg"
	default:
		return "unknown"
	}
}

// A Store holds the parameter matrices of a training
// session.
//
// Each matrix is a contiguous row-major buffer with Dim
// columns. Syn0 and Syn1Neg have one row per word. Syn1
// has one row per word as well, of which the first V-1
// rows are used by the internal nodes of a Tree.
// Syn1 and Syn1Neg are nil when the corresponding
// strategy is not used.
//
// Rows are shared mutable state. When Atomic is false,
// concurrent updates to the same row race without locks
// (Hogwild); an occasional update may be lost, and
// training is not reproducible across runs with more than
// one worker. When Atomic is true, every float addition is
// a compare-and-swap, which avoids lost additions but is
// slower and still does not make a row update atomic as a
// whole.
type Store struct {
	Vocab int
	Dim   int

	Syn0    []float32
	Syn1    []float32
	Syn1Neg []float32

	Atomic bool
}

// DeserializeStore deserializes a Store.
func DeserializeStore(d []byte) (store *Store, err error) {
	defer essentials.AddCtxTo("deserialize Store", &err)
	var res Store
	var atomicFlag int
	err = serializer.DeserializeAny(d, &res.Vocab, &res.Dim, &res.Syn0, &res.Syn1,
		&res.Syn1Neg, &atomicFlag)
	if err != nil {
		return nil, err
	}
	res.Atomic = atomicFlag != 0
	// Keep nil tables nil so that deep equality holds.
	for _, table := range []*[]float32{&res.Syn0, &res.Syn1, &res.Syn1Neg} {
		if len(*table) == 0 {
			*table = nil
		}
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}
	return &res, nil
}

// NewStore allocates the tables for a session.
//
// Syn0 is initialized uniformly in [-0.5/dim, 0.5/dim)
// using r, or a new source if r is nil. Output tables
// start at zero.
func NewStore(vocab, dim int, tree, negative bool, r *rand.Rand) *Store {
	if vocab <= 0 || dim <= 0 {
		panic("vocabulary and dimension must be positive")
	}
	if r == nil {
		r = rand.New(rand.NewSource(rand.Int63()))
	}
	res := &Store{
		Vocab: vocab,
		Dim:   dim,
		Syn0:  make([]float32, vocab*dim),
	}
	for i := range res.Syn0 {
		res.Syn0[i] = (r.Float32() - 0.5) / float32(dim)
	}
	if tree {
		res.Syn1 = make([]float32, vocab*dim)
	}
	if negative {
		res.Syn1Neg = make([]float32, vocab*dim)
	}
	return res
}

// Validate checks that every present table has Vocab rows
// of Dim columns.
func (s *Store) Validate() error {
	if s.Vocab <= 0 || s.Dim <= 0 {
		return newError(ShapeMismatch, "bad store dimensions %dx%d", s.Vocab, s.Dim)
	}
	if len(s.Syn0) != s.Vocab*s.Dim {
		return newError(ShapeMismatch, "syn0 has %d entries, expected %d",
			len(s.Syn0), s.Vocab*s.Dim)
	}
	for _, t := range []Table{TreeTable, NegativeTable} {
		data := s.Table(t)
		if data != nil && len(data) != s.Vocab*s.Dim {
			return newError(ShapeMismatch, "%s has %d entries, expected %d",
				t, len(data), s.Vocab*s.Dim)
		}
	}
	return nil
}

// Table returns the buffer for a table, or nil if it is
// not allocated.
func (s *Store) Table(t Table) []float32 {
	switch t {
	case InputTable:
		return s.Syn0
	case TreeTable:
		return s.Syn1
	case NegativeTable:
		return s.Syn1Neg
	default:
		panic("unknown table")
	}
}

// Row returns a view of a row in a table.
// Writes to the view modify the table.
func (s *Store) Row(t Table, idx int) []float32 {
	data := s.Table(t)
	return data[idx*s.Dim : (idx+1)*s.Dim]
}

// Copy creates a deep copy of the Store.
func (s *Store) Copy() *Store {
	res := *s
	res.Syn0 = copyTable(s.Syn0)
	res.Syn1 = copyTable(s.Syn1)
	res.Syn1Neg = copyTable(s.Syn1Neg)
	return &res
}

// SerializerType returns the unique ID used to serialize
// a Store with the serializer package.
func (s *Store) SerializerType() string {
	return "github.com/vecforge/wordembed/word2vec.Store"
}

// Serialize serializes the Store.
func (s *Store) Serialize() ([]byte, error) {
	var atomicFlag int
	if s.Atomic {
		atomicFlag = 1
	}
	return serializer.SerializeAny(s.Vocab, s.Dim, s.Syn0, s.Syn1, s.Syn1Neg, atomicFlag)
}

// add computes dst += alpha*src.
func (s *Store) add(dst, src []float32, alpha float32) {
	if s.Atomic {
		for i, x := range src {
			atomicAddFloat32(&dst[i], alpha*x)
		}
		return
	}
	blas32.Axpy(alpha, blasVec(src), blasVec(dst))
}

func dot(a, b []float32) float32 {
	return blas32.Dot(blasVec(a), blasVec(b))
}

func blasVec(v []float32) blas32.Vector {
	return blas32.Vector{N: len(v), Inc: 1, Data: v}
}

func atomicAddFloat32(addr *float32, delta float32) {
	ptr := (*uint32)(unsafe.Pointer(addr))
	for {
		old := atomic.LoadUint32(ptr)
		sum := math.Float32bits(math.Float32frombits(old) + delta)
		if atomic.CompareAndSwapUint32(ptr, old, sum) {
			return
		}
	}
}

func copyTable(t []float32) []float32 {
	if t == nil {
		return nil
	}
	return append([]float32{}, t...)
}
