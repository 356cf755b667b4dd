package word2vec

import (
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
	"gonum.org/v1/gonum/blas/blas32"
)

// A Kernel applies CBOW training updates to a Store.
//
// A Kernel may be used from many goroutines at once, as
// long as each goroutine has its own Scratch. Updates from
// different goroutines are not synchronized; see Store for
// the consequences.
type Kernel struct {
	Store   *Store
	Sigmoid *SigmoidTable

	// Tree is nil when hierarchical softmax is disabled.
	Tree *Tree

	// Table is nil when negative sampling is disabled.
	Table      *SamplingTable
	Negative   int
	Collisions CollisionPolicy
}

// NewKernel validates the configuration against the
// tables and creates a Kernel.
//
// The tree is only required (and only used) when
// cfg.Hierarchical is set, and the sampling table only
// when cfg.Negative is positive.
// If sigmoid is nil, NewSigmoidTable(0, 0) is used.
func NewKernel(cfg Config, store *Store, tree *Tree, table *SamplingTable,
	sigmoid *SigmoidTable) (*Kernel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, newError(InvalidConfiguration, "missing store")
	}
	if err := store.Validate(); err != nil {
		return nil, err
	}
	if store.Dim != cfg.Dim {
		return nil, newError(ShapeMismatch, "store has dimension %d, expected %d",
			store.Dim, cfg.Dim)
	}
	if sigmoid == nil {
		sigmoid = NewSigmoidTable(0, 0)
	}
	res := &Kernel{Store: store, Sigmoid: sigmoid}

	if cfg.Hierarchical {
		if tree == nil {
			return nil, newError(InvalidConfiguration, "hierarchical softmax requires a tree")
		}
		if store.Syn1 == nil {
			return nil, newError(ShapeMismatch, "hierarchical softmax requires syn1")
		}
		if tree.NumWords() != store.Vocab {
			return nil, newError(ShapeMismatch, "tree has %d words, store has %d",
				tree.NumWords(), store.Vocab)
		}
		res.Tree = tree
	}
	if cfg.Negative > 0 {
		if table == nil {
			return nil, newError(InvalidConfiguration, "negative sampling requires a table")
		}
		if store.Syn1Neg == nil {
			return nil, newError(ShapeMismatch, "negative sampling requires syn1neg")
		}
		if table.NumWords() != store.Vocab {
			return nil, newError(ShapeMismatch, "sampling table has %d words, store has %d",
				table.NumWords(), store.Vocab)
		}
		res.Table = table
		res.Negative = cfg.Negative
		res.Collisions = cfg.Collisions
	}
	return res, nil
}

// NewScratch creates a Scratch sized for the Kernel.
func (k *Kernel) NewScratch(seed int64) *Scratch {
	return NewScratch(k.Store.Dim, newRand(seed))
}

// Update applies one SGD step for the sample.
//
// The mean of the context vectors is scored against the
// target's tree path and/or the target plus K negative
// words. The output rows are updated as they are scored,
// and the accumulated error is then added, undivided, to
// the input row of every context word.
//
// Indices are checked before anything is written, so a
// failed Update leaves the Store untouched.
// A sample without context words changes nothing and
// reports StatusEmptyContext.
func (k *Kernel) Update(s *Sample, sc *Scratch) (Status, error) {
	if err := k.checkSample(s); err != nil {
		return StatusError, err
	}
	if sc == nil {
		return StatusError, newError(InvalidConfiguration, "missing scratch")
	}
	if len(sc.hidden) != k.Store.Dim {
		return StatusError, newError(ShapeMismatch, "scratch has dimension %d, expected %d",
			len(sc.hidden), k.Store.Dim)
	}
	h, e := sc.hidden, sc.errors
	for i := range e {
		e[i] = 0
	}
	if len(s.Context) == 0 {
		return StatusEmptyContext, nil
	}
	k.meanContext(h, s.Context)

	lr := s.rate()
	if k.Tree != nil {
		hierarchicalSoftmax(k, h, e, s.Target, lr, sc)
	}
	if k.Table != nil {
		negativeSampling(k, h, e, s.Target, lr, sc)
	}

	for _, c := range s.Context {
		k.Store.add(k.Store.Row(InputTable, c), e, 1)
	}
	return StatusOK, nil
}

// Loss computes the sigmoid cross-entropy of the sample
// under the current parameters, using the exact logistic
// function.
//
// The loss covers the target's tree path and, with
// negative sampling, the positive target term. Negative
// words are random and therefore left out.
func (k *Kernel) Loss(s *Sample) (float64, error) {
	if err := k.checkSample(s); err != nil {
		return 0, err
	}
	if len(s.Context) == 0 {
		return 0, nil
	}
	h := make([]float32, k.Store.Dim)
	k.meanContext(h, s.Context)

	var logits, labels []float64
	if k.Tree != nil {
		for _, b := range k.Tree.Path(s.Target) {
			logits = append(logits, float64(dot(h, k.Store.Row(TreeTable, b.Node))))
			labels = append(labels, float64(1-b.Code))
		}
	}
	if k.Table != nil {
		logits = append(logits, float64(dot(h, k.Store.Row(NegativeTable, s.Target))))
		labels = append(labels, 1)
	}
	if len(logits) == 0 {
		return 0, nil
	}

	c := anyvec32.CurrentCreator()
	actual := anydiff.NewConst(c.MakeVectorData(c.MakeNumericList(logits)))
	desired := anydiff.NewConst(c.MakeVectorData(c.MakeNumericList(labels)))
	cost := anynet.SigmoidCE{}.Cost(desired, actual, 1)
	return numericFloat(anyvec.Sum(cost.Output())), nil
}

func (k *Kernel) checkSample(s *Sample) error {
	if s.Target < 0 || s.Target >= k.Store.Vocab {
		return newError(OutOfRange, "target %d not in [0, %d)", s.Target, k.Store.Vocab)
	}
	for _, c := range s.Context {
		if c < 0 || c >= k.Store.Vocab {
			return newError(OutOfRange, "context word %d not in [0, %d)", c, k.Store.Vocab)
		}
	}
	return nil
}

func (k *Kernel) meanContext(h []float32, context []int) {
	for i := range h {
		h[i] = 0
	}
	for _, c := range context {
		blas32.Axpy(1, blasVec(k.Store.Row(InputTable, c)), blasVec(h))
	}
	blas32.Scal(1/float32(len(context)), blasVec(h))
}

// hierarchicalSoftmax and negativeSampling are the two
// output-layer strategies. Both score h against output
// rows, accumulate the error for h into e, and update the
// output rows in place.

func hierarchicalSoftmax(k *Kernel, h, e []float32, target int, lr float32, sc *Scratch) {
	for _, b := range k.Tree.Path(target) {
		row := k.Store.Row(TreeTable, b.Node)
		f := k.Sigmoid.Value(dot(h, row))
		g := (1 - float32(b.Code) - f) * lr
		blas32.Axpy(g, blasVec(row), blasVec(e))
		k.Store.add(row, h, g)
	}
}

func negativeSampling(k *Kernel, h, e []float32, target int, lr float32, sc *Scratch) {
	sc.negatives = k.Table.DrawN(sc.negatives[:0], sc.Rand, k.Negative, target, k.Collisions)
	trainOutputRow(k, h, e, target, 1, lr)
	for _, w := range sc.negatives {
		trainOutputRow(k, h, e, w, 0, lr)
	}
}

func trainOutputRow(k *Kernel, h, e []float32, word int, label, lr float32) {
	row := k.Store.Row(NegativeTable, word)
	f := k.Sigmoid.Value(dot(h, row))
	g := (label - f) * lr
	blas32.Axpy(g, blasVec(row), blasVec(e))
	k.Store.add(row, h, g)
}

func numericFloat(n anyvec.Numeric) float64 {
	switch n := n.(type) {
	case float32:
		return float64(n)
	case float64:
		return n
	default:
		panic("unsupported numeric type")
	}
}
