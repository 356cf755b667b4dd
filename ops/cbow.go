package ops

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/vecforge/wordembed/word2vec"
)

// CBOWName is the registered name of the CBOW operator.
const CBOWName = "cbow"

// CBOW creates the descriptor of the CBOW training
// operator, bound to a kernel and its Store.
//
// The operator takes three inputs:
//
//  1. a [B, 1+W] array of vocabulary indices holding, for
//     each of B samples, the target followed by up to W
//     context words; negative context entries are padding.
//  2. the input table as a [V, D] float32 array. It must be
//     the array returned by InputTable for the same Store,
//     since the update happens in place.
//  3. the learning rate, either a scalar or one rate per
//     sample.
//
// The single output is a float32 scalar holding the number
// of samples that were applied. Samples without context
// words are skipped. Every index and rate is checked
// before any row is written.
func CBOW(k *word2vec.Kernel) *Descriptor {
	op := &cbowOp{kernel: k}
	op.scratch.New = func() interface{} {
		return k.NewScratch(atomic.AddInt64(&op.seed, 1))
	}
	return &Descriptor{
		Name:       CBOWName,
		NumInputs:  3,
		NumOutputs: 1,
		InPlace:    true,
		Inputs:     AnyType,
		Outputs:    FloatTypes,
		Shape: func(inputs []*Array) ([][]int, error) {
			return [][]int{{}}, nil
		},
		Exec: op.exec,
	}
}

// InputTable wraps the syn0 table of s as a [V, D] array
// sharing its memory.
func InputTable(s *word2vec.Store) *Array {
	return FromFloat32(s.Syn0, s.Vocab, s.Dim)
}

type cbowOp struct {
	kernel  *word2vec.Kernel
	seed    int64
	scratch sync.Pool
}

func (c *cbowOp) exec(inputs []*Array) ([]*Array, error) {
	indices, table, rates := inputs[0], inputs[1], inputs[2]
	if err := c.checkTable(table); err != nil {
		return nil, err
	}
	if len(indices.Shape) != 2 || indices.Shape[1] < 1 {
		return nil, opError(word2vec.ShapeMismatch, "indices must have shape [B, 1+W], got %v",
			indices.Shape)
	}
	batch, width := indices.Shape[0], indices.Shape[1]
	if rates.Len() != 1 && rates.Len() != batch {
		return nil, opError(word2vec.ShapeMismatch, "%d learning rates for %d samples",
			rates.Len(), batch)
	}

	samples, err := c.samples(indices, rates, batch, width)
	if err != nil {
		return nil, err
	}

	sc := c.scratch.Get().(*word2vec.Scratch)
	defer c.scratch.Put(sc)
	var applied int
	for i := range samples {
		status, err := c.kernel.Update(&samples[i], sc)
		if err != nil {
			return nil, err
		}
		if status == word2vec.StatusOK {
			applied++
		}
	}
	return []*Array{FromFloat32([]float32{float32(applied)})}, nil
}

func (c *cbowOp) checkTable(table *Array) error {
	store := c.kernel.Store
	if table.DT != Float32 || !sameShape(table.Shape, []int{store.Vocab, store.Dim}) {
		return opError(word2vec.ShapeMismatch, "input table must be float32 [%d, %d], got %s %v",
			store.Vocab, store.Dim, table.DT, table.Shape)
	}
	data := table.Data.([]float32)
	if len(data) > 0 && &data[0] != &store.Syn0[0] {
		return opError(word2vec.ShapeMismatch, "input table is not the session's syn0")
	}
	return nil
}

func (c *cbowOp) samples(indices, rates *Array, batch, width int) ([]word2vec.Sample, error) {
	vocab := c.kernel.Store.Vocab
	res := make([]word2vec.Sample, batch)
	for i := range res {
		row := i * width
		target, err := wordIndex(indices.At(row), vocab)
		if err != nil {
			return nil, err
		}
		res[i].Target = target
		for j := 1; j < width; j++ {
			x := indices.At(row + j)
			if x < 0 {
				continue
			}
			word, err := wordIndex(x, vocab)
			if err != nil {
				return nil, err
			}
			res[i].Context = append(res[i].Context, word)
		}
		rate := rates.At(0)
		if rates.Len() != 1 {
			rate = rates.At(i)
		}
		if rate < 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			return nil, opError(word2vec.InvalidConfiguration, "bad learning rate %v", rate)
		}
		res[i].Rate = float32(rate)
	}
	return res, nil
}

func wordIndex(x float64, vocab int) (int, error) {
	if x != math.Trunc(x) || x < 0 || x >= float64(vocab) {
		return 0, opError(word2vec.OutOfRange, "index %v not in [0, %d)", x, vocab)
	}
	return int(x), nil
}
