package ops

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vecforge/wordembed/word2vec"
)

func TestTypeSet(t *testing.T) {
	require.True(t, AnyType.Contains(Int8))
	require.True(t, AnyType.Contains(Float64))
	require.False(t, FloatTypes.Contains(Int32))
	require.True(t, FloatTypes.Contains(BFloat16))
	require.Equal(t, TypesOf(Float16, BFloat16, Float32, Float64), FloatTypes)
	require.Equal(t, "any", AnyType.String())
	require.Equal(t, "{int32, float32}", TypesOf(Float32, Int32).String())
	for d := DataType(0); d < numDataTypes; d++ {
		require.NotEqual(t, d.IsFloat(), d.IsInteger(), d.String())
		require.Equal(t, d.IsFloat(), FloatTypes.Contains(d))
	}
}

func TestArray(t *testing.T) {
	a := NewArray(Int64, 2, 3)
	require.NoError(t, a.Validate())
	require.Equal(t, 6, a.Len())

	require.Error(t, FromFloat32([]float32{1, 2}, 3).Validate())
	require.Error(t, (&Array{DT: Int32, Shape: []int{2}, Data: []float32{1, 2}}).Validate())

	half := &Array{DT: Float16, Shape: []int{4}, Data: []uint16{0x3c00, 0xc000, 0x3800, 0}}
	bf := &Array{DT: BFloat16, Shape: []int{1}, Data: []uint16{0x3fc0}}
	require.NoError(t, half.Validate())
	require.Equal(t, []float64{1, -2, 0.5, 0},
		[]float64{half.At(0), half.At(1), half.At(2), half.At(3)})
	require.Equal(t, 1.5, bf.At(0))

	scalar := FromFloat64([]float64{0.25})
	require.NoError(t, scalar.Validate())
	require.Equal(t, 1, scalar.Len())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	double := &Descriptor{
		Name:       "double",
		NumInputs:  1,
		NumOutputs: 1,
		Inputs:     TypesOf(Float32),
		Outputs:    FloatTypes,
		Shape: func(inputs []*Array) ([][]int, error) {
			return [][]int{inputs[0].Shape}, nil
		},
		Exec: func(inputs []*Array) ([]*Array, error) {
			in := inputs[0].Data.([]float32)
			out := make([]float32, len(in))
			for i, x := range in {
				out[i] = 2 * x
			}
			return []*Array{FromFloat32(out, inputs[0].Shape...)}, nil
		},
	}
	require.NoError(t, r.Register(double))
	require.ErrorIs(t, r.Register(double), word2vec.ErrInvalidConfig)
	require.ErrorIs(t, r.Register(&Descriptor{Name: "broken"}), word2vec.ErrInvalidConfig)
	require.Equal(t, []string{"double"}, r.Names())

	d, ok := r.Lookup("double")
	require.True(t, ok)
	require.Equal(t, double, d)

	out, err := r.Invoke("double", FromFloat32([]float32{1, 2}, 2))
	require.NoError(t, err)
	require.Equal(t, []float32{2, 4}, out[0].Data)

	_, err = r.Invoke("missing")
	require.ErrorIs(t, err, word2vec.ErrInvalidConfig)
	_, err = r.Invoke("double")
	require.ErrorIs(t, err, word2vec.ErrShapeMismatch)
	_, err = r.Invoke("double", FromInt32([]int32{1}, 1))
	require.ErrorIs(t, err, word2vec.ErrInvalidConfig)
	_, err = r.Invoke("double", FromFloat32([]float32{1}, 2))
	require.ErrorIs(t, err, word2vec.ErrShapeMismatch)
}

func TestRegistryChecksOutputs(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Descriptor{
		Name:       "ints",
		NumInputs:  0,
		NumOutputs: 1,
		Inputs:     AnyType,
		Outputs:    FloatTypes,
		Shape: func(inputs []*Array) ([][]int, error) {
			return [][]int{{}}, nil
		},
		Exec: func(inputs []*Array) ([]*Array, error) {
			return []*Array{FromInt32([]int32{1})}, nil
		},
	}))
	_, err := r.Invoke("ints")
	require.ErrorIs(t, err, word2vec.ErrInvalidConfig)
}

func TestCBOW(t *testing.T) {
	kernel := testKernel(t)
	r := NewRegistry()
	require.NoError(t, r.Register(CBOW(kernel)))

	d, ok := r.Lookup(CBOWName)
	require.True(t, ok)
	require.Equal(t, 3, d.NumInputs)
	require.Equal(t, 1, d.NumOutputs)
	require.True(t, d.InPlace)
	require.Equal(t, AnyType, d.Inputs)
	require.Equal(t, FloatTypes, d.Outputs)

	before := kernel.Store.Copy()
	indices := FromInt64([]int64{
		0, 1, 2, -1,
		3, -1, -1, -1,
		2, 0, 1, 3,
	}, 3, 4)
	out, err := r.Invoke(CBOWName, indices, InputTable(kernel.Store),
		FromFloat32([]float32{0.025}))
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, Float32, out[0].DT)
	require.Empty(t, out[0].Shape)
	require.Equal(t, []float32{2}, out[0].Data)

	require.NotEqual(t, before.Syn0, kernel.Store.Syn0)
	require.Equal(t, before.Row(word2vec.InputTable, 4), kernel.Store.Row(word2vec.InputTable, 4))
}

func TestCBOWMatchesKernel(t *testing.T) {
	opKernel := testKernel(t)
	direct := *opKernel
	direct.Store = opKernel.Store.Copy()

	r := NewRegistry()
	require.NoError(t, r.Register(CBOW(opKernel)))
	_, err := r.Invoke(CBOWName, FromInt32([]int32{4, 1, -1, 2}, 1, 4),
		InputTable(opKernel.Store), FromFloat64([]float64{0.5}, 1))
	require.NoError(t, err)

	sample := &word2vec.Sample{Target: 4, Context: []int{1, 2}, Rate: 0.5}
	_, err = direct.Update(sample, direct.NewScratch(1))
	require.NoError(t, err)
	require.Equal(t, direct.Store.Syn0, opKernel.Store.Syn0)
	require.Equal(t, direct.Store.Syn1, opKernel.Store.Syn1)
}

func TestCBOWErrors(t *testing.T) {
	kernel := testKernel(t)
	r := NewRegistry()
	require.NoError(t, r.Register(CBOW(kernel)))
	table := InputTable(kernel.Store)
	rate := FromFloat32([]float32{0.1})
	before := kernel.Store.Copy()

	cases := []struct {
		inputs []*Array
		err    error
	}{
		{[]*Array{FromInt32([]int32{0, 1, 9}, 1, 3), table, rate}, word2vec.ErrOutOfRange},
		{[]*Array{FromInt32([]int32{0, 1, 2, 7, 1, 2}, 2, 3), table, rate}, word2vec.ErrOutOfRange},
		{[]*Array{FromFloat32([]float32{0.5, 1}, 1, 2), table, rate}, word2vec.ErrOutOfRange},
		{[]*Array{FromInt32([]int32{0, 1}, 2), table, rate}, word2vec.ErrShapeMismatch},
		{[]*Array{FromInt32([]int32{0, 1}, 1, 2), table,
			FromFloat32([]float32{0.1, 0.1, 0.1}, 3)}, word2vec.ErrShapeMismatch},
		{[]*Array{FromInt32([]int32{0, 1}, 1, 2),
			FromFloat32(append([]float32{}, kernel.Store.Syn0...), 6, 3), rate},
			word2vec.ErrShapeMismatch},
		{[]*Array{FromInt32([]int32{0, 1}, 1, 2), table}, word2vec.ErrShapeMismatch},
	}
	for i, c := range cases {
		_, err := r.Invoke(CBOWName, c.inputs...)
		require.ErrorIs(t, err, c.err, "case %d", i)
	}
	require.Equal(t, before, kernel.Store)
}

func TestCBOWRejectsBadRates(t *testing.T) {
	kernel := testKernel(t)
	r := NewRegistry()
	require.NoError(t, r.Register(CBOW(kernel)))
	before := kernel.Store.Copy()

	indices := FromInt32([]int32{0, 1, 2, 3, 2, 1}, 2, 3)
	for _, rates := range []*Array{
		FromFloat64([]float64{math.NaN()}),
		FromFloat64([]float64{math.Inf(1)}),
		FromFloat32([]float32{-0.1}),
		FromFloat64([]float64{0.1, math.NaN()}, 2),
	} {
		_, err := r.Invoke(CBOWName, indices, InputTable(kernel.Store), rates)
		require.ErrorIs(t, err, word2vec.ErrInvalidConfig)
	}
	require.Equal(t, before, kernel.Store)

	out, err := r.Invoke(CBOWName, indices, InputTable(kernel.Store), FromFloat32([]float32{0.1}))
	require.NoError(t, err)
	require.Equal(t, []float32{2}, out[0].Data)
	for _, x := range kernel.Store.Syn0 {
		require.False(t, math.IsNaN(float64(x)))
	}
}

func testKernel(t *testing.T) *word2vec.Kernel {
	freqs := []float64{30, 20, 10, 5, 1, 1}
	tree, err := word2vec.BuildTree(freqs)
	require.NoError(t, err)
	store := word2vec.NewStore(len(freqs), 3, true, false, rand.New(rand.NewSource(2)))
	kernel, err := word2vec.NewKernel(word2vec.Config{Dim: 3, Hierarchical: true}, store,
		tree, nil, nil)
	require.NoError(t, err)
	return kernel
}
