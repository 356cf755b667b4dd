package word2vec

import (
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/anyvec/anyvecsave"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
	"github.com/vecforge/wordembed"
)

func init() {
	serializer.RegisterTypedDeserializer((&Embedding{}).SerializerType(),
		DeserializeEmbedding)
}

var _ wordembed.Embedding = (*Embedding)(nil)

// Embedding is a trained word embedding.
type Embedding struct {
	// Tokens is the list of available words.
	Tokens wordembed.TokenSet

	// Vectors contains one row per token ID.
	Vectors *anyvec.Matrix
}

// DeserializeEmbedding deserializes an Embedding.
func DeserializeEmbedding(d []byte) (*Embedding, error) {
	var res Embedding
	var rows, cols int
	var data *anyvecsave.S
	if err := serializer.DeserializeAny(d, &res.Tokens, &rows, &cols, &data); err != nil {
		return nil, essentials.AddCtx("deserialize Embedding", err)
	}
	res.Vectors = &anyvec.Matrix{
		Data: data.Vector,
		Rows: rows,
		Cols: cols,
	}
	return &res, nil
}

// Embedding copies the input vectors (syn0) into an
// Embedding.
//
// The tokens must list one word per row, in vocabulary
// index order.
func (s *Store) Embedding(tokens wordembed.TokenSet) (*Embedding, error) {
	if len(tokens) != s.Vocab {
		return nil, newError(ShapeMismatch, "%d tokens for %d rows", len(tokens), s.Vocab)
	}
	return &Embedding{
		Tokens: tokens,
		Vectors: &anyvec.Matrix{
			Data: anyvec32.MakeVectorData(append([]float32{}, s.Syn0...)),
			Rows: s.Vocab,
			Cols: s.Dim,
		},
	}, nil
}

// Normalize makes all the vectors have unit magnitude.
func (e *Embedding) Normalize() {
	c := e.Vectors.Data.Creator()
	squares := e.Vectors.Data.Copy()
	anyvec.Pow(squares, c.MakeNumeric(2))
	normalizers := anyvec.SumCols(squares, e.Vectors.Rows)
	anyvec.Pow(normalizers, c.MakeNumeric(-0.5))
	anyvec.ScaleChunks(e.Vectors.Data, normalizers)
}

// Dim returns the dimensionality of the vectors.
func (e *Embedding) Dim() int {
	return e.Vectors.Cols
}

// Embed returns the embedding for the token, or nil if the
// token is not in the vocabulary.
func (e *Embedding) Embed(token string) anyvec.Vector {
	id := e.Tokens.ID(token)
	if id >= len(e.Tokens) {
		return nil
	}
	return e.EmbedID(id)
}

// EmbedID returns the embedding for the token ID.
func (e *Embedding) EmbedID(id int) anyvec.Vector {
	idx := e.Vectors.Cols * id
	return e.Vectors.Data.Slice(idx, idx+e.Vectors.Cols).Copy()
}

// Token returns the token for the token ID.
func (e *Embedding) Token(id int) string {
	return e.Tokens.Token(id)
}

// Lookup finds the n closest token IDs to the given
// vector, using cosine similarity.
// For each ID, it also returns the similarity.
// Results are sorted from most to least similar.
//
// If n is greater than the number of IDs, then there will
// be fewer than n results.
func (e *Embedding) Lookup(vec anyvec.Vector, n int) ([]int, []anyvec.Numeric) {
	if vec.Len() != e.Vectors.Cols {
		panic("incorrect vector length")
	}

	c := e.Vectors.Data.Creator()
	squares := e.Vectors.Data.Copy()
	anyvec.Pow(squares, c.MakeNumeric(2))
	normalizers := anyvec.SumCols(squares, e.Vectors.Rows)
	anyvec.Pow(normalizers, c.MakeNumeric(-0.5))

	masked := e.Vectors.Data.Copy()
	anyvec.ScaleChunks(masked, normalizers)
	normVec := vec.Copy()
	normVec.Scale(c.NumOps().Div(c.MakeNumeric(1), anyvec.Norm(vec)))
	anyvec.ScaleRepeated(masked, normVec)

	similarity := vectorFloats(anyvec.SumCols(masked, e.Vectors.Rows))
	ids := make([]int, len(similarity))
	for i := range ids {
		ids[i] = i
	}
	essentials.VoodooSort(similarity, func(i, j int) bool {
		return similarity[i] > similarity[j]
	}, ids)

	if n > len(ids) {
		n = len(ids)
	}
	dists := make([]anyvec.Numeric, n)
	for i := range dists {
		dists[i] = c.MakeNumeric(similarity[i])
	}
	return ids[:n], dists
}

// SerializerType returns the unique ID used to serialize
// an Embedding with the serializer package.
func (e *Embedding) SerializerType() string {
	return "github.com/vecforge/wordembed/word2vec.Embedding"
}

// Serialize serializes the Embedding.
func (e *Embedding) Serialize() ([]byte, error) {
	return serializer.SerializeAny(
		e.Tokens,
		e.Vectors.Rows,
		e.Vectors.Cols,
		&anyvecsave.S{Vector: e.Vectors.Data},
	)
}

func vectorFloats(v anyvec.Vector) []float64 {
	switch data := v.Data().(type) {
	case []float64:
		return append([]float64{}, data...)
	case []float32:
		res := make([]float64, len(data))
		for i, x := range data {
			res[i] = float64(x)
		}
		return res
	default:
		panic("unsupported numeric type")
	}
}
