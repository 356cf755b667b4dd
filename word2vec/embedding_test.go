package word2vec

import (
	"math"
	"reflect"
	"testing"

	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/serializer"
	"github.com/vecforge/wordembed"
)

func TestEmbeddingLookup(t *testing.T) {
	emb := exampleEmbedding(t)
	if emb.Dim() != 2 {
		t.Fatalf("unexpected dimension %d", emb.Dim())
	}

	ids, sims := emb.Lookup(anyvec32.MakeVectorData([]float32{1, 0.1}), 2)
	if !reflect.DeepEqual(ids, []int{0, 2}) {
		t.Errorf("unexpected neighbors %v", ids)
	}
	if len(sims) != 2 || sims[0].(float32) < sims[1].(float32) {
		t.Errorf("similarities out of order: %v", sims)
	}

	ids, _ = emb.Lookup(emb.Embed("cat"), 10)
	if len(ids) != 3 || ids[0] != 1 {
		t.Errorf("unexpected neighbors %v", ids)
	}
}

func TestEmbeddingEmbed(t *testing.T) {
	emb := exampleEmbedding(t)
	if emb.Embed("zebra") != nil {
		t.Error("unknown token should have no vector")
	}
	actual := vectorFloats(emb.Embed("dog"))
	if !reflect.DeepEqual(actual, []float64{1, 1}) {
		t.Errorf("unexpected vector %v", actual)
	}
	if emb.Token(2) != "dog" {
		t.Errorf("unexpected token %q", emb.Token(2))
	}
}

func TestEmbeddingNormalize(t *testing.T) {
	emb := exampleEmbedding(t)
	emb.Normalize()
	for id := range emb.Tokens {
		vec := vectorFloats(emb.EmbedID(id))
		if norm := math.Hypot(vec[0], vec[1]); math.Abs(norm-1) > 1e-5 {
			t.Errorf("token %d has norm %v", id, norm)
		}
	}
}

func TestEmbeddingCopiesStore(t *testing.T) {
	store := NewStore(3, 2, false, true, nil)
	emb, err := store.Embedding(wordembed.TokenSet{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	store.Syn0[0] = 1000
	if vectorFloats(emb.EmbedID(0))[0] == 1000 {
		t.Error("embedding shares memory with the store")
	}
	if _, err := store.Embedding(wordembed.TokenSet{"a"}); err == nil {
		t.Error("expected shape error")
	}
}

func TestEmbeddingSerialize(t *testing.T) {
	emb := exampleEmbedding(t)
	data, err := serializer.SerializeAny(emb)
	if err != nil {
		t.Fatal(err)
	}
	var obj interface{}
	if err := serializer.DeserializeAny(data, &obj); err != nil {
		t.Fatal(err)
	}
	decoded, ok := obj.(*Embedding)
	if !ok {
		t.Fatalf("unexpected type %T", obj)
	}
	if !reflect.DeepEqual(decoded.Tokens, emb.Tokens) {
		t.Errorf("expected tokens %v but got %v", emb.Tokens, decoded.Tokens)
	}
	if decoded.Vectors.Rows != 3 || decoded.Vectors.Cols != 2 {
		t.Errorf("bad shape %dx%d", decoded.Vectors.Rows, decoded.Vectors.Cols)
	}
	expected := vectorFloats(emb.Vectors.Data)
	if actual := vectorFloats(decoded.Vectors.Data); !reflect.DeepEqual(actual, expected) {
		t.Errorf("expected %v but got %v", expected, actual)
	}
}

func exampleEmbedding(t *testing.T) *Embedding {
	store := NewStore(3, 2, true, false, nil)
	copy(store.Syn0, []float32{1, 0, 0, 1, 1, 1})
	emb, err := store.Embedding(wordembed.NewTokenSet([]string{"dog", "ant", "cat"}))
	if err != nil {
		t.Fatal(err)
	}
	return emb
}
