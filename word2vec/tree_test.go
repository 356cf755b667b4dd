package word2vec

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"github.com/unixpickle/serializer"
)

func TestBuildTree(t *testing.T) {
	actual, err := BuildTree([]float64{0.501, 0.25, 0.125, 0.124})
	if err != nil {
		t.Fatal(err)
	}
	expected := &Tree{
		Paths: [][]Branch{
			{{0, 1}},
			{{0, 0}, {1, 1}},
			{{0, 0}, {1, 0}, {2, 1}},
			{{0, 0}, {1, 0}, {2, 0}},
		},
	}
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("expected %v but got %v", expected, actual)
	}
}

func TestBuildTreeTies(t *testing.T) {
	a, err := BuildTree([]float64{1, 1, 1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		b, _ := BuildTree([]float64{1, 1, 1, 1, 1})
		if !reflect.DeepEqual(a, b) {
			t.Fatal("tree is not deterministic")
		}
	}
}

func TestTreeStructure(t *testing.T) {
	for _, size := range []int{1, 2, 3, 17, 300} {
		freqs := make([]float64, size)
		for i := range freqs {
			freqs[i] = float64(rand.Intn(1000) + 1)
		}
		tree, err := BuildTree(freqs)
		if err != nil {
			t.Fatal(err)
		}
		if tree.NumWords() != size {
			t.Errorf("size %d: got %d words", size, tree.NumWords())
		}
		if tree.NumNodes() != size-1 {
			t.Errorf("size %d: got %d internal nodes", size, tree.NumNodes())
		}

		visited := map[int]bool{}
		codes := map[string]bool{}
		for word, path := range tree.Paths {
			if len(path) > 0 && path[0].Node != 0 {
				t.Errorf("size %d: word %d does not start at root", size, word)
			}
			code := ""
			for _, b := range path {
				if b.Node < 0 || b.Node >= tree.NumNodes() {
					t.Fatalf("size %d: node %d out of range", size, b.Node)
				}
				visited[b.Node] = true
				code += fmt.Sprint(b.Code)
			}
			if codes[code] {
				t.Errorf("size %d: duplicate code %q", size, code)
			}
			codes[code] = true
		}
		if len(visited) != tree.NumNodes() {
			t.Errorf("size %d: visited %d of %d nodes", size, len(visited), tree.NumNodes())
		}
	}
}

func TestBalancedTreeDepth(t *testing.T) {
	freqs := make([]float64, 64)
	for i := range freqs {
		freqs[i] = 1
	}
	tree, err := BuildTree(freqs)
	if err != nil {
		t.Fatal(err)
	}
	if tree.MaxDepth() != 6 {
		t.Errorf("expected depth 6 but got %d", tree.MaxDepth())
	}
}

func TestBuildTreeErrors(t *testing.T) {
	if _, err := BuildTree(nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("unexpected error for empty vocab: %v", err)
	}
	if _, err := BuildTree([]float64{1, -1}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("unexpected error for negative frequency: %v", err)
	}
}

func TestTreeSerialize(t *testing.T) {
	tree, err := BuildTree([]float64{5, 3, 9, 1, 1, 2})
	if err != nil {
		t.Fatal(err)
	}
	data, err := serializer.SerializeAny(tree)
	if err != nil {
		t.Fatal(err)
	}
	var tree1 *Tree
	if err := serializer.DeserializeAny(data, &tree1); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tree, tree1) {
		t.Error("invalid result")
	}
}
