package word2vec

import (
	"math"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
	"github.com/unixpickle/splaytree"
)

func init() {
	var t Tree
	serializer.RegisterTypedDeserializer(t.SerializerType(), DeserializeTree)
}

// A Branch is one decision on a word's root-to-leaf path
// through a Tree.
type Branch struct {
	// Node is the index of the internal node, in the range
	// [0, V-1). It selects a row of the Syn1 table.
	Node int

	// Code is 1 if the path goes to the left child at Node
	// and 0 if it goes to the right child.
	//
	// The training label for the node is 1-Code.
	Code uint8
}

// Tree is a Huffman tree used to encode words for a
// hierarchical softmax layer.
//
// Paths[i] is the root-to-leaf path for vocabulary index
// i. Internal nodes are numbered in pre-order, starting at
// 0 for the root.
//
// A Tree is read-only once built and may be shared by any
// number of goroutines.
type Tree struct {
	Paths [][]Branch
}

// DeserializeTree deserializes a Tree.
func DeserializeTree(d []byte) (tree *Tree, err error) {
	defer essentials.AddCtxTo("deserialize Tree", &err)
	var offsets, nodes, codes []int
	if err := serializer.DeserializeAny(d, &offsets, &nodes, &codes); err != nil {
		return nil, err
	}
	if len(nodes) != len(codes) {
		return nil, newError(ShapeMismatch, "%d nodes but %d codes", len(nodes), len(codes))
	}
	res := &Tree{Paths: make([][]Branch, len(offsets))}
	for i, start := range offsets {
		end := len(nodes)
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		if start > end || end > len(nodes) {
			return nil, newError(OutOfRange, "bad path offset %d", start)
		}
		path := make([]Branch, end-start)
		for j := range path {
			path[j] = Branch{Node: nodes[start+j], Code: uint8(codes[start+j])}
		}
		res.Paths[i] = path
	}
	return res, nil
}

// BuildTree builds a Tree using Huffman coding.
// The frequency of vocabulary index i is freqs[i].
//
// Of the two nodes merged at each step, the more frequent
// one becomes the left child.
// Ties between equal frequencies go to the node that was
// created first: leaves in index order, then merged nodes
// in the order they were merged.
func BuildTree(freqs []float64) (*Tree, error) {
	if len(freqs) == 0 {
		return nil, newError(InvalidConfiguration, "empty vocabulary")
	}
	for i, f := range freqs {
		if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, newError(InvalidConfiguration, "bad frequency %v for word %d", f, i)
		}
	}
	root := buildHuffman(freqs)
	res := &Tree{Paths: make([][]Branch, len(freqs))}
	var nodeIdx int
	root.putInTree(res, nil, &nodeIdx)
	return res, nil
}

// NumWords returns the number of leaves.
func (t *Tree) NumWords() int {
	return len(t.Paths)
}

// NumNodes returns the number of internal nodes, which is
// one less than the number of words.
func (t *Tree) NumNodes() int {
	if len(t.Paths) == 0 {
		return 0
	}
	return len(t.Paths) - 1
}

// Path returns the root-to-leaf path for the word.
// The result must not be modified.
func (t *Tree) Path(word int) []Branch {
	return t.Paths[word]
}

// MaxDepth returns the length of the longest path.
func (t *Tree) MaxDepth() int {
	var max int
	for _, p := range t.Paths {
		if len(p) > max {
			max = len(p)
		}
	}
	return max
}

// SerializerType returns the unique ID used to serialize
// a Tree with the serializer package.
func (t *Tree) SerializerType() string {
	return "github.com/vecforge/wordembed/word2vec.Tree"
}

// Serialize serializes the Tree.
func (t *Tree) Serialize() ([]byte, error) {
	offsets := make([]int, len(t.Paths))
	var nodes, codes []int
	for i, path := range t.Paths {
		offsets[i] = len(nodes)
		for _, b := range path {
			nodes = append(nodes, b.Node)
			codes = append(codes, int(b.Code))
		}
	}
	return serializer.SerializeAny(offsets, nodes, codes)
}

func buildHuffman(freqs []float64) *huffmanNode {
	tree := &splaytree.Tree{}
	for word, freq := range freqs {
		tree.Insert(treeValue{Node: &huffmanNode{Word: word}, Prob: freq, Seq: word})
	}
	seq := len(freqs)
	for {
		min1, ok := popMinProb(tree)
		if !ok {
			panic("no nodes")
		}
		min2, ok := popMinProb(tree)
		if !ok {
			return min1.Node
		}
		node := &huffmanNode{
			Left:  min2.Node,
			Right: min1.Node,
		}
		tree.Insert(treeValue{Node: node, Prob: min1.Prob + min2.Prob, Seq: seq})
		seq++
	}
}

func popMinProb(t *splaytree.Tree) (treeValue, bool) {
	if t.Root == nil {
		return treeValue{}, false
	}
	n := t.Root
	for n.Left != nil {
		n = n.Left
	}
	res := n.Value.(treeValue)
	t.Delete(res)
	return res, true
}

type treeValue struct {
	Node *huffmanNode
	Prob float64

	// Seq is the creation order, used to break ties.
	Seq int
}

func (t treeValue) Compare(v2 splaytree.Value) int {
	other := v2.(treeValue)
	if t.Prob < other.Prob {
		return -1
	} else if t.Prob > other.Prob {
		return 1
	}
	if t.Seq < other.Seq {
		return -1
	} else if t.Seq > other.Seq {
		return 1
	}
	return 0
}

type huffmanNode struct {
	Word  int
	Left  *huffmanNode
	Right *huffmanNode
}

func (h *huffmanNode) putInTree(tree *Tree, path []Branch, nodeIdx *int) {
	if h.Left == nil {
		tree.Paths[h.Word] = append([]Branch{}, path...)
		return
	}

	id := *nodeIdx
	(*nodeIdx)++

	path = append(path, Branch{Node: id, Code: 1})
	h.Left.putInTree(tree, path, nodeIdx)
	path[len(path)-1].Code = 0
	h.Right.putInTree(tree, path, nodeIdx)
}
