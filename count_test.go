package wordembed

import (
	"reflect"
	"sort"
	"testing"
)

func TestMostCommon(t *testing.T) {
	counts := countStream("c", "a", "a", "b", "b", "a", "c", "d", "c")
	common := counts.MostCommon(2)
	sort.Strings(common)
	if !reflect.DeepEqual(common, []string{"a", "c"}) {
		t.Error("expected [a c] but got", common)
	}
}

func TestFrequencies(t *testing.T) {
	counts := countStream("c", "a", "a", "b", "a", "c")
	tokens := TokenSet{"a", "b", "c", "z"}
	actual := counts.Frequencies(tokens)
	expected := []float64{3, 1, 2, 0}
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("expected %v but got %v", expected, actual)
	}
	if counts.Total() != 6 {
		t.Errorf("expected total 6 but got %d", counts.Total())
	}
}

func TestKeep(t *testing.T) {
	counts := countStream("c", "a", "a", "b", "b", "a", "c", "d", "c", "c")
	counts.Keep(2)
	expected := TokenCounts{"a": 3, "c": 4}
	if !reflect.DeepEqual(counts, expected) {
		t.Errorf("expected %v but got %v", expected, counts)
	}
	counts.Keep(10)
	if !reflect.DeepEqual(counts, expected) {
		t.Errorf("expected %v but got %v", expected, counts)
	}
}

func countStream(toks ...string) TokenCounts {
	counts := TokenCounts{}
	for _, tok := range toks {
		counts.Add(tok, 1)
	}
	return counts
}
