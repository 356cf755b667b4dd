package wordembed

import (
	"reflect"
	"testing"

	"github.com/unixpickle/serializer"
)

func TestTokenSetIDs(t *testing.T) {
	tokens := NewTokenSet([]string{"dog", "cat", "ant", "cat"})
	if !reflect.DeepEqual(tokens, TokenSet{"ant", "cat", "dog"}) {
		t.Fatalf("unexpected token set: %v", tokens)
	}
	ids := tokens.IDs([]string{"dog", "bee", "ant", "zebra"})
	if !reflect.DeepEqual(ids, []int{2, 3, 0, 3}) {
		t.Errorf("unexpected IDs: %v", ids)
	}
	if tokens.Token(3) != "" || tokens.Token(-1) != "" || tokens.Token(1) != "cat" {
		t.Error("bad Token lookup")
	}
	if tokens.NumIDs() != 4 {
		t.Errorf("expected 4 IDs but got %d", tokens.NumIDs())
	}
}

func TestTokenSetSerialize(t *testing.T) {
	tokens := TokenSet{"a", "b", "c"}
	data, err := serializer.SerializeAny(tokens)
	if err != nil {
		t.Fatal(err)
	}
	var res TokenSet
	if err := serializer.DeserializeAny(data, &res); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res, tokens) {
		t.Errorf("expected %v but got %v", tokens, res)
	}
}
