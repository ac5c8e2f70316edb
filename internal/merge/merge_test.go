package merge

import (
	"reflect"
	"testing"
)

func TestDeepMergeNestedObjects(t *testing.T) {
	base := Tree{
		"gameId": "1",
		"home":   Tree{"id": "10", "name": "Home"},
		"link":   "a",
	}
	overlay := Tree{
		"home": Tree{"powerIndexes": Tree{"bpi": Tree{"bpi": 3.0}}},
		"link": "b",
	}
	got := DeepMerge(base, overlay)
	want := Tree{
		"gameId": "1",
		"home":   Tree{"id": "10", "name": "Home", "powerIndexes": Tree{"bpi": Tree{"bpi": 3.0}}},
		"link":   "b",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected merge:\n got %#v\nwant %#v", got, want)
	}
}

func TestDeepMergeOverlayReplacesScalarAndMismatchedTypes(t *testing.T) {
	base := Tree{"a": "scalar", "b": Tree{"x": 1.0}, "c": []any{1.0, 2.0}}
	overlay := Tree{"a": Tree{"y": 2.0}, "b": "flat", "c": []any{3.0}}
	got := DeepMerge(base, overlay)
	if !reflect.DeepEqual(got["a"], Tree{"y": 2.0}) {
		t.Fatalf("object should replace scalar, got %#v", got["a"])
	}
	if got["b"] != "flat" {
		t.Fatalf("scalar should replace object, got %#v", got["b"])
	}
	if !reflect.DeepEqual(got["c"], []any{3.0}) {
		t.Fatalf("arrays are replaced, not merged, got %#v", got["c"])
	}
}

func TestDeepMergeNilOverlayIsAbsent(t *testing.T) {
	got := DeepMerge(Tree{"record": "10-5"}, Tree{"record": nil})
	if got["record"] != "10-5" {
		t.Fatalf("nil overlay should not clear base, got %#v", got["record"])
	}
}

func TestDeepMergeDoesNotMutateInputs(t *testing.T) {
	base := Tree{"home": Tree{"id": "1"}}
	overlay := Tree{"home": Tree{"record": "1-0"}}
	out := DeepMerge(base, overlay)
	out["home"].(Tree)["id"] = "changed"

	if _, ok := base["home"].(Tree)["record"]; ok {
		t.Fatalf("base was mutated: %#v", base)
	}
	if base["home"].(Tree)["id"] != "1" {
		t.Fatalf("result shares storage with base")
	}
	if len(overlay["home"].(Tree)) != 1 {
		t.Fatalf("overlay was mutated: %#v", overlay)
	}
}

func TestDeepMergeEmptyOverlayIsIdentity(t *testing.T) {
	a := Tree{"x": Tree{"y": 1.0}, "z": "s"}
	if got := DeepMerge(a, Tree{}); !reflect.DeepEqual(got, a) {
		t.Fatalf("expected identity, got %#v", got)
	}
	if got := DeepMerge(a, nil); !reflect.DeepEqual(got, a) {
		t.Fatalf("expected identity for nil overlay, got %#v", got)
	}
}

func TestDeepMergeAssociativeOnDisjointKeys(t *testing.T) {
	a := Tree{"home": Tree{"id": "1", "name": "A"}, "link": "l"}
	b := Tree{"home": Tree{"record": "3-2"}, "date": "d"}
	c := Tree{"home": Tree{"powerIndexes": Tree{"bpi": Tree{"bpi": 1.5}}}, "away": Tree{"id": "2"}}

	left := DeepMerge(DeepMerge(a, b), c)
	right := DeepMerge(a, DeepMerge(b, c))
	if !reflect.DeepEqual(left, right) {
		t.Fatalf("merge not associative:\n left %#v\nright %#v", left, right)
	}
}

func TestToTreeAndFromTree(t *testing.T) {
	type sample struct {
		ID    string  `json:"id"`
		Score float64 `json:"score"`
	}
	tree, err := ToTree(sample{ID: "a", Score: 0.5})
	if err != nil {
		t.Fatalf("ToTree: %v", err)
	}
	if tree["id"] != "a" || tree["score"] != 0.5 {
		t.Fatalf("unexpected tree %#v", tree)
	}
	var out sample
	if err := FromTree(tree, &out); err != nil {
		t.Fatalf("FromTree: %v", err)
	}
	if out.ID != "a" || out.Score != 0.5 {
		t.Fatalf("unexpected decode %+v", out)
	}
}
