package pointer

import (
	"encoding/json"
	"testing"
)

func parse(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return v
}

func TestResolveBareKey(t *testing.T) {
	root := parse(t, `{"DOI":"10.1/x","member":311}`)

	r := Resolve(root, "DOI")
	if r.Kind != Single {
		t.Fatalf("Kind = %v, want Single", r.Kind)
	}
	if r.Node != "10.1/x" {
		t.Errorf("Node = %v, want 10.1/x", r.Node)
	}
}

func TestResolvePointer(t *testing.T) {
	root := parse(t, `{
		"author": [
			{"given": "Ada", "family": "Lovelace"},
			{"given": "Charles", "family": "Babbage"}
		],
		"nested": {"a/b": {"~tilde": "deep"}}
	}`)

	tests := []struct {
		name string
		path string
		kind Kind
		node any
	}{
		{"array field", "/author", Multiple, nil},
		{"array index", "/author/1/given", Single, "Charles"},
		{"escaped slash", "/nested/a~1b/~0tilde", Single, "deep"},
		{"missing key", "/author/0/orcid", NotFound, nil},
		{"index out of range", "/author/7/given", NotFound, nil},
		{"negative index", "/author/-1", NotFound, nil},
		{"descend through scalar", "/author/0/given/x", NotFound, nil},
		{"empty path", "", NotFound, nil},
		{"bare key missing", "title", NotFound, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Resolve(root, tt.path)
			if r.Kind != tt.kind {
				t.Fatalf("Resolve(%q).Kind = %v, want %v", tt.path, r.Kind, tt.kind)
			}
			if tt.node != nil && r.Node != tt.node {
				t.Errorf("Resolve(%q).Node = %v, want %v", tt.path, r.Node, tt.node)
			}
		})
	}
}

func TestResolveArrayShape(t *testing.T) {
	root := parse(t, `{"affiliation":[{"name":"A"},{"name":"B"}],"empty":[]}`)

	r := Resolve(root, "/affiliation")
	if r.Kind != Multiple {
		t.Fatalf("Kind = %v, want Multiple", r.Kind)
	}
	if len(r.Nodes) != 2 {
		t.Errorf("len(Nodes) = %d, want 2", len(r.Nodes))
	}

	r = Resolve(root, "/empty")
	if r.Kind != Multiple {
		t.Fatalf("empty array Kind = %v, want Multiple", r.Kind)
	}
	if len(r.Nodes) != 0 {
		t.Errorf("empty array len(Nodes) = %d, want 0", len(r.Nodes))
	}
}

func TestResolveNumericObjectKey(t *testing.T) {
	// Numeric tokens address object keys when the node is an object.
	root := parse(t, `{"issued":{"0":"first"}}`)

	r := Resolve(root, "/issued/0")
	if r.Kind != Single || r.Node != "first" {
		t.Errorf("Resolve(/issued/0) = %+v, want Single first", r)
	}
}
