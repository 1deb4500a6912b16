package engine

import (
	"testing"

	"github.com/lehigh-university-libraries/valuegraph/profile"
)

var testNulls = map[string]profile.NullValue{
	"null_author": {ValueType: "author_name", Content: "NULL_AUTHOR_NAME"},
}

func TestExtractField(t *testing.T) {
	clause := &profile.ValueExtraction{
		Method:          profile.MethodField,
		Field:           "name",
		TargetValueType: "affiliation",
		UseNull:         "null_author",
	}

	tests := []struct {
		name        string
		node        any
		content     string
		substituted bool
	}{
		{"string field", decode(t, `{"name":"Analytical Engine Co"}`), "Analytical Engine Co", false},
		{"number keeps literal form", decode(t, `{"name":311}`), "311", false},
		{"large number keeps literal form", decode(t, `{"name":1e6}`), "1e6", false},
		{"bool renders canonically", decode(t, `{"name":true}`), "true", false},
		{"absent field", decode(t, `{"other":"x"}`), "NULL_AUTHOR_NAME", true},
		{"null field", decode(t, `{"name":null}`), "NULL_AUTHOR_NAME", true},
		{"object field", decode(t, `{"name":{"x":1}}`), "NULL_AUTHOR_NAME", true},
		{"array field", decode(t, `{"name":["x"]}`), "NULL_AUTHOR_NAME", true},
		{"non-object node", "just a string", "NULL_AUTHOR_NAME", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, substituted, ok := extractContent(clause, tt.node, testNulls)
			if !ok {
				t.Fatal("extractContent not ok")
			}
			if content != tt.content {
				t.Errorf("content = %q, want %q", content, tt.content)
			}
			if substituted != tt.substituted {
				t.Errorf("substituted = %v, want %v", substituted, tt.substituted)
			}
		})
	}
}

func TestExtractCombineFields(t *testing.T) {
	clause := &profile.ValueExtraction{
		Method:          profile.MethodCombineFields,
		Fields:          []string{"given", "family"},
		Separator:       " ",
		TargetValueType: "author_name",
		UseNull:         "null_author",
	}

	tests := []struct {
		name        string
		node        any
		content     string
		substituted bool
	}{
		{"both present", decode(t, `{"given":"Ada","family":"Lovelace"}`), "Ada Lovelace", false},
		// The joined result is kept untrimmed when any component is present.
		{"family missing keeps separator", decode(t, `{"given":"Ada"}`), "Ada ", false},
		{"given missing keeps separator", decode(t, `{"family":"Lovelace"}`), " Lovelace", false},
		{"all missing substitutes null", decode(t, `{"sequence":"first"}`), "NULL_AUTHOR_NAME", true},
		{"non-stringifiable counts as missing", decode(t, `{"given":{"x":1},"family":[1]}`), "NULL_AUTHOR_NAME", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, substituted, ok := extractContent(clause, tt.node, testNulls)
			if !ok {
				t.Fatal("extractContent not ok")
			}
			if content != tt.content {
				t.Errorf("content = %q, want %q", content, tt.content)
			}
			if substituted != tt.substituted {
				t.Errorf("substituted = %v, want %v", substituted, tt.substituted)
			}
		})
	}
}

func TestExtractUndeclaredNull(t *testing.T) {
	clause := &profile.ValueExtraction{
		Method:          profile.MethodField,
		Field:           "name",
		TargetValueType: "affiliation",
		UseNull:         "null_missing",
	}

	_, _, ok := extractContent(clause, decode(t, `{}`), testNulls)
	if ok {
		t.Error("extraction with an undeclared null key should not be ok")
	}
}

func decode(t *testing.T, line string) map[string]any {
	t.Helper()
	record, err := decodeRecord([]byte(line))
	if err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}
	return record
}
