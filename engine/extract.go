package engine

import (
	"encoding/json"
	"strings"

	"github.com/lehigh-university-libraries/valuegraph/profile"
)

// stringify renders a JSON leaf in its canonical form. Numbers keep the
// literal form they had in the input, which requires every decode path
// to use json.Decoder.UseNumber. Objects, arrays, and null are not
// stringifiable.
func stringify(v any) (string, bool) {
	switch n := v.(type) {
	case string:
		return n, true
	case json.Number:
		return n.String(), true
	case bool:
		if n {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
}

// extractContent applies a value-extraction clause to a node. When
// extraction fails (absent field, wrong shape, non-stringifiable leaf)
// the clause's null content is substituted, turning absence into an
// explicit assertion. ok is false only when substitution itself is
// impossible because the profile declares no matching null value.
func extractContent(clause *profile.ValueExtraction, node any, nulls map[string]profile.NullValue) (content string, substituted, ok bool) {
	switch clause.Method {
	case profile.MethodField:
		if obj, isObj := node.(map[string]any); isObj {
			if s, sok := stringify(obj[clause.Field]); sok {
				return s, false, true
			}
		}
	case profile.MethodCombineFields:
		if obj, isObj := node.(map[string]any); isObj {
			parts := make([]string, len(clause.Fields))
			present := false
			for i, field := range clause.Fields {
				if s, sok := stringify(obj[field]); sok {
					parts[i] = s
					present = true
				}
			}
			// Keep the joined result, untrimmed, as long as at least
			// one component was present.
			if present {
				return strings.Join(parts, clause.Separator), false, true
			}
		}
	}

	null, declared := nulls[clause.UseNull]
	if !declared {
		return "", false, false
	}
	return null.Content, true, true
}
