package engine

import (
	"slices"
	"strings"

	"github.com/lehigh-university-libraries/valuegraph/graph"
	"github.com/lehigh-university-libraries/valuegraph/pointer"
	"github.com/lehigh-university-libraries/valuegraph/profile"
)

// ProcessRecordRelationship is the relationship type linking a process
// to every record it consumed.
const ProcessRecordRelationship = "source"

// DirectConfidence is the confidence score on every directly-extracted
// assertion.
const DirectConfidence = "1.0"

// Drop says why a record produced no rows.
type Drop int

const (
	// DropNone means the record was interpreted.
	DropNone Drop = iota
	// DropMissingIdentifier means the record identifier did not resolve.
	DropMissingIdentifier
	// DropFiltered means a bound filter rejected the record.
	DropFiltered
)

// Interpreter walks records according to one immutable profile. It holds
// no per-record state and is safe to share across goroutines.
type Interpreter struct {
	prof     *profile.Profile
	bound    map[string]string
	valueRel string
}

// NewInterpreter binds a profile and a task's filter values.
func NewInterpreter(p *profile.Profile, bound map[string]string) *Interpreter {
	return &Interpreter{
		prof:     p,
		bound:    bound,
		valueRel: p.ValueRelationship(),
	}
}

// Interpret walks one parsed record and returns every row it emits, in
// emission order, or a nil batch with the reason the record was dropped.
// A dropped record emits nothing at all.
func (it *Interpreter) Interpret(root map[string]any) (*graph.Batch, Drop) {
	identifier, ok := it.recordIdentifier(root)
	if !ok {
		return nil, DropMissingIdentifier
	}

	for _, f := range it.prof.Filters {
		want, bound := it.bound[f.CLIArg]
		if !bound {
			continue
		}
		if !it.passesFilter(root, f, want) {
			return nil, DropFiltered
		}
	}

	st := &walkState{
		root:     root,
		recordID: graph.RecordID(it.prof.DeterministicIDs.RecordPrefix, identifier),
		batch:    &graph.Batch{},
		ordinals: make(map[string]int),
	}

	st.batch.Records = append(st.batch.Records, graph.RecordRow{
		RecordID: st.recordID,
		DOI:      identifier,
	})
	st.batch.ProcessRecords = append(st.batch.ProcessRecords,
		graph.NewProcessRecord(it.prof.ProcessInfo.ID, st.recordID, ProcessRecordRelationship))

	for i := range it.prof.Entities {
		it.walkEntity(st, &it.prof.Entities[i], root, 1, "")
	}

	return st.batch, DropNone
}

// recordIdentifier resolves the identifier path to a scalar. A record
// whose identifier is missing cannot be keyed, so it is dropped whether
// or not the profile marks the identifier required.
func (it *Interpreter) recordIdentifier(root map[string]any) (string, bool) {
	res := pointer.Resolve(root, it.prof.RecordIdentifier.Path)
	if res.Kind != pointer.Single {
		return "", false
	}
	return stringify(res.Node)
}

// passesFilter compares the resolved filter value to the bound literal,
// case-sensitive. A missing path falls back to fallback_from reduced to
// its segment before the first "/" (the DOI-prefix transformation).
func (it *Interpreter) passesFilter(root map[string]any, f profile.Filter, want string) bool {
	res := pointer.Resolve(root, f.Path)
	if res.Kind == pointer.Single {
		got, ok := stringify(res.Node)
		return ok && got == want
	}

	if f.FallbackFrom == "" {
		return false
	}
	fres := pointer.Resolve(root, f.FallbackFrom)
	if fres.Kind != pointer.Single {
		return false
	}
	got, ok := stringify(fres.Node)
	if !ok {
		return false
	}
	if i := strings.Index(got, "/"); i >= 0 {
		got = got[:i]
	}
	return got == want
}

// walkState is the per-record interpretation context. Ordinal counters
// are keyed by (parent id, relationship type) so each group's ordinals
// are dense and zero-based regardless of how many specs feed it.
type walkState struct {
	root     map[string]any
	recordID string
	batch    *graph.Batch
	ordinals map[string]int
}

func (st *walkState) nextOrdinal(parentID, relType string) int {
	key := parentID + "\x1f" + relType
	n := st.ordinals[key]
	st.ordinals[key] = n + 1
	return n
}

// emitValue declares a value and its process assertion, returning the
// derived value ID.
func (it *Interpreter) emitValue(st *walkState, valueType, content string) string {
	ids := it.prof.DeterministicIDs
	valueID := graph.ValueID(ids.ValuePrefix, ids.ValueFormat, valueType, content)

	st.batch.Values = append(st.batch.Values, graph.ValueRow{
		ValueID: valueID,
		Type:    valueType,
		Content: content,
	})
	st.batch.ProcessValues = append(st.batch.ProcessValues,
		graph.NewProcessValue(it.prof.ProcessInfo.ID, valueID, it.valueRel, DirectConfidence))

	return valueID
}

// walkEntity interprets one entity spec at node, emitting a value and a
// relationship per resolved element, then its related values, lookup
// joins, and nested entities in profile order.
func (it *Interpreter) walkEntity(st *walkState, ent *profile.Entity, node any, depth int, parentValueID string) {
	for _, elem := range resolveElements(node, ent.Path, ent.IsArray) {
		content, _, ok := extractContent(&ent.ValueExtraction, elem, it.prof.NullValues)
		if !ok {
			continue
		}
		valueID := it.emitValue(st, ent.ValueExtraction.TargetValueType, content)

		if depth == 1 {
			ordinal := st.nextOrdinal(st.recordID, ent.RelationshipToRecord)
			st.batch.RecordValues = append(st.batch.RecordValues,
				graph.NewRecordValue(st.recordID, valueID, ent.RelationshipToRecord, ordinal))
		} else {
			ordinal := st.nextOrdinal(parentValueID, ent.RelationshipToParent)
			st.batch.ValueValues = append(st.batch.ValueValues,
				graph.NewValueValue(parentValueID, valueID, ent.RelationshipToParent, ordinal, DirectConfidence))
		}

		for i := range ent.RelatedValues {
			it.walkRelated(st, &ent.RelatedValues[i], elem, valueID)
		}
		for i := range ent.LookupJoins {
			it.walkLookup(st, &ent.LookupJoins[i], elem, valueID)
		}
		for i := range ent.NestedEntities {
			it.walkEntity(st, &ent.NestedEntities[i], elem, depth+1, valueID)
		}
	}
}

// walkRelated attaches values to an entity without opening a new level
// of the parent chain.
func (it *Interpreter) walkRelated(st *walkState, rv *profile.RelatedValue, node any, parentValueID string) {
	for _, elem := range resolveElements(node, rv.Path, rv.IsArray) {
		if rv.FilterCondition != nil && !matchesCondition(elem, rv.FilterCondition) {
			continue
		}
		content, _, ok := extractContent(&rv.ExtractValue, elem, it.prof.NullValues)
		if !ok {
			continue
		}
		valueID := it.emitValue(st, rv.ExtractValue.TargetValueType, content)
		ordinal := st.nextOrdinal(parentValueID, rv.RelationshipToParent)
		st.batch.ValueValues = append(st.batch.ValueValues,
			graph.NewValueValue(parentValueID, valueID, rv.RelationshipToParent, ordinal, DirectConfidence))

		if rv.TakeFirstMatch {
			return
		}
	}
}

// walkLookup resolves identifiers carried on the entity against a
// lookup array at the record root, preserving lookup-array order.
func (it *Interpreter) walkLookup(st *walkState, lj *profile.LookupJoin, node any, parentValueID string) {
	obj, isObj := node.(map[string]any)
	if !isObj {
		return
	}

	var sourceVals []string
	if lj.SourceMatchIsArray {
		arr, isArr := obj[lj.SourceMatchField].([]any)
		if !isArr {
			return
		}
		for _, v := range arr {
			if s, ok := stringify(v); ok {
				sourceVals = append(sourceVals, s)
			}
		}
	} else if s, ok := stringify(obj[lj.SourceMatchField]); ok {
		sourceVals = append(sourceVals, s)
	}
	if len(sourceVals) == 0 {
		return
	}

	res := pointer.Resolve(st.root, lj.LookupArrayPath)
	if res.Kind != pointer.Multiple {
		return
	}

	for _, item := range res.Nodes {
		lookupObj, isLookupObj := item.(map[string]any)
		if !isLookupObj {
			continue
		}
		matchVal, ok := stringify(lookupObj[lj.LookupMatchField])
		if !ok || !slices.Contains(sourceVals, matchVal) {
			continue
		}

		content, _, extracted := extractContent(&lj.ExtractValue, item, it.prof.NullValues)
		if !extracted {
			continue
		}
		valueID := it.emitValue(st, lj.ExtractValue.TargetValueType, content)
		ordinal := st.nextOrdinal(parentValueID, lj.RelationshipToCurrent)
		st.batch.ValueValues = append(st.batch.ValueValues,
			graph.NewValueValue(parentValueID, valueID, lj.RelationshipToCurrent, ordinal, DirectConfidence))

		if lj.TakeFirstMatch {
			return
		}
	}
}

// resolveElements normalizes a path resolution to the ordered element
// list an entity or related-value spec iterates. A spec expecting an
// array that finds a single node gets nothing; a spec expecting a
// single node that finds an array gets the array itself as one element,
// which fails extraction and substitutes null.
func resolveElements(node any, path string, isArray bool) []any {
	res := pointer.Resolve(node, path)
	if isArray {
		if res.Kind != pointer.Multiple {
			return nil
		}
		return res.Nodes
	}
	switch res.Kind {
	case pointer.Single:
		return []any{res.Node}
	case pointer.Multiple:
		return []any{any(res.Nodes)}
	default:
		return nil
	}
}

// matchesCondition checks a related-value filter condition against a
// candidate node.
func matchesCondition(node any, fc *profile.FilterCondition) bool {
	obj, isObj := node.(map[string]any)
	if !isObj {
		return false
	}
	got, ok := stringify(obj[fc.Field])
	if !ok {
		return false
	}
	if fc.CaseInsensitive {
		return strings.EqualFold(got, fc.Equals)
	}
	return got == fc.Equals
}
