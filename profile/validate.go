package profile

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/valuegraph/graph"
)

// ValidationError is one validation failure with its location.
type ValidationError struct {
	Field   string // e.g. "entities[0].nested_entities[1]"
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult collects all findings for a profile.
type ValidationResult struct {
	Errors []ValidationError
}

// IsValid reports whether validation found no errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Error returns a combined error, or nil if valid.
func (r *ValidationResult) Error() error {
	if r.IsValid() {
		return nil
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("invalid profile: %s", strings.Join(msgs, "; "))
}

func (r *ValidationResult) add(field, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks the profile's internal consistency. It runs before any
// worker starts so every contract violation surfaces as a configuration
// error rather than mid-run behavior.
func Validate(p *Profile) *ValidationResult {
	r := &ValidationResult{}

	if p.ProcessInfo.ID == "" {
		r.add("process_info.id", "must not be empty")
	}
	if p.RecordIdentifier.Path == "" {
		r.add("record_identifier.path", "must not be empty")
	}
	if p.DeterministicIDs.RecordPrefix == "" {
		r.add("deterministic_ids.record_prefix", "must not be empty")
	}
	if p.DeterministicIDs.ValuePrefix == "" {
		r.add("deterministic_ids.value_prefix", "must not be empty")
	}
	if !strings.Contains(p.DeterministicIDs.ValueFormat, graph.TypePlaceholder) ||
		!strings.Contains(p.DeterministicIDs.ValueFormat, graph.ContentPlaceholder) {
		r.add("deterministic_ids.value_format", "must contain both %s and %s",
			graph.TypePlaceholder, graph.ContentPlaceholder)
	}

	seenArgs := make(map[string]bool)
	for i, f := range p.Filters {
		field := fmt.Sprintf("filters[%d]", i)
		if f.CLIArg == "" {
			r.add(field, "cli_arg must not be empty")
		} else if seenArgs[f.CLIArg] {
			r.add(field, "duplicate cli_arg %q", f.CLIArg)
		}
		seenArgs[f.CLIArg] = true
		if f.Path == "" {
			r.add(field, "path must not be empty")
		}
	}

	if len(p.Entities) == 0 {
		r.add("entities", "must declare at least one entity")
	}
	for i, e := range p.Entities {
		validateEntity(r, p, fmt.Sprintf("entities[%d]", i), &e, 1)
	}

	return r
}

func validateEntity(r *ValidationResult, p *Profile, field string, e *Entity, depth int) {
	if e.Path == "" {
		r.add(field, "path must not be empty")
	}

	// Depth decides which end of the relationship an entity attaches to.
	if depth == 1 {
		if e.RelationshipToRecord == "" {
			r.add(field, "top-level entity must set relationship_to_record")
		}
		if e.RelationshipToParent != "" {
			r.add(field, "top-level entity must not set relationship_to_parent")
		}
	} else {
		if e.RelationshipToParent == "" {
			r.add(field, "nested entity must set relationship_to_parent")
		}
		if e.RelationshipToRecord != "" {
			r.add(field, "nested entity must not set relationship_to_record")
		}
	}

	validateExtraction(r, p, field+".value_extraction", &e.ValueExtraction)

	for i, rv := range e.RelatedValues {
		rvField := fmt.Sprintf("%s.related_values[%d]", field, i)
		if rv.Path == "" {
			r.add(rvField, "path must not be empty")
		}
		if rv.RelationshipToParent == "" {
			r.add(rvField, "relationship_to_parent must not be empty")
		}
		if fc := rv.FilterCondition; fc != nil && fc.Field == "" {
			r.add(rvField+".filter_condition", "field must not be empty")
		}
		validateExtraction(r, p, rvField+".extract_value", &rv.ExtractValue)
	}

	for i, lj := range e.LookupJoins {
		ljField := fmt.Sprintf("%s.lookup_joins[%d]", field, i)
		if lj.LookupArrayPath == "" {
			r.add(ljField, "lookup_array_path must not be empty")
		}
		if lj.LookupMatchField == "" {
			r.add(ljField, "lookup_match_field must not be empty")
		}
		if lj.SourceMatchField == "" {
			r.add(ljField, "source_match_field must not be empty")
		}
		if lj.RelationshipToCurrent == "" {
			r.add(ljField, "relationship_to_current must not be empty")
		}
		validateExtraction(r, p, ljField+".extract_value", &lj.ExtractValue)
	}

	for i, child := range e.NestedEntities {
		validateEntity(r, p, fmt.Sprintf("%s.nested_entities[%d]", field, i), &child, depth+1)
	}
}

func validateExtraction(r *ValidationResult, p *Profile, field string, v *ValueExtraction) {
	switch v.Method {
	case MethodField:
		if v.Field == "" {
			r.add(field, "method %q requires field", MethodField)
		}
	case MethodCombineFields:
		if len(v.Fields) == 0 {
			r.add(field, "method %q requires fields", MethodCombineFields)
		}
	default:
		r.add(field, "unknown method %q", v.Method)
	}

	if v.TargetValueType == "" {
		r.add(field, "target_value_type must not be empty")
	}
	if v.UseNull == "" {
		r.add(field, "use_null must not be empty")
	} else if _, ok := p.NullValues[v.UseNull]; !ok {
		r.add(field, "use_null %q is not declared in null_values", v.UseNull)
	}
}
