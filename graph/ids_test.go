package graph

import (
	"strings"
	"testing"
)

func TestRecordIDDeterministic(t *testing.T) {
	a := RecordID("rec", "10.1/x")
	b := RecordID("rec", "10.1/x")
	if a != b {
		t.Errorf("RecordID not deterministic: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "rec_") {
		t.Errorf("RecordID = %s, want rec_ prefix", a)
	}
	if len(a) != len("rec_")+64 {
		t.Errorf("RecordID length = %d, want %d", len(a), len("rec_")+64)
	}

	if RecordID("rec", "10.1/y") == a {
		t.Error("distinct identifiers produced the same RecordID")
	}
}

func TestValueIDIsFunctionOfTypeAndContent(t *testing.T) {
	const format = "{value_type}:{value_content}"

	a := ValueID("val", format, "author_name", "Ada Lovelace")
	b := ValueID("val", format, "author_name", "Ada Lovelace")
	if a != b {
		t.Errorf("ValueID not deterministic: %s vs %s", a, b)
	}

	// Same content under a different type is a different value.
	c := ValueID("val", format, "affiliation", "Ada Lovelace")
	if c == a {
		t.Error("ValueID ignores value_type")
	}

	// The template is load-bearing: swapping it changes identity.
	d := ValueID("val", "{value_content}|{value_type}", "author_name", "Ada Lovelace")
	if d == a {
		t.Error("ValueID ignores value_format")
	}
}

func TestRelationshipIDsDistinguishKinds(t *testing.T) {
	pr := NewProcessRecord("p1", "r1", "source")
	pv := NewProcessValue("p1", "r1", "source", "1.0")

	if !strings.HasPrefix(pr.ID, "prr_") {
		t.Errorf("ProcessRecord ID = %s, want prr_ prefix", pr.ID)
	}
	if !strings.HasPrefix(pv.ID, "pvr_") {
		t.Errorf("ProcessValue ID = %s, want pvr_ prefix", pv.ID)
	}
	// The tag alone distinguishes kinds over identical key columns.
	if pr.ID == pv.ID {
		t.Error("row IDs for different kinds collide")
	}
}

func TestRecordValueOrdinalInIdentity(t *testing.T) {
	a := NewRecordValue("r1", "v1", "has_author", 0)
	b := NewRecordValue("r1", "v1", "has_author", 1)
	if a.ID == b.ID {
		t.Error("ordinal does not participate in record_value identity")
	}

	c := NewRecordValue("r1", "v1", "has_author", 0)
	if a.ID != c.ID {
		t.Error("record_value ID not deterministic")
	}
}

func TestValueValueSeparatorUnambiguous(t *testing.T) {
	// Key columns must not be concatenation-ambiguous.
	a := NewValueValue("ab", "c", "rel", 0, "1.0")
	b := NewValueValue("a", "bc", "rel", 0, "1.0")
	if a.ID == b.ID {
		t.Error("shifting bytes across column boundaries produced the same ID")
	}
}

func TestBatchAppend(t *testing.T) {
	a := &Batch{Records: []RecordRow{{RecordID: "r1", DOI: "10.1/x"}}}
	b := &Batch{
		Records: []RecordRow{{RecordID: "r2", DOI: "10.1/y"}},
		Values:  []ValueRow{{ValueID: "v1", Type: "author_name", Content: "Ada"}},
	}

	a.Append(b)
	if a.Len() != 2 {
		t.Errorf("Len = %d, want 2", a.Len())
	}
	if a.Rows() != 3 {
		t.Errorf("Rows = %d, want 3", a.Rows())
	}
}
