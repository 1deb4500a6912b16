// Package graph defines the rows of the value-centered relationship graph
// and the deterministic identity scheme that gives repeated runs over the
// same input the same row IDs and makes outputs joinable across sources.
package graph

// RecordRow is one row of records.csv.
type RecordRow struct {
	RecordID string
	DOI      string
}

// ValueRow is one row of values.csv. Identity is content-derived: two
// values with the same type and content share a ValueID regardless of
// which record produced them.
type ValueRow struct {
	ValueID string
	Type    string
	Content string
}

// ProcessRecordRow links a processing run to a record it consumed.
type ProcessRecordRow struct {
	ID               string
	ProcessID        string
	RecordID         string
	RelationshipType string
}

// ProcessValueRow links a processing run to a value it asserted.
type ProcessValueRow struct {
	ID               string
	ProcessID        string
	ValueID          string
	RelationshipType string
	Confidence       string
}

// RecordValueRow links a record to a value extracted from it.
type RecordValueRow struct {
	ID               string
	RecordID         string
	ValueID          string
	RelationshipType string
	Ordinal          int
}

// ValueValueRow links two values, e.g. an author name to an affiliation.
type ValueValueRow struct {
	ID               string
	SourceValueID    string
	TargetValueID    string
	RelationshipType string
	Ordinal          int
	Confidence       string
}

// SourceProcessRow links a source to the process that extracts from it.
// Emitted only into the optional metadata files.
type SourceProcessRow struct {
	ID               string
	SourceID         string
	ProcessID        string
	RelationshipType string
}

// Batch carries every row emitted for a slice of records, in emission
// order per kind. Batches are self-contained: the writer needs no state
// from the worker that produced one beyond the batch itself.
type Batch struct {
	Records        []RecordRow
	Values         []ValueRow
	ProcessRecords []ProcessRecordRow
	ProcessValues  []ProcessValueRow
	RecordValues   []RecordValueRow
	ValueValues    []ValueValueRow
}

// Len returns the number of records the batch covers.
func (b *Batch) Len() int {
	return len(b.Records)
}

// Rows returns the total row count across all kinds.
func (b *Batch) Rows() int {
	return len(b.Records) + len(b.Values) + len(b.ProcessRecords) +
		len(b.ProcessValues) + len(b.RecordValues) + len(b.ValueValues)
}

// Append moves all rows of other onto b.
func (b *Batch) Append(other *Batch) {
	b.Records = append(b.Records, other.Records...)
	b.Values = append(b.Values, other.Values...)
	b.ProcessRecords = append(b.ProcessRecords, other.ProcessRecords...)
	b.ProcessValues = append(b.ProcessValues, other.ProcessValues...)
	b.RecordValues = append(b.RecordValues, other.RecordValues...)
	b.ValueValues = append(b.ValueValues, other.ValueValues...)
}
