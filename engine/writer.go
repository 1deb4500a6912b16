package engine

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lehigh-university-libraries/valuegraph/graph"
)

// Output file names.
const (
	RecordsFile        = "records.csv"
	ValuesFile         = "values.csv"
	ProcessRecordsFile = "process_record_relationships.csv"
	ProcessValuesFile  = "process_value_relationships.csv"
	RecordValuesFile   = "record_value_relationships.csv"
	ValueValuesFile    = "value_value_relationships.csv"
)

// table couples one CSV file with its writer.
type table struct {
	file *os.File
	w    *csv.Writer
}

func newTable(dir, name string, header []string) (*table, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	t := &table{file: f, w: csv.NewWriter(f)}
	if err := t.w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing %s header: %w", name, err)
	}
	return t, nil
}

func (t *table) close() error {
	t.w.Flush()
	werr := t.w.Error()
	if err := t.file.Close(); err != nil {
		return err
	}
	return werr
}

// Writer owns the output CSV files and the dedup index for a whole run.
// It is single-threaded: exactly one goroutine calls WriteBatch, so
// value and relationship rows never race on the index. The index spans
// tasks, which is what lets sequential tasks merge into one file set.
type Writer struct {
	dir    string
	tables map[string]*table

	seenRecords map[string]struct{}
	seenValues  map[string]struct{}
	seenRels    map[string]struct{}

	// Per-task columns, set by SetTask before the task's first batch.
	processID string
	timestamp string
}

// NewWriter creates the output directory if needed and opens every CSV
// file with its header row.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	w := &Writer{
		dir:         dir,
		tables:      make(map[string]*table),
		seenRecords: make(map[string]struct{}),
		seenValues:  make(map[string]struct{}),
		seenRels:    make(map[string]struct{}),
	}

	headers := map[string][]string{
		RecordsFile:        {"record_id", "doi"},
		ValuesFile:         {"value_id", "value_type", "value_content"},
		ProcessRecordsFile: {"process_record_id", "process_id", "record_id", "relationship_type", "timestamp"},
		ProcessValuesFile:  {"process_value_id", "process_id", "value_id", "relationship_type", "confidence_score", "timestamp"},
		RecordValuesFile:   {"record_value_id", "record_id", "value_id", "relationship_type", "ordinal", "process_id", "timestamp"},
		ValueValuesFile:    {"value_value_id", "source_value_id", "target_value_id", "relationship_type", "ordinal", "process_id", "confidence_score", "timestamp"},
	}

	for _, name := range []string{RecordsFile, ValuesFile, ProcessRecordsFile, ProcessValuesFile, RecordValuesFile, ValueValuesFile} {
		t, err := newTable(dir, name, headers[name])
		if err != nil {
			w.Close()
			return nil, err
		}
		w.tables[name] = t
	}

	return w, nil
}

// SetTask sets the process ID and timestamp stamped onto every row the
// following batches produce.
func (w *Writer) SetTask(processID, timestamp string) {
	w.processID = processID
	w.timestamp = timestamp
}

// WriteBatch writes every not-yet-seen row of the batch, preserving the
// batch's emission order within each table.
func (w *Writer) WriteBatch(b *graph.Batch) error {
	for _, r := range b.Records {
		if _, seen := w.seenRecords[r.RecordID]; seen {
			continue
		}
		w.seenRecords[r.RecordID] = struct{}{}
		if err := w.write(RecordsFile, []string{r.RecordID, r.DOI}); err != nil {
			return err
		}
	}

	for _, v := range b.Values {
		if _, seen := w.seenValues[v.ValueID]; seen {
			continue
		}
		w.seenValues[v.ValueID] = struct{}{}
		if err := w.write(ValuesFile, []string{v.ValueID, v.Type, v.Content}); err != nil {
			return err
		}
	}

	for _, r := range b.ProcessRecords {
		if w.dupRel(r.ID) {
			continue
		}
		if err := w.write(ProcessRecordsFile, []string{r.ID, r.ProcessID, r.RecordID, r.RelationshipType, w.timestamp}); err != nil {
			return err
		}
	}

	for _, r := range b.ProcessValues {
		if w.dupRel(r.ID) {
			continue
		}
		if err := w.write(ProcessValuesFile, []string{r.ID, r.ProcessID, r.ValueID, r.RelationshipType, r.Confidence, w.timestamp}); err != nil {
			return err
		}
	}

	for _, r := range b.RecordValues {
		if w.dupRel(r.ID) {
			continue
		}
		row := []string{r.ID, r.RecordID, r.ValueID, r.RelationshipType, strconv.Itoa(r.Ordinal), w.processID, w.timestamp}
		if err := w.write(RecordValuesFile, row); err != nil {
			return err
		}
	}

	for _, r := range b.ValueValues {
		if w.dupRel(r.ID) {
			continue
		}
		row := []string{r.ID, r.SourceValueID, r.TargetValueID, r.RelationshipType, strconv.Itoa(r.Ordinal), w.processID, r.Confidence, w.timestamp}
		if err := w.write(ValueValuesFile, row); err != nil {
			return err
		}
	}

	return nil
}

// dupRel records a relationship row ID, reporting whether it was
// already present.
func (w *Writer) dupRel(id string) bool {
	if _, seen := w.seenRels[id]; seen {
		return true
	}
	w.seenRels[id] = struct{}{}
	return false
}

func (w *Writer) write(name string, row []string) error {
	if err := w.tables[name].w.Write(row); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// Close flushes and closes every output file, returning the first error.
func (w *Writer) Close() error {
	var firstErr error
	for name, t := range w.tables {
		if err := t.close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing %s: %w", name, err)
		}
	}
	return firstErr
}
