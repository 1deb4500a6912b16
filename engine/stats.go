package engine

import (
	"log/slog"
	"sync/atomic"
)

// Stats counts per-task outcomes. Workers increment concurrently; the
// runner reads after all workers have finished.
type Stats struct {
	Files             atomic.Int64
	Records           atomic.Int64
	Emitted           atomic.Int64
	ParseErrors       atomic.Int64
	MissingIdentifier atomic.Int64
	Filtered          atomic.Int64
	Rows              atomic.Int64
}

// Attrs returns the counters as slog attributes.
func (s *Stats) Attrs() []any {
	return []any{
		slog.Int64("files", s.Files.Load()),
		slog.Int64("records", s.Records.Load()),
		slog.Int64("emitted", s.Emitted.Load()),
		slog.Int64("parse_errors", s.ParseErrors.Load()),
		slog.Int64("missing_identifier", s.MissingIdentifier.Load()),
		slog.Int64("filtered", s.Filtered.Load()),
		slog.Int64("rows", s.Rows.Load()),
	}
}
