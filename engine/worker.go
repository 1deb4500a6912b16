package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/valuegraph/graph"
)

// parseErrorSamples caps how many parse failures a task logs at debug.
const parseErrorSamples = 5

// worker drains the file channel, running the interpreter over each
// file's records in file order.
func (r *Runner) worker(ctx context.Context, interp *Interpreter, files <-chan string, out chan<- *graph.Batch, stats *Stats, batchSize int) error {
	for path := range files {
		if err := r.processFile(ctx, path, interp, out, stats, batchSize); err != nil {
			return fmt.Errorf("processing %s: %w", path, err)
		}
	}
	return nil
}

// processFile streams one file line by line, accumulating interpreted
// rows into batches of batchSize records. Per-record parse failures are
// counted and skipped; stream-level failures are fatal because a
// truncated archive may hide data.
func (r *Runner) processFile(ctx context.Context, path string, interp *Interpreter, out chan<- *graph.Batch, stats *Stats, batchSize int) (err error) {
	in, err := openInput(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := in.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing input: %w", cerr)
		}
	}()

	pending := &graph.Batch{}

	err = readLines(in, func(line []byte) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}

		stats.Records.Add(1)

		record, derr := decodeRecord(line)
		if derr != nil {
			if stats.ParseErrors.Add(1) <= parseErrorSamples {
				r.log.Debug("skipping unparseable line",
					slog.String("file", path), slog.String("error", derr.Error()))
			}
			return nil
		}

		batch, drop := interp.Interpret(record)
		switch drop {
		case DropMissingIdentifier:
			stats.MissingIdentifier.Add(1)
			return nil
		case DropFiltered:
			stats.Filtered.Add(1)
			return nil
		}

		stats.Emitted.Add(1)
		stats.Rows.Add(int64(batch.Rows()))

		pending.Append(batch)
		if pending.Len() >= batchSize {
			if serr := send(ctx, out, pending); serr != nil {
				return serr
			}
			pending = &graph.Batch{}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if pending.Rows() > 0 {
		return send(ctx, out, pending)
	}
	return nil
}

func send(ctx context.Context, out chan<- *graph.Batch, b *graph.Batch) error {
	select {
	case out <- b:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
