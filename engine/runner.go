// Package engine executes extraction profiles against compressed JSONL
// inputs: parallel per-file workers run the profile interpreter and a
// single writer goroutine owns the CSV outputs and the dedup index.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lehigh-university-libraries/valuegraph/graph"
	"github.com/lehigh-university-libraries/valuegraph/profile"
	"github.com/lehigh-university-libraries/valuegraph/runcfg"
)

// DefaultBatchSize is the number of records whose rows travel to the
// writer in one channel message.
const DefaultBatchSize = 10000

// TimestampEnv overrides the task timestamp for reproducible runs.
const TimestampEnv = "EXTRACT_TIMESTAMP"

// Options configures a run.
type Options struct {
	OutputDir string

	// Threads is the worker count per task; 0 or less means one per CPU.
	Threads int

	// BatchSize is the records-per-message flow-control knob; 0 or less
	// means DefaultBatchSize.
	BatchSize int

	CreateMetadataFiles bool
}

// Runner executes a run configuration's tasks sequentially into one
// output directory.
type Runner struct {
	cfg  *runcfg.Config
	opts Options
	log  *slog.Logger
}

// NewRunner builds a runner. Each run gets a fresh run ID on its log
// lines so interleaved runs in one log stream stay separable.
func NewRunner(cfg *runcfg.Config, opts Options) *Runner {
	return &Runner{
		cfg:  cfg,
		opts: opts,
		log:  slog.Default().With(slog.String("run_id", uuid.NewString())),
	}
}

// Run executes every task. The writer and its dedup index live for the
// whole run, so all tasks merge into the same CSV files.
func (r *Runner) Run(ctx context.Context) (err error) {
	w, err := NewWriter(r.opts.OutputDir)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	var meta []MetadataEntry
	for i := range r.cfg.Tasks {
		task := &r.cfg.Tasks[i]

		prof, err := profile.Resolve(task.Profile)
		if err != nil {
			return fmt.Errorf("task %d: %w", i, err)
		}
		if verr := profile.Validate(prof).Error(); verr != nil {
			return fmt.Errorf("task %d: profile %s: %w", i, task.Profile, verr)
		}
		if ferr := runcfg.CheckFilters(task, prof); ferr != nil {
			return fmt.Errorf("task %d: %w", i, ferr)
		}

		timestamp, err := taskTimestamp()
		if err != nil {
			return err
		}
		w.SetTask(prof.ProcessInfo.ID, timestamp)

		log := r.log.With(slog.Int("task", i), slog.String("profile", task.Profile))
		log.Info("starting task",
			slog.String("description", task.Description),
			slog.String("input_dir", task.InputDir))

		stats := &Stats{}
		if err := r.runTask(ctx, task, prof, w, stats); err != nil {
			return fmt.Errorf("task %d: %w", i, err)
		}
		log.Info("task complete", stats.Attrs()...)

		meta = append(meta, MetadataEntry{Source: prof.SourceInfo, Process: prof.ProcessInfo, Timestamp: timestamp})
	}

	if r.opts.CreateMetadataFiles {
		if err := WriteMetadata(r.opts.OutputDir, meta); err != nil {
			return fmt.Errorf("writing metadata files: %w", err)
		}
	}

	return nil
}

// runTask fans a task's input files out over workers and funnels their
// batches through the single writer goroutine. The batch channel is
// bounded, so memory stays at O(workers × batch size) however large the
// input is.
func (r *Runner) runTask(ctx context.Context, task *runcfg.Task, prof *profile.Profile, w *Writer, stats *Stats) error {
	files, err := DiscoverInputs(task.InputDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		r.log.Warn("no input files found", slog.String("input_dir", task.InputDir))
		return nil
	}
	stats.Files.Store(int64(len(files)))

	threads := r.opts.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	batchSize := r.opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	interp := NewInterpreter(prof, task.Filters)

	g, gctx := errgroup.WithContext(ctx)
	fileCh := make(chan string)
	batchCh := make(chan *graph.Batch, threads)

	g.Go(func() error {
		defer close(fileCh)
		for _, f := range files {
			select {
			case fileCh <- f:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	workers, wctx := errgroup.WithContext(gctx)
	for i := 0; i < threads; i++ {
		workers.Go(func() error {
			return r.worker(wctx, interp, fileCh, batchCh, stats, batchSize)
		})
	}
	g.Go(func() error {
		defer close(batchCh)
		return workers.Wait()
	})

	g.Go(func() error {
		for b := range batchCh {
			if err := w.WriteBatch(b); err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}

// taskTimestamp returns the task start time in RFC 3339 UTC, honoring
// the override environment variable for reproducible runs.
func taskTimestamp() (string, error) {
	if v := os.Getenv(TimestampEnv); v != "" {
		if _, err := time.Parse(time.RFC3339, v); err != nil {
			return "", fmt.Errorf("parsing %s: %w", TimestampEnv, err)
		}
		return v, nil
	}
	return time.Now().UTC().Format(time.RFC3339), nil
}
