// Package exporter drives a Source through the full position range with
// crash-resumable progress. Per-record failures are recorded and skipped;
// only an unreachable source fails a run.
package exporter

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/robertrahardja/mac-contacts-extract/internal/logger"
	"github.com/robertrahardja/mac-contacts-extract/pkg/checkpoint"
	"github.com/robertrahardja/mac-contacts-extract/pkg/contacts"
	"github.com/robertrahardja/mac-contacts-extract/pkg/source"
)

// State is where a run ended up.
type State string

const (
	StateNotStarted State = "not_started"
	StateRunning    State = "running"
	StatePaused     State = "paused"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Stats counts what one invocation did.
type Stats struct {
	Processed int // positions fetched this invocation
	Kept      int // rows added to the table this invocation
	Dropped   int // people excluded by the keep policy
	Failed    int // positions that could not be read this invocation
}

// Result describes a finished invocation. Table holds every row
// accumulated so far, including rows restored from a prior checkpoint.
type Result struct {
	State     State
	RunID     string
	Table     *contacts.Table
	Total     int
	LastIndex int
	Failed    []int // failed positions across all invocations of this run
	Stats     Stats
}

// Exporter is the checkpointed batch driver.
type Exporter struct {
	src   source.Source
	store *checkpoint.Store
	cfg   Config
}

// New creates an exporter over the given source and checkpoint store.
func New(src source.Source, store *checkpoint.Store, opts ...Option) (*Exporter, error) {
	if src == nil {
		return nil, fmt.Errorf("exporter: source is required")
	}
	if store == nil {
		return nil, fmt.Errorf("exporter: checkpoint store is required")
	}

	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("exporter config: %w", err)
	}
	if _, err := contacts.ParseKeepPolicy(string(cfg.KeepPolicy)); err != nil {
		return nil, fmt.Errorf("exporter config: %w", err)
	}

	return &Exporter{src: src, store: store, cfg: cfg}, nil
}

// Run processes positions from the last checkpoint (or 1) through the
// source total. It returns StateCompleted when every position has been
// visited, StatePaused when stopped early with a valid checkpoint on
// disk, and StateFailed with a non-nil error when the source is
// unreachable or the checkpoint is unusable. Re-running with the same
// checkpoint never reprocesses a visited position and never duplicates a
// row.
func (e *Exporter) Run(ctx context.Context) (*Result, error) {
	st, err := e.store.Load()
	if err != nil {
		return &Result{State: StateFailed}, err
	}
	fresh := st == nil
	if fresh {
		st = checkpoint.NewState()
	}
	table := st.Table()

	total, err := e.src.Count(ctx)
	if err != nil {
		// Nothing checkpointed this invocation; a prior checkpoint stays
		// valid on disk.
		return &Result{State: StateFailed, RunID: st.RunID}, fmt.Errorf("count records: %w", err)
	}
	if st.LastIndex > total {
		return &Result{State: StateFailed, RunID: st.RunID},
			fmt.Errorf("%w: %s: last_index %d exceeds source total %d",
				checkpoint.ErrCorrupt, e.store.Path(), st.LastIndex, total)
	}

	if fresh {
		logger.Info("starting export", "run_id", st.RunID, "total", total)
	} else {
		logger.Info("resuming export",
			"run_id", st.RunID,
			"total", total,
			"resume_from", st.LastIndex+1,
			"rows_restored", table.Len())
	}

	res := &Result{State: StateRunning, RunID: st.RunID, Table: table, Total: total}
	consecutive := 0

	for i := st.LastIndex + 1; i <= total; i++ {
		if ctx.Err() != nil {
			return e.pause(st, table, res, "interrupted")
		}
		if e.cfg.MaxRecords > 0 && res.Stats.Processed >= e.cfg.MaxRecords {
			return e.pause(st, table, res, "record cap reached")
		}

		person, err := e.src.Person(ctx, i)
		if err != nil {
			if ctx.Err() != nil {
				// The fetch died because the run was cancelled, not
				// because the position is bad.
				return e.pause(st, table, res, "interrupted")
			}
			logger.Warn("record failed", "position", i, "error", err)
			st.Failed = append(st.Failed, i)
			res.Stats.Failed++
			consecutive++
			st.LastIndex = i
			res.Stats.Processed++
			if consecutive >= e.cfg.MaxConsecutiveFailures {
				logger.Error("too many consecutive failures",
					"count", consecutive, "last_position", i)
				return e.pause(st, table, res, "failure threshold reached")
			}
			continue
		}

		consecutive = 0
		if e.cfg.KeepPolicy.Keep(person) {
			table.Append(contacts.Flatten(person))
			res.Stats.Kept++
		} else {
			res.Stats.Dropped++
		}
		st.LastIndex = i
		res.Stats.Processed++

		if i%e.cfg.CheckpointInterval == 0 {
			if err := e.save(st, table); err != nil {
				res.State = StateFailed
				return res, err
			}
			logger.Info("progress",
				"position", i,
				"total", total,
				"rows", table.Len(),
				"columns", table.Columns.Len(),
				"failed", len(st.Failed))
		}

		if e.cfg.Pace > 0 && i < total {
			select {
			case <-time.After(e.cfg.Pace):
			case <-ctx.Done():
			}
		}
	}

	// Every position visited. The final checkpoint stays on disk until
	// the caller has written permanent backups, then it deletes it.
	if err := e.save(st, table); err != nil {
		res.State = StateFailed
		return res, err
	}

	res.State = StateCompleted
	res.LastIndex = st.LastIndex
	res.Failed = st.Failed
	logger.Info("export complete",
		"run_id", st.RunID,
		"rows", table.Len(),
		"columns", table.Columns.Len(),
		"failed", len(st.Failed))
	return res, nil
}

// ClearCheckpoint removes the run's checkpoint. Call after the final
// table has been written somewhere permanent.
func (e *Exporter) ClearCheckpoint() error {
	return e.store.Clear()
}

func (e *Exporter) pause(st *checkpoint.State, table *contacts.Table, res *Result, reason string) (*Result, error) {
	if err := e.save(st, table); err != nil {
		res.State = StateFailed
		return res, err
	}
	res.State = StatePaused
	res.LastIndex = st.LastIndex
	res.Failed = st.Failed
	logger.Info("export paused",
		"reason", reason,
		"run_id", st.RunID,
		"last_position", st.LastIndex,
		"rows", table.Len())
	return res, nil
}

func (e *Exporter) save(st *checkpoint.State, table *contacts.Table) error {
	st.Contacts = table.Rows
	st.Columns = table.Columns.Names()
	if err := e.store.Save(st); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}
