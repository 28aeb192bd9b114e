package collector

import (
	"context"
	"log/slog"
	"time"

	"github.com/anatolykoptev/go-kit/strutil"
	"github.com/google/uuid"
)

// SearchClient finds candidate videos and fetches their metadata.
type SearchClient interface {
	Search(ctx context.Context, query string, maxResults int) ([]Candidate, error)
	Details(ctx context.Context, ids []string) (map[string]RawVideo, error)
}

// TranscriptChecker reports transcript availability for a video.
// A missing transcript is a normal negative, not an error; errors mean the
// check itself could not complete.
type TranscriptChecker interface {
	HasTranscript(ctx context.Context, videoID string) (bool, error)
}

// Store is the append-only destination for accepted records.
// Append re-checks for duplicates at write time (the store may be shared with
// outside writers) and reports how many records were actually persisted.
type Store interface {
	LoadIDs(ctx context.Context) ([]string, error)
	Append(ctx context.Context, records []VideoRecord) (int, error)
}

// Notifier delivers an accepted batch to a downstream consumer, best-effort.
type Notifier interface {
	NotifyBatch(ctx context.Context, runID string, task SearchTask, records []VideoRecord) error
}

// Collector drives the per-task loop: search → dedup → transcript gate →
// detail fetch → filter → enrich → batch append. Strictly sequential: the
// pacing that protects quota assumes no parallel external calls.
type Collector struct {
	client   SearchClient
	gate     TranscriptChecker
	store    Store
	notifier Notifier // nil = notifications disabled
	known    *KnownIDs
}

// New builds a collector over the given ports. notifier may be nil.
func New(client SearchClient, gate TranscriptChecker, store Store, notifier Notifier) *Collector {
	return &Collector{
		client:   client,
		gate:     gate,
		store:    store,
		notifier: notifier,
		known:    NewKnownIDs(),
	}
}

// Run executes all tasks in order and returns the run report.
// Quota exhaustion aborts the remainder of the run; records appended by
// earlier tasks stay persisted. All other failures are isolated to the
// candidate or task that raised them.
func (c *Collector) Run(ctx context.Context, tasks []SearchTask) (*RunReport, error) {
	report := &RunReport{
		RunID:  uuid.NewString(),
		Status: StatusCompleted,
	}

	ids, err := c.store.LoadIDs(ctx)
	if err != nil {
		return report, err
	}
	c.known.Load(ids)
	slog.Info("run started",
		slog.String("run_id", report.RunID),
		slog.Int("tasks", len(tasks)),
		slog.Int("known_ids", c.known.Len()))

	for _, task := range tasks {
		if ctx.Err() != nil {
			report.Status = StatusAborted
			break
		}

		tr, err := c.runTask(ctx, report.RunID, task)
		report.Tasks = append(report.Tasks, tr)
		report.Accepted += tr.Accepted
		report.Written += tr.Written

		if err != nil {
			// Only quota exhaustion propagates out of runTask.
			IncrQuotaErrors()
			slog.Error("quota exhausted, aborting run",
				slog.String("query", task.Query), slog.Any("error", err))
			report.Status = StatusAborted
			break
		}
	}

	slog.Info("run finished",
		slog.String("run_id", report.RunID),
		slog.String("status", string(report.Status)),
		slog.Int("accepted", report.Accepted),
		slog.Int("written", report.Written))
	return report, nil
}

// runTask processes one search task. The returned error is non-nil only for
// quota exhaustion; every other failure is absorbed into the task report.
func (c *Collector) runTask(ctx context.Context, runID string, task SearchTask) (TaskReport, error) {
	tr := TaskReport{Query: task.Query, Category: task.Category}

	candidates, err := c.client.Search(ctx, task.Query, task.MaxResults)
	if err != nil {
		if IsQuota(err) {
			return tr, err
		}
		slog.Warn("search failed, skipping task",
			slog.String("query", task.Query), slog.Any("error", err))
		tr.Error = err.Error()
		return tr, nil
	}
	tr.Searched = len(candidates)

	// Dedup on the raw candidate ID before the costlier transcript check and
	// detail fetch: every call skipped here is quota saved.
	seen := make(map[string]struct{}, len(candidates))
	var eligible []Candidate
	for _, cand := range candidates {
		if _, dup := seen[cand.ID]; dup || !c.known.IsNew(cand.ID) {
			tr.RejectedDuplicate++
			continue
		}
		seen[cand.ID] = struct{}{}

		has, err := c.gate.HasTranscript(ctx, cand.ID)
		if err != nil {
			// Ambiguous status excludes the candidate (fail-closed).
			slog.Warn("transcript check failed, excluding candidate",
				slog.String("id", cand.ID), slog.Any("error", err))
			has = false
		}
		if !has {
			tr.RejectedNoTranscript++
			continue
		}
		eligible = append(eligible, cand)
	}

	details := make(map[string]RawVideo, len(eligible))
	for start := 0; start < len(eligible); start += cfg.BatchSize {
		end := min(start+cfg.BatchSize, len(eligible))
		chunk := eligible[start:end]

		ids := make([]string, len(chunk))
		for i, cand := range chunk {
			ids[i] = cand.ID
		}
		got, err := c.client.Details(ctx, ids)
		if err != nil {
			if IsQuota(err) {
				return tr, err
			}
			tr.RejectedError += len(chunk)
			slog.Warn("detail fetch failed, skipping chunk",
				slog.Int("ids", len(ids)), slog.Any("error", err))
			continue
		}
		for id, raw := range got {
			details[id] = raw
		}
	}

	now := time.Now()
	var batch []VideoRecord
	for _, cand := range eligible {
		raw, ok := details[cand.ID]
		if !ok {
			tr.RejectedError++
			continue
		}
		if reason := FilterReason(raw, now); reason != "" {
			tr.RejectedFiltered++
			slog.Debug("rejected by content filter",
				slog.String("id", cand.ID), slog.String("reason", reason))
			continue
		}
		rec := BuildRecord(raw, task.Query, task.Category)
		batch = append(batch, rec)
		slog.Info("accepted",
			slog.String("id", rec.VideoID),
			slog.String("title", strutil.TruncateWith(rec.Title, 60, "...")),
			slog.String("category", string(rec.Category)))
	}
	tr.Accepted = len(batch)

	if len(batch) > 0 {
		written, err := c.store.Append(ctx, batch)
		IncrStoreAppends()
		tr.Written = written
		if err != nil {
			slog.Warn("store append failed",
				slog.Int("batch", len(batch)), slog.Int("written", written), slog.Any("error", err))
		} else if written < len(batch) {
			slog.Warn("partial store write",
				slog.Int("batch", len(batch)), slog.Int("written", written))
		}

		// Accepted IDs join the known set even when the defensive re-check
		// skipped them: either way the store holds them now.
		for _, rec := range batch {
			c.known.Mark(rec.VideoID)
		}

		if c.notifier != nil && written > 0 {
			if err := c.notifier.NotifyBatch(ctx, runID, task, batch[:written]); err != nil {
				slog.Warn("webhook delivery failed", slog.Any("error", err))
			}
		}
	}

	slog.Info("task complete",
		slog.String("query", task.Query),
		slog.Int("searched", tr.Searched),
		slog.Int("dup", tr.RejectedDuplicate),
		slog.Int("no_transcript", tr.RejectedNoTranscript),
		slog.Int("filtered", tr.RejectedFiltered),
		slog.Int("errors", tr.RejectedError),
		slog.Int("accepted", tr.Accepted))
	return tr, nil
}
