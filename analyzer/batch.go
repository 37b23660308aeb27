package analyzer

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/gobeaver/magickit/scheduler"
)

// AnalyzeOptions controls a batch run.
type AnalyzeOptions struct {
	// Concurrency caps files in flight; 0 derives it from the average size.
	Concurrency int
	// Sequential forces a limit of one.
	Sequential bool
	// OnProgress receives scheduler stats after every settled file.
	OnProgress func(scheduler.Stats)
}

// Limit returns the concurrency a batch of jobs will run with.
func (o AnalyzeOptions) Limit(jobs []Job) int {
	switch {
	case o.Sequential:
		return 1
	case o.Concurrency > 0:
		return o.Concurrency
	}
	sizes := make([]int64, len(jobs))
	for i, j := range jobs {
		sizes[i] = j.Size
	}
	return scheduler.TuneLimit(scheduler.AverageSize(sizes))
}

// Analyze runs every job through the pipeline on a scheduler and returns a
// report with records in submission (Seq) order.
//
// Cancelling ctx stops dispatch of files that have not started; files in
// flight are analyzed to completion.
func (p *Pipeline) Analyze(ctx context.Context, jobs []Job, opts AnalyzeOptions) (*Report, error) {
	limit := opts.Limit(jobs)
	started := time.Now()

	p.logger.Info("analysis started", "files", len(jobs), "concurrency", limit)

	handler := func(ctx context.Context, job Job) (FileRecord, error) {
		return p.AnalyzeFile(context.WithoutCancel(ctx), job), nil
	}

	records, stats, err := scheduler.Run(ctx, jobs, handler,
		scheduler.WithLimit(limit),
		scheduler.WithLogger(p.logger),
		scheduler.WithProgress(opts.OnProgress),
	)
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Seq < records[j].Seq })

	report := Summarize(records)
	report.RunID = uuid.NewString()
	report.StartedAt = started
	report.Duration = time.Since(started)
	report.Concurrency = limit
	report.Skipped = stats.Skipped

	p.logger.Info("analysis finished",
		"run", report.RunID,
		"files", report.TotalFiles,
		"skipped", report.Skipped,
		"elapsed", report.Duration)

	return report, nil
}
