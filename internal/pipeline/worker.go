package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/solardesk/pvtopo/internal/pagetext"
	"github.com/solardesk/pvtopo/internal/report"
	"github.com/solardesk/pvtopo/internal/resultstore"
)

// Worker processes a single parse job.
type Worker struct {
	store *resultstore.Client
	log   *slog.Logger
	stats *ParseStats

	pdfFallback bool
}

func NewWorker(store *resultstore.Client, log *slog.Logger, stats *ParseStats, pdfFallback bool) *Worker {
	return &Worker{
		store:       store,
		log:         log,
		stats:       stats,
		pdfFallback: pdfFallback,
	}
}

// Process runs the full parse pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Page text.
	job.SetStatus(StatusExtracting, "page_text")
	provider, err := pagetext.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddWarning(err.Error())
		job.SetStatus(StatusFailed, "page_text")
		return
	}
	if p, ok := provider.(*pagetext.PDFProvider); ok {
		p.FallbackPdftotext = w.pdfFallback
	}

	pages, err := provider.Pages(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("page text extraction failed", "error", err)
		job.AddWarning(fmt.Sprintf("extract: %s", err))
		job.SetStatus(StatusFailed, "page_text")
		return
	}
	job.ClearFileData()
	job.SetPages(len(pages))
	if len(pages) == 0 {
		log.Warn("no extractable text")
		job.AddWarning("no extractable text")
		job.SetStatus(StatusFailed, "page_text")
		return
	}

	// Phase 2: Topology parse.
	job.SetStatus(StatusParsing, "topology")
	start := time.Now()
	res, parseErr := w.parse(pages, job.Tables())
	w.stats.Record(time.Since(start).Milliseconds())
	if parseErr != nil {
		log.Error("parse failed partway", "error", parseErr)
		job.AddWarning(fmt.Sprintf("parse: %s", parseErr))
	}
	job.SetResult(res)

	// Phase 3: Push to the resultstore, when configured.
	hadErrors := parseErr != nil
	if w.store != nil {
		job.SetStatus(StatusStoring, "resultstore")
		if err := w.putWithRetry(ctx, job.ID, res); err != nil {
			log.Error("store failed", "error", err)
			job.AddWarning(fmt.Sprintf("store: %s", err))
			hadErrors = true
		}
	}

	if hadErrors {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
	log.Info("job finished", "status", job.Status,
		"arrays", res.Metadata.TotalArrays, "inverters", res.Metadata.TotalInverters)
}

// parse runs the session behind a recover guard: a panic on a degenerate
// report yields a labeled partial result instead of taking the worker down.
func (w *Worker) parse(pages []report.PageText, tables []report.Table) (res *report.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = &report.Result{}
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()

	s := report.NewSession(pages, w.log)
	s.SetTables(tables)
	return s.Parse(), nil
}

func (w *Worker) putWithRetry(ctx context.Context, reportID string, res *report.Result) error {
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		lastErr = w.store.PutReport(ctx, reportID, res)
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		w.log.Warn("retryable store error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
