package pipeline

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func TestJobStorePutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := NewJob("report.pdf", []byte("data"), nil)
	store.Put(job)

	if got := store.Get(job.ID); got != job {
		t.Errorf("Get returned %v, want the stored job", got)
	}
	if store.Get("missing") != nil {
		t.Error("Get of unknown id should return nil")
	}
}

func TestJobStoreCleanup(t *testing.T) {
	store := NewJobStore(10 * time.Millisecond)
	job := NewJob("report.pdf", nil, nil)
	job.UpdatedAt = time.Now().Add(-time.Minute)
	store.Put(job)

	store.Cleanup()
	if store.Get(job.ID) != nil {
		t.Error("expired job not evicted")
	}
}

func TestJobSnapshot(t *testing.T) {
	job := NewJob("report.pdf", nil, nil)
	job.SetStatus(StatusParsing, "topology")
	job.SetPages(12)
	job.AddWarning("something odd")

	snap := job.Snapshot()
	if snap.Status != StatusParsing || snap.Phase != "topology" {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Progress.Pages != 12 {
		t.Errorf("pages = %d", snap.Progress.Pages)
	}
	if len(snap.Progress.Warnings) != 1 || snap.Progress.Warnings[0] != "something odd" {
		t.Errorf("warnings = %v", snap.Progress.Warnings)
	}
}

func TestJobSnapshotWarningsNeverNil(t *testing.T) {
	snap := NewJob("report.pdf", nil, nil).Snapshot()
	if snap.Progress.Warnings == nil {
		t.Error("warnings must serialize as [], not null")
	}
}

func TestNewJobDocID(t *testing.T) {
	a := NewJob("a.pdf", []byte("same content"), nil)
	b := NewJob("b.pdf", []byte("same content"), nil)
	c := NewJob("c.pdf", []byte("other content"), nil)

	if len(a.DocID) != 64 {
		t.Errorf("doc id = %q, want a sha-256 hex digest", a.DocID)
	}
	if a.DocID != b.DocID {
		t.Error("same content must map to the same doc id")
	}
	if a.DocID == c.DocID {
		t.Error("different content must map to different doc ids")
	}
	if snap := a.Snapshot(); snap.DocID != a.DocID {
		t.Errorf("snapshot doc id = %q", snap.DocID)
	}
}

func TestNewJobIDsUnique(t *testing.T) {
	a, b := NewJobID(), NewJobID()
	if a == b || a == "" {
		t.Errorf("ids = %q, %q", a, b)
	}
}

func TestWorkerProcessText(t *testing.T) {
	text := `PV Array Characteristics
Array #1 - INV 1 MPPT 1-2
Number of PV modules 720 units
Modules 40 strings x 18 In series
`
	job := NewJob("report.txt", []byte(text), nil)
	w := NewWorker(nil, slog.Default(), NewParseStats(time.Hour), false)
	w.Process(context.Background(), job)

	if job.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed (warnings: %v)", job.Status, job.Progress.Warnings)
	}
	res := job.Result()
	if res == nil || res.Metadata.TotalArrays != 1 {
		t.Errorf("result = %+v", res)
	}
	if job.Progress.Pages != 1 || job.Progress.Inverters != 1 {
		t.Errorf("progress = %+v", job.Progress)
	}
}

func TestWorkerProcessUnsupportedFormat(t *testing.T) {
	job := NewJob("report.zip", []byte("junk"), nil)
	w := NewWorker(nil, slog.Default(), NewParseStats(time.Hour), false)
	w.Process(context.Background(), job)

	if job.Status != StatusFailed {
		t.Errorf("status = %s, want failed", job.Status)
	}
}

func TestWorkerProcessEmptyFile(t *testing.T) {
	job := NewJob("report.txt", nil, nil)
	w := NewWorker(nil, slog.Default(), NewParseStats(time.Hour), false)
	w.Process(context.Background(), job)

	if job.Status != StatusFailed {
		t.Errorf("status = %s, want failed", job.Status)
	}
}

func TestParseStats(t *testing.T) {
	stats := NewParseStats(time.Hour)
	for _, ms := range []int64{10, 20, 30} {
		stats.Record(ms)
	}
	snap := stats.Snapshot()
	if snap.Count != 3 || snap.MinMs != 10 || snap.MaxMs != 30 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.AvgMs != 20 {
		t.Errorf("avg = %v", snap.AvgMs)
	}
	if snap.P50Ms != 20 {
		t.Errorf("p50 = %v", snap.P50Ms)
	}
}

func TestBackoffGrows(t *testing.T) {
	if Backoff(0) < time.Second {
		t.Error("first backoff under a second")
	}
	if Backoff(2) < Backoff(0) {
		t.Error("backoff should not shrink")
	}
}
