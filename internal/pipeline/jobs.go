package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/solardesk/pvtopo/internal/report"
)

// JobStatus represents the state of a parse job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusExtracting JobStatus = "extracting"
	StatusParsing    JobStatus = "parsing"
	StatusStoring    JobStatus = "storing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
)

// NewJobID returns a fresh job identifier.
func NewJobID() string {
	return uuid.NewString()
}

// Job tracks the state of a single report parse.
type Job struct {
	mu sync.Mutex

	ID       string `json:"job_id"`
	Filename string `json:"filename"`
	DocID    string `json:"doc_id"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	tables   []report.Table
	result   *report.Result
	warnings []string
}

// Progress tracks parse progress and diagnostics.
type Progress struct {
	Pages     int      `json:"pages"`
	Arrays    int      `json:"arrays"`
	Inverters int      `json:"inverters"`
	Warnings  []string `json:"warnings"`
}

// NewJob creates a queued job for one uploaded report. The doc id is the
// sha-256 of the upload, so resubmissions of the same file are traceable
// across job ids.
func NewJob(filename string, data []byte, tables []report.Table) *Job {
	now := time.Now()
	sum := sha256.Sum256(data)
	return &Job{
		ID:        NewJobID(),
		DocID:     hex.EncodeToString(sum[:]),
		Filename:  filename,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
		tables:    tables,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddWarning records a diagnostic that did not stop the parse.
func (j *Job) AddWarning(w string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.warnings = append(j.warnings, w)
	j.Progress.Warnings = j.warnings
	j.UpdatedAt = time.Now()
}

// SetPages records the extracted page count.
func (j *Job) SetPages(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Pages = n
	j.UpdatedAt = time.Now()
}

// SetResult stores the parse result and the derived topology counts.
func (j *Job) SetResult(res *report.Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = res
	if res != nil {
		j.Progress.Arrays = res.Metadata.TotalArrays
		j.Progress.Inverters = res.Metadata.TotalInverters
	}
	j.UpdatedAt = time.Now()
}

// Result returns the parse result, nil while the job is still running.
func (j *Job) Result() *report.Result {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// Tables returns the optional tabular sidecar records.
func (j *Job) Tables() []report.Table {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.tables
}

// ClearFileData drops the raw upload once processing is done.
func (j *Job) ClearFileData() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = nil
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	Filename string    `json:"filename"`
	DocID    string    `json:"doc_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	warnings := j.Progress.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return JobSnapshot{
		ID:       j.ID,
		Filename: j.Filename,
		DocID:    j.DocID,
		Status:   j.Status,
		Phase:    j.Phase,
		Progress: Progress{
			Pages:     j.Progress.Pages,
			Arrays:    j.Progress.Arrays,
			Inverters: j.Progress.Inverters,
			Warnings:  warnings,
		},
	}
}
