package pipeline

import (
	"sync"
	"time"

	"github.com/segmentio/ksuid"
)

// JobStatus represents the state of an import job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusParsing   JobStatus = "parsing"
	StatusDetecting JobStatus = "detecting"
	StatusRendering JobStatus = "rendering"
	StatusStoring   JobStatus = "storing"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusPartial   JobStatus = "partial"
)

// Done reports whether the status is final.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusPartial
}

// Job tracks the state of a single file import.
type Job struct {
	mu sync.Mutex

	ID       string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`

	// Column names the question column. Empty means detect it.
	Column string `json:"column,omitempty"`
	// Topic is applied to imported questions without one.
	Topic string `json:"topic,omitempty"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData    []byte
	questionIDs []string
	errors      []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalRows     int      `json:"total_rows"`
	RowsProcessed int      `json:"rows_processed"`
	Stored        int      `json:"stored"`
	Duplicates    int      `json:"duplicates"`
	Skipped       int      `json:"skipped"`
	MathSpans     int      `json:"math_spans"`
	Fallbacks     int      `json:"fallbacks"`
	Errors        []string `json:"errors"`
}

// NewJob creates a queued job holding the uploaded file.
func NewJob(filename string, data []byte) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:        ksuid.New().String(),
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
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

// Cleanup removes finished jobs not updated within the TTL. Running jobs
// are kept however old they are.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := job.Status.Done() && now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
		}
	}
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
	if status.Done() {
		j.fileData = nil
	}
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetTotalRows records the number of data rows in the file.
func (j *Job) SetTotalRows(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalRows = n
	j.UpdatedAt = time.Now()
}

// rowOutcome is what happened to one row.
type rowOutcome int

const (
	rowStored rowOutcome = iota
	rowDuplicate
	rowSkipped
	rowFailed
)

// recordRow counts one processed row.
func (j *Job) recordRow(outcome rowOutcome, id string, spans, fallbacks int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.RowsProcessed++
	switch outcome {
	case rowStored:
		j.Progress.Stored++
		j.questionIDs = append(j.questionIDs, id)
	case rowDuplicate:
		j.Progress.Duplicates++
	case rowSkipped:
		j.Progress.Skipped++
	}
	j.Progress.MathSpans += spans
	j.Progress.Fallbacks += fallbacks
	j.UpdatedAt = time.Now()
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Filename    string    `json:"filename"`
	Title       string    `json:"title"`
	Column      string    `json:"column,omitempty"`
	Progress    Progress  `json:"progress"`
	QuestionIDs []string  `json:"question_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	p := j.Progress
	p.Errors = append([]string{}, j.Progress.Errors...)
	return JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		Title:       j.Title,
		Column:      j.Column,
		Progress:    p,
		QuestionIDs: append([]string{}, j.questionIDs...),
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

func (j *Job) setTitle(title string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Title == "" {
		j.Title = title
	}
}

func (j *Job) setColumn(name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Column = name
}

func (j *Job) hasErrors() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.errors) > 0
}
