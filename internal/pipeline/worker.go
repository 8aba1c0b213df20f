package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/examtex/internal/importer"
	"github.com/dgallion1/examtex/internal/markup"
	"github.com/dgallion1/examtex/internal/metrics"
	"github.com/dgallion1/examtex/internal/question"
)

// Worker processes a single import job.
type Worker struct {
	store    question.Store
	renderer *markup.Renderer
	metrics  *metrics.Metrics
	log      *slog.Logger

	importOpts         importer.Options
	maxConcurrentStore int
	retryBase          time.Duration
}

func NewWorker(store question.Store, renderer *markup.Renderer, m *metrics.Metrics, log *slog.Logger, opts importer.Options, maxStore int) *Worker {
	if maxStore <= 0 {
		maxStore = 1
	}
	return &Worker{
		store:              store,
		renderer:           renderer,
		metrics:            m,
		log:                log,
		importOpts:         opts,
		maxConcurrentStore: maxStore,
		retryBase:          time.Second,
	}
}

// candidate is a parsed row waiting to be stored.
type candidate struct {
	row       int
	q         *question.Question
	spans     int
	fallbacks int
}

// Process runs the full import pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	defer func() {
		snap := job.Snapshot()
		w.metrics.ObserveImportJob(string(snap.Status), snap.Progress.Stored)
	}()

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	sheet, err := importer.Parse(bytes.NewReader(job.FileData()), job.Filename, w.importOpts)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	job.setTitle(sheet.Title)
	job.SetTotalRows(len(sheet.Rows))

	if len(sheet.Rows) == 0 {
		log.Warn("no rows in file")
		job.AddError("no importable content")
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	// Phase 2: Find the question column.
	job.SetStatus(StatusDetecting, "detecting question column")
	col, err := questionColumn(sheet, job.Column)
	if err != nil {
		log.Error("no question column", "error", err, "headers", sheet.Headers)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "detecting")
		return
	}
	job.setColumn(sheet.Headers[col])
	log.Info("question column", "column", sheet.Headers[col], "rows", len(sheet.Rows))

	// Phase 3: Build questions, drop duplicates, render to count math.
	job.SetStatus(StatusRendering, "rendering")
	fields := mapColumns(sheet)
	seen := make(map[string]bool)
	var pending []candidate
	for i := range sheet.Rows {
		if ctx.Err() != nil {
			job.AddError(ctx.Err().Error())
			job.SetStatus(StatusFailed, "rendering")
			return
		}
		q := fields.question(sheet, i, col, job)
		if q == nil {
			job.recordRow(rowSkipped, "", 0, 0)
			continue
		}
		if err := q.Validate(); err != nil {
			job.AddError(fmt.Sprintf("row %d: %s", i+1, err))
			job.recordRow(rowFailed, "", 0, 0)
			continue
		}

		hash := q.Hash()
		if seen[hash] || w.exists(ctx, hash, log) {
			job.recordRow(rowDuplicate, "", 0, 0)
			continue
		}
		seen[hash] = true

		start := time.Now()
		stats := markup.Stats(w.renderer.Render(q.Text))
		w.metrics.ObserveRender(stats, time.Since(start))
		pending = append(pending, candidate{
			row:       i,
			q:         q,
			spans:     stats.Inline + stats.Display + stats.Fallbacks,
			fallbacks: stats.Fallbacks,
		})
	}
	log.Info("rows prepared", "new", len(pending), "rows", len(sheet.Rows))

	// Phase 4: Store with bounded concurrency.
	job.SetStatus(StatusStoring, "storing")
	storeSem := make(chan struct{}, w.maxConcurrentStore)
	type storeResult struct {
		c   candidate
		err error
	}
	results := make(chan storeResult, len(pending))
	for _, c := range pending {
		storeSem <- struct{}{}
		go func(c candidate) {
			defer func() { <-storeSem }()
			err := withRetry(ctx, w.retryBase, func(ctx context.Context) error {
				return w.store.Put(ctx, c.q)
			})
			results <- storeResult{c: c, err: err}
		}(c)
	}

	hadErrors := job.hasErrors()
	for range pending {
		r := <-results
		if r.err != nil {
			log.Error("store failed", "row", r.c.row+1, "error", r.err)
			job.AddError(fmt.Sprintf("row %d: store: %s", r.c.row+1, r.err))
			job.recordRow(rowFailed, "", r.c.spans, r.c.fallbacks)
			hadErrors = true
			continue
		}
		job.recordRow(rowStored, r.c.q.ID, r.c.spans, r.c.fallbacks)
	}

	snap := job.Snapshot()
	log.Info("import complete", "stored", snap.Progress.Stored, "duplicates", snap.Progress.Duplicates,
		"skipped", snap.Progress.Skipped, "fallbacks", snap.Progress.Fallbacks)

	switch {
	case hadErrors && snap.Progress.Stored > 0:
		job.SetStatus(StatusPartial, "done")
	case hadErrors:
		job.SetStatus(StatusFailed, "storing")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}

// exists checks the store for a question with the same content. Lookup
// errors are logged and treated as not found.
func (w *Worker) exists(ctx context.Context, hash string, log *slog.Logger) bool {
	_, err := w.store.FindByHash(ctx, hash)
	if err == nil {
		return true
	}
	if !errors.Is(err, question.ErrNotFound) {
		log.Warn("dedup check failed, proceeding", "error", err)
	}
	return false
}

func questionColumn(sheet *importer.Sheet, name string) (int, error) {
	if name == "" {
		return importer.DetectQuestionColumn(sheet)
	}
	if i := sheet.Column(name); i >= 0 {
		return i, nil
	}
	return -1, fmt.Errorf("column %q not found", name)
}

// columnMap holds the indexes of optional metadata columns, -1 if absent.
type columnMap struct {
	answer, options, topic, difficulty, marks, tags, section int
}

func mapColumns(s *importer.Sheet) columnMap {
	return columnMap{
		answer:     s.Column("answer"),
		options:    s.Column("options"),
		topic:      s.Column("topic"),
		difficulty: s.Column("difficulty"),
		marks:      s.Column("marks"),
		tags:       s.Column("tags"),
		section:    s.Column(importer.ColumnSection),
	}
}

// question builds the question for row i, or nil when the row has no text.
func (m columnMap) question(s *importer.Sheet, i, col int, job *Job) *question.Question {
	row := s.Rows[i]
	text := strings.TrimSpace(cell(row, col))
	if text == "" {
		return nil
	}

	q := question.New(text, "import:"+job.Filename)
	q.Answer = strings.TrimSpace(cell(row, m.answer))
	q.Options = splitList(cell(row, m.options), question.OptionSeparator)
	q.Tags = splitList(cell(row, m.tags), ",")

	q.Topic = strings.TrimSpace(cell(row, m.topic))
	if q.Topic == "" {
		q.Topic = strings.TrimSpace(cell(row, m.section))
	}
	if q.Topic == "" {
		q.Topic = job.Topic
	}

	if d := strings.ToLower(strings.TrimSpace(cell(row, m.difficulty))); d != "" {
		if slices.Contains(question.Difficulties, d) {
			q.Difficulty = d
		}
	}
	if n, err := strconv.Atoi(strings.TrimSpace(cell(row, m.marks))); err == nil && n > 0 {
		q.Marks = n
	}
	return q
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
