package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dgallion1/examtex/internal/assist"
	"github.com/dgallion1/examtex/internal/question"
	"github.com/go-chi/chi/v5"
)

// questionInput holds the fields a client may set.
type questionInput struct {
	Text       string   `json:"text"`
	Answer     string   `json:"answer"`
	Options    []string `json:"options"`
	Topic      string   `json:"topic"`
	Difficulty string   `json:"difficulty"`
	Marks      int      `json:"marks"`
	Tags       []string `json:"tags"`
}

func (in questionInput) apply(q *question.Question) {
	q.Text = in.Text
	q.Answer = in.Answer
	q.Options = in.Options
	q.Topic = strings.TrimSpace(in.Topic)
	q.Difficulty = strings.ToLower(strings.TrimSpace(in.Difficulty))
	q.Marks = in.Marks
	q.Tags = in.Tags
}

// questionView is a question with its rendered text and answer.
type questionView struct {
	*question.Question
	Rendered       rendered  `json:"rendered"`
	RenderedAnswer *rendered `json:"rendered_answer,omitempty"`
}

func (s *Server) view(q *question.Question) questionView {
	v := questionView{Question: q, Rendered: s.render(q.Text)}
	if q.Answer != "" {
		a := s.render(q.Answer)
		v.RenderedAnswer = &a
	}
	return v
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	qs, err := s.store.List(r.Context())
	if err != nil {
		jsonError(w, "failed to list questions: "+err.Error(), http.StatusInternalServerError)
		return
	}

	topic := r.URL.Query().Get("topic")
	out := make([]*question.Question, 0, len(qs))
	for _, q := range qs {
		if topic == "" || strings.EqualFold(q.Topic, topic) {
			out = append(out, q)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": out, "count": len(out)})
}

func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var in questionInput
	if !decodeJSON(w, r, s.cfg.MaxDocumentBytes*2, &in) {
		return
	}

	q := question.New("", "manual")
	in.apply(q)
	if err := q.Validate(); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.Put(r.Context(), q); err != nil {
		jsonError(w, "failed to store question: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.log.Info("question created", "id", q.ID)
	writeJSON(w, http.StatusCreated, s.view(q))
}

// loadQuestion fetches the {id} question, writing the error response on
// failure.
func (s *Server) loadQuestion(w http.ResponseWriter, r *http.Request) (*question.Question, bool) {
	q, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, question.ErrNotFound) {
		jsonError(w, "question not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		jsonError(w, "failed to load question: "+err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return q, true
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	q, ok := s.loadQuestion(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	q, ok := s.loadQuestion(w, r)
	if !ok {
		return
	}
	var in questionInput
	if !decodeJSON(w, r, s.cfg.MaxDocumentBytes*2, &in) {
		return
	}

	in.apply(q)
	if err := q.Validate(); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	q.UpdatedAt = time.Now().UTC()
	if err := s.store.Put(r.Context(), q); err != nil {
		jsonError(w, "failed to store question: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, s.view(q))
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.Delete(r.Context(), id)
	if errors.Is(err, question.ErrNotFound) {
		jsonError(w, "question not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to delete question: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.log.Info("question deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePreviewQuestion(w http.ResponseWriter, r *http.Request) {
	q, ok := s.loadQuestion(w, r)
	if !ok {
		return
	}
	v := s.view(q)
	if r.URL.Query().Get("format") == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(v.Rendered.HTML))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type modifyRequest struct {
	Instruction string `json:"instruction"`
}

// handleModifyQuestion asks the assist service to edit the question text.
// On success the new text is stored and re-rendered; on failure the
// question is left untouched.
func (s *Server) handleModifyQuestion(w http.ResponseWriter, r *http.Request) {
	if s.assist == nil {
		jsonError(w, "content assist is not configured", http.StatusServiceUnavailable)
		return
	}
	q, ok := s.loadQuestion(w, r)
	if !ok {
		return
	}
	var req modifyRequest
	if !decodeJSON(w, r, 16<<10, &req) {
		return
	}

	res := s.assist.Modify(r.Context(), assist.ModifyRequest{
		CurrentText: q.Text,
		Instruction: req.Instruction,
	})
	if !res.Success {
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return
	}

	q.Text = res.ModifiedText
	q.UpdatedAt = time.Now().UTC()
	if err := s.store.Put(r.Context(), q); err != nil {
		jsonError(w, "failed to store question: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.log.Info("question modified", "id", q.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"modified_text": res.ModifiedText,
		"question":      s.view(q),
	})
}
