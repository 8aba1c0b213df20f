package api

import (
	"net/http"

	"github.com/dgallion1/examtex/internal/assist"
	"github.com/dgallion1/examtex/internal/question"
)

type assistCreateRequest struct {
	assist.CreateRequest
	// Store saves the generated questions when true.
	Store bool `json:"store"`
}

func (s *Server) handleAssistCreate(w http.ResponseWriter, r *http.Request) {
	if s.assist == nil {
		jsonError(w, "content assist is not configured", http.StatusServiceUnavailable)
		return
	}
	var req assistCreateRequest
	if !decodeJSON(w, r, 16<<10, &req) {
		return
	}
	if req.Topic == "" {
		jsonError(w, "topic is required", http.StatusBadRequest)
		return
	}

	generated, err := s.assist.Create(r.Context(), req.CreateRequest)
	if err != nil {
		jsonError(w, "question creation failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	views := make([]questionView, 0, len(generated))
	for _, g := range generated {
		q := question.New(g.Text, "assist")
		q.Answer = g.Answer
		q.Options = g.Options
		q.Topic = req.Topic
		q.Difficulty = g.Difficulty
		q.Marks = g.Marks
		q.Tags = g.Tags
		if req.Store {
			if err := s.store.Put(r.Context(), q); err != nil {
				jsonError(w, "failed to store question: "+err.Error(), http.StatusInternalServerError)
				return
			}
		}
		views = append(views, s.view(q))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"questions": views,
		"count":     len(views),
		"stored":    req.Store,
	})
}
