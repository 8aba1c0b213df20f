package api

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/dgallion1/examtex/internal/export"
	"github.com/dgallion1/examtex/internal/question"
)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("format")
	if name == "" {
		name = string(export.FormatJSON)
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	all, err := s.store.List(r.Context())
	if err != nil {
		jsonError(w, "failed to list questions: "+err.Error(), http.StatusInternalServerError)
		return
	}
	topic := q.Get("topic")
	selected := make([]*question.Question, 0, len(all))
	for _, qu := range all {
		if topic == "" || strings.EqualFold(qu.Topic, topic) {
			selected = append(selected, qu)
		}
	}

	title := q.Get("title")
	if title == "" {
		title = topic
	}
	if title == "" {
		title = "Question bank"
	}

	// Buffer so an encoding failure can still become a JSON error.
	var buf bytes.Buffer
	if err := export.Write(&buf, format, selected, export.Options{Title: title, Renderer: s.renderer}); err != nil {
		s.log.Error("export failed", "format", format, "error", err)
		jsonError(w, "export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(title, format)+`"`)
	w.Write(buf.Bytes())
}
