package api

import (
	"net/http"
	"time"

	"github.com/dgallion1/examtex/internal/markup"
	"github.com/dgallion1/examtex/internal/preview"
)

// rendered is the render output sent to clients.
type rendered struct {
	Nodes []markup.Node      `json:"nodes"`
	HTML  string             `json:"html"`
	Stats markup.RenderStats `json:"stats"`
}

// render runs text through the renderer and builds the HTML preview. An
// HTML failure is logged and leaves HTML empty; the nodes are still valid.
func (s *Server) render(text string) rendered {
	start := time.Now()
	nodes := s.renderer.Render(text)
	stats := markup.Stats(nodes)
	s.metrics.ObserveRender(stats, time.Since(start))

	out := rendered{Nodes: nodes, Stats: stats}
	if out.Nodes == nil {
		out.Nodes = []markup.Node{}
	}
	html, err := preview.HTML(nodes)
	if err != nil {
		s.log.Warn("html preview failed", "error", err)
	} else {
		out.HTML = html
	}
	s.log.Debug("rendered",
		"bytes", len(text),
		"math_spans", stats.Inline+stats.Display+stats.Fallbacks,
		"fallbacks", stats.Fallbacks,
	)
	return out
}

type renderRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !decodeJSON(w, r, s.cfg.MaxDocumentBytes+1024, &req) {
		return
	}
	if int64(len(req.Text)) > s.cfg.MaxDocumentBytes {
		jsonError(w, "text too large", http.StatusRequestEntityTooLarge)
		return
	}
	writeJSON(w, http.StatusOK, s.render(req.Text))
}
