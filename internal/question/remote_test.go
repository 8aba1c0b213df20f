package question

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// kvServer is a minimal in-memory key-value service.
type kvServer struct {
	mu    sync.Mutex
	nodes map[string]json.RawMessage
	auth  []string
}

func newKVServer(t *testing.T) (*kvServer, *httptest.Server) {
	kv := &kvServer{nodes: make(map[string]json.RawMessage)}
	srv := httptest.NewServer(http.HandlerFunc(kv.serve))
	t.Cleanup(srv.Close)
	return kv, srv
}

func (kv *kvServer) serve(w http.ResponseWriter, r *http.Request) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.auth = append(kv.auth, r.Header.Get("Authorization"))

	key := strings.TrimPrefix(r.URL.Path, "/kv/")
	switch r.Method {
	case http.MethodPut:
		var body struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		kv.nodes[key] = body.Value
		w.WriteHeader(http.StatusCreated)
	case http.MethodGet:
		if prefix, ok := strings.CutSuffix(key, "/*"); ok {
			var nodes []map[string]any
			for k, v := range kv.nodes {
				if strings.HasPrefix(k, prefix+"/") {
					nodes = append(nodes, map[string]any{"key_path": k, "value": v})
				}
			}
			json.NewEncoder(w).Encode(map[string]any{"nodes": nodes})
			return
		}
		v, ok := kv.nodes[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"key_path": key, "value": v})
	case http.MethodDelete:
		delete(kv.nodes, key)
		w.WriteHeader(http.StatusNoContent)
	}
}

func TestRemoteStore_RoundTrip(t *testing.T) {
	kv, srv := newKVServer(t)
	s := NewRemoteStore(srv.URL, "secret", "")
	defer s.Close()
	ctx := context.Background()

	q := &Question{ID: "q1", Text: `\textbf{Prove} $a^2+b^2=c^2$`, Tags: []string{"geometry"}}
	if err := s.Put(ctx, q); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok := kv.nodes["questions/q1"]; !ok {
		t.Fatalf("expected node under questions/q1, got keys %v", kv.nodes)
	}

	got, err := s.Get(ctx, "q1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Text != q.Text || len(got.Tags) != 1 {
		t.Errorf("expected round-tripped question, got %+v", got)
	}

	byHash, err := s.FindByHash(ctx, q.Hash())
	if err != nil || byHash.ID != "q1" {
		t.Errorf("expected hash lookup to find q1, got %v %v", byHash, err)
	}

	for _, h := range kv.auth {
		if h != "Bearer secret" {
			t.Errorf("expected bearer auth, got %q", h)
		}
	}
}

func TestRemoteStore_ListSkipsHashIndex(t *testing.T) {
	_, srv := newKVServer(t)
	s := NewRemoteStore(srv.URL, "", "bank")
	ctx := context.Background()

	for _, id := range []string{"b", "a"} {
		if err := s.Put(ctx, &Question{ID: id, Text: "question " + id}); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" {
		t.Errorf("expected a, b, got %+v", list)
	}
}

func TestRemoteStore_NotFound(t *testing.T) {
	_, srv := newKVServer(t)
	s := NewRemoteStore(srv.URL, "", "")
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoteStore_DeleteRemovesHash(t *testing.T) {
	kv, srv := newKVServer(t)
	s := NewRemoteStore(srv.URL, "", "")
	ctx := context.Background()

	q := &Question{ID: "q1", Text: "x"}
	_ = s.Put(ctx, q)
	if err := s.Delete(ctx, "q1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(kv.nodes) != 0 {
		t.Errorf("expected no nodes left, got %v", kv.nodes)
	}
}

func TestRemoteStore_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewRemoteStore(srv.URL, "", "")
	err := s.Put(context.Background(), &Question{ID: "q", Text: "x"})
	if err == nil || !strings.Contains(err.Error(), "status 500") {
		t.Errorf("expected status error, got %v", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || !se.Temporary() {
		t.Errorf("expected temporary StatusError, got %T", err)
	}
}
