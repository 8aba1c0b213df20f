package question

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

// RemoteStore keeps questions in an HTTP key-value service. Questions live
// under {prefix}/{id}; a second tree {prefix}-hash/{hash} maps content
// hashes to IDs.
type RemoteStore struct {
	baseURL    string
	apiKey     string
	prefix     string
	httpClient *http.Client
}

func NewRemoteStore(baseURL, apiKey, prefix string) *RemoteStore {
	if prefix == "" {
		prefix = "questions"
	}
	return &RemoteStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		prefix:  strings.Trim(prefix, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// nodeRequest is the body for PUT /kv/{key}.
type nodeRequest struct {
	Value  any    `json:"value"`
	Source string `json:"source,omitempty"`
}

// nodeResponse is a single node from GET /kv/{key} or a prefix scan.
type nodeResponse struct {
	Key   string          `json:"key_path"`
	Value json.RawMessage `json:"value"`
}

func (s *RemoteStore) questionKey(id string) string { return s.prefix + "/" + id }
func (s *RemoteStore) hashKey(hash string) string   { return s.prefix + "-hash/" + hash }

func (s *RemoteStore) Put(ctx context.Context, q *Question) error {
	if q.ID == "" {
		q.ID = NewID()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
	if old, err := s.Get(ctx, q.ID); err == nil && old.Hash() != q.Hash() {
		if err := s.deleteKey(ctx, s.hashKey(old.Hash())); err != nil {
			return err
		}
	}
	if err := s.putKey(ctx, s.questionKey(q.ID), nodeRequest{Value: q, Source: q.Source}); err != nil {
		return err
	}
	return s.putKey(ctx, s.hashKey(q.Hash()), nodeRequest{Value: q.ID})
}

func (s *RemoteStore) Get(ctx context.Context, id string) (*Question, error) {
	node, err := s.getKey(ctx, s.questionKey(id))
	if err != nil {
		return nil, err
	}
	var q Question
	if err := json.Unmarshal(node.Value, &q); err != nil {
		return nil, fmt.Errorf("decode question %s: %w", id, err)
	}
	return &q, nil
}

func (s *RemoteStore) List(ctx context.Context) ([]*Question, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/kv/"+s.prefix+"/*", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	s.authorize(httpReq)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("list questions", resp)
	}

	var result struct {
		Nodes []nodeResponse `json:"nodes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	out := make([]*Question, 0, len(result.Nodes))
	for _, n := range result.Nodes {
		var q Question
		if err := json.Unmarshal(n.Value, &q); err != nil {
			return nil, fmt.Errorf("decode question %s: %w", n.Key, err)
		}
		out = append(out, &q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *RemoteStore) Delete(ctx context.Context, id string) error {
	q, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.deleteKey(ctx, s.questionKey(id)); err != nil {
		return err
	}
	return s.deleteKey(ctx, s.hashKey(q.Hash()))
}

func (s *RemoteStore) FindByHash(ctx context.Context, hash string) (*Question, error) {
	node, err := s.getKey(ctx, s.hashKey(hash))
	if err != nil {
		return nil, err
	}
	var id string
	if err := json.Unmarshal(node.Value, &id); err != nil {
		return nil, fmt.Errorf("decode hash index: %w", err)
	}
	return s.Get(ctx, id)
}

// Close releases idle connections.
func (s *RemoteStore) Close() {
	s.httpClient.CloseIdleConnections()
}

func (s *RemoteStore) putKey(ctx context.Context, key string, req nodeRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal node: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, s.baseURL+"/kv/"+key, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	s.authorize(httpReq)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("put node: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusError("put node "+key, resp)
	}
	return nil
}

func (s *RemoteStore) getKey(ctx context.Context, key string) (*nodeResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/kv/"+key, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	s.authorize(httpReq)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get node: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("get node "+key, resp)
	}

	var node nodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&node); err != nil {
		return nil, fmt.Errorf("decode node: %w", err)
	}
	return &node, nil
}

func (s *RemoteStore) deleteKey(ctx context.Context, key string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.baseURL+"/kv/"+key, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	s.authorize(httpReq)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("delete node: %w", err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	}
	return statusError("delete node "+key, resp)
}

func (s *RemoteStore) authorize(r *http.Request) {
	if s.apiKey != "" {
		r.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
}

// StatusError is an unexpected response from the key-value service.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Temporary reports whether retrying the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

func statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
}
