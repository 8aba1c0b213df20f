// Package question holds the editable exam question and its storage.
package question

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/ksuid"
)

// ErrNotFound is returned when a question does not exist.
var ErrNotFound = errors.New("question not found")

// MaxTextBytes bounds the question text accepted from clients.
const MaxTextBytes = 64 << 10

// OptionSeparator joins answer options in one spreadsheet cell.
const OptionSeparator = " | "

// Difficulty levels accepted by Validate. Empty means unset.
var Difficulties = []string{"easy", "medium", "hard"}

// Question is one exam question. Text and Answer are mixed markup and are
// rendered on demand; only the raw source is stored.
type Question struct {
	ID         string    `json:"id" yaml:"id"`
	Text       string    `json:"text" yaml:"text"`
	Answer     string    `json:"answer,omitempty" yaml:"answer,omitempty"`
	Options    []string  `json:"options,omitempty" yaml:"options,omitempty"`
	Topic      string    `json:"topic,omitempty" yaml:"topic,omitempty"`
	Difficulty string    `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Marks      int       `json:"marks,omitempty" yaml:"marks,omitempty"`
	Tags       []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Source     string    `json:"source,omitempty" yaml:"source,omitempty"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"updated_at"`
}

// New creates a question with a fresh ID.
func New(text, source string) *Question {
	now := time.Now().UTC()
	return &Question{
		ID:        NewID(),
		Text:      text,
		Source:    source,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewID returns a K-sortable unique ID, so IDs order by creation time.
func NewID() string {
	return ksuid.New().String()
}

// Validate checks the fields a client can set.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return errors.New("text is required")
	}
	if len(q.Text) > MaxTextBytes {
		return fmt.Errorf("text exceeds %d bytes", MaxTextBytes)
	}
	if q.Marks < 0 {
		return errors.New("marks must not be negative")
	}
	if q.Difficulty != "" && !isDifficulty(q.Difficulty) {
		return fmt.Errorf("difficulty must be one of %s", strings.Join(Difficulties, ", "))
	}
	return nil
}

func isDifficulty(d string) bool {
	for _, v := range Difficulties {
		if d == v {
			return true
		}
	}
	return false
}

// Hash identifies the question's content for duplicate detection.
func (q *Question) Hash() string {
	return ContentHash(q.Text)
}

// ContentHash returns the SHA-256 of text with whitespace runs collapsed,
// so reformatting alone does not defeat duplicate detection.
func ContentHash(text string) string {
	h := sha256.Sum256([]byte(strings.Join(strings.Fields(text), " ")))
	return fmt.Sprintf("%x", h[:])
}

// Clone returns a deep copy.
func (q *Question) Clone() *Question {
	c := *q
	c.Options = append([]string(nil), q.Options...)
	c.Tags = append([]string(nil), q.Tags...)
	return &c
}

// Store persists questions.
type Store interface {
	Put(ctx context.Context, q *Question) error
	// Get returns ErrNotFound when id is unknown.
	Get(ctx context.Context, id string) (*Question, error)
	// List returns all questions ordered by ID, oldest first.
	List(ctx context.Context) ([]*Question, error)
	Delete(ctx context.Context, id string) error
	// FindByHash returns the question whose content hash matches, or
	// ErrNotFound.
	FindByHash(ctx context.Context, hash string) (*Question, error)
}
