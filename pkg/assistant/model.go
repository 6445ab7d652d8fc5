// Package assistant drives commit, review, test and summary generation
// against a caller-supplied Generator
package assistant

import (
	"context"
	"time"

	"github.com/tildaslashalef/gitsage/internal/ulid"
	"github.com/tildaslashalef/gitsage/pkg/extractor"
)

// Generator produces a completion for a prompt. Implementations wrap
// whatever model backend the host application talks to; this module never
// opens network connections itself.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// RetryOptions bounds the generate-extract-parse retry loop
type RetryOptions struct {
	// MaxAttempts is the total number of generation attempts.
	MaxAttempts int

	// InitialBackoff is the first retry delay.
	InitialBackoff time.Duration

	// MaxElapsedTime caps the whole retry loop.
	MaxElapsedTime time.Duration
}

// DefaultRetryOptions returns the retry bounds used when none are configured
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxElapsedTime: 15 * time.Second,
	}
}

// Suggestion is a persisted commit suggestion tied to a project
type Suggestion struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	CommitType  string    `json:"commit_type"`
	Scope       string    `json:"scope"`
	Description string    `json:"description"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewSuggestion builds a persistable record from a normalized commit
// suggestion
func NewSuggestion(projectID string, cs *extractor.CommitSuggestion) *Suggestion {
	return &Suggestion{
		ID:          ulid.SuggestionID(),
		ProjectID:   projectID,
		CommitType:  string(cs.Type),
		Scope:       cs.Scope,
		Description: cs.Description,
		Body:        cs.Body,
		CreatedAt:   time.Now(),
	}
}
