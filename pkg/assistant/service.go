package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/tildaslashalef/gitsage/internal/loggy"
	"github.com/tildaslashalef/gitsage/pkg/extractor"
	"github.com/tildaslashalef/gitsage/pkg/vcs"
)

// Service orchestrates prompt building, generation and response parsing
type Service struct {
	generator Generator
	extractor *extractor.Service
	repo      Repository
	retry     RetryOptions
	prompts   PromptOptions
	logger    *loggy.Logger
}

// NewService creates a new assistant service. The repository may be nil when
// suggestion persistence isn't needed.
func NewService(generator Generator, ext *extractor.Service, repo Repository, retry RetryOptions, logger *loggy.Logger) *Service {
	if logger == nil {
		logger = loggy.NewNoopLogger()
	}
	if ext == nil {
		ext = extractor.NewService(logger)
	}

	defaults := DefaultRetryOptions()
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = defaults.MaxAttempts
	}
	if retry.InitialBackoff <= 0 {
		retry.InitialBackoff = defaults.InitialBackoff
	}
	if retry.MaxElapsedTime <= 0 {
		retry.MaxElapsedTime = defaults.MaxElapsedTime
	}

	return &Service{
		generator: generator,
		extractor: ext,
		repo:      repo,
		retry:     retry,
		prompts:   DefaultPromptOptions(),
		logger:    logger,
	}
}

// SuggestCommit generates a conventional commit suggestion for a change set
func (s *Service) SuggestCommit(ctx context.Context, changes []vcs.ChangeRecord) (*extractor.CommitSuggestion, error) {
	if s.generator == nil {
		return nil, errors.New("no generator configured")
	}
	if len(changes) == 0 {
		return nil, errors.New("suggesting commit: no changes provided")
	}

	prompt, err := BuildCommitPrompt(changes, s.prompts)
	if err != nil {
		return nil, fmt.Errorf("suggesting commit: %w", err)
	}

	var suggestion *extractor.CommitSuggestion
	err = s.generateAndParse(ctx, prompt, func(response string) error {
		parsed, perr := s.extractor.ExtractCommitSuggestion(response)
		if perr != nil {
			return perr
		}
		suggestion = parsed
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("suggesting commit: %w", err)
	}

	s.logger.Debug("Generated commit suggestion",
		"type", suggestion.Type,
		"scope", suggestion.Scope,
	)

	return suggestion, nil
}

// ReviewChanges generates a structured code review for a change set
func (s *Service) ReviewChanges(ctx context.Context, changes []vcs.ChangeRecord) (*extractor.CodeReview, error) {
	if s.generator == nil {
		return nil, errors.New("no generator configured")
	}
	if len(changes) == 0 {
		return nil, errors.New("reviewing changes: no changes provided")
	}

	prompt, err := BuildReviewPrompt(changes, s.prompts)
	if err != nil {
		return nil, fmt.Errorf("reviewing changes: %w", err)
	}

	var review *extractor.CodeReview
	err = s.generateAndParse(ctx, prompt, func(response string) error {
		parsed, perr := s.extractor.ExtractCodeReview(response)
		if perr != nil {
			return perr
		}
		review = parsed
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reviewing changes: %w", err)
	}

	s.logger.Debug("Generated code review",
		"score", review.Score,
		"issues", len(review.Issues),
	)

	return review, nil
}

// SuggestTests generates a test suite for a source file. The language is
// detected from the file name and content and fed into the prompt.
func (s *Service) SuggestTests(ctx context.Context, fileName string, source []byte) (*extractor.TestSuite, error) {
	if s.generator == nil {
		return nil, errors.New("no generator configured")
	}
	if fileName == "" {
		return nil, errors.New("suggesting tests: no file name provided")
	}
	if len(source) == 0 {
		return nil, errors.New("suggesting tests: no source provided")
	}

	language := DetectLanguage(fileName, source)

	prompt, err := BuildTestsPrompt(fileName, language, string(source))
	if err != nil {
		return nil, fmt.Errorf("suggesting tests: %w", err)
	}

	var suite *extractor.TestSuite
	err = s.generateAndParse(ctx, prompt, func(response string) error {
		parsed, perr := s.extractor.ExtractTestSuite(response)
		if perr != nil {
			return perr
		}
		suite = parsed
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("suggesting tests: %w", err)
	}

	if suite.FileName == "" {
		suite.FileName = fileName
	}
	if suite.Language == "" {
		suite.Language = language
	}

	s.logger.Debug("Generated test suite",
		"file", suite.FileName,
		"language", suite.Language,
		"cases", len(suite.TestCases),
	)

	return suite, nil
}

// Summarize produces a prose summary of a change set
func (s *Service) Summarize(ctx context.Context, changes []vcs.ChangeRecord) (string, error) {
	if s.generator == nil {
		return "", errors.New("no generator configured")
	}
	if len(changes) == 0 {
		return "", errors.New("summarizing changes: no changes provided")
	}

	prompt, err := BuildSummaryPrompt(changes, s.prompts)
	if err != nil {
		return "", fmt.Errorf("summarizing changes: %w", err)
	}

	summary, err := s.generateProse(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("summarizing changes: %w", err)
	}

	return summary, nil
}

// Changelog produces prose release notes from a commit list
func (s *Service) Changelog(ctx context.Context, commits []vcs.CommitRecord) (string, error) {
	if s.generator == nil {
		return "", errors.New("no generator configured")
	}
	if len(commits) == 0 {
		return "", errors.New("building changelog: no commits provided")
	}

	prompt, err := BuildChangelogPrompt(commits)
	if err != nil {
		return "", fmt.Errorf("building changelog: %w", err)
	}

	changelog, err := s.generateProse(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("building changelog: %w", err)
	}

	return changelog, nil
}

// SaveSuggestion persists an accepted commit suggestion for a project
func (s *Service) SaveSuggestion(ctx context.Context, projectID string, cs *extractor.CommitSuggestion) (*Suggestion, error) {
	if s.repo == nil {
		return nil, errors.New("no repository configured")
	}
	if projectID == "" {
		return nil, errors.New("saving suggestion: project ID is required")
	}
	if cs == nil {
		return nil, errors.New("saving suggestion: nil suggestion")
	}

	suggestion := NewSuggestion(projectID, cs)
	if err := s.repo.SaveSuggestion(ctx, suggestion); err != nil {
		return nil, fmt.Errorf("saving suggestion: %w", err)
	}

	s.logger.Debug("Saved commit suggestion",
		"suggestion_id", suggestion.ID,
		"project_id", projectID,
	)

	return suggestion, nil
}

// GetSuggestion retrieves a saved suggestion by ID
func (s *Service) GetSuggestion(ctx context.Context, id string) (*Suggestion, error) {
	if s.repo == nil {
		return nil, errors.New("no repository configured")
	}
	return s.repo.GetSuggestion(ctx, id)
}

// ListSuggestions returns a project's saved suggestions, newest first
func (s *Service) ListSuggestions(ctx context.Context, projectID string) ([]*Suggestion, error) {
	if s.repo == nil {
		return nil, errors.New("no repository configured")
	}
	return s.repo.ListSuggestions(ctx, projectID)
}

// generateProse runs a prompt expecting free text back. A blank response
// surfaces as ErrEmptyResult.
func (s *Service) generateProse(ctx context.Context, prompt string) (string, error) {
	var text string
	err := s.generateAndParse(ctx, prompt, func(response string) error {
		trimmed := strings.TrimSpace(response)
		if trimmed == "" {
			return extractor.ErrEmptyResult
		}
		text = trimmed
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// generateAndParse runs one prompt through the generator and the parse
// callback with bounded exponential retry. A nudge is appended to the prompt
// after the first failed attempt. An empty-result parse outcome is terminal;
// the model answered, it just had nothing usable to say.
func (s *Service) generateAndParse(ctx context.Context, prompt string, parse func(string) error) error {
	attempt := 0
	operation := func() error {
		attempt++
		p := prompt
		if attempt > 1 {
			p = prompt + retryNudge
		}

		response, err := s.generator.Generate(ctx, p)
		if err != nil {
			s.logger.Debug("Generation attempt failed",
				"attempt", attempt,
				"error", err,
			)
			return fmt.Errorf("generating response: %w", err)
		}

		if err := parse(response); err != nil {
			if errors.Is(err, extractor.ErrEmptyResult) {
				return backoff.Permanent(err)
			}
			s.logger.Debug("Failed to parse generated response",
				"attempt", attempt,
				"error", err,
			)
			return err
		}

		return nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = s.retry.InitialBackoff
	expBackoff.MaxElapsedTime = s.retry.MaxElapsedTime

	return backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(expBackoff, uint64(s.retry.MaxAttempts-1)), ctx))
}
