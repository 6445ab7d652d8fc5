package analysis

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/tildaslashalef/gitsage/internal/loggy"
	"github.com/tildaslashalef/gitsage/pkg/vcs"
)

// FetchOptions bounds concurrent change-list fetches during aggregation
type FetchOptions struct {
	// Concurrency is the maximum number of in-flight fetches.
	Concurrency int

	// PerSecond throttles fetches; zero or negative disables the limiter.
	PerSecond float64

	// Burst is the limiter burst size.
	Burst int
}

// DefaultFetchOptions returns the fetch bounds used when none are configured
func DefaultFetchOptions() FetchOptions {
	return FetchOptions{
		Concurrency: 4,
		PerSecond:   20,
		Burst:       4,
	}
}

// Service provides diff impact scoring, history aggregation and
// assessment persistence
type Service struct {
	policy           Policy
	lister           vcs.ChangeLister
	repo             Repository
	logger           *loggy.Logger
	fetchConcurrency int
	fetchLimiter     *rate.Limiter
}

// NewService creates a new analysis Service. The lister supplies per-commit
// change lists for aggregation and commit analysis; the repository may be
// nil when persistence is not wanted.
func NewService(lister vcs.ChangeLister, repo Repository, policy Policy, fetch FetchOptions, logger *loggy.Logger) *Service {
	if policy.HotspotLimit <= 0 {
		policy.HotspotLimit = DefaultPolicy().HotspotLimit
	}
	if fetch.Concurrency <= 0 {
		fetch.Concurrency = DefaultFetchOptions().Concurrency
	}

	limit := rate.Inf
	burst := 0
	if fetch.PerSecond > 0 {
		limit = rate.Limit(fetch.PerSecond)
		burst = fetch.Burst
		if burst <= 0 {
			burst = 1
		}
	}

	return &Service{
		policy:           policy,
		lister:           lister,
		repo:             repo,
		logger:           logger,
		fetchConcurrency: fetch.Concurrency,
		fetchLimiter:     rate.NewLimiter(limit, burst),
	}
}

// Policy returns the policy the service was built with
func (s *Service) Policy() Policy {
	return s.policy
}

// AnalyzeCommit lists a commit's changes, scores them and persists the
// assessment for the project. A commit with no changes yields a nil
// assessment and no error.
func (s *Service) AnalyzeCommit(ctx context.Context, projectID string, commit vcs.CommitRecord) (*Assessment, error) {
	if s.lister == nil {
		return nil, fmt.Errorf("analyzing commit: no change lister configured")
	}

	changes, err := s.lister.ListChanges(ctx, commit.Hash)
	if err != nil {
		return nil, fmt.Errorf("listing changes for %s: %w", commit.Hash, err)
	}

	impact := s.ScoreChanges(changes)
	if impact == nil {
		s.logger.Debug("Commit has nothing to analyze", "hash", commit.Hash)
		return nil, nil
	}

	assessment := NewAssessment(projectID, commit.Hash, impact)
	if s.repo != nil {
		if err := s.repo.SaveAssessment(ctx, assessment); err != nil {
			return nil, fmt.Errorf("saving assessment: %w", err)
		}
	}

	return assessment, nil
}

// GetAssessment retrieves a stored assessment for a project commit
func (s *Service) GetAssessment(ctx context.Context, projectID, commitHash string) (*Assessment, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("getting assessment: no repository configured")
	}
	return s.repo.GetAssessment(ctx, projectID, commitHash)
}

// ListAssessments returns all stored assessments of a project
func (s *Service) ListAssessments(ctx context.Context, projectID string) ([]*Assessment, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("listing assessments: no repository configured")
	}
	return s.repo.ListAssessments(ctx, projectID)
}
