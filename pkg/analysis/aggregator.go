package analysis

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/tildaslashalef/gitsage/pkg/vcs"
)

// NoRelevantFiles is the sentinel hotspot entry reported when every file
// an author touched is excluded by policy.
const NoRelevantFiles = "no relevant files"

// AggregateAuthors walks the commit list once and accumulates per-author
// contribution statistics. Change lists come from the injected ChangeLister
// and may be fetched concurrently; results land in per-commit slots so the
// accumulation order, and therefore the output, is deterministic. A commit
// whose fetch fails is logged and skipped for file statistics but still
// counts toward its author's commit total. The returned slice is ordered by
// descending commit count with first-seen order preserved on ties.
func (s *Service) AggregateAuthors(ctx context.Context, commits []vcs.CommitRecord) ([]AuthorStat, error) {
	if s.lister == nil {
		return nil, fmt.Errorf("aggregating authors: no change lister configured")
	}
	if len(commits) == 0 {
		return []AuthorStat{}, nil
	}

	changeLists := make([][]vcs.ChangeRecord, len(commits))
	fetchErrs := make([]error, len(commits))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fetchConcurrency)

	for i, commit := range commits {
		i, commit := i, commit
		g.Go(func() error {
			if err := s.fetchLimiter.Wait(gctx); err != nil {
				return err
			}
			changes, err := s.lister.ListChanges(gctx, commit.Hash)
			if err != nil {
				fetchErrs[i] = err
				return nil
			}
			changeLists[i] = changes
			return nil
		})
	}

	// Only context cancellation propagates here; per-commit fetch
	// failures are kept in fetchErrs.
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregating authors: %w", err)
	}

	byAuthor := make(map[string]*AuthorStat)
	authorOrder := make([]string, 0)
	fileOrder := make(map[string][]string)

	for i, commit := range commits {
		key := commit.Email
		if key == "" {
			key = commit.Author
		}

		stat, ok := byAuthor[key]
		if !ok {
			stat = &AuthorStat{
				Author:        commit.Author,
				Email:         commit.Email,
				FileFrequency: make(map[string]int),
			}
			byAuthor[key] = stat
			authorOrder = append(authorOrder, key)
		}
		stat.CommitCount++

		if fetchErrs[i] != nil {
			s.logger.Warn("Skipping change list for commit",
				"hash", commit.Hash,
				"author", commit.Author,
				"error", fetchErrs[i],
			)
			continue
		}

		for _, change := range changeLists[i] {
			if _, seen := stat.FileFrequency[change.Path]; !seen {
				fileOrder[key] = append(fileOrder[key], change.Path)
			}
			stat.FileFrequency[change.Path]++
		}
	}

	stats := make([]AuthorStat, 0, len(authorOrder))
	for _, key := range authorOrder {
		stat := byAuthor[key]
		stat.DistinctFiles = len(stat.FileFrequency)
		stat.Hotspots = s.hotspots(stat.FileFrequency, fileOrder[key])
		stats = append(stats, *stat)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].CommitCount > stats[j].CommitCount
	})

	s.logger.Debug("Aggregated author history",
		"commits", len(commits),
		"authors", len(stats),
	)

	return stats, nil
}

// hotspots derives the most frequently touched files for one author.
// Excluded paths are dropped first, the rest sorted by descending
// frequency with first-seen order breaking ties, and the survivors are
// capped and shortened for display.
func (s *Service) hotspots(freq map[string]int, seen []string) []string {
	candidates := make([]string, 0, len(seen))
	for _, path := range seen {
		if s.policy.IsExcluded(path) {
			continue
		}
		candidates = append(candidates, path)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return freq[candidates[i]] > freq[candidates[j]]
	})

	limit := s.policy.HotspotLimit
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	if len(candidates) == 0 {
		return []string{NoRelevantFiles}
	}

	display := make([]string, len(candidates))
	for i, path := range candidates {
		display[i] = s.policy.DisplayPath(path)
	}
	return display
}
