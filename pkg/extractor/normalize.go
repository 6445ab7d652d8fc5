package extractor

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"
)

// descriptionLimit is the maximum display width of a commit subject
// description, ellipsis included.
const descriptionLimit = 72

// NormalizeCommitSuggestion validates and defaults a commit suggestion
// in place. Unknown commit types are coerced to chore, the scope is
// lowercased and the description is truncated to fit a subject line.
func NormalizeCommitSuggestion(s *CommitSuggestion) *CommitSuggestion {
	if s == nil {
		return nil
	}

	s.Type = CommitType(strings.ToLower(strings.TrimSpace(string(s.Type))))
	if !s.Type.IsValid() {
		s.Type = CommitTypeChore
	}

	s.Scope = strings.ToLower(strings.TrimSpace(s.Scope))
	s.Description = truncate.StringWithTail(strings.TrimSpace(s.Description), descriptionLimit, "...")
	s.Body = strings.TrimSpace(s.Body)

	return s
}

// NormalizeTestSuite validates and defaults a generated test suite in
// place. A suite without test cases is rejected with ErrEmptyResult so
// callers can distinguish an empty answer from a malformed one.
func NormalizeTestSuite(suite *TestSuite) (*TestSuite, error) {
	if suite == nil || len(suite.TestCases) == 0 {
		return nil, fmt.Errorf("normalizing test suite: %w", ErrEmptyResult)
	}

	for i := range suite.TestCases {
		tc := &suite.TestCases[i]
		tc.Name = strings.TrimSpace(tc.Name)
		if tc.Name == "" {
			tc.Name = fmt.Sprintf("case %d", i+1)
		}
		tc.Kind = strings.ToLower(strings.TrimSpace(tc.Kind))
		if tc.Kind == "" {
			tc.Kind = "unit"
		}
		tc.Code = strings.TrimSpace(tc.Code)
	}

	return suite, nil
}

// NormalizeCodeReview defaults a code review in place. Every field is
// optional, so a sparse response still yields a usable review.
func NormalizeCodeReview(review *CodeReview) *CodeReview {
	if review == nil {
		review = &CodeReview{}
	}

	if review.Issues == nil {
		review.Issues = []ReviewIssue{}
	}
	if review.Suggestions == nil {
		review.Suggestions = []string{}
	}

	for i := range review.Issues {
		issue := &review.Issues[i]
		if issue.Severity == "" {
			issue.Severity = "medium"
		}
		if issue.Title == "" {
			issue.Title = "Unspecified issue"
		}
	}

	return review
}
