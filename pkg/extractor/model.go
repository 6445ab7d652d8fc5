// Package extractor provides utilities for extracting and normalizing
// structured data from LLM responses
package extractor

import "errors"

var (
	// ErrNoJSON is returned when no balanced JSON payload can be found
	// in the scanned content.
	ErrNoJSON = errors.New("no JSON payload found in content")

	// ErrEmptyResult is returned when a response parsed cleanly but
	// carried nothing usable.
	ErrEmptyResult = errors.New("response contained no usable result")
)

// CommitType categorizes a commit following the conventional commit style
type CommitType string

const (
	CommitTypeFeat     CommitType = "feat"
	CommitTypeFix      CommitType = "fix"
	CommitTypeDocs     CommitType = "docs"
	CommitTypeStyle    CommitType = "style"
	CommitTypeRefactor CommitType = "refactor"
	CommitTypePerf     CommitType = "perf"
	CommitTypeTest     CommitType = "test"
	CommitTypeChore    CommitType = "chore"
)

var knownCommitTypes = map[CommitType]bool{
	CommitTypeFeat:     true,
	CommitTypeFix:      true,
	CommitTypeDocs:     true,
	CommitTypeStyle:    true,
	CommitTypeRefactor: true,
	CommitTypePerf:     true,
	CommitTypeTest:     true,
	CommitTypeChore:    true,
}

// IsValid reports whether the commit type is one of the known categories
func (t CommitType) IsValid() bool {
	return knownCommitTypes[t]
}

// CommitSuggestion represents a proposed conventional commit message
// parsed from an LLM response
type CommitSuggestion struct {
	Type        CommitType `json:"type"`
	Scope       string     `json:"scope"`
	Description string     `json:"description"`
	Body        string     `json:"body"`
}

// Subject renders the conventional commit subject line
func (s *CommitSuggestion) Subject() string {
	if s.Scope != "" {
		return string(s.Type) + "(" + s.Scope + "): " + s.Description
	}
	return string(s.Type) + ": " + s.Description
}

// TestSuite represents a set of generated test cases for a source file
type TestSuite struct {
	FileName  string     `json:"file_name"`
	Language  string     `json:"language"`
	TestCases []TestCase `json:"test_cases"`
}

// TestCase represents a single generated test
type TestCase struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// CodeReview represents the structure of a code review response from an LLM
type CodeReview struct {
	Summary     string        `json:"summary"`
	Score       int           `json:"score"`
	Issues      []ReviewIssue `json:"issues"`
	Suggestions []string      `json:"suggestions"`
}

// ReviewIssue represents a single issue found during code review
type ReviewIssue struct {
	Severity     string `json:"severity"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	LineStart    int    `json:"line_start"`
	LineEnd      int    `json:"line_end"`
	Suggestion   string `json:"suggestion"`
	AffectedCode string `json:"affected_code"`
}
