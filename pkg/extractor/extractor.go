package extractor

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tildaslashalef/gitsage/internal/loggy"
)

// Service extracts structured payloads from raw LLM responses
type Service struct {
	logger *loggy.Logger
}

// NewService creates a new extractor Service
func NewService(logger *loggy.Logger) *Service {
	return &Service{
		logger: logger,
	}
}

// Extract returns the first balanced JSON object or array embedded in text.
// Surrounding prose, markdown fences and anything after the balanced payload
// are ignored. When no balanced payload exists it returns ErrNoJSON.
func (s *Service) Extract(text string) (string, error) {
	content := stripFences(strings.TrimSpace(text))

	payload, err := scanBalanced(content)
	if err != nil {
		s.logger.Debug("Failed to extract JSON payload", "error", err, "content_length", len(text))
		return "", err
	}

	s.logger.Debug("Extracted JSON payload", "length", len(payload))
	return payload, nil
}

// ExtractCommitSuggestion extracts and normalizes a commit suggestion
// from an LLM response
func (s *Service) ExtractCommitSuggestion(content string) (*CommitSuggestion, error) {
	payload, err := s.Extract(content)
	if err != nil {
		return nil, fmt.Errorf("extracting commit suggestion: %w", err)
	}

	var suggestion CommitSuggestion
	if err := json.Unmarshal([]byte(payload), &suggestion); err != nil {
		s.logger.Debug("Failed to unmarshal commit suggestion", "error", err)
		return nil, fmt.Errorf("parsing commit suggestion: %w", err)
	}

	return NormalizeCommitSuggestion(&suggestion), nil
}

// ExtractTestSuite extracts and normalizes a generated test suite
// from an LLM response
func (s *Service) ExtractTestSuite(content string) (*TestSuite, error) {
	payload, err := s.Extract(content)
	if err != nil {
		return nil, fmt.Errorf("extracting test suite: %w", err)
	}

	var suite TestSuite
	if err := json.Unmarshal([]byte(payload), &suite); err != nil {
		s.logger.Debug("Failed to unmarshal test suite", "error", err)
		return nil, fmt.Errorf("parsing test suite: %w", err)
	}

	normalized, err := NormalizeTestSuite(&suite)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Extracted test suite", "test_cases", len(normalized.TestCases))
	return normalized, nil
}

// ExtractCodeReview extracts and normalizes a code review from an LLM response
func (s *Service) ExtractCodeReview(content string) (*CodeReview, error) {
	payload, err := s.Extract(content)
	if err != nil {
		return nil, fmt.Errorf("extracting code review: %w", err)
	}

	// Line numbers occasionally come back as strings, so unmarshal into an
	// intermediate shape and coerce.
	type intermediateIssue struct {
		Severity     string      `json:"severity"`
		Title        string      `json:"title"`
		Description  string      `json:"description"`
		LineStart    interface{} `json:"line_start"`
		LineEnd      interface{} `json:"line_end"`
		Suggestion   string      `json:"suggestion"`
		AffectedCode string      `json:"affected_code"`
	}

	type intermediateReview struct {
		Summary     string              `json:"summary"`
		Score       interface{}         `json:"score"`
		Issues      []intermediateIssue `json:"issues"`
		Suggestions []string            `json:"suggestions"`
	}

	var intermediate intermediateReview
	if err := json.Unmarshal([]byte(payload), &intermediate); err != nil {
		s.logger.Debug("Failed to unmarshal code review", "error", err)
		return nil, fmt.Errorf("parsing code review: %w", err)
	}

	review := &CodeReview{
		Summary:     intermediate.Summary,
		Score:       parseNumber(intermediate.Score),
		Issues:      make([]ReviewIssue, 0, len(intermediate.Issues)),
		Suggestions: intermediate.Suggestions,
	}

	for _, issue := range intermediate.Issues {
		review.Issues = append(review.Issues, ReviewIssue{
			Severity:     issue.Severity,
			Title:        issue.Title,
			Description:  issue.Description,
			LineStart:    parseNumber(issue.LineStart),
			LineEnd:      parseNumber(issue.LineEnd),
			Suggestion:   issue.Suggestion,
			AffectedCode: issue.AffectedCode,
		})
	}

	s.logger.Debug("Extracted code review", "issues_count", len(review.Issues))
	return NormalizeCodeReview(review), nil
}

// scanBalanced finds the first { or [ in text and scans forward byte by
// byte until the matching closer balances it out. The scan tracks three
// pieces of state: bracket depth, whether the cursor is inside a string
// literal, and whether the previous byte was an unconsumed escape.
// Brackets inside string literals never affect depth, an escaped quote
// never toggles the string state, and an escaped backslash never chains.
func scanBalanced(text string) (string, error) {
	objIdx := strings.IndexByte(text, '{')
	arrIdx := strings.IndexByte(text, '[')

	start := objIdx
	open, closer := byte('{'), byte('}')
	if objIdx < 0 || (arrIdx >= 0 && arrIdx < objIdx) {
		start = arrIdx
		open, closer = '[', ']'
	}
	if start < 0 {
		return "", ErrNoJSON
	}

	depth := 0
	insideString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if escaped {
			escaped = false
			continue
		}

		switch c {
		case '\\':
			escaped = true
		case '"':
			insideString = !insideString
		case open:
			if !insideString {
				depth++
			}
		case closer:
			if !insideString {
				depth--
				if depth == 0 {
					return text[start : i+1], nil
				}
			}
		}
	}

	return "", ErrNoJSON
}

// stripFences removes one pair of markdown code fence lines wrapping the
// content. The opening fence may carry a language tag. Content without a
// matching pair is returned unchanged.
func stripFences(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}

	firstLineEnd := strings.IndexByte(content, '\n')
	if firstLineEnd < 0 {
		return content
	}

	closing := strings.LastIndex(content, "```")
	if closing <= firstLineEnd {
		return content
	}

	return strings.TrimSpace(content[firstLineEnd+1 : closing])
}

// parseNumber attempts to parse an integer from different formats
func parseNumber(value interface{}) int {
	switch v := value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if num, err := strconv.Atoi(v); err == nil {
			return num
		}
	}
	return 0
}
