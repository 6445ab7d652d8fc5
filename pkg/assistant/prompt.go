package assistant

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/tildaslashalef/gitsage/pkg/vcs"
)

// commitPromptTemplate asks for a conventional commit message as JSON
const commitPromptTemplate = `You are an expert software engineer writing a conventional commit message for the changes below.

## Changed Files

{{.Changes}}

## Instructions

1. Pick the single most fitting commit type from: feat, fix, docs, style, refactor, perf, test, chore.
2. Keep the description imperative and under 72 characters.
3. Set the scope only when one component clearly owns the change, otherwise leave it empty.
4. Put motivation and context in the body when the change needs it.

## Response Format

Respond with a JSON object matching this schema exactly:

{
  "type": "feat|fix|docs|style|refactor|perf|test|chore",
  "scope": "optional component name",
  "description": "imperative summary of the change",
  "body": "optional longer explanation"
}

Provide the **JSON** response as your **LAST** statement.
`

// reviewPromptTemplate asks for a structured code review as JSON
const reviewPromptTemplate = `You are an expert code reviewer examining the changes below.

## Changed Files

{{.Changes}}

## Instructions

1. Judge correctness first, then maintainability and style.
2. Report only issues you can point at; do not pad the list.
3. Score the overall quality of the changes from 0 (broken) to 10 (excellent).
4. Keep every description short and concrete.

## Response Format

Respond with a JSON object matching this schema exactly:

{
  "summary": "one paragraph overview of the changes",
  "score": 7,
  "issues": [
    {
      "severity": "low|medium|high|critical",
      "title": "short issue title",
      "description": "what is wrong and why it matters",
      "line_start": 0,
      "line_end": 0,
      "suggestion": "how to fix it",
      "affected_code": "the offending snippet"
    }
  ],
  "suggestions": ["optional improvement ideas"]
}

Provide the **JSON** response as your **LAST** statement.
`

// testsPromptTemplate asks for a generated test suite as JSON
const testsPromptTemplate = `You are an expert {{.Language}} engineer writing tests for the file below.

## Source File

File: {{.FileName}}
Language: {{.Language}}

` + "```" + `
{{.Source}}
` + "```" + `

## Instructions

1. Cover the main behaviors and the obvious edge cases.
2. Use the idiomatic test tooling for {{.Language}}.
3. Every test case must compile on its own; include imports in the code.
4. Mark each case as unit or integration.

## Response Format

Respond with a JSON object matching this schema exactly:

{
  "file_name": "suggested test file name",
  "language": "{{.Language}}",
  "test_cases": [
    {
      "name": "test name",
      "kind": "unit|integration",
      "code": "full test code",
      "description": "what the test verifies"
    }
  ]
}

Provide the **JSON** response as your **LAST** statement.
`

// summaryPromptTemplate asks for a prose summary of a change set
const summaryPromptTemplate = `You are an expert software engineer summarizing a change set for a teammate.

## Changed Files

{{.Changes}}

## Instructions

1. Describe what changed and why it matters in at most three short paragraphs.
2. Lead with the user-visible effect, then the implementation.
3. Plain prose only, no headings and no JSON.
`

// changelogPromptTemplate asks for grouped release notes from commit subjects
const changelogPromptTemplate = `You are an expert release manager drafting a changelog entry from the commits below.

## Commits

{{.Commits}}

## Instructions

1. Group related commits under Added, Changed and Fixed.
2. One bullet per change, written for users rather than developers.
3. Drop merge commits and pure chores.
4. Plain markdown bullets only, no JSON.
`

// retryNudge is appended to the prompt after a failed parse attempt
const retryNudge = `

Your previous reply could not be parsed. Respond again and make sure the JSON object is complete, balanced brackets and all, and is the last thing in your message.`

// PromptOptions bounds how much change content a prompt carries
type PromptOptions struct {
	// MaxPatchBytes caps the patch excerpt per file.
	MaxPatchBytes int

	// MaxFiles caps how many files are rendered.
	MaxFiles int
}

// DefaultPromptOptions returns the bounds used when none are configured
func DefaultPromptOptions() PromptOptions {
	return PromptOptions{
		MaxPatchBytes: 4000,
		MaxFiles:      20,
	}
}

// BuildCommitPrompt renders the commit suggestion prompt for a change set
func BuildCommitPrompt(changes []vcs.ChangeRecord, opts PromptOptions) (string, error) {
	return executePrompt("commit_prompt", commitPromptTemplate, map[string]string{
		"Changes": renderChanges(changes, opts),
	})
}

// BuildReviewPrompt renders the code review prompt for a change set
func BuildReviewPrompt(changes []vcs.ChangeRecord, opts PromptOptions) (string, error) {
	return executePrompt("review_prompt", reviewPromptTemplate, map[string]string{
		"Changes": renderChanges(changes, opts),
	})
}

// BuildTestsPrompt renders the test generation prompt for a source file
func BuildTestsPrompt(fileName, language, source string) (string, error) {
	return executePrompt("tests_prompt", testsPromptTemplate, map[string]string{
		"FileName": fileName,
		"Language": language,
		"Source":   source,
	})
}

// BuildSummaryPrompt renders the change summary prompt for a change set
func BuildSummaryPrompt(changes []vcs.ChangeRecord, opts PromptOptions) (string, error) {
	return executePrompt("summary_prompt", summaryPromptTemplate, map[string]string{
		"Changes": renderChanges(changes, opts),
	})
}

// BuildChangelogPrompt renders the changelog prompt for a commit list
func BuildChangelogPrompt(commits []vcs.CommitRecord) (string, error) {
	return executePrompt("changelog_prompt", changelogPromptTemplate, map[string]string{
		"Commits": renderCommits(commits),
	})
}

func executePrompt(name, text string, data map[string]string) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing %s template: %w", name, err)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("executing %s template: %w", name, err)
	}

	return sb.String(), nil
}

// renderChanges formats change records as a markdown block with per-file
// patch excerpts
func renderChanges(changes []vcs.ChangeRecord, opts PromptOptions) string {
	if len(changes) == 0 {
		return "(no changes)"
	}

	var sb strings.Builder
	rendered := 0
	for _, change := range changes {
		if opts.MaxFiles > 0 && rendered >= opts.MaxFiles {
			fmt.Fprintf(&sb, "... and %d more files\n", len(changes)-rendered)
			break
		}

		path := change.Path
		if change.ChangeType == vcs.ChangeTypeRenamed && change.OldPath != "" {
			path = fmt.Sprintf("%s -> %s", change.OldPath, change.Path)
		}
		fmt.Fprintf(&sb, "### %s [%s] (+%d/-%d)\n", path, change.ChangeType, change.Insertions, change.Deletions)

		patch := change.Patch
		if opts.MaxPatchBytes > 0 && len(patch) > opts.MaxPatchBytes {
			patch = patch[:opts.MaxPatchBytes] + "\n... (patch truncated)"
		}
		if patch != "" {
			sb.WriteString("\n```\n")
			sb.WriteString(patch)
			sb.WriteString("\n```\n")
		}
		sb.WriteString("\n")
		rendered++
	}

	return strings.TrimSpace(sb.String())
}

// renderCommits formats commits as one subject line each
func renderCommits(commits []vcs.CommitRecord) string {
	if len(commits) == 0 {
		return "(no commits)"
	}

	var sb strings.Builder
	for _, commit := range commits {
		hash := commit.Hash
		if len(hash) > 8 {
			hash = hash[:8]
		}
		subject := commit.Message
		if idx := strings.IndexByte(subject, '\n'); idx >= 0 {
			subject = subject[:idx]
		}
		fmt.Fprintf(&sb, "- %s %s (%s)\n", hash, strings.TrimSpace(subject), commit.Author)
	}

	return strings.TrimSpace(sb.String())
}
