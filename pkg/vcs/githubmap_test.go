package vcs

import (
	"testing"
	"time"

	"github.com/google/go-github/v59/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitFromGitHub(t *testing.T) {
	date := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)
	rc := &github.RepositoryCommit{
		SHA: github.String("abc123def456"),
		Commit: &github.Commit{
			Message: github.String("fix: handle empty payload"),
			Author: &github.CommitAuthor{
				Name:  github.String("Test User"),
				Email: github.String("test@example.com"),
				Date:  &github.Timestamp{Time: date},
			},
		},
	}

	record := CommitFromGitHub(rc)
	assert.Equal(t, "abc123def456", record.Hash)
	assert.Equal(t, "Test User", record.Author)
	assert.Equal(t, "test@example.com", record.Email)
	assert.Equal(t, "fix: handle empty payload", record.Message)
	assert.Equal(t, date, record.Date)
}

func TestCommitFromGitHubEmpty(t *testing.T) {
	record := CommitFromGitHub(&github.RepositoryCommit{})
	assert.Empty(t, record.Hash)
	assert.Empty(t, record.Author)
	assert.True(t, record.Date.IsZero())
}

func TestChangeFromGitHubFile(t *testing.T) {
	tests := []struct {
		name     string
		file     *github.CommitFile
		expected ChangeRecord
	}{
		{
			name: "modified file",
			file: &github.CommitFile{
				Filename:  github.String("internal/server.go"),
				Status:    github.String("modified"),
				Additions: github.Int(12),
				Deletions: github.Int(4),
				Patch:     github.String("@@ -1,4 +1,12 @@"),
			},
			expected: ChangeRecord{
				Path:       "internal/server.go",
				ChangeType: ChangeTypeModified,
				Insertions: 12,
				Deletions:  4,
				Patch:      "@@ -1,4 +1,12 @@",
			},
		},
		{
			name: "added file",
			file: &github.CommitFile{
				Filename:  github.String("docs/usage.md"),
				Status:    github.String("added"),
				Additions: github.Int(40),
			},
			expected: ChangeRecord{
				Path:       "docs/usage.md",
				ChangeType: ChangeTypeAdded,
				Insertions: 40,
			},
		},
		{
			name: "copied file counts as added",
			file: &github.CommitFile{
				Filename: github.String("config/base.yaml"),
				Status:   github.String("copied"),
			},
			expected: ChangeRecord{
				Path:       "config/base.yaml",
				ChangeType: ChangeTypeAdded,
			},
		},
		{
			name: "removed file",
			file: &github.CommitFile{
				Filename:  github.String("legacy/shim.go"),
				Status:    github.String("removed"),
				Deletions: github.Int(88),
			},
			expected: ChangeRecord{
				Path:       "legacy/shim.go",
				ChangeType: ChangeTypeDeleted,
				Deletions:  88,
			},
		},
		{
			name: "renamed file keeps previous path",
			file: &github.CommitFile{
				Filename:         github.String("pkg/client/client.go"),
				PreviousFilename: github.String("pkg/api/client.go"),
				Status:           github.String("renamed"),
				Additions:        github.Int(2),
				Deletions:        github.Int(2),
			},
			expected: ChangeRecord{
				Path:       "pkg/client/client.go",
				OldPath:    "pkg/api/client.go",
				ChangeType: ChangeTypeRenamed,
				Insertions: 2,
				Deletions:  2,
			},
		},
		{
			name: "unknown status falls back to modified",
			file: &github.CommitFile{
				Filename: github.String("mystery.txt"),
				Status:   github.String("unchanged"),
			},
			expected: ChangeRecord{
				Path:       "mystery.txt",
				ChangeType: ChangeTypeModified,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ChangeFromGitHubFile(tt.file))
		})
	}
}

func TestChangesFromGitHubFiles(t *testing.T) {
	files := []*github.CommitFile{
		{
			Filename:  github.String("a.go"),
			Status:    github.String("modified"),
			Additions: github.Int(1),
		},
		{
			Filename: github.String("b.go"),
			Status:   github.String("removed"),
		},
	}

	records := ChangesFromGitHubFiles(files)
	require.Len(t, records, 2)
	assert.Equal(t, "a.go", records[0].Path)
	assert.Equal(t, ChangeTypeDeleted, records[1].ChangeType)
	assert.Equal(t, 1, records[0].TotalChanges())
}
