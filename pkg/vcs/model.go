// Package vcs defines the version-control records the analysis core
// consumes, plus mappers from go-git and GitHub API objects into those
// records. The package never opens repositories or calls the network;
// callers hand it objects they already hold.
package vcs

import (
	"context"
	"time"
)

// ChangeType represents the type of change to a file
type ChangeType string

const (
	// ChangeTypeAdded represents a file that was added
	ChangeTypeAdded ChangeType = "added"
	// ChangeTypeModified represents a file that was modified
	ChangeTypeModified ChangeType = "modified"
	// ChangeTypeDeleted represents a file that was deleted
	ChangeTypeDeleted ChangeType = "deleted"
	// ChangeTypeRenamed represents a file that was renamed
	ChangeTypeRenamed ChangeType = "renamed"
)

// ChangeRecord is one file's diff statistics and raw diff text within a
// single commit or staged change set.
type ChangeRecord struct {
	Path       string     `json:"path"`
	OldPath    string     `json:"old_path,omitempty"` // only set for renamed files
	ChangeType ChangeType `json:"change_type,omitempty"`
	Insertions int        `json:"insertions"`
	Deletions  int        `json:"deletions"`
	Patch      string     `json:"patch,omitempty"`
}

// TotalChanges returns the combined insertion and deletion count.
func (c ChangeRecord) TotalChanges() int {
	return c.Insertions + c.Deletions
}

// CommitRecord is the identity and metadata of one commit. It is immutable
// once obtained; changed-file lists are fetched separately through a
// ChangeLister.
type CommitRecord struct {
	Hash    string    `json:"hash"`
	Author  string    `json:"author"`
	Email   string    `json:"email"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
}

// ChangeLister fetches the changed files of a commit on demand. A fetch may
// fail independently per commit; callers are expected to isolate such
// failures rather than abort whole scans.
type ChangeLister interface {
	ListChanges(ctx context.Context, hash string) ([]ChangeRecord, error)
}
