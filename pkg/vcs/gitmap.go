package vcs

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/tildaslashalef/gitsage/internal/loggy"
)

// CommitFromObject maps a go-git commit object to a CommitRecord.
func CommitFromObject(c *object.Commit) CommitRecord {
	return CommitRecord{
		Hash:    c.Hash.String(),
		Author:  c.Author.Name,
		Email:   c.Author.Email,
		Message: c.Message,
		Date:    c.Author.When,
	}
}

// ChangeFromObject maps a single go-git tree change to a ChangeRecord,
// rendering its per-file patch for the raw diff text.
func ChangeFromObject(change *object.Change) (ChangeRecord, error) {
	patch, err := change.Patch()
	if err != nil {
		return ChangeRecord{}, fmt.Errorf("generating patch: %w", err)
	}

	fromName := ""
	if change.From.Name != "" {
		fromName = filepath.Clean(change.From.Name)
	}
	toName := ""
	if change.To.Name != "" {
		toName = filepath.Clean(change.To.Name)
	}

	path := toName
	if path == "" {
		path = fromName
	}

	record := ChangeRecord{
		Path:       path,
		ChangeType: changeTypeFromObject(change),
		Patch:      patch.String(),
	}
	if fromName != "" && toName != "" && fromName != toName {
		record.ChangeType = ChangeTypeRenamed
		record.OldPath = fromName
	}

	// A single tree change carries one file's stats; binary files have none.
	for _, stat := range patch.Stats() {
		record.Insertions += stat.Addition
		record.Deletions += stat.Deletion
	}

	return record, nil
}

// ChangesFromObjects maps a go-git change set to ChangeRecords. Changes that
// fail to render a patch are skipped so one bad object does not lose the
// rest of the set.
func ChangesFromObjects(changes object.Changes, logger *loggy.Logger) []ChangeRecord {
	records := make([]ChangeRecord, 0, len(changes))
	for _, change := range changes {
		record, err := ChangeFromObject(change)
		if err != nil {
			logger.Warn("Skipping unreadable change",
				"from", change.From.Name,
				"to", change.To.Name,
				"error", err)
			continue
		}
		records = append(records, record)
	}
	return records
}

// CommitChanges diffs a caller-supplied commit object against its first
// parent (or the empty tree for a root commit) and maps the result.
func CommitChanges(commit *object.Commit, logger *loggy.Logger) ([]ChangeRecord, error) {
	commitTree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("getting commit tree: %w", err)
	}

	parentTree := &object.Tree{}
	if commit.NumParents() > 0 {
		parent, err := commit.Parent(0)
		if err != nil {
			return nil, fmt.Errorf("getting parent commit: %w", err)
		}
		parentTree, err = parent.Tree()
		if err != nil {
			return nil, fmt.Errorf("getting parent tree: %w", err)
		}
	}

	changes, err := parentTree.Diff(commitTree)
	if err != nil {
		return nil, fmt.Errorf("diffing trees: %w", err)
	}

	return ChangesFromObjects(changes, logger), nil
}

// changeTypeFromObject classifies a tree change by which side of it exists.
func changeTypeFromObject(change *object.Change) ChangeType {
	if change.From.TreeEntry.Hash.IsZero() && !change.To.TreeEntry.Hash.IsZero() {
		return ChangeTypeAdded
	}
	if !change.From.TreeEntry.Hash.IsZero() && change.To.TreeEntry.Hash.IsZero() {
		return ChangeTypeDeleted
	}
	return ChangeTypeModified
}

// GitLister adapts a caller-supplied go-git repository into a ChangeLister.
type GitLister struct {
	repo   *git.Repository
	logger *loggy.Logger
}

// NewGitLister wraps repo. The repository handle comes from the caller;
// this package never opens one itself.
func NewGitLister(repo *git.Repository, logger *loggy.Logger) *GitLister {
	return &GitLister{
		repo:   repo,
		logger: logger,
	}
}

// ListChanges resolves the commit by hash and maps its change set.
func (l *GitLister) ListChanges(ctx context.Context, hash string) ([]ChangeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.repo == nil {
		return nil, fmt.Errorf("git repository not supplied")
	}

	commit, err := l.repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return nil, fmt.Errorf("getting commit object: %w", err)
	}

	return CommitChanges(commit, l.logger)
}
