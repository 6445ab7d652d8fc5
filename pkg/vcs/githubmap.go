package vcs

import (
	"github.com/google/go-github/v59/github"
)

// CommitFromGitHub maps a GitHub API commit to a CommitRecord. The caller
// fetched the commit through whatever client it runs; only the mapping
// lives here.
func CommitFromGitHub(rc *github.RepositoryCommit) CommitRecord {
	if rc == nil {
		return CommitRecord{}
	}

	record := CommitRecord{
		Hash: rc.GetSHA(),
	}
	if commit := rc.GetCommit(); commit != nil {
		record.Message = commit.GetMessage()
		if author := commit.GetAuthor(); author != nil {
			record.Author = author.GetName()
			record.Email = author.GetEmail()
			record.Date = author.GetDate().Time
		}
	}
	return record
}

// ChangeFromGitHubFile maps one GitHub API commit file to a ChangeRecord.
func ChangeFromGitHubFile(f *github.CommitFile) ChangeRecord {
	if f == nil {
		return ChangeRecord{}
	}

	record := ChangeRecord{
		Path:       f.GetFilename(),
		ChangeType: changeTypeFromGitHubStatus(f.GetStatus()),
		Insertions: f.GetAdditions(),
		Deletions:  f.GetDeletions(),
		Patch:      f.GetPatch(),
	}
	if record.ChangeType == ChangeTypeRenamed {
		record.OldPath = f.GetPreviousFilename()
	}
	return record
}

// ChangesFromGitHubFiles maps a commit's or pull request's file list.
func ChangesFromGitHubFiles(files []*github.CommitFile) []ChangeRecord {
	records := make([]ChangeRecord, 0, len(files))
	for _, f := range files {
		if f == nil {
			continue
		}
		records = append(records, ChangeFromGitHubFile(f))
	}
	return records
}

func changeTypeFromGitHubStatus(status string) ChangeType {
	switch status {
	case "added", "copied":
		return ChangeTypeAdded
	case "removed":
		return ChangeTypeDeleted
	case "renamed":
		return ChangeTypeRenamed
	default:
		return ChangeTypeModified
	}
}
