// Package project manages the registry of repositories under analysis
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tildaslashalef/gitsage/internal/ulid"
	"github.com/tildaslashalef/gitsage/internal/utils"
)

// Project identifies a repository path that assessments and suggestions
// are recorded against
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates a project for the given path. The path must exist. An empty
// name falls back to the sanitized directory name, or a generated one when
// that comes up empty.
func New(path, name string) (*Project, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}

	if _, err := os.Stat(absPath); err != nil {
		return nil, fmt.Errorf("checking project path: %w", err)
	}

	if name == "" {
		name = utils.SanitizeDirectoryName(filepath.Base(absPath))
	}
	if name == "" {
		name = utils.GenerateProjectName()
	}

	now := time.Now()
	return &Project{
		ID:        ulid.ProjectID(),
		Name:      name,
		Path:      absPath,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// HasGitRepo checks if the project path contains a Git repository
func (p *Project) HasGitRepo() bool {
	_, err := os.Stat(filepath.Join(p.Path, ".git"))
	return err == nil
}
