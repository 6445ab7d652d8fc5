package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/tildaslashalef/gitsage/internal/loggy"
)

// Service provides project registry operations
type Service struct {
	repo   Repository
	logger *loggy.Logger
}

// NewService creates a new project service
func NewService(db *sql.DB, logger *loggy.Logger) *Service {
	return &Service{
		repo:   NewSQLRepository(db, logger),
		logger: logger,
	}
}

// NewServiceWithRepository creates a service with a custom repository
// implementation (for testing)
func NewServiceWithRepository(repo Repository, logger *loggy.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetOrCreateProject finds the project registered for the path, creating
// one named after the directory when none exists yet
func (s *Service) GetOrCreateProject(ctx context.Context, path string) (*Project, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}

	existing, err := s.repo.GetProjectByPath(ctx, absPath)
	if err == nil {
		s.logger.Debug("Using project", "id", existing.ID, "name", existing.Name)
		return existing, nil
	}
	if !errors.Is(err, ErrProjectNotFound) {
		return nil, fmt.Errorf("checking for project: %w", err)
	}

	s.logger.Info("No project found for path, creating one", "path", absPath)

	proj, err := New(absPath, "")
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	if err := s.repo.CreateProject(ctx, proj); err != nil {
		return nil, fmt.Errorf("saving project: %w", err)
	}

	return proj, nil
}

// GetProject retrieves a project by ID
func (s *Service) GetProject(ctx context.Context, id string) (*Project, error) {
	return s.repo.GetProjectByID(ctx, id)
}

// ListProjects returns all registered projects
func (s *Service) ListProjects(ctx context.Context) ([]*Project, error) {
	return s.repo.ListProjects(ctx)
}

// RenameProject changes a project's display name
func (s *Service) RenameProject(ctx context.Context, id, name string) (*Project, error) {
	if name == "" {
		return nil, fmt.Errorf("renaming project: name must not be empty")
	}

	proj, err := s.repo.GetProjectByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}

	proj.Name = name
	if err := s.repo.UpdateProject(ctx, proj); err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}

	return proj, nil
}

// DeleteProject removes a project and everything recorded against it
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	return s.repo.DeleteProject(ctx, id)
}
