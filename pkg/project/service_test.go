package project

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tildaslashalef/gitsage/internal/loggy"
)

// fakeRepository keeps projects in memory
type fakeRepository struct {
	byID   map[string]*Project
	byPath map[string]*Project
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		byID:   make(map[string]*Project),
		byPath: make(map[string]*Project),
	}
}

func (f *fakeRepository) CreateProject(ctx context.Context, project *Project) error {
	if _, ok := f.byPath[project.Path]; ok {
		return ErrProjectAlreadyExists
	}
	f.byID[project.ID] = project
	f.byPath[project.Path] = project
	return nil
}

func (f *fakeRepository) GetProjectByID(ctx context.Context, id string) (*Project, error) {
	if project, ok := f.byID[id]; ok {
		return project, nil
	}
	return nil, ErrProjectNotFound
}

func (f *fakeRepository) GetProjectByPath(ctx context.Context, path string) (*Project, error) {
	if project, ok := f.byPath[path]; ok {
		return project, nil
	}
	return nil, ErrProjectNotFound
}

func (f *fakeRepository) ListProjects(ctx context.Context) ([]*Project, error) {
	projects := make([]*Project, 0, len(f.byID))
	for _, project := range f.byID {
		projects = append(projects, project)
	}
	return projects, nil
}

func (f *fakeRepository) UpdateProject(ctx context.Context, project *Project) error {
	if _, ok := f.byID[project.ID]; !ok {
		return ErrProjectNotFound
	}
	f.byID[project.ID] = project
	f.byPath[project.Path] = project
	return nil
}

func (f *fakeRepository) DeleteProject(ctx context.Context, id string) error {
	project, ok := f.byID[id]
	if !ok {
		return ErrProjectNotFound
	}
	delete(f.byID, id)
	delete(f.byPath, project.Path)
	return nil
}

func TestProjectService(t *testing.T) {
	logger := loggy.NewNoopLogger()

	t.Run("GetOrCreateProject creates on first use", func(t *testing.T) {
		repo := newFakeRepository()
		service := NewServiceWithRepository(repo, logger)
		path := t.TempDir()

		created, err := service.GetOrCreateProject(context.Background(), path)
		require.NoError(t, err)
		require.NotNil(t, created)

		assert.NotEmpty(t, created.ID)
		assert.NotEmpty(t, created.Name)
		assert.Equal(t, path, created.Path)

		again, err := service.GetOrCreateProject(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, created.ID, again.ID, "Second call should return the same project")
	})

	t.Run("GetOrCreateProject rejects missing path", func(t *testing.T) {
		service := NewServiceWithRepository(newFakeRepository(), logger)

		project, err := service.GetOrCreateProject(context.Background(), "/does/not/exist/anywhere")
		assert.Error(t, err)
		assert.Nil(t, project)
	})

	t.Run("RenameProject updates the name", func(t *testing.T) {
		repo := newFakeRepository()
		service := NewServiceWithRepository(repo, logger)

		created, err := service.GetOrCreateProject(context.Background(), t.TempDir())
		require.NoError(t, err)

		renamed, err := service.RenameProject(context.Background(), created.ID, "scoring-engine")
		require.NoError(t, err)
		assert.Equal(t, "scoring-engine", renamed.Name)

		fetched, err := service.GetProject(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "scoring-engine", fetched.Name)
	})

	t.Run("RenameProject rejects empty name", func(t *testing.T) {
		service := NewServiceWithRepository(newFakeRepository(), logger)

		_, err := service.RenameProject(context.Background(), "proj-1", "")
		assert.Error(t, err)
	})

	t.Run("DeleteProject removes the project", func(t *testing.T) {
		repo := newFakeRepository()
		service := NewServiceWithRepository(repo, logger)

		created, err := service.GetOrCreateProject(context.Background(), t.TempDir())
		require.NoError(t, err)

		require.NoError(t, service.DeleteProject(context.Background(), created.ID))

		_, err = service.GetProject(context.Background(), created.ID)
		assert.ErrorIs(t, err, ErrProjectNotFound)
	})

	t.Run("unknown project errors propagate", func(t *testing.T) {
		service := NewServiceWithRepository(newFakeRepository(), logger)

		_, err := service.RenameProject(context.Background(), "proj-missing", "anything")
		assert.True(t, errors.Is(err, ErrProjectNotFound))
	})
}
