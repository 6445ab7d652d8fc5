package project

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tildaslashalef/gitsage/internal/loggy"
)

// testSQLRepository is a wrapper around SQLRepository for testing
type testSQLRepository struct {
	*SQLRepository
}

// NewTestSQLRepository creates a new test repository instance
func NewTestSQLRepository(db *sql.DB) *testSQLRepository {
	return &testSQLRepository{
		SQLRepository: &SQLRepository{
			db:      db,
			logger:  loggy.NewNoopLogger(),
			builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
		},
	}
}

func TestProjectRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create mock database")
	defer db.Close()

	repo := NewTestSQLRepository(db)

	sampleProject := &Project{
		ID:        "proj-01HTEST0000000000000000000",
		Name:      "gitsage",
		Path:      "/path/to/project",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	t.Run("CreateProject", func(t *testing.T) {
		mock.ExpectQuery("SELECT .+ FROM projects WHERE path = ?").
			WithArgs(sampleProject.Path).
			WillReturnError(sql.ErrNoRows)

		mock.ExpectExec("INSERT INTO projects").
			WithArgs(
				sampleProject.ID,
				sampleProject.Name,
				sampleProject.Path,
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
			).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.CreateProject(context.Background(), sampleProject)
		assert.NoError(t, err, "CreateProject should not return an error")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CreateProject duplicate path", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "name", "path", "created_at", "updated_at",
		}).AddRow(
			sampleProject.ID,
			sampleProject.Name,
			sampleProject.Path,
			sampleProject.CreatedAt.UTC().Format(time.RFC3339),
			sampleProject.UpdatedAt.UTC().Format(time.RFC3339),
		)

		mock.ExpectQuery("SELECT .+ FROM projects WHERE path = ?").
			WithArgs(sampleProject.Path).
			WillReturnRows(rows)

		err := repo.CreateProject(context.Background(), sampleProject)
		assert.ErrorIs(t, err, ErrProjectAlreadyExists)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetProjectByID", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "name", "path", "created_at", "updated_at",
		}).AddRow(
			sampleProject.ID,
			sampleProject.Name,
			sampleProject.Path,
			sampleProject.CreatedAt.UTC().Format(time.RFC3339),
			sampleProject.UpdatedAt.UTC().Format(time.RFC3339),
		)

		mock.ExpectQuery("SELECT .+ FROM projects WHERE id = ?").
			WithArgs(sampleProject.ID).
			WillReturnRows(rows)

		project, err := repo.GetProjectByID(context.Background(), sampleProject.ID)
		assert.NoError(t, err, "GetProjectByID should not return an error")
		assert.NotNil(t, project, "Project should not be nil")
		assert.Equal(t, sampleProject.ID, project.ID, "Project ID should match")
		assert.Equal(t, sampleProject.Name, project.Name, "Project name should match")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetProjectByID not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT .+ FROM projects WHERE id = ?").
			WithArgs("proj-missing").
			WillReturnError(sql.ErrNoRows)

		project, err := repo.GetProjectByID(context.Background(), "proj-missing")
		assert.ErrorIs(t, err, ErrProjectNotFound)
		assert.Nil(t, project, "Project should be nil when not found")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetProjectByPath", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "name", "path", "created_at", "updated_at",
		}).AddRow(
			sampleProject.ID,
			sampleProject.Name,
			sampleProject.Path,
			sampleProject.CreatedAt.UTC().Format(time.RFC3339),
			sampleProject.UpdatedAt.UTC().Format(time.RFC3339),
		)

		mock.ExpectQuery("SELECT .+ FROM projects WHERE path = ?").
			WithArgs(sampleProject.Path).
			WillReturnRows(rows)

		project, err := repo.GetProjectByPath(context.Background(), sampleProject.Path)
		assert.NoError(t, err, "GetProjectByPath should not return an error")
		assert.NotNil(t, project, "Project should not be nil")
		assert.Equal(t, sampleProject.Path, project.Path, "Project path should match")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ListProjects", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "name", "path", "created_at", "updated_at",
		}).AddRow(
			sampleProject.ID,
			sampleProject.Name,
			sampleProject.Path,
			sampleProject.CreatedAt.UTC().Format(time.RFC3339),
			sampleProject.UpdatedAt.UTC().Format(time.RFC3339),
		)

		mock.ExpectQuery("SELECT .+ FROM projects").
			WillReturnRows(rows)

		projects, err := repo.ListProjects(context.Background())
		assert.NoError(t, err, "ListProjects should not return an error")
		assert.Len(t, projects, 1, "Should return one project")
		assert.Equal(t, sampleProject.ID, projects[0].ID, "Project ID should match")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UpdateProject", func(t *testing.T) {
		mock.ExpectExec("UPDATE projects SET").
			WithArgs(
				sampleProject.Name,
				sampleProject.Path,
				sqlmock.AnyArg(),
				sampleProject.ID,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateProject(context.Background(), sampleProject)
		assert.NoError(t, err, "UpdateProject should not return an error")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UpdateProject not found", func(t *testing.T) {
		mock.ExpectExec("UPDATE projects SET").
			WithArgs(
				sampleProject.Name,
				sampleProject.Path,
				sqlmock.AnyArg(),
				sampleProject.ID,
			).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateProject(context.Background(), sampleProject)
		assert.ErrorIs(t, err, ErrProjectNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DeleteProject", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM projects WHERE id = ?").
			WithArgs(sampleProject.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.DeleteProject(context.Background(), sampleProject.ID)
		assert.NoError(t, err, "DeleteProject should not return an error")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DeleteProject not found", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM projects WHERE id = ?").
			WithArgs("proj-missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteProject(context.Background(), "proj-missing")
		assert.ErrorIs(t, err, ErrProjectNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
