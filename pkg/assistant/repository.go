package assistant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/tildaslashalef/gitsage/internal/loggy"
)

// ErrSuggestionNotFound is returned when a suggestion doesn't exist
var ErrSuggestionNotFound = errors.New("suggestion not found")

// Repository defines storage operations for commit suggestions
type Repository interface {
	// SaveSuggestion persists a commit suggestion
	SaveSuggestion(ctx context.Context, suggestion *Suggestion) error

	// GetSuggestion retrieves a suggestion by ID
	GetSuggestion(ctx context.Context, id string) (*Suggestion, error)

	// ListSuggestions retrieves all suggestions for a project, newest first
	ListSuggestions(ctx context.Context, projectID string) ([]*Suggestion, error)
}

// SQLRepository implements Repository using SQL database
type SQLRepository struct {
	db      *sql.DB
	logger  *loggy.Logger
	builder sq.StatementBuilderType
}

// NewSQLRepository creates a new SQL repository for suggestions
func NewSQLRepository(db *sql.DB, logger *loggy.Logger) *SQLRepository {
	return &SQLRepository{
		db:      db,
		logger:  logger,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

// SaveSuggestion persists a commit suggestion
func (r *SQLRepository) SaveSuggestion(ctx context.Context, suggestion *Suggestion) error {
	q := r.builder.Insert("suggestions").
		Columns("id", "project_id", "commit_type", "scope", "description", "body", "created_at").
		Values(
			suggestion.ID,
			suggestion.ProjectID,
			suggestion.CommitType,
			suggestion.Scope,
			suggestion.Description,
			suggestion.Body,
			suggestion.CreatedAt.Format(time.RFC3339),
		)

	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("building insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("inserting suggestion: %w", err)
	}

	return nil
}

// GetSuggestion retrieves a suggestion by ID
func (r *SQLRepository) GetSuggestion(ctx context.Context, id string) (*Suggestion, error) {
	q := r.builder.Select(
		"id", "project_id", "commit_type", "scope", "description", "body", "created_at",
	).
		From("suggestions").
		Where(sq.Eq{"id": id})

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	suggestion, err := r.scanSuggestion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSuggestionNotFound
		}
		return nil, fmt.Errorf("scanning suggestion: %w", err)
	}

	return suggestion, nil
}

// ListSuggestions retrieves all suggestions for a project, newest first
func (r *SQLRepository) ListSuggestions(ctx context.Context, projectID string) ([]*Suggestion, error) {
	q := r.builder.Select(
		"id", "project_id", "commit_type", "scope", "description", "body", "created_at",
	).
		From("suggestions").
		Where(sq.Eq{"project_id": projectID}).
		OrderBy("created_at DESC")

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying suggestions: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && r.logger != nil {
			r.logger.Warn("Failed to close rows", "error", cerr)
		}
	}()

	var suggestions []*Suggestion
	for rows.Next() {
		suggestion, err := r.scanSuggestionFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning suggestion row: %w", err)
		}
		suggestions = append(suggestions, suggestion)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating suggestion rows: %w", err)
	}

	return suggestions, nil
}

func (r *SQLRepository) scanSuggestion(row *sql.Row) (*Suggestion, error) {
	var suggestion Suggestion
	var createdAt string

	err := row.Scan(
		&suggestion.ID,
		&suggestion.ProjectID,
		&suggestion.CommitType,
		&suggestion.Scope,
		&suggestion.Description,
		&suggestion.Body,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	suggestion.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	return &suggestion, nil
}

func (r *SQLRepository) scanSuggestionFromRows(rows *sql.Rows) (*Suggestion, error) {
	var suggestion Suggestion
	var createdAt string

	err := rows.Scan(
		&suggestion.ID,
		&suggestion.ProjectID,
		&suggestion.CommitType,
		&suggestion.Scope,
		&suggestion.Description,
		&suggestion.Body,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	suggestion.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	return &suggestion, nil
}
