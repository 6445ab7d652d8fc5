package analysis

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/tildaslashalef/gitsage/internal/loggy"
)

// ErrAssessmentNotFound is returned when no assessment exists for the
// requested project and commit
var ErrAssessmentNotFound = errors.New("assessment not found")

// Repository defines the interface for assessment persistence
type Repository interface {
	SaveAssessment(ctx context.Context, assessment *Assessment) error
	GetAssessment(ctx context.Context, projectID, commitHash string) (*Assessment, error)
	ListAssessments(ctx context.Context, projectID string) ([]*Assessment, error)
}

// SQLRepository implements Repository using SQLite
type SQLRepository struct {
	db      *sql.DB
	logger  *loggy.Logger
	builder sq.StatementBuilderType
}

// NewSQLRepository creates a new assessment SQL repository
func NewSQLRepository(db *sql.DB, logger *loggy.Logger) Repository {
	return &SQLRepository{
		db:      db,
		logger:  logger,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

// SaveAssessment stores an assessment, replacing any previous assessment
// of the same commit within the project
func (r *SQLRepository) SaveAssessment(ctx context.Context, assessment *Assessment) error {
	if assessment.CreatedAt.IsZero() {
		assessment.CreatedAt = time.Now()
	}

	query, args, err := r.builder.
		Insert("assessments").
		Columns(
			"id",
			"project_id",
			"commit_hash",
			"risk_level",
			"files_touched",
			"complexity_score",
			"details",
			"created_at",
		).
		Values(
			assessment.ID,
			assessment.ProjectID,
			assessment.CommitHash,
			string(assessment.RiskLevel),
			assessment.FilesTouched,
			assessment.ComplexityScore,
			assessment.Details,
			assessment.CreatedAt.UTC().Format(time.RFC3339),
		).
		Suffix("ON CONFLICT(project_id, commit_hash) DO UPDATE SET risk_level = ?, files_touched = ?, complexity_score = ?, details = ?",
			string(assessment.RiskLevel),
			assessment.FilesTouched,
			assessment.ComplexityScore,
			assessment.Details,
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("building insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting assessment: %w", err)
	}

	r.logger.Debug("Saved assessment",
		"id", assessment.ID,
		"project_id", assessment.ProjectID,
		"commit_hash", assessment.CommitHash,
		"risk_level", assessment.RiskLevel,
	)
	return nil
}

// GetAssessment retrieves the assessment of one commit within a project
func (r *SQLRepository) GetAssessment(ctx context.Context, projectID, commitHash string) (*Assessment, error) {
	query, args, err := r.builder.
		Select(
			"id",
			"project_id",
			"commit_hash",
			"risk_level",
			"files_touched",
			"complexity_score",
			"details",
			"created_at",
		).
		From("assessments").
		Where(sq.Eq{"project_id": projectID, "commit_hash": commitHash}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	assessment, err := scanAssessment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("scanning assessment: %w", err)
	}

	return assessment, nil
}

// ListAssessments returns all assessments of a project, newest first
func (r *SQLRepository) ListAssessments(ctx context.Context, projectID string) ([]*Assessment, error) {
	query, args, err := r.builder.
		Select(
			"id",
			"project_id",
			"commit_hash",
			"risk_level",
			"files_touched",
			"complexity_score",
			"details",
			"created_at",
		).
		From("assessments").
		Where(sq.Eq{"project_id": projectID}).
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying for assessments: %w", err)
	}
	defer rows.Close()

	var assessments []*Assessment
	for rows.Next() {
		assessment, err := scanAssessmentFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning assessment: %w", err)
		}
		assessments = append(assessments, assessment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return assessments, nil
}

func scanAssessment(row *sql.Row) (*Assessment, error) {
	var assessment Assessment
	var riskLevel, createdAtStr string

	err := row.Scan(
		&assessment.ID,
		&assessment.ProjectID,
		&assessment.CommitHash,
		&riskLevel,
		&assessment.FilesTouched,
		&assessment.ComplexityScore,
		&assessment.Details,
		&createdAtStr,
	)
	if err != nil {
		return nil, err
	}

	assessment.RiskLevel = RiskLevel(riskLevel)
	assessment.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	return &assessment, nil
}

func scanAssessmentFromRows(rows *sql.Rows) (*Assessment, error) {
	var assessment Assessment
	var riskLevel, createdAtStr string

	err := rows.Scan(
		&assessment.ID,
		&assessment.ProjectID,
		&assessment.CommitHash,
		&riskLevel,
		&assessment.FilesTouched,
		&assessment.ComplexityScore,
		&assessment.Details,
		&createdAtStr,
	)
	if err != nil {
		return nil, err
	}

	assessment.RiskLevel = RiskLevel(riskLevel)
	assessment.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	return &assessment, nil
}
