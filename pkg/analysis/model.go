// Package analysis scores commit diffs for risk and aggregates
// per-author contribution history
package analysis

import (
	"time"

	"github.com/tildaslashalef/gitsage/internal/ulid"
)

// RiskLevel classifies how risky a set of changes is
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ImpactAssessment summarizes the blast radius of one commit's changes.
// It is built once per commit and never mutated.
type ImpactAssessment struct {
	RiskLevel       RiskLevel `json:"risk_level"`
	FilesTouched    int       `json:"files_touched"`
	ComplexityScore int       `json:"complexity_score"`
	Details         string    `json:"details"`
}

// Assessment is a persisted impact assessment tied to a project and commit
type Assessment struct {
	ID              string    `json:"id"`
	ProjectID       string    `json:"project_id"`
	CommitHash      string    `json:"commit_hash"`
	RiskLevel       RiskLevel `json:"risk_level"`
	FilesTouched    int       `json:"files_touched"`
	ComplexityScore int       `json:"complexity_score"`
	Details         string    `json:"details"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewAssessment builds a persistable assessment from a scored impact
func NewAssessment(projectID, commitHash string, impact *ImpactAssessment) *Assessment {
	return &Assessment{
		ID:              ulid.AssessmentID(),
		ProjectID:       projectID,
		CommitHash:      commitHash,
		RiskLevel:       impact.RiskLevel,
		FilesTouched:    impact.FilesTouched,
		ComplexityScore: impact.ComplexityScore,
		Details:         impact.Details,
		CreatedAt:       time.Now(),
	}
}

// AuthorStat accumulates contribution statistics for a single author
// across one aggregation pass
type AuthorStat struct {
	Author        string         `json:"author"`
	Email         string         `json:"email"`
	CommitCount   int            `json:"commit_count"`
	DistinctFiles int            `json:"distinct_files"`
	FileFrequency map[string]int `json:"file_frequency"`
	Hotspots      []string       `json:"hotspots"`
}
