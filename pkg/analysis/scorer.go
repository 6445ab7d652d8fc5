package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/tildaslashalef/gitsage/pkg/vcs"
)

// ScoreChanges computes a deterministic impact assessment for one commit's
// change records. The same records always produce the same assessment
// regardless of input order. An empty record list means there is nothing
// to analyze and yields a nil assessment.
func (s *Service) ScoreChanges(records []vcs.ChangeRecord) *ImpactAssessment {
	if len(records) == 0 {
		return nil
	}

	totalChanges := 0
	criticalFiles := 0
	complexityFactors := 0

	for _, record := range records {
		changes := record.TotalChanges()
		totalChanges += changes

		if s.policy.IsCritical(record.Path) {
			criticalFiles++
			complexityFactors += 2
		}
		if changes > 100 {
			complexityFactors++
		}
		if strings.Contains(record.Patch, "new file mode") {
			complexityFactors++
		}
		if strings.Contains(record.Patch, "deleted file mode") {
			complexityFactors += 2
		}
	}

	filesTouched := len(records)

	// The ratios must stay floating point until the single floor below.
	// Integer division would misscore small commits: 49 changed lines
	// across 4 files has to come out as 1, not 0.
	score := int(math.Floor(
		float64(totalChanges)/50.0 +
			float64(filesTouched)/5.0 +
			float64(complexityFactors)))
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}

	riskLevel := RiskLow
	switch {
	case score >= 7 || criticalFiles > 0:
		riskLevel = RiskHigh
	case score >= 4 || filesTouched > 5:
		riskLevel = RiskMedium
	}

	details := make([]string, 0, 4)
	if totalChanges > 0 {
		details = append(details, fmt.Sprintf("%d total line changes", totalChanges))
	}
	if criticalFiles > 0 {
		details = append(details, fmt.Sprintf("%d critical files affected", criticalFiles))
	}
	if totalChanges > 200 {
		details = append(details, "Large changeset")
	}
	if filesTouched > 10 {
		details = append(details, "Many files touched")
	}

	summary := "Standard code changes"
	if len(details) > 0 {
		summary = strings.Join(details, ", ")
	}

	s.logger.Debug("Scored changes",
		"files_touched", filesTouched,
		"total_changes", totalChanges,
		"critical_files", criticalFiles,
		"complexity_score", score,
		"risk_level", riskLevel,
	)

	return &ImpactAssessment{
		RiskLevel:       riskLevel,
		FilesTouched:    filesTouched,
		ComplexityScore: score,
		Details:         summary,
	}
}
