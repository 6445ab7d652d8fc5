package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tildaslashalef/gitsage/internal/loggy"
	"github.com/tildaslashalef/gitsage/pkg/vcs"
)

func newTestService(lister vcs.ChangeLister) *Service {
	return NewService(lister, nil, DefaultPolicy(), DefaultFetchOptions(), loggy.NewNoopLogger())
}

func TestScoreChanges(t *testing.T) {
	service := newTestService(nil)

	t.Run("no records yields nil assessment", func(t *testing.T) {
		assert.Nil(t, service.ScoreChanges(nil))
		assert.Nil(t, service.ScoreChanges([]vcs.ChangeRecord{}))
	})

	t.Run("small change in one file is low risk", func(t *testing.T) {
		records := []vcs.ChangeRecord{
			{Path: "internal/server.go", Insertions: 10, Deletions: 5},
		}

		impact := service.ScoreChanges(records)
		require.NotNil(t, impact)

		assert.Equal(t, RiskLow, impact.RiskLevel)
		assert.Equal(t, 1, impact.FilesTouched)
		assert.Equal(t, 0, impact.ComplexityScore)
		assert.Equal(t, "15 total line changes", impact.Details)
	})

	t.Run("ratios stay floating point until the floor", func(t *testing.T) {
		// 49 changed lines across 4 files: 49/50 + 4/5 = 1.78, floored
		// to 1. Integer division would produce 0.
		records := []vcs.ChangeRecord{
			{Path: "a.go", Insertions: 13},
			{Path: "b.go", Insertions: 12},
			{Path: "c.go", Insertions: 12},
			{Path: "d.go", Insertions: 12},
		}

		impact := service.ScoreChanges(records)
		require.NotNil(t, impact)
		assert.Equal(t, 1, impact.ComplexityScore)
	})

	t.Run("critical files force high risk regardless of line counts", func(t *testing.T) {
		records := []vcs.ChangeRecord{
			{Path: "config/app.yaml", Insertions: 1},
			{Path: "db/schema.sql", Insertions: 1},
			{Path: "Dockerfile", Insertions: 1},
		}

		impact := service.ScoreChanges(records)
		require.NotNil(t, impact)

		assert.Equal(t, RiskHigh, impact.RiskLevel)
		assert.Contains(t, impact.Details, "3 critical files affected")
	})

	t.Run("score clamps at ten for huge changesets", func(t *testing.T) {
		records := []vcs.ChangeRecord{
			{Path: "generated.go", Insertions: 100000, Deletions: 50000},
		}

		impact := service.ScoreChanges(records)
		require.NotNil(t, impact)

		assert.Equal(t, 10, impact.ComplexityScore)
		assert.Equal(t, RiskHigh, impact.RiskLevel)
		assert.Contains(t, impact.Details, "Large changeset")
	})

	t.Run("many files touched is at least medium risk", func(t *testing.T) {
		records := make([]vcs.ChangeRecord, 11)
		for i := range records {
			records[i] = vcs.ChangeRecord{Path: "pkg/handlers/h.go", Insertions: 2}
		}

		impact := service.ScoreChanges(records)
		require.NotNil(t, impact)

		assert.Equal(t, RiskMedium, impact.RiskLevel)
		assert.Equal(t, 11, impact.FilesTouched)
		assert.Contains(t, impact.Details, "Many files touched")
	})

	t.Run("new and deleted file modes add complexity", func(t *testing.T) {
		records := []vcs.ChangeRecord{
			{Path: "added.go", Insertions: 5, Patch: "diff --git\nnew file mode 100644\n+added"},
			{Path: "removed.go", Deletions: 5, Patch: "diff --git\ndeleted file mode 100644\n-removed"},
		}

		impact := service.ScoreChanges(records)
		require.NotNil(t, impact)

		// 10/50 + 2/5 + 3 factors floors to 3.
		assert.Equal(t, 3, impact.ComplexityScore)
		assert.Equal(t, RiskLow, impact.RiskLevel)
	})

	t.Run("record order never affects the result", func(t *testing.T) {
		forward := []vcs.ChangeRecord{
			{Path: "config/app.yaml", Insertions: 30},
			{Path: "internal/api.go", Insertions: 120, Deletions: 40},
			{Path: "docs/readme.md", Insertions: 3},
		}
		reversed := []vcs.ChangeRecord{forward[2], forward[1], forward[0]}

		assert.Equal(t, service.ScoreChanges(forward), service.ScoreChanges(reversed))
	})

	t.Run("pure renames report standard code changes", func(t *testing.T) {
		records := []vcs.ChangeRecord{
			{Path: "pkg/new/name.go", OldPath: "pkg/old/name.go", ChangeType: vcs.ChangeTypeRenamed},
		}

		impact := service.ScoreChanges(records)
		require.NotNil(t, impact)

		assert.Equal(t, "Standard code changes", impact.Details)
		assert.Equal(t, 0, impact.ComplexityScore)
		assert.Equal(t, RiskLow, impact.RiskLevel)
	})

	t.Run("critical match is case insensitive", func(t *testing.T) {
		records := []vcs.ChangeRecord{
			{Path: "deploy/DOCKERFILE.prod", Insertions: 2},
		}

		impact := service.ScoreChanges(records)
		require.NotNil(t, impact)
		assert.Equal(t, RiskHigh, impact.RiskLevel)
	})
}
