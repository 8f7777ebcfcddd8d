package narrative

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/courtside/internal/models"
)

func line(v float64) *float64 { return &v }

func sampleRecommendation() models.Recommendation {
	return models.Recommendation{
		Thesis: models.Thesis{
			PlayerID:      "1",
			PlayerName:    "Bam Adebayo",
			Team:          "MIA",
			Position:      models.PositionC,
			RotationRole:  models.RotationStarter,
			Type:          models.ThesisBigRebound,
			Market:        models.MarketREB,
			Confidence:    0.7,
			Evidence:      []string{"DvP: BOS allows 1.15x rebounds to C", "Pace: 102.5 projected possessions", "Role: starter"},
			SuggestedLine: line(9.5),
		},
		Bucket:             models.BucketConservadora,
		AdjustedConfidence: 0.76,
		ScoreAdjustment:    0.05,
		Adjustments:        []string{"Bonus: +5% (close game favors volume)"},
		IdentifiedStrategy: string(models.StrategyCuratedCombo),
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		conf float64
		want ConfidenceLevel
	}{
		{0.8, ConfidenceVeryHigh},
		{0.75, ConfidenceVeryHigh},
		{0.7, ConfidenceHigh},
		{0.55, ConfidenceMedium},
		{0.41, ConfidenceLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.conf))
	}
}

func TestMarketLine(t *testing.T) {
	f := NewFormatter()
	tests := []struct {
		name   string
		thesis models.Thesis
		want   string
	}{
		{"rebounds", models.Thesis{Market: models.MarketREB, SuggestedLine: line(9.5)}, "Over 9.5 rebounds"},
		{"combo", models.Thesis{Market: models.MarketPRA, SuggestedLine: line(30)}, "Over 30.0 PRA"},
		{"no line", models.Thesis{Market: models.MarketAST}, "assists"},
		{"risk", models.Thesis{Market: models.MarketRisk}, "Risk signal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.MarketLine(tt.thesis))
		})
	}
}

func TestExplanationUsesTwoEvidenceItems(t *testing.T) {
	got := NewFormatter().Explanation(sampleRecommendation().Thesis)

	assert.Contains(t, got, "DvP: BOS")
	assert.Contains(t, got, "Pace: 102.5")
	assert.NotContains(t, got, "Role: starter")
}

func TestValidationSummary(t *testing.T) {
	f := NewFormatter()
	rec := sampleRecommendation()
	assert.Equal(t, "1 bonus(es) applied; score adjusted +5%", f.ValidationSummary(rec))

	rec.Adjustments = nil
	assert.Equal(t, "Validation OK, no critical violations", f.ValidationSummary(rec))

	rec.Adjustments = []string{"Penalty: -15% (3 picks from MIA)", "Penalty: -10% (3 REB picks)"}
	rec.ScoreAdjustment = -0.25
	assert.Equal(t, "2 penalty(ies); score adjusted -25%", f.ValidationSummary(rec))
}

func TestNarrativeIsDeterministic(t *testing.T) {
	f := NewFormatter()
	rec := sampleRecommendation()
	game := models.GameContext{HomeTeam: "MIA", AwayTeam: "BOS"}

	first := f.Narrative(rec, game)
	assert.Equal(t, first, f.Narrative(rec, game))
	assert.True(t, strings.HasSuffix(first, "close game favors volume."), first)
	assert.NotContains(t, first, "{")
}

func TestCompositionMarkdown(t *testing.T) {
	f := NewFormatter()
	game := models.GameContext{HomeTeam: "MIA", AwayTeam: "BOS", Spread: -3.5, Total: 225.5, Pace: 102.5}

	empty := f.CompositionMarkdown(models.Composition{Game: game})
	assert.Contains(t, empty, EmptyGameMessage)
	assert.Contains(t, empty, "BOS @ MIA | Spread: -3.5 | Total: 225.5 | Pace: 102.5")

	comp := models.Composition{
		Game: game,
		Buckets: []models.BucketSelection{
			{Bucket: models.BucketConservadora, Recommendations: []models.Recommendation{sampleRecommendation()}},
			{Bucket: models.BucketBanco},
		},
		Risks: []models.Thesis{{PlayerName: "Jayson Tatum", Team: "BOS", Evidence: []string{"Blowout risk: spread 14.0"}}},
	}
	md := f.CompositionMarkdown(comp)

	assert.Contains(t, md, "## Conservative (Safe Play)")
	assert.NotContains(t, md, "## Value Play")
	assert.Contains(t, md, "**Bam Adebayo** (Center, MIA)")
	assert.Contains(t, md, "Over 9.5 rebounds")
	assert.Contains(t, md, "76%")
	assert.Contains(t, md, "## Risk Signals")
	assert.NotContains(t, md, EmptyGameMessage)
}

func TestMultipleMarkdown(t *testing.T) {
	f := NewFormatter()
	rec := sampleRecommendation()
	second := sampleRecommendation()
	second.PlayerID, second.PlayerName, second.Team, second.Market = "2", "Jrue Holiday", "BOS", models.MarketAST

	dm := models.DailyMultiple{
		Date: "2024-01-15",
		Conservative: models.Ticket{
			Kind:              models.TicketConservative,
			Legs:              []models.Recommendation{rec, second},
			CombinedOdds:      3.8,
			AverageConfidence: 0.76,
			Violations:        []models.Violation{{Rule: "low_diversity", Message: "every leg is a BigRebound thesis"}},
		},
		Aggressive: models.Ticket{Kind: models.TicketAggressive},
	}

	md := f.MultipleMarkdown(dm)

	assert.Contains(t, md, "# Daily Multiple 2024-01-15")
	assert.Contains(t, md, "| Bam Adebayo | REB | 9.5 | 0.76 | CURATED_COMBO |")
	assert.Contains(t, md, "**Approx. odds:** 3.80")
	assert.Contains(t, md, "low_diversity")
	assert.Contains(t, md, "No ticket could be built")

	summary := f.TicketSummary(dm.Conservative)
	assert.Contains(t, summary, "1xREB, 1xAST")
	assert.Contains(t, summary, "BOS, MIA")
}

func TestFormatComposition(t *testing.T) {
	comp := models.Composition{
		Buckets: []models.BucketSelection{
			{Bucket: models.BucketConservadora, Recommendations: []models.Recommendation{sampleRecommendation()}},
		},
	}

	buckets := NewFormatter().FormatComposition(comp)

	require.Len(t, buckets, 1)
	r := buckets[0].Recommendations[0]
	assert.Equal(t, ConfidenceVeryHigh, r.Level)
	assert.Equal(t, "Curated combination", r.Strategy)
	assert.Equal(t, "Center", r.Position)
}
