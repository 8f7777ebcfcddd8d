package strategy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/courtside/internal/models"
)

func thesis(id, team string, pos models.Position, role models.RotationRole, market models.Market, kind models.ThesisType, conf float64) models.Thesis {
	return models.Thesis{
		PlayerID:     id,
		PlayerName:   "Player " + id,
		Team:         team,
		Position:     pos,
		RotationRole: role,
		Type:         kind,
		Market:       market,
		Confidence:   conf,
	}
}

func newTestEngine() *Engine {
	return NewEngine(DefaultConfig(), nil)
}

func TestRoute(t *testing.T) {
	e := newTestEngine()
	tests := []struct {
		name   string
		thesis models.Thesis
		want   models.Bucket
		ok     bool
	}{
		{"starter rebound", thesis("1", "A", models.PositionC, models.RotationStarter, models.MarketREB, models.ThesisBigRebound, 0.7), models.BucketConservadora, true},
		{"boundary confidence", thesis("1", "A", models.PositionC, models.RotationStarter, models.MarketREB, models.ThesisBigRebound, 0.65), models.BucketConservadora, true},
		{"pace combo", thesis("2", "A", models.PositionSF, models.RotationRotation, models.MarketPRA, models.ThesisPaceBoost, 0.62), models.BucketOusada, true},
		{"value hunter", thesis("3", "A", models.PositionSG, models.RotationBench, models.MarketPRA, models.ThesisValueHunter, 0.56), models.BucketBanco, true},
		{"assists", thesis("4", "A", models.PositionPG, models.RotationStarter, models.MarketAST, models.ThesisAssistMatchup, 0.61), models.BucketExplosao, true},
		{"fallback rotation", thesis("5", "A", models.PositionSF, models.RotationRotation, models.MarketPTS, models.ThesisScorerLine, 0.72), models.BucketBanco, true},
		{"fallback starter", thesis("6", "A", models.PositionPF, models.RotationStarter, models.MarketREB, models.ThesisBigRebound, 0.64), "", false},
		{"low confidence", thesis("7", "A", models.PositionSG, models.RotationStarter, models.MarketPTS, models.ThesisScorerLine, 0.5), "", false},
		{"deep bench fallback", thesis("8", "A", models.PositionSG, models.RotationDeepBench, models.MarketPTS, models.ThesisScorerLine, 0.9), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.Route(tt.thesis)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	risk := thesis("9", "A", models.PositionC, models.RotationStarter, models.MarketRisk, models.ThesisBlowoutRisk, 0.9)
	risk.IsRisk = true
	_, ok := e.Route(risk)
	assert.False(t, ok)
}

func slateTheses() []models.Thesis {
	var out []models.Thesis
	teams := []string{"AAA", "BBB"}
	for i := 0; i < 12; i++ {
		team := teams[i%2]
		id := fmt.Sprintf("s%d", i)
		out = append(out,
			thesis(id, team, models.PositionC, models.RotationStarter, models.MarketREB, models.ThesisBigRebound, 0.70+float64(i)*0.01),
			thesis(id, team, models.PositionC, models.RotationStarter, models.MarketPTS, models.ThesisScorerLine, 0.68+float64(i)*0.01),
			thesis(id, team, models.PositionC, models.RotationStarter, models.MarketAST, models.ThesisAssistMatchup, 0.75),
		)
	}
	for i := 0; i < 8; i++ {
		team := teams[i%2]
		id := fmt.Sprintf("b%d", i)
		out = append(out,
			thesis(id, team, models.PositionSG, models.RotationBench, models.MarketPRA, models.ThesisValueHunter, 0.6+float64(i)*0.02),
			thesis(id, team, models.PositionSG, models.RotationRotation, models.MarketPRA, models.ThesisPaceBoost, 0.66),
		)
	}
	return out
}

func TestComposeRespectsCapacityAndUniqueness(t *testing.T) {
	e := newTestEngine()
	game := models.GameContext{GameID: "g1", HomeTeam: "AAA", AwayTeam: "BBB", Spread: -4, Total: 228, Pace: 102}

	comp := e.Compose(game, slateTheses(), nil)

	require.Len(t, comp.Buckets, 4)
	capacity := map[models.Bucket]int{}
	for _, bc := range e.Config().Buckets {
		capacity[bc.Bucket] = bc.Capacity
	}

	seen := map[string]models.Bucket{}
	for _, b := range comp.Buckets {
		assert.LessOrEqual(t, b.Len(), capacity[b.Bucket], "bucket %s", b.Bucket)
		for _, r := range b.Recommendations {
			prev, dup := seen[r.Key()]
			assert.False(t, dup, "%s in %s and %s", r.Key(), prev, b.Bucket)
			seen[r.Key()] = b.Bucket

			assert.Equal(t, b.Bucket, r.Bucket)
			assert.GreaterOrEqual(t, r.ScoreAdjustment, -0.3)
			assert.LessOrEqual(t, r.ScoreAdjustment, 0.3)
			assert.GreaterOrEqual(t, r.AdjustedConfidence, 0.0)
			assert.LessOrEqual(t, r.AdjustedConfidence, 1.0)
			assert.Equal(t, string(b.Strategy), r.IdentifiedStrategy)
		}
	}
	assert.NotEmpty(t, comp.Bucket(models.BucketConservadora).Recommendations)
	assert.NotEmpty(t, comp.Bucket(models.BucketBanco).Recommendations)
	assert.Empty(t, comp.Error)
}

func TestComposeProfileCap(t *testing.T) {
	e := newTestEngine()
	var theses []models.Thesis
	for i := 0; i < 6; i++ {
		theses = append(theses, thesis(fmt.Sprintf("p%d", i), fmt.Sprintf("T%d", i), models.PositionC,
			models.RotationStarter, models.MarketREB, models.ThesisBigRebound, 0.8))
	}

	comp := e.Compose(models.GameContext{}, theses, nil)

	assert.Equal(t, 2, comp.Bucket(models.BucketConservadora).Len())
}

func TestComposePrioritizesPreferredTheses(t *testing.T) {
	theses := []models.Thesis{
		thesis("x", "A", models.PositionSG, models.RotationBench, models.MarketPRA, models.ThesisScorerLine, 0.75),
		thesis("y", "B", models.PositionSG, models.RotationBench, models.MarketPRA, models.ThesisValueHunter, 0.66),
	}
	cfg := DefaultConfig()
	cfg.Buckets[2].Capacity = 1
	e := NewEngine(cfg, nil)

	comp := e.Compose(models.GameContext{}, theses, nil)

	banco := comp.Bucket(models.BucketBanco)
	require.Equal(t, 1, banco.Len())
	assert.Equal(t, "y", banco.Recommendations[0].PlayerID)
	assert.InDelta(t, 0.792, banco.Recommendations[0].PriorityScore, 1e-9)
}

func TestComposeSeparatesRisks(t *testing.T) {
	e := newTestEngine()
	risk := thesis("r", "A", models.PositionPG, models.RotationStarter, models.MarketRisk, models.ThesisBlowoutRisk, 0.3)
	risk.IsRisk = true

	comp := e.Compose(models.GameContext{Spread: 14}, []models.Thesis{risk}, nil)

	assert.True(t, comp.IsEmpty())
	require.Len(t, comp.Risks, 1)
	assert.Equal(t, 1, comp.ThesisCount)
	for _, b := range comp.Buckets {
		assert.Equal(t, models.StrategyIndividualPlay, b.Strategy)
	}
}

func TestComposeCarriesPlayerStatus(t *testing.T) {
	e := newTestEngine()
	players := []models.PlayerContext{{PlayerID: "1", Team: "AAA", Status: "Questionable"}}
	theses := []models.Thesis{
		thesis("1", "AAA", models.PositionC, models.RotationStarter, models.MarketREB, models.ThesisBigRebound, 0.8),
	}

	comp := e.Compose(models.GameContext{HomeTeam: "AAA", AwayTeam: "BBB", Spread: -6, Pace: 101}, theses, players)

	rec := comp.Bucket(models.BucketConservadora).Recommendations
	require.Len(t, rec, 1)
	assert.Equal(t, "Questionable", rec[0].Status)
	assert.Equal(t, -6.0, rec[0].Spread)
	assert.Equal(t, 101.0, rec[0].GamePace)
}

func TestCorrelationAdjustment(t *testing.T) {
	cfg := DefaultConfig().Correlation

	t.Run("penalties clamp", func(t *testing.T) {
		sel := newSelection()
		var last models.Thesis
		for i := 0; i < 3; i++ {
			last = thesis(fmt.Sprintf("p%d", i), "AAA", models.PositionSG, models.RotationStarter, models.MarketPTS, models.ThesisScorerLine, 0.8)
			sel.add(last)
		}
		rec := models.Recommendation{Thesis: last}

		sel.adjust(&rec, models.GameContext{Spread: 12}, cfg)

		assert.Equal(t, -0.3, rec.ScoreAdjustment)
		assert.InDelta(t, 0.56, rec.AdjustedConfidence, 1e-9)
		assert.Len(t, rec.Adjustments, 3)
	})

	t.Run("bonuses", func(t *testing.T) {
		sel := newSelection()
		sel.add(thesis("a", "AAA", models.PositionC, models.RotationBench, models.MarketREB, models.ThesisBigRebound, 0.6))
		sel.add(thesis("b", "BBB", models.PositionPG, models.RotationBench, models.MarketAST, models.ThesisAssistMatchup, 0.6))
		last := thesis("c", "CCC", models.PositionSG, models.RotationBench, models.MarketPTS, models.ThesisScorerLine, 0.6)
		sel.add(last)
		rec := models.Recommendation{Thesis: last}

		sel.adjust(&rec, models.GameContext{Spread: 2}, cfg)

		assert.InDelta(t, 0.23, rec.ScoreAdjustment, 1e-9)
		assert.InDelta(t, 0.738, rec.AdjustedConfidence, 1e-9)
	})

	t.Run("adjusted confidence capped at one", func(t *testing.T) {
		sel := newSelection()
		sel.add(thesis("a", "AAA", models.PositionC, models.RotationBench, models.MarketREB, models.ThesisBigRebound, 0.6))
		sel.add(thesis("b", "BBB", models.PositionPG, models.RotationBench, models.MarketAST, models.ThesisAssistMatchup, 0.6))
		last := thesis("c", "CCC", models.PositionSG, models.RotationBench, models.MarketPTS, models.ThesisScorerLine, 0.95)
		sel.add(last)
		rec := models.Recommendation{Thesis: last}

		sel.adjust(&rec, models.GameContext{}, cfg)

		assert.Equal(t, 1.0, rec.AdjustedConfidence)
	})
}

func TestDedupeAcrossBuckets(t *testing.T) {
	rec := func(id string, score float64) models.Recommendation {
		r := models.Recommendation{Thesis: thesis(id, "A", models.PositionSF, models.RotationStarter, models.MarketPTS, models.ThesisScorerLine, score)}
		r.AdjustedConfidence = score
		return r
	}

	buckets := []models.BucketSelection{
		{Bucket: models.BucketConservadora, Recommendations: []models.Recommendation{rec("p1", 0.6), rec("p2", 0.7)}},
		{Bucket: models.BucketOusada, Recommendations: []models.Recommendation{rec("p1", 0.8), rec("p2", 0.7)}},
	}

	dedupeAcrossBuckets(buckets)

	require.Len(t, buckets[0].Recommendations, 1)
	assert.Equal(t, "p2", buckets[0].Recommendations[0].PlayerID)
	require.Len(t, buckets[1].Recommendations, 1)
	assert.Equal(t, "p1", buckets[1].Recommendations[0].PlayerID)
}

func TestComposeIsolatedBetweenCalls(t *testing.T) {
	e := newTestEngine()
	theses := []models.Thesis{
		thesis("1", "AAA", models.PositionC, models.RotationStarter, models.MarketREB, models.ThesisBigRebound, 0.8),
	}

	first := e.Compose(models.GameContext{}, theses, nil)
	second := e.Compose(models.GameContext{}, theses, nil)

	assert.Equal(t, first.Bucket(models.BucketConservadora).Len(), second.Bucket(models.BucketConservadora).Len())
	assert.Equal(t, 1, second.Bucket(models.BucketConservadora).Len())
}

func TestComposeRecoversIntoEmptyBuckets(t *testing.T) {
	e := newTestEngine()
	e.identify = func([]models.Recommendation, models.GameContext) models.StrategyKind {
		panic("identify exploded")
	}
	risk := thesis("r1", "AAA", models.PositionC, models.RotationStarter, models.MarketRisk, models.ThesisBlowoutRisk, 0.3)
	risk.IsRisk = true

	comp := e.Compose(models.GameContext{GameID: "g1"}, append(slateTheses(), risk), nil)

	require.Len(t, comp.Buckets, len(e.Config().Buckets))
	for i, b := range comp.Buckets {
		assert.Equal(t, e.Config().Buckets[i].Bucket, b.Bucket)
		assert.Empty(t, b.Recommendations, "bucket %s", b.Bucket)
		assert.Equal(t, models.StrategyIndividualPlay, b.Strategy)
	}
	assert.Empty(t, comp.All())
	assert.Contains(t, comp.Error, "identify exploded")
	assert.Equal(t, "g1", comp.Game.GameID)
	assert.Len(t, comp.Risks, 1)
}
