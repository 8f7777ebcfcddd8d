package thesis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/courtside/internal/models"
)

func newTestEngine() *Engine {
	return NewEngine(DefaultConfig(), nil)
}

func baseContext(pos models.Position, starter bool, minutes float64, tags ...models.Tag) models.PlayerContext {
	return models.PlayerContext{
		PlayerID:     "p1",
		Name:         "Test Player",
		Team:         "HOM",
		Opponent:     "AWY",
		Position:     pos,
		IsStarter:    starter,
		Availability: models.AvailabilityAvailable,
		Recent: models.RecentWindow{
			Points: 14, Rebounds: 9, Assists: 3, PRA: 26, Minutes: minutes,
		},
		DvP:  models.NeutralDvP(),
		Tags: models.Tags(tags),
	}
}

func TestBigReboundScenario(t *testing.T) {
	e := newTestEngine()
	ctx := baseContext(models.PositionPF, true, 30, models.TagGlassBanger)
	ctx.DvP.Rebounds = 1.2
	game := models.GameContext{HomeTeam: "HOM", AwayTeam: "AWY", Spread: -3, Pace: 105}

	th := e.BigRebound(ctx, game)

	require.NotNil(t, th)
	assert.Equal(t, models.MarketREB, th.Market)
	assert.Equal(t, models.ThesisBigRebound, th.Type)
	assert.Equal(t, models.RotationStarter, th.RotationRole)
	assert.InDelta(t, 0.57, th.Confidence, 0.001)

	var hasPace, hasDvP bool
	for _, ev := range th.Evidence {
		hasPace = hasPace || strings.Contains(ev, "Pace")
		hasDvP = hasDvP || strings.Contains(ev, "DvP")
	}
	assert.True(t, hasPace, "pace evidence missing: %v", th.Evidence)
	assert.True(t, hasDvP, "dvp evidence missing: %v", th.Evidence)

	require.NotNil(t, th.SuggestedLine)
	assert.Equal(t, 9.0, *th.SuggestedLine)
}

func TestBigReboundGates(t *testing.T) {
	e := newTestEngine()
	game := models.GameContext{HomeTeam: "HOM", AwayTeam: "AWY", Pace: 105}

	tests := []struct {
		name string
		ctx  models.PlayerContext
	}{
		{"guard", baseContext(models.PositionPG, true, 30, models.TagGlassBanger)},
		{"untagged big", baseContext(models.PositionC, true, 30, models.TagScorer)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, e.BigRebound(tt.ctx, game))
		})
	}

	ctx := baseContext(models.PositionC, false, 18, models.TagRebounder)
	ctx.DvP.Rebounds = 0.9
	th := e.BigRebound(ctx, models.GameContext{Pace: 98})
	require.NotNil(t, th)
	_, hasDvP := th.Factor(FactorDvP)
	_, hasPace := th.Factor(FactorPace)
	assert.False(t, hasDvP)
	assert.False(t, hasPace)
	role, _ := th.Factor(FactorRole)
	assert.Equal(t, 0.9, role)
}

func TestAssistMatchupGameContext(t *testing.T) {
	e := newTestEngine()
	ctx := baseContext(models.PositionPG, true, 32, models.TagFloorGeneral)
	ctx.AssistPct = 35

	tests := []struct {
		spread float64
		want   float64
	}{
		{-3, 1.2},
		{7, 1.0},
		{-11, 0.8},
	}
	for _, tt := range tests {
		th := e.AssistMatchup(ctx, models.GameContext{HomeTeam: "HOM", AwayTeam: "AWY", Spread: tt.spread})
		require.NotNil(t, th)
		v, ok := th.Factor(FactorGameContext)
		require.True(t, ok)
		assert.Equal(t, tt.want, v, "spread %v", tt.spread)
		assert.Equal(t, models.MarketAST, th.Market)
		class, _ := th.Factor(FactorPlayerClass)
		assert.Equal(t, 1.15, class)
	}
}

func TestScorerLineFactors(t *testing.T) {
	e := newTestEngine()
	ctx := baseContext(models.PositionSF, true, 34, models.TagScorer)
	ctx.UsageRate = 30
	ctx.Recent.Points = 28
	ctx.Season = &models.SeasonAverages{Points: 24, Rebounds: 5, Assists: 4, Minutes: 34}
	ctx.DvP.Points = 1.1

	th := e.ScorerLine(ctx, models.GameContext{Total: 231})

	require.NotNil(t, th)
	assert.Equal(t, models.MarketPTS, th.Market)
	usage, _ := th.Factor(FactorUsage)
	assert.Equal(t, 1.12, usage)
	form, ok := th.Factor(FactorForm)
	assert.True(t, ok)
	assert.Equal(t, 1.15, form)
	total, ok := th.Factor(FactorGameContext)
	assert.True(t, ok)
	assert.Equal(t, 1.1, total)
	require.NotNil(t, th.SuggestedLine)
	assert.Equal(t, 28.0, *th.SuggestedLine)

	assert.Nil(t, e.ScorerLine(baseContext(models.PositionC, true, 30, models.TagScorer), models.GameContext{}))
}

func TestValueHunterRequiresBenchMinutes(t *testing.T) {
	e := newTestEngine()
	ctx := baseContext(models.PositionSG, false, 20, models.TagSpark)
	ctx.Recent.PRA = 30
	ctx.Recent.LastMinutes = 26

	th := e.ValueHunter(ctx, models.GameContext{Spread: 14})
	require.NotNil(t, th)
	assert.Equal(t, models.MarketPRA, th.Market)
	eff, _ := th.Factor(FactorEfficiency)
	assert.Equal(t, 1.3, eff)
	_, trend := th.Factor(FactorTrend)
	assert.True(t, trend)
	_, bench := th.Factor(FactorBench)
	assert.True(t, bench)

	ctx.Recent.Minutes = 14
	assert.Nil(t, e.ValueHunter(ctx, models.GameContext{}))

	starter := baseContext(models.PositionSG, true, 34)
	assert.Nil(t, e.ValueHunter(starter, models.GameContext{}))
}

func TestPaceBoostMarket(t *testing.T) {
	e := newTestEngine()
	fast := models.GameContext{Pace: 104}

	tests := []struct {
		name string
		tags []models.Tag
		want models.Market
	}{
		{"playmaker", []models.Tag{models.TagRunner, models.TagPlaymaker}, models.MarketAST},
		{"scorer", []models.Tag{models.TagTransition, models.TagScorer}, models.MarketPTS},
		{"default", []models.Tag{models.TagAthletic}, models.MarketPRA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := e.PaceBoost(baseContext(models.PositionSF, true, 30, tt.tags...), fast)
			require.NotNil(t, th)
			assert.Equal(t, tt.want, th.Market)
			pos, _ := th.Factor(FactorPosition)
			assert.Equal(t, 1.05, pos)
		})
	}

	assert.Nil(t, e.PaceBoost(baseContext(models.PositionSF, true, 30, models.TagRunner), models.GameContext{Pace: 97}))
	assert.Nil(t, e.PaceBoost(baseContext(models.PositionSF, true, 30, models.TagVeteran), fast))
}

func TestBlowoutRiskPerspective(t *testing.T) {
	e := newTestEngine()
	game := models.GameContext{HomeTeam: "HOM", AwayTeam: "AWY", Spread: -14}

	bench := baseContext(models.PositionSF, false, 16)
	bench.Team = "HOM"
	th := e.BlowoutRisk(bench, game)
	require.NotNil(t, th)
	v, _ := th.Factor(FactorBlowout)
	assert.Greater(t, v, 1.0)
	assert.True(t, th.IsRisk)
	assert.Equal(t, models.MarketRisk, th.Market)
	assert.Nil(t, th.SuggestedLine)
	assert.Equal(t, 0.3, th.Confidence)

	starter := baseContext(models.PositionPG, true, 34)
	starter.Team = "AWY"
	th = e.BlowoutRisk(starter, game)
	require.NotNil(t, th)
	v, _ = th.Factor(FactorBlowout)
	assert.LessOrEqual(t, v, 0.85)

	assert.Nil(t, e.BlowoutRisk(starter, models.GameContext{HomeTeam: "HOM", AwayTeam: "AWY", Spread: 6}))
}

func TestBlowoutMultiplier(t *testing.T) {
	tests := []struct {
		role     models.RotationRole
		underdog bool
		want     float64
	}{
		{models.RotationStarter, true, 0.7},
		{models.RotationStarter, false, 0.85},
		{models.RotationBench, false, 1.1},
		{models.RotationRotation, false, 1.1},
		{models.RotationBench, true, 1.0},
		{models.RotationDeepBench, false, 1.0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BlowoutMultiplier(tt.role, tt.underdog), "%s underdog=%v", tt.role, tt.underdog)
	}
}

func TestGenerateCapsAndKeepsRisk(t *testing.T) {
	e := newTestEngine()
	ctx := baseContext(models.PositionSG, false, 20, models.TagScorer, models.TagPlaymaker, models.TagRunner)
	ctx.Recent.PRA = 30
	ctx.Rotation = &models.RotationInfo{Role: models.RotationBench, Confidence: 0.7}
	game := models.GameContext{HomeTeam: "HOM", AwayTeam: "AWY", Spread: -14, Pace: 105}

	theses := e.Generate(ctx, game)

	require.Len(t, theses, 4)
	assert.Equal(t, models.ThesisScorerLine, theses[0].Type)
	for i := 1; i < 3; i++ {
		assert.GreaterOrEqual(t, theses[i-1].Confidence, theses[i].Confidence)
		assert.False(t, theses[i].IsRisk)
	}
	assert.Equal(t, models.ThesisBlowoutRisk, theses[3].Type)
}

func TestGenerateSkipsOutPlayers(t *testing.T) {
	e := newTestEngine()
	ctx := baseContext(models.PositionPF, true, 30, models.TagGlassBanger)
	ctx.Availability = models.AvailabilityOut

	assert.Empty(t, e.Generate(ctx, models.GameContext{Pace: 105, Spread: 15}))
}

func TestGenerateAppliesFloor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConfidenceFloor = 0.9
	e := NewEngine(cfg, nil)
	ctx := baseContext(models.PositionPF, true, 30, models.TagGlassBanger)

	assert.Empty(t, e.Generate(ctx, models.GameContext{Pace: 105}))
}

func TestRotationRoleFallback(t *testing.T) {
	e := newTestEngine()
	tests := []struct {
		starter bool
		minutes float64
		want    models.RotationRole
	}{
		{true, 30, models.RotationStarter},
		{true, 22, models.RotationRotation},
		{false, 26, models.RotationRotation},
		{false, 14, models.RotationBench},
		{false, 8, models.RotationDeepBench},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, e.RotationRole(baseContext(models.PositionSF, tt.starter, tt.minutes)))
	}

	ctx := baseContext(models.PositionSF, false, 8)
	ctx.Rotation = &models.RotationInfo{Role: models.RotationStarter}
	assert.Equal(t, models.RotationStarter, e.RotationRole(ctx))
}

func TestSuggestedLine(t *testing.T) {
	ctx := baseContext(models.PositionSF, true, 30)
	ctx.Recent.Points = 22
	ctx.Season = &models.SeasonAverages{Points: 20}

	tests := []struct {
		role models.RotationRole
		want float64
	}{
		{models.RotationStarter, 22.0},
		{models.RotationRotation, 19.8},
		{models.RotationBench, 17.6},
	}
	for _, tt := range tests {
		line := SuggestedLine(ctx, models.MarketPTS, tt.role)
		require.NotNil(t, line)
		assert.Equal(t, tt.want, *line)
	}
	assert.Nil(t, SuggestedLine(ctx, models.MarketRisk, models.RotationStarter))
}

func TestDvPFactor(t *testing.T) {
	assert.InDelta(t, 1.06, dvpFactor(1.2), 1e-9)
	assert.InDelta(t, 0.94, dvpFactor(0.8), 1e-9)
	assert.InDelta(t, 1.3, paceFactor(140), 1e-9)
}
