package enhancers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/courtside/internal/models"
)

func player(id, team string, pos models.Position, starter bool, status string, w models.RecentWindow) models.PlayerContext {
	availability := models.AvailabilityAvailable
	minutes := w.Minutes
	if status == "Out" {
		availability = models.AvailabilityOut
		minutes = 0
	}
	return models.PlayerContext{
		PlayerID:        id,
		Name:            "Player " + id,
		Team:            team,
		Position:        pos,
		IsStarter:       starter,
		Status:          status,
		Availability:    availability,
		ExpectedMinutes: minutes,
		Recent:          w,
		RecentTrend:     1.0,
		DvP:             models.NeutralDvP(),
	}
}

func TestPaceNeutralIsIdentity(t *testing.T) {
	adj := NewPaceAdjuster(map[string]float64{"AAA": 100, "BBB": 100})
	w := models.RecentWindow{Points: 17.3, Rebounds: 6.1, Assists: 3.4, PRA: 26.8, Minutes: 31}
	ctx := player("1", "AAA", models.PositionSF, true, "", w)

	out := adj.Apply(ctx, models.GameContext{HomeTeam: "AAA", AwayTeam: "BBB"})

	require.NotNil(t, out.Pace)
	assert.Equal(t, 1.0, out.Pace.Factor)
	assert.Equal(t, models.PaceAverage, out.Pace.Category)
	assert.Equal(t, w, out.Recent)
}

func TestPaceScalesVolumeStats(t *testing.T) {
	assert.Equal(t, 103.2, NewPaceAdjuster(nil).GamePace(models.GameContext{HomeTeam: "IND", AwayTeam: "IND"}))

	adj := NewPaceAdjuster(map[string]float64{"AAA": 103.2, "BBB": 103.2})
	ctx := player("1", "AAA", models.PositionPG, true, "", models.RecentWindow{Points: 20, Rebounds: 0, Assists: 10, PRA: 30})
	game := models.GameContext{HomeTeam: "AAA", AwayTeam: "BBB"}

	out := adj.Apply(ctx, game)

	assert.Equal(t, 103.2, out.Pace.GamePace)
	assert.Equal(t, models.PaceFast, out.Pace.Category)
	assert.Equal(t, 1.032, out.Pace.Factor)
	assert.Equal(t, 20.6, out.Recent.Points)
	assert.Equal(t, 0.0, out.Recent.Rebounds)
	assert.Equal(t, 10.3, out.Recent.Assists)

	again := adj.Apply(out, game)
	assert.Equal(t, out.Recent, again.Recent)
}

func TestPaceUnknownTeamsDefaultToLeagueAverage(t *testing.T) {
	adj := NewPaceAdjuster(nil)
	assert.Equal(t, 100.0, adj.TeamPace("XYZ"))
	assert.Equal(t, 98.8, adj.TeamPace("MIA"))
	assert.Equal(t, models.PaceSlow, PaceCategoryFor(98.0))
	assert.InDelta(t, 99.4, adj.GamePace(models.GameContext{HomeTeam: "MIA", AwayTeam: "XYZ"}), 1e-9)
}

func TestGamePaceIgnoresQuotedPace(t *testing.T) {
	adj := NewPaceAdjuster(nil)
	game := models.GameContext{HomeTeam: "MIA", AwayTeam: "CLE", Pace: 105}

	assert.InDelta(t, 98.4, adj.GamePace(game), 1e-9)

	out := adj.Apply(player("1", "MIA", models.PositionSF, true, "", models.RecentWindow{Points: 20}), game)
	assert.Equal(t, 98.4, out.Pace.GamePace)
	assert.Equal(t, 0.984, out.Pace.Factor)
	assert.Equal(t, 19.7, out.Recent.Points)
}

func TestVacuumBoostSingleAbsentCenter(t *testing.T) {
	roster := []models.PlayerContext{
		player("c1", "DEN", models.PositionC, true, "Out", models.RecentWindow{Points: 26, Rebounds: 12, Assists: 9, PRA: 47, Minutes: 34}),
		player("c2", "DEN", models.PositionC, false, "Active", models.RecentWindow{Points: 8, Rebounds: 6, Assists: 2, PRA: 16, Minutes: 16}),
		player("g1", "DEN", models.PositionPG, true, "Active", models.RecentWindow{Points: 20, Rebounds: 4, Assists: 6, PRA: 30, Minutes: 33}),
	}

	out := NewVacuumAnalyzer().Apply(roster)

	bench := out[1]
	require.NotNil(t, bench.Vacuum)
	assert.True(t, bench.Vacuum.Active)
	assert.Equal(t, VacuumFactor, bench.Vacuum.Factor)
	assert.Equal(t, "Player c1", bench.Vacuum.Replaces)
	assert.Equal(t, "Substitute for Player c1", bench.Vacuum.Reason)
	assert.Equal(t, 10.0, bench.Recent.Points)
	assert.Equal(t, 7.5, bench.Recent.Rebounds)
	assert.Equal(t, 2.5, bench.Recent.Assists)
	assert.Equal(t, 20.0, bench.Recent.PRA)

	assert.Nil(t, out[0].Vacuum)
	assert.Nil(t, out[2].Vacuum)
	assert.Equal(t, roster[1].Recent.Points, 8.0, "input must not be mutated")
}

func TestVacuumMultipleAbsencesDoNotCompound(t *testing.T) {
	roster := []models.PlayerContext{
		player("f1", "LAL", models.PositionPF, true, "Out", models.RecentWindow{}),
		player("f2", "LAL", models.PositionPF, true, "injured", models.RecentWindow{}),
		player("f3", "LAL", models.PositionPF, false, "", models.RecentWindow{Points: 8, Rebounds: 4, Assists: 2, PRA: 14}),
		player("f4", "LAL", models.PositionPF, false, "Out", models.RecentWindow{Points: 8}),
	}

	v := NewVacuumAnalyzer()
	assert.Len(t, v.AbsentStarters(roster), 2)

	out := v.Apply(roster)
	require.NotNil(t, out[2].Vacuum)
	assert.Equal(t, "Player f1", out[2].Vacuum.Replaces)
	assert.Equal(t, 10.0, out[2].Recent.Points)
	assert.Nil(t, out[3].Vacuum)

	twice := ApplyBoost(out[2], models.VacuumBoost{Active: true, Factor: VacuumFactor})
	assert.Equal(t, 10.0, twice.Recent.Points)
}

func TestRotationInference(t *testing.T) {
	tests := []struct {
		name    string
		starter bool
		minutes float64
		want    models.RotationRole
	}{
		{"heavy starter", true, 33, models.RotationStarter},
		{"light starter", true, 24, models.RotationRotation},
		{"big bench minutes", false, 30, models.RotationRotation},
		{"bench", false, 14, models.RotationBench},
		{"deep bench", false, 6, models.RotationDeepBench},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := player("1", "BOS", models.PositionSG, tt.starter, "", models.RecentWindow{Minutes: tt.minutes})
			assert.Equal(t, tt.want, InferRole(ctx))
		})
	}

	assert.Equal(t, models.RotationStarter, RoleForMinutes(25))
	assert.Equal(t, models.RotationRotation, RoleForMinutes(18))
	assert.Equal(t, models.RotationBench, RoleForMinutes(12))
	assert.Equal(t, models.RotationDeepBench, RoleForMinutes(11.9))
}

func TestRotationLineupSignalAndShock(t *testing.T) {
	starter := player("s", "PHX", models.PositionSF, true, "Out", models.RecentWindow{Minutes: 35})
	backup := player("b", "PHX", models.PositionSF, false, "", models.RecentWindow{Minutes: 18})

	r := NewRotationEnhancer()
	out := r.Apply(backup, &models.LineupSignal{Role: models.RotationStarter, AvgMinutes: 30}, []models.PlayerContext{starter, backup})

	require.NotNil(t, out.Rotation)
	assert.Equal(t, models.RotationStarter, out.Rotation.Role)
	assert.Equal(t, "lineup", out.Rotation.Source)
	assert.Equal(t, 0.7, out.Rotation.Confidence)
	assert.Equal(t, 30.0, out.ExpectedMinutes)
	assert.Equal(t, 1, out.Rotation.SamePositionOut)
	assert.True(t, out.Rotation.LineupShock)

	outStarter := r.Apply(starter, &models.LineupSignal{Role: models.RotationStarter, AvgMinutes: 30}, nil)
	assert.Equal(t, 0.0, outStarter.ExpectedMinutes)
}

func TestSampleConfidence(t *testing.T) {
	assert.Equal(t, 1.0, SampleConfidence(30))
	assert.Equal(t, 0.9, SampleConfidence(15))
	assert.Equal(t, 0.75, SampleConfidence(8))
	assert.Equal(t, 0.5, SampleConfidence(7))
}

func TestCeilingEstimate(t *testing.T) {
	c := NewCeilingEstimator()
	base := player("1", "MIA", models.PositionC, true, "", models.RecentWindow{Minutes: 32})
	base.GamesPlayed = 40
	base.ExpectedMinutes = 32
	base.Rotation = &models.RotationInfo{Role: models.RotationStarter}
	base.HitRate90 = map[models.StatKey]float64{models.StatPoints: 0.3, models.StatRebounds: 2.0}
	neutral := models.GameContext{HomeTeam: "MIA", AwayTeam: "BOS", Spread: -2, Pace: 100}

	got := c.Estimate(base, neutral)
	assert.InDelta(t, 0.33, got[models.StatPoints], 1e-9)
	assert.InDelta(t, 0.99, got[models.StatRebounds], 1e-9)
	assert.InDelta(t, 0.22, got[models.StatAssists], 1e-9)

	underdog := models.GameContext{HomeTeam: "MIA", AwayTeam: "BOS", Spread: 14, Pace: 100}
	got = c.Estimate(base, underdog)
	assert.InDelta(t, 0.396, got[models.StatPoints], 1e-9)
	assert.InDelta(t, 0.22, got[models.StatPRA], 1e-9)

	favorite := models.GameContext{HomeTeam: "MIA", AwayTeam: "BOS", Spread: -14, Pace: 100}
	got = c.Estimate(base, favorite)
	assert.InDelta(t, 0.264, got[models.StatPoints], 1e-9)

	out := base
	out.Availability = models.AvailabilityOut
	for _, v := range c.Estimate(out, neutral) {
		assert.Equal(t, 0.01, v)
	}
}

func TestCeilingAlwaysClamped(t *testing.T) {
	c := NewCeilingEstimator()
	ctx := player("1", "SAC", models.PositionPG, false, "", models.RecentWindow{Minutes: 5})
	ctx.RecentTrend = 5
	ctx.HitRate90 = map[models.StatKey]float64{models.StatPoints: 0.99, models.StatAssists: -3}
	ctx.DvP = models.DvPMultipliers{Points: 1.15, Rebounds: 1.15, Assists: 1.15}

	for _, game := range []models.GameContext{
		{HomeTeam: "SAC", AwayTeam: "IND", Pace: 130, Spread: 20},
		{HomeTeam: "SAC", AwayTeam: "IND", Pace: 90, Spread: -20},
	} {
		for k, v := range c.Estimate(ctx, game) {
			assert.GreaterOrEqual(t, v, 0.01, string(k))
			assert.LessOrEqual(t, v, 0.99, string(k))
		}
	}
}

func TestPipelineOrderAndToggles(t *testing.T) {
	adj := NewPaceAdjuster(map[string]float64{"AAA": 104, "BBB": 104})
	roster := []models.PlayerContext{
		player("c1", "AAA", models.PositionC, true, "Out", models.RecentWindow{Minutes: 30}),
		player("c2", "AAA", models.PositionC, false, "", models.RecentWindow{Points: 10, Rebounds: 8, Assists: 2, PRA: 20, Minutes: 20}),
	}
	game := models.GameContext{HomeTeam: "AAA", AwayTeam: "BBB"}

	out := NewPipeline(AllEnabled(), adj).Enhance(roster, game, nil)

	require.NotNil(t, out[1].Pace)
	require.NotNil(t, out[1].Vacuum)
	require.NotNil(t, out[1].Rotation)
	assert.True(t, out[1].Rotation.LineupShock)
	assert.NotEmpty(t, out[1].Ceilings)
	assert.Equal(t, 13.0, out[1].Recent.Points)
	assert.Nil(t, roster[1].Pace)

	off := NewPipeline(Options{}, adj).Enhance(roster, game, nil)
	assert.Equal(t, roster, off)
}
