package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stitts-dev/courtside/internal/models"
)

func TestIdentifyStrategy(t *testing.T) {
	withType := func(r models.Recommendation, kind models.ThesisType) models.Recommendation {
		r.Type = kind
		return r
	}

	tests := []struct {
		name string
		recs []models.Recommendation
		game models.GameContext
		want models.StrategyKind
	}{
		{"empty", nil, models.GameContext{}, models.StrategyIndividualPlay},
		{
			"glass banger pair",
			[]models.Recommendation{
				leg("1", "A", models.PositionC, models.RotationStarter, models.MarketREB, "", 0.7),
				leg("2", "B", models.PositionPF, models.RotationStarter, models.MarketREB, "", 0.7),
			},
			models.GameContext{}, models.StrategyGlassBangerPair,
		},
		{
			"glass bangers trio",
			[]models.Recommendation{
				leg("1", "A", models.PositionC, models.RotationStarter, models.MarketREB, "", 0.7),
				leg("2", "B", models.PositionPF, models.RotationStarter, models.MarketREB, "", 0.7),
				leg("3", "B", models.PositionC, models.RotationStarter, models.MarketREB, "", 0.7),
			},
			models.GameContext{}, models.StrategyGlassBangersTrio,
		},
		{
			"battery",
			[]models.Recommendation{
				leg("1", "A", models.PositionPG, models.RotationStarter, models.MarketAST, "", 0.7),
				leg("2", "A", models.PositionSG, models.RotationStarter, models.MarketPTS, "", 0.7),
			},
			models.GameContext{}, models.StrategyBattery,
		},
		{
			"bench mob",
			[]models.Recommendation{
				leg("1", "A", models.PositionPG, models.RotationBench, models.MarketPRA, "", 0.7),
				leg("2", "B", models.PositionSG, models.RotationRotation, models.MarketPRA, "", 0.7),
			},
			models.GameContext{}, models.StrategyBenchMob,
		},
		{
			"shootout pair",
			[]models.Recommendation{
				leg("1", "A", models.PositionSF, models.RotationStarter, models.MarketPTS, "", 0.7),
				leg("2", "B", models.PositionSG, models.RotationStarter, models.MarketPTS, "", 0.7),
			},
			models.GameContext{Pace: 104}, models.StrategyShootoutPair,
		},
		{
			"blowout special",
			[]models.Recommendation{
				leg("1", "A", models.PositionSF, models.RotationStarter, models.MarketPTS, "", 0.7),
				withType(leg("2", "A", models.PositionC, models.RotationBench, models.MarketPRA, "", 0.7), models.ThesisValueHunter),
			},
			models.GameContext{Spread: 14}, models.StrategyBlowoutSpecial,
		},
		{
			"curated",
			[]models.Recommendation{
				leg("1", "A", models.PositionSF, models.RotationStarter, models.MarketPTS, "", 0.7),
				leg("2", "B", models.PositionSG, models.RotationStarter, models.MarketPTS, "", 0.7),
			},
			models.GameContext{Pace: 97}, models.StrategyCuratedCombo,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IdentifyStrategy(tt.recs, tt.game)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, StrategyDescriptions[got])
		})
	}
}
