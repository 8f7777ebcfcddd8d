package thesis

import "github.com/stitts-dev/courtside/internal/models"

// Factor names recorded in a thesis weight breakdown.
const (
	FactorDvP         = "DvP"
	FactorPace        = "Pace"
	FactorRole        = "Role"
	FactorPlayerClass = "PlayerClass"
	FactorUsage       = "Usage"
	FactorGameContext = "GameContext"
	FactorForm        = "Form"
	FactorEfficiency  = "Efficiency"
	FactorTrend       = "Trend"
	FactorBench       = "BenchBonus"
	FactorMatchup     = "Matchup"
	FactorPosition    = "Position"
	FactorBlowout     = "BlowoutMultiplier"
)

type Thresholds struct {
	HighPace       float64
	BigSpread      float64
	MinUsage       float64
	StarterMinutes float64
}

type Config struct {
	// Multipliers damp each thesis type's raw confidence.
	Multipliers map[models.ThesisType]float64
	// Weights apply to named factors; unlisted factors are recorded but
	// contribute nothing.
	Weights map[string]float64
	// FlatWeights override Weights for every factor of a thesis type.
	FlatWeights     map[models.ThesisType]float64
	Thresholds      Thresholds
	ConfidenceFloor float64
	MaxTheses       int
	RiskConfidence  float64
}

func DefaultConfig() Config {
	return Config{
		Multipliers: map[models.ThesisType]float64{
			models.ThesisBigRebound:    1.0,
			models.ThesisAssistMatchup: 1.0,
			models.ThesisScorerLine:    1.0,
			models.ThesisValueHunter:   0.9,
			models.ThesisPaceBoost:     0.85,
			models.ThesisBlowoutRisk:   0.8,
		},
		Weights: map[string]float64{
			FactorDvP:         0.3,
			FactorPace:        0.2,
			FactorRole:        0.15,
			FactorPlayerClass: 0.2,
			FactorUsage:       0.15,
		},
		FlatWeights: map[models.ThesisType]float64{
			models.ThesisValueHunter: 0.2,
			models.ThesisPaceBoost:   0.25,
		},
		Thresholds: Thresholds{
			HighPace:       100,
			BigSpread:      12,
			MinUsage:       18,
			StarterMinutes: 25,
		},
		ConfidenceFloor: 0.4,
		MaxTheses:       3,
		RiskConfidence:  0.3,
	}
}

func (c Config) weightFor(t models.ThesisType, factor string) float64 {
	if w, ok := c.FlatWeights[t]; ok {
		return w
	}
	return c.Weights[factor]
}

func (c Config) multiplierFor(t models.ThesisType) float64 {
	if m, ok := c.Multipliers[t]; ok {
		return m
	}
	return 1.0
}
