package strategy

import "github.com/stitts-dev/courtside/internal/models"

var StrategyDescriptions = map[models.StrategyKind]string{
	models.StrategyGlassBangerPair:  "Two bigs attacking the glass",
	models.StrategyGlassBangersTrio: "Three bigs dominating the paint",
	models.StrategyBattery:          "Point guard plus a scorer from the same team",
	models.StrategyBenchMob:         "Bench players with garbage-time upside",
	models.StrategyShootoutPair:     "Scorers from opposite teams in a fast game",
	models.StrategyBlowoutSpecial:   "Players who benefit from a blowout",
	models.StrategyCuratedCombo:     "Curated combination",
	models.StrategyIndividualPlay:   "Individual play",
}

// IdentifyStrategy names the combination pattern of a set of picks. Checks
// run in a fixed order and the first match wins.
func IdentifyStrategy(recs []models.Recommendation, game models.GameContext) models.StrategyKind {
	if len(recs) == 0 {
		return models.StrategyIndividualPlay
	}

	if len(recs) >= 2 {
		bigs := 0
		for _, r := range recs {
			if r.Position.IsBig() && r.Market == models.MarketREB {
				bigs++
			}
		}
		if bigs >= 3 {
			return models.StrategyGlassBangersTrio
		}
		if bigs == 2 {
			return models.StrategyGlassBangerPair
		}
	}

	if len(recs) == 2 && recs[0].Team == recs[1].Team {
		a, b := recs[0].Position, recs[1].Position
		if (a == models.PositionPG && isWing(b)) || (b == models.PositionPG && isWing(a)) {
			return models.StrategyBattery
		}
	}

	benchOnly := true
	for _, r := range recs {
		if r.RotationRole != models.RotationBench && r.RotationRole != models.RotationRotation {
			benchOnly = false
			break
		}
	}
	if benchOnly {
		return models.StrategyBenchMob
	}

	if len(recs) == 2 && recs[0].Team != recs[1].Team &&
		recs[0].Market == models.MarketPTS && recs[1].Market == models.MarketPTS && gamePace(recs, game) > 100 {
		return models.StrategyShootoutPair
	}

	if game.AbsSpread() > 12 {
		for _, r := range recs {
			if r.Type == models.ThesisValueHunter {
				return models.StrategyBlowoutSpecial
			}
		}
	}

	return models.StrategyCuratedCombo
}

func isWing(p models.Position) bool {
	return p == models.PositionSG || p == models.PositionSF
}

func gamePace(recs []models.Recommendation, game models.GameContext) float64 {
	if game.Pace > 0 {
		return game.Pace
	}
	return recs[0].GamePace
}
