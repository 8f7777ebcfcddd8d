package thesis

import (
	"math"

	"github.com/stitts-dev/courtside/internal/models"
)

var roleLineMultiplier = map[models.RotationRole]float64{
	models.RotationStarter:  1.0,
	models.RotationRotation: 0.9,
}

func marketValue(market models.Market, points, rebounds, assists float64) (float64, bool) {
	switch market {
	case models.MarketPTS:
		return points, true
	case models.MarketREB:
		return rebounds, true
	case models.MarketAST:
		return assists, true
	case models.MarketPRA:
		return points + rebounds + assists, true
	case models.MarketRebAst:
		return rebounds + assists, true
	case models.MarketPtsReb:
		return points + rebounds, true
	case models.MarketPtsAst:
		return points + assists, true
	}
	return 0, false
}

// SuggestedLine is max(season, recent) for the market scaled by role.
// Markets without box-score averages get no line.
func SuggestedLine(ctx models.PlayerContext, market models.Market, role models.RotationRole) *float64 {
	recent, ok := marketValue(market, ctx.Recent.Points, ctx.Recent.Rebounds, ctx.Recent.Assists)
	if !ok {
		return nil
	}
	value := recent
	if ctx.Season != nil {
		season, _ := marketValue(market, ctx.Season.Points, ctx.Season.Rebounds, ctx.Season.Assists)
		value = math.Max(season, recent)
	}

	mult, ok := roleLineMultiplier[role]
	if !ok {
		mult = 0.8
	}
	line := models.Round(value*mult, 1)
	return &line
}
