// Package enhancers holds the contextual adjustment stages applied to player
// contexts after they are built: pace, vacancy, rotation and ceiling.
package enhancers

import (
	"github.com/stitts-dev/courtside/internal/models"
)

// DefaultTeamPace is the season pace rating per team.
var DefaultTeamPace = map[string]float64{
	"ATL": 101.2, "BOS": 99.8, "BKN": 98.5, "CHA": 100.5, "CHI": 99.2,
	"CLE": 98.0, "DAL": 100.8, "DEN": 102.1, "DET": 100.3, "GSW": 102.5,
	"HOU": 101.7, "IND": 103.2, "LAC": 100.9, "LAL": 101.3, "MEM": 99.5,
	"MIA": 98.8, "MIL": 101.0, "MIN": 100.2, "NOP": 101.4, "NYK": 99.1,
	"OKC": 102.3, "ORL": 99.4, "PHI": 100.7, "PHX": 101.6, "POR": 102.0,
	"SAC": 103.1, "SAS": 100.1, "TOR": 101.9, "UTA": 101.5, "WAS": 102.2,
}

type PaceAdjuster struct {
	ratings map[string]float64
}

// NewPaceAdjuster uses DefaultTeamPace when ratings is empty.
func NewPaceAdjuster(ratings map[string]float64) *PaceAdjuster {
	if len(ratings) == 0 {
		ratings = DefaultTeamPace
	}
	return &PaceAdjuster{ratings: ratings}
}

func (p *PaceAdjuster) TeamPace(team string) float64 {
	if v, ok := p.ratings[team]; ok && v > 0 {
		return v
	}
	return models.LeagueAveragePace
}

// GamePace is the mean of both teams' season ratings. A pace quoted on the
// game itself is not consulted.
func (p *PaceAdjuster) GamePace(game models.GameContext) float64 {
	return (p.TeamPace(game.HomeTeam) + p.TeamPace(game.AwayTeam)) / 2
}

func PaceCategoryFor(pace float64) models.PaceCategory {
	switch {
	case pace >= 102:
		return models.PaceFast
	case pace <= 98:
		return models.PaceSlow
	}
	return models.PaceAverage
}

// Apply scales volume stats by pace/100. Re-applying starts from the
// recorded original window so factors never compound.
func (p *PaceAdjuster) Apply(ctx models.PlayerContext, game models.GameContext) models.PlayerContext {
	original := ctx.Recent
	if ctx.Pace != nil {
		original = ctx.Pace.Original
	}

	pace := p.GamePace(game)
	factor := models.Round(pace/100, 3)

	ctx.Recent = scalePositive(original, factor)
	ctx.Pace = &models.PaceAdjustment{
		GamePace: models.Round(pace, 1),
		Factor:   factor,
		Category: PaceCategoryFor(pace),
		Original: original,
	}
	return ctx
}

// scalePositive leaves zero stats untouched and rounds the rest.
func scalePositive(w models.RecentWindow, factor float64) models.RecentWindow {
	scale := func(v float64) float64 {
		if v <= 0 {
			return v
		}
		return models.Round(v*factor, 1)
	}
	w.Points = scale(w.Points)
	w.Rebounds = scale(w.Rebounds)
	w.Assists = scale(w.Assists)
	w.PRA = scale(w.PRA)
	return w
}
