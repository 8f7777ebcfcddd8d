package strategy

import (
	"fmt"

	"github.com/stitts-dev/courtside/internal/models"
)

// selection is the diversity state of one composition call. It is created
// fresh for every call and never shared.
type selection struct {
	players map[string]bool
	teams   map[string]int
	markets map[models.Market]int
}

func newSelection() *selection {
	return &selection{
		players: make(map[string]bool),
		teams:   make(map[string]int),
		markets: make(map[models.Market]int),
	}
}

func (s *selection) used(key string) bool { return s.players[key] }

func (s *selection) add(t models.Thesis) {
	s.players[t.Key()] = true
	s.teams[t.Team]++
	s.markets[t.Market]++
}

// adjust applies the correlation penalties and bonuses to a recommendation
// that has just been added to the selection.
func (s *selection) adjust(rec *models.Recommendation, game models.GameContext, cfg CorrelationConfig) {
	var notes []string
	adj := 0.0

	if n := s.teams[rec.Team]; n > cfg.CrowdLimit {
		adj -= cfg.TeamPenalty
		notes = append(notes, fmt.Sprintf("Penalty: -%.0f%% (%d picks from %s)", cfg.TeamPenalty*100, n, rec.Team))
	}
	if n := s.markets[rec.Market]; n > cfg.CrowdLimit {
		adj -= cfg.MarketPenalty
		notes = append(notes, fmt.Sprintf("Penalty: -%.0f%% (%d %s picks)", cfg.MarketPenalty*100, n, rec.Market))
	}
	spread := game.AbsSpread()
	if spread > cfg.BlowoutSpread && rec.RotationRole == models.RotationStarter {
		adj -= cfg.BlowoutPenalty
		notes = append(notes, fmt.Sprintf("Penalty: -%.0f%% (starter with spread %.1f)", cfg.BlowoutPenalty*100, spread))
	}

	if n := len(s.teams); n >= cfg.DiversityMin {
		adj += cfg.TeamDiversityBonus
		notes = append(notes, fmt.Sprintf("Bonus: +%.0f%% (%d teams)", cfg.TeamDiversityBonus*100, n))
	}
	if n := len(s.markets); n >= cfg.DiversityMin {
		adj += cfg.MarketDiversityBonus
		notes = append(notes, fmt.Sprintf("Bonus: +%.0f%% (%d markets)", cfg.MarketDiversityBonus*100, n))
	}
	if spread <= cfg.CloseSpread && rec.Market == models.MarketPTS {
		adj += cfg.CloseGameBonus
		notes = append(notes, fmt.Sprintf("Bonus: +%.0f%% (close game favors volume)", cfg.CloseGameBonus*100))
	}

	adj = models.Clamp(adj, -cfg.MaxAdjustment, cfg.MaxAdjustment)
	rec.ScoreAdjustment = models.Round(adj, 3)
	rec.AdjustedConfidence = models.Round(models.Clamp(rec.Confidence*(1+adj), 0, 1), 3)
	rec.Adjustments = notes
}
