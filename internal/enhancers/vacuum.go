package enhancers

import (
	"fmt"

	"github.com/stitts-dev/courtside/internal/models"
	"github.com/stitts-dev/courtside/internal/playerctx"
)

// VacuumFactor is the flat boost for a bench player covering an absent starter.
const VacuumFactor = 1.25

type VacuumAnalyzer struct{}

func NewVacuumAnalyzer() *VacuumAnalyzer { return &VacuumAnalyzer{} }

func isUnavailable(p models.PlayerContext) bool {
	return p.IsOut() || playerctx.IsUnavailableStatus(p.Status)
}

// AbsentStarters returns starters on the roster flagged unavailable, in roster order.
func (v *VacuumAnalyzer) AbsentStarters(roster []models.PlayerContext) []models.PlayerContext {
	var absent []models.PlayerContext
	for _, p := range roster {
		if p.IsStarter && isUnavailable(p) {
			absent = append(absent, p)
		}
	}
	return absent
}

// Analyze maps player keys to the boost they receive. Each candidate takes
// the first absent starter at its position; later absences do not stack.
func (v *VacuumAnalyzer) Analyze(roster []models.PlayerContext) map[string]models.VacuumBoost {
	boosts := make(map[string]models.VacuumBoost)
	for _, starter := range v.AbsentStarters(roster) {
		if starter.Position == models.PositionUnknown {
			continue
		}
		for _, p := range roster {
			if p.IsStarter || p.Team != starter.Team || p.Position != starter.Position || isUnavailable(p) {
				continue
			}
			if _, taken := boosts[p.Key()]; taken {
				continue
			}
			boosts[p.Key()] = models.VacuumBoost{
				Active:   true,
				Factor:   VacuumFactor,
				Reason:   fmt.Sprintf("Substitute for %s", starter.Name),
				Replaces: starter.Name,
			}
		}
	}
	return boosts
}

// ApplyBoost scales the volume stats by the boost factor.
func ApplyBoost(ctx models.PlayerContext, boost models.VacuumBoost) models.PlayerContext {
	if !boost.Active || ctx.Vacuum != nil {
		return ctx
	}
	ctx.Recent = ctx.Recent.Scale(boost.Factor)
	b := boost
	ctx.Vacuum = &b
	return ctx
}

// Apply boosts every eligible player on a single team's roster.
func (v *VacuumAnalyzer) Apply(roster []models.PlayerContext) []models.PlayerContext {
	boosts := v.Analyze(roster)
	out := make([]models.PlayerContext, len(roster))
	for i, p := range roster {
		if boost, ok := boosts[p.Key()]; ok {
			p = ApplyBoost(p, boost)
		}
		out[i] = p
	}
	return out
}
