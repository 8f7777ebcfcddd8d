// Package thesis generates scored betting hypotheses per player.
package thesis

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/courtside/internal/models"
)

type generator func(*Engine, models.PlayerContext, models.GameContext) *models.Thesis

var generators = []generator{
	(*Engine).BigRebound,
	(*Engine).AssistMatchup,
	(*Engine).ScorerLine,
	(*Engine).ValueHunter,
	(*Engine).PaceBoost,
	(*Engine).BlowoutRisk,
}

// Engine is stateless after construction and safe for concurrent use.
type Engine struct {
	cfg    Config
	logger *logrus.Entry
}

func NewEngine(cfg Config, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Engine{cfg: cfg, logger: logger.WithField("component", "thesis_engine")}
}

func (e *Engine) Config() Config { return e.cfg }

// RotationRole prefers the enhancer's role and otherwise classifies by
// recent minutes.
func (e *Engine) RotationRole(ctx models.PlayerContext) models.RotationRole {
	if role, ok := ctx.RotationRole(); ok {
		return role
	}
	minutes := ctx.Recent.Minutes
	switch {
	case ctx.IsStarter && minutes >= e.cfg.Thresholds.StarterMinutes:
		return models.RotationStarter
	case minutes >= 20:
		return models.RotationRotation
	case minutes >= 12:
		return models.RotationBench
	}
	return models.RotationDeepBench
}

// Generate runs every generator for one player. Non-risk theses must clear
// the confidence floor and at most MaxTheses are kept, best first; a blowout
// risk signal is always kept after them.
func (e *Engine) Generate(ctx models.PlayerContext, game models.GameContext) []models.Thesis {
	if ctx.IsOut() {
		return nil
	}

	var picks []models.Thesis
	var risk *models.Thesis
	for _, gen := range generators {
		t := gen(e, ctx, game)
		if t == nil {
			continue
		}
		if t.Type == models.ThesisBlowoutRisk {
			risk = t
			continue
		}
		if t.Confidence > e.cfg.ConfidenceFloor {
			picks = append(picks, *t)
		}
	}

	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].Confidence > picks[j].Confidence
	})
	if len(picks) > e.cfg.MaxTheses {
		picks = picks[:e.cfg.MaxTheses]
	}
	if risk != nil {
		picks = append(picks, *risk)
	}

	e.logger.WithFields(logrus.Fields{
		"player": ctx.Name,
		"count":  len(picks),
	}).Debug("Generated theses")

	return picks
}

// GenerateAll generates theses for every player in a game.
func (e *Engine) GenerateAll(players []models.PlayerContext, game models.GameContext) []models.Thesis {
	var out []models.Thesis
	for _, p := range players {
		out = append(out, e.Generate(p, game)...)
	}
	return out
}
