package thesis

import (
	"math"

	"github.com/stitts-dev/courtside/internal/models"
)

// builder accumulates evidence and factors for a single thesis.
type builder struct {
	cfg      Config
	kind     models.ThesisType
	base     float64
	evidence []string
	factors  []models.WeightFactor
}

func newBuilder(cfg Config, kind models.ThesisType, base float64) *builder {
	return &builder{cfg: cfg, kind: kind, base: base}
}

func (b *builder) factor(name string, value float64, evidence string) {
	b.factors = append(b.factors, models.WeightFactor{
		Name:   name,
		Value:  models.Round(value, 3),
		Weight: b.cfg.weightFor(b.kind, name),
	})
	if evidence != "" {
		b.evidence = append(b.evidence, evidence)
	}
}

func (b *builder) note(evidence string) {
	b.evidence = append(b.evidence, evidence)
}

// confidence is base + sum((value-1)*weight), damped and clamped to [0,1].
func (b *builder) confidence() float64 {
	c := b.base
	for _, f := range b.factors {
		c += (f.Value - 1.0) * f.Weight
	}
	c *= b.cfg.multiplierFor(b.kind)
	return models.Round(models.Clamp(c, 0, 1), 2)
}

func (b *builder) build(ctx models.PlayerContext, role models.RotationRole, market models.Market) models.Thesis {
	return models.Thesis{
		PlayerID:      ctx.PlayerID,
		PlayerName:    ctx.Name,
		Team:          ctx.Team,
		Position:      ctx.Position,
		RotationRole:  role,
		Type:          b.kind,
		Market:        market,
		Confidence:    b.confidence(),
		Evidence:      b.evidence,
		SuggestedLine: SuggestedLine(ctx, market, role),
		Weights:       b.factors,
	}
}

// dvpFactor softens a raw defense-vs-position multiplier.
func dvpFactor(dvp float64) float64 {
	if dvp > 1 {
		return 1 + (dvp-1)*0.3
	}
	return 0.7 + dvp*0.3
}

func paceFactor(pace float64) float64 {
	return math.Min(1+(pace-100)*0.01, 1.3)
}
