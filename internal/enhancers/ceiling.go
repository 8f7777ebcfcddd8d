package enhancers

import (
	"math"

	"github.com/stitts-dev/courtside/internal/models"
)

const (
	defaultCeilingBase = 0.2
	ceilingFloor       = 0.01
	ceilingCap         = 0.99
	blowoutSpread      = 12.0
)

var minutesThresholds = map[models.RotationRole]float64{
	models.RotationStarter:   25,
	models.RotationRotation:  18,
	models.RotationBench:     12,
	models.RotationDeepBench: 0,
}

type CeilingEstimator struct{}

func NewCeilingEstimator() *CeilingEstimator { return &CeilingEstimator{} }

// SampleConfidence discounts small samples.
func SampleConfidence(games int) float64 {
	switch {
	case games >= 30:
		return 1.0
	case games >= 15:
		return 0.9
	case games >= 8:
		return 0.75
	}
	return 0.5
}

func minutesThreshold(ctx models.PlayerContext) float64 {
	if role, ok := ctx.RotationRole(); ok {
		if t, ok := minutesThresholds[role]; ok {
			return t
		}
	}
	return 18
}

// Estimate returns the clamped ceiling probability per stat.
func (c *CeilingEstimator) Estimate(ctx models.PlayerContext, game models.GameContext) map[models.StatKey]float64 {
	out := make(map[models.StatKey]float64, len(models.CeilingStats))
	if ctx.IsOut() {
		for _, k := range models.CeilingStats {
			out[k] = ceilingFloor
		}
		return out
	}

	threshold := minutesThreshold(ctx)
	pace := ctx.GamePace(game)
	blowout := game.AbsSpread() >= blowoutSpread
	losing := game.IsUnderdog(ctx.Team)
	shock := ctx.Rotation != nil && ctx.Rotation.LineupShock
	sample := SampleConfidence(ctx.GamesPlayed)
	trend := ctx.RecentTrend
	if trend <= 0 {
		trend = 1.0
	}

	for _, k := range models.CeilingStats {
		p := defaultCeilingBase
		if v, ok := ctx.HitRate90[k]; ok {
			p = models.Clamp(v, ceilingFloor, ceilingCap)
		}
		p *= trend

		switch {
		case ctx.ExpectedMinutes < threshold:
			p *= 0.7
		case ctx.ExpectedMinutes > threshold*1.2:
			p *= 1.1
		}

		if pace > 100 {
			delta := pace - 100
			if k == models.StatRebounds {
				p *= 1 - delta*0.005
			} else {
				p *= math.Min(1+delta*0.01, 1.3)
			}
		}

		if blowout {
			if losing && k != models.StatPRA {
				p *= 1.2
			} else if !losing && (k == models.StatPoints || k == models.StatAssists) {
				p *= 0.8
			}
		}

		p *= ctx.DvP.For(k)
		if shock {
			p *= 1.15
		}
		p *= sample

		out[k] = models.Round(models.Clamp(p, ceilingFloor, ceilingCap), 3)
	}
	return out
}

func (c *CeilingEstimator) Apply(ctx models.PlayerContext, game models.GameContext) models.PlayerContext {
	ctx.Ceilings = c.Estimate(ctx, game)
	return ctx
}
