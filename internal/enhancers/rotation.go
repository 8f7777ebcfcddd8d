package enhancers

import (
	"math"

	"github.com/stitts-dev/courtside/internal/models"
)

const (
	minutesInferenceConfidence = 0.6
	lineupSignalConfidence     = 0.7
)

type RotationEnhancer struct{}

func NewRotationEnhancer() *RotationEnhancer { return &RotationEnhancer{} }

// InferRole derives a rotation role from the starter flag and recent minutes.
func InferRole(ctx models.PlayerContext) models.RotationRole {
	minutes := ctx.Recent.Minutes
	switch {
	case ctx.IsStarter && minutes >= 28:
		return models.RotationStarter
	case minutes >= 20:
		return models.RotationRotation
	case minutes >= 12:
		return models.RotationBench
	}
	return models.RotationDeepBench
}

// RoleForMinutes classifies expected minutes on the 25/18/12 scale.
func RoleForMinutes(minutes float64) models.RotationRole {
	switch {
	case minutes >= 25:
		return models.RotationStarter
	case minutes >= 18:
		return models.RotationRotation
	case minutes >= 12:
		return models.RotationBench
	}
	return models.RotationDeepBench
}

// Apply sets the rotation role. A lineup signal overrides inference and can
// only raise expected minutes; out players stay at zero.
func (r *RotationEnhancer) Apply(ctx models.PlayerContext, signal *models.LineupSignal, teammates []models.PlayerContext) models.PlayerContext {
	info := models.RotationInfo{
		Role:             InferRole(ctx),
		Confidence:       minutesInferenceConfidence,
		ProjectedMinutes: ctx.ExpectedMinutes,
		Source:           "minutes",
	}

	if signal != nil && signal.Role != "" {
		info.Role = signal.Role
		info.Source = "lineup"
		info.Confidence = signal.Confidence
		if info.Confidence <= 0 {
			info.Confidence = lineupSignalConfidence
		}
		if signal.AvgMinutes > 0 {
			info.ProjectedMinutes = signal.AvgMinutes
		}
		if !ctx.IsOut() {
			ctx.ExpectedMinutes = math.Max(ctx.ExpectedMinutes, info.ProjectedMinutes)
		}
	}

	for _, t := range teammates {
		if t.Key() == ctx.Key() || t.Position != ctx.Position || ctx.Position == models.PositionUnknown {
			continue
		}
		if isUnavailable(t) {
			info.SamePositionOut++
			if t.IsStarter {
				info.LineupShock = true
			}
		}
	}

	info.Confidence = models.Clamp(info.Confidence, 0, 1)
	ctx.Rotation = &info
	return ctx
}
