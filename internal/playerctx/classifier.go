package playerctx

import "github.com/stitts-dev/courtside/internal/models"

// positionOverrides pins players whose listed position misrepresents how
// they are used.
var positionOverrides = map[string]models.Position{
	"LeBron James":          models.PositionSF,
	"Nikola Jokic":          models.PositionC,
	"Luka Doncic":           models.PositionPG,
	"Giannis Antetokounmpo": models.PositionPF,
}

func resolvePosition(name, raw string) models.Position {
	if p, ok := positionOverrides[name]; ok {
		return p
	}
	return models.NormalizePosition(raw)
}

func classifyUsage(pra float64) models.Tier {
	switch {
	case pra >= 30:
		return models.TierHigh
	case pra >= 18:
		return models.TierMedium
	}
	return models.TierLow
}

func classifyVolatility(pointsCV, minutesCV float64) models.Tier {
	v := (pointsCV + minutesCV) / 2
	switch {
	case v >= 0.8:
		return models.TierHigh
	case v >= 0.5:
		return models.TierMedium
	}
	return models.TierLow
}

func classifyRole(isStarter bool, usage models.Tier) models.Role {
	switch {
	case isStarter && usage == models.TierHigh:
		return models.RoleStar
	case isStarter && usage != models.TierLow:
		return models.RoleStarter
	case !isStarter && usage == models.TierHigh:
		return models.RoleBenchScorer
	case !isStarter && usage == models.TierMedium:
		return models.RoleRotation
	}
	return models.RoleDeepBench
}

func perMinute(v, minutes float64) float64 {
	if minutes <= 0 {
		return 0
	}
	return v / minutes
}

// classifyStyle evaluates rules in order; the first match wins.
func classifyStyle(w models.RecentWindow) models.Style {
	rebRate := perMinute(w.Rebounds, w.Minutes)
	astRate := perMinute(w.Assists, w.Minutes)

	switch {
	case rebRate >= 0.22 && w.Points < 16:
		return models.StyleRebounder
	case astRate >= 0.18:
		return models.StylePlaymaker
	case w.Points >= 18:
		return models.StyleScorer
	case rebRate >= 0.18 && w.Points >= 12:
		return models.StyleHustle
	}
	return models.StyleRole
}

func classifyGarbageTime(isStarter bool, experience int, volatility models.Tier) models.Tier {
	young := experience <= 3
	switch {
	case !isStarter && young && volatility != models.TierLow:
		return models.TierHigh
	case !isStarter && volatility == models.TierMedium:
		return models.TierMedium
	}
	return models.TierLow
}

// Classify derives descriptive tags from a built context and merges them
// with any caller-supplied tags.
func Classify(ctx models.PlayerContext, extra models.Tags) models.Tags {
	tags := models.Tags{}.Add(extra...)
	w := ctx.Recent

	if perMinute(w.Rebounds, w.Minutes) > 0.2 && ctx.Position.IsBig() {
		tags = tags.Add(models.TagGlassBanger)
	}
	if perMinute(w.Assists, w.Minutes) > 0.15 && ctx.Position == models.PositionPG {
		tags = tags.Add(models.TagFloorGeneral)
	}

	switch ctx.Style {
	case models.StyleRebounder:
		tags = tags.Add(models.TagRebounder)
	case models.StylePlaymaker:
		tags = tags.Add(models.TagPlaymaker)
	case models.StyleScorer:
		tags = tags.Add(models.TagScorer)
	}

	if w.Points >= 20 {
		tags = tags.Add(models.TagVolume)
	}
	if !ctx.IsStarter {
		tags = tags.Add(models.TagBench)
	}
	if ctx.Role == models.RoleBenchScorer {
		tags = tags.Add(models.TagSpark)
	}
	if ctx.Experience <= 3 {
		tags = tags.Add(models.TagYoung)
	} else if ctx.Experience >= 8 && ctx.Experience != UnknownExperience {
		tags = tags.Add(models.TagVeteran)
	}

	return tags
}
