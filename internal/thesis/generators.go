package thesis

import (
	"fmt"
	"math"

	"github.com/stitts-dev/courtside/internal/models"
)

// BigRebound targets rebounding bigs against defenses that give up boards.
func (e *Engine) BigRebound(ctx models.PlayerContext, game models.GameContext) *models.Thesis {
	if !ctx.Position.IsBig() || !ctx.Tags.HasAny(models.TagGlassBanger, models.TagRebounder) {
		return nil
	}
	role := e.RotationRole(ctx)
	b := newBuilder(e.cfg, models.ThesisBigRebound, 0.5)

	if ctx.DvP.Rebounds > 1 {
		b.factor(FactorDvP, dvpFactor(ctx.DvP.Rebounds),
			fmt.Sprintf("DvP: %s allows %.2fx rebounds to %s", opponentLabel(ctx), ctx.DvP.Rebounds, ctx.Position))
	}
	if pace := ctx.GamePace(game); pace > e.cfg.Thresholds.HighPace {
		b.factor(FactorPace, paceFactor(pace), fmt.Sprintf("Pace: %.1f projected possessions", pace))
	}
	b.factor(FactorRole, ternary(role == models.RotationStarter, 1.0, 0.9), fmt.Sprintf("Role: %s", role))
	b.factor(FactorPlayerClass, ternary(ctx.Tags.Has(models.TagGlassBanger), 1.2, 1.0), "")
	if ctx.UsageRate > e.cfg.Thresholds.MinUsage {
		b.factor(FactorUsage, math.Min(1+(ctx.UsageRate-e.cfg.Thresholds.MinUsage)*0.01, 1.2),
			fmt.Sprintf("Usage: %.1f%%", ctx.UsageRate))
	}

	t := b.build(ctx, role, models.MarketREB)
	return &t
}

// AssistMatchup targets floor generals in close games.
func (e *Engine) AssistMatchup(ctx models.PlayerContext, game models.GameContext) *models.Thesis {
	if !ctx.Position.IsGuard() || !ctx.Tags.HasAny(models.TagFloorGeneral, models.TagPlaymaker) {
		return nil
	}
	role := e.RotationRole(ctx)
	b := newBuilder(e.cfg, models.ThesisAssistMatchup, 0.5)

	spread := game.AbsSpread()
	switch {
	case spread <= 5:
		b.factor(FactorGameContext, 1.2, fmt.Sprintf("Close game: spread %.1f", spread))
	case spread <= 8:
		b.factor(FactorGameContext, 1.0, "")
	default:
		b.factor(FactorGameContext, 0.8, fmt.Sprintf("Wide spread %.1f may cut minutes", spread))
	}
	if ctx.AssistPct > 20 {
		b.factor(FactorPlayerClass, math.Min(1+(ctx.AssistPct-20)*0.01, 1.3),
			fmt.Sprintf("Assist rate: %.1f%%", ctx.AssistPct))
	}
	if ctx.DvP.Assists > 1 {
		b.factor(FactorDvP, dvpFactor(ctx.DvP.Assists),
			fmt.Sprintf("DvP: %s allows %.2fx assists to %s", opponentLabel(ctx), ctx.DvP.Assists, ctx.Position))
	}
	b.factor(FactorRole, ternary(role == models.RotationStarter, 1.1, 0.9), fmt.Sprintf("Role: %s", role))

	t := b.build(ctx, role, models.MarketAST)
	return &t
}

// ScorerLine targets wings with scoring volume in favorable spots.
func (e *Engine) ScorerLine(ctx models.PlayerContext, game models.GameContext) *models.Thesis {
	if (ctx.Position != models.PositionSG && ctx.Position != models.PositionSF) ||
		!ctx.Tags.HasAny(models.TagScorer, models.TagShooter, models.TagVolume) {
		return nil
	}
	role := e.RotationRole(ctx)
	b := newBuilder(e.cfg, models.ThesisScorerLine, 0.55)

	if ctx.DvP.Points > 1 {
		b.factor(FactorDvP, dvpFactor(ctx.DvP.Points),
			fmt.Sprintf("DvP: %s allows %.2fx points to %s", opponentLabel(ctx), ctx.DvP.Points, ctx.Position))
	}
	if ctx.UsageRate > 22 {
		b.factor(FactorUsage, math.Min(1+(ctx.UsageRate-22)*0.015, 1.3), fmt.Sprintf("Usage: %.1f%%", ctx.UsageRate))
	}
	if ctx.Tags.Has(models.TagScorer) {
		b.factor(FactorPlayerClass, 1.2, "")
	}
	if game.Total > 225 {
		b.factor(FactorGameContext, 1.1, fmt.Sprintf("High total: %.1f", game.Total))
	}
	if ctx.Season != nil && ctx.Recent.Points > ctx.Season.Points*1.1 {
		b.factor(FactorForm, 1.15,
			fmt.Sprintf("Form: %.1f pts over last 5 vs %.1f season", ctx.Recent.Points, ctx.Season.Points))
	}

	t := b.build(ctx, role, models.MarketPTS)
	return &t
}

// ValueHunter targets efficient bench and rotation minutes.
func (e *Engine) ValueHunter(ctx models.PlayerContext, game models.GameContext) *models.Thesis {
	role := e.RotationRole(ctx)
	if role != models.RotationBench && role != models.RotationRotation {
		return nil
	}
	if ctx.Recent.Minutes < 15 {
		return nil
	}
	b := newBuilder(e.cfg, models.ThesisValueHunter, 0.45)
	b.note(fmt.Sprintf("Role: %s at %.1f minutes", role, ctx.Recent.Minutes))

	if perMin := ctx.Recent.PRA / ctx.Recent.Minutes; perMin > 0.8 {
		b.factor(FactorEfficiency, math.Min(1+(perMin-0.8)*0.5, 1.3), fmt.Sprintf("Efficiency: %.2f PRA per minute", perMin))
	}
	if minutesTrendingUp(ctx) {
		b.factor(FactorTrend, 1.2, "Trend: minutes rising")
	}
	if spread := game.AbsSpread(); spread > e.cfg.Thresholds.BigSpread {
		b.factor(FactorGameContext, 1.15, fmt.Sprintf("Garbage time: spread %.1f", spread))
	}
	if ctx.Tags.HasAny(models.TagBench, models.TagSpark) {
		b.factor(FactorBench, 1.15, "")
	}

	t := b.build(ctx, role, models.MarketPRA)
	return &t
}

// PaceBoost targets transition players in fast games.
func (e *Engine) PaceBoost(ctx models.PlayerContext, game models.GameContext) *models.Thesis {
	pace := ctx.GamePace(game)
	if pace < e.cfg.Thresholds.HighPace || !ctx.Tags.ContainsAny("RUNNER", "TRANSITION", "ATHLETIC", "YOUNG") {
		return nil
	}
	role := e.RotationRole(ctx)
	b := newBuilder(e.cfg, models.ThesisPaceBoost, 0.5)

	b.factor(FactorPace, paceFactor(pace), fmt.Sprintf("Pace: %.1f projected possessions", pace))
	b.factor(FactorMatchup, 1.1, "Up-tempo matchup")
	switch ctx.Position {
	case models.PositionPG, models.PositionSG:
		b.factor(FactorPosition, 1.1, "")
	case models.PositionSF:
		b.factor(FactorPosition, 1.05, "")
	default:
		b.factor(FactorPosition, 1.0, "")
	}

	market := models.MarketPRA
	switch {
	case ctx.Tags.ContainsAny("PASS", "PLAYMAKER"):
		market = models.MarketAST
	case ctx.Tags.ContainsAny("SCORER"):
		market = models.MarketPTS
	}

	t := b.build(ctx, role, market)
	return &t
}

// BlowoutRisk flags lopsided games. It is a penalty signal and never a pick.
func (e *Engine) BlowoutRisk(ctx models.PlayerContext, game models.GameContext) *models.Thesis {
	spread := game.AbsSpread()
	if spread < e.cfg.Thresholds.BigSpread {
		return nil
	}
	role := e.RotationRole(ctx)
	underdog := game.IsUnderdog(ctx.Team)

	factor := BlowoutMultiplier(role, underdog)
	side := "favorite"
	if underdog {
		side = "underdog"
	}

	t := models.Thesis{
		PlayerID:     ctx.PlayerID,
		PlayerName:   ctx.Name,
		Team:         ctx.Team,
		Position:     ctx.Position,
		RotationRole: role,
		Type:         models.ThesisBlowoutRisk,
		Market:       models.MarketRisk,
		Confidence:   e.cfg.RiskConfidence,
		Evidence: []string{
			fmt.Sprintf("Blowout risk: spread %.1f", spread),
			fmt.Sprintf("%s on the %s", role, side),
		},
		Weights: []models.WeightFactor{{Name: FactorBlowout, Value: factor}},
		IsRisk:  true,
	}
	return &t
}

// BlowoutMultiplier is the minutes outlook in a lopsided game.
func BlowoutMultiplier(role models.RotationRole, underdog bool) float64 {
	switch {
	case role == models.RotationStarter && underdog:
		return 0.7
	case role == models.RotationStarter:
		return 0.85
	case (role == models.RotationBench || role == models.RotationRotation) && !underdog:
		return 1.1
	}
	return 1.0
}

func minutesTrendingUp(ctx models.PlayerContext) bool {
	if ctx.Season != nil && ctx.Season.Minutes > 0 {
		return ctx.Recent.Minutes > ctx.Season.Minutes*1.1
	}
	return ctx.Recent.LastMinutes > ctx.Recent.Minutes*1.1
}

func opponentLabel(ctx models.PlayerContext) string {
	if ctx.Opponent == "" {
		return "opponent"
	}
	return ctx.Opponent
}

func ternary(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
