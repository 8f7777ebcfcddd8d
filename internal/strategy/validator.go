package strategy

import (
	"fmt"
	"math"

	"github.com/stitts-dev/courtside/internal/models"
	"github.com/stitts-dev/courtside/internal/playerctx"
)

// Validation rule names.
const (
	RuleDuplicatePlayer     = "duplicate_player"
	RuleSameTeamTrio        = "same_team_trio"
	RulePositionCannibalism = "position_cannibalism"
	RuleStatCannibalism     = "stat_cannibalism"
	RuleBlowoutRiskHigh     = "blowout_risk_high"
	RuleInjuryRisk          = "injury_risk"
	RulePositionCompetition = "position_competition"
	RuleMarketOverlap       = "market_overlap"
	RuleLowDiversity        = "low_diversity"
	RuleRoleConcentration   = "role_concentration"
)

// ValidationRules enables the leg-level checks. Pair and ticket checks
// always run.
type ValidationRules struct {
	// MaxStarterSpread flags starters in games wider than this. Zero
	// disables the check.
	MaxStarterSpread float64
	FlagQuestionable bool
}

// ValidateTicket runs every rule over a set of legs.
func ValidateTicket(legs []models.Recommendation, rules ValidationRules) []models.Violation {
	var out []models.Violation

	for i := range legs {
		out = append(out, validateLeg(legs[i], rules)...)
		for j := i + 1; j < len(legs); j++ {
			out = append(out, ValidatePair(legs[i], legs[j])...)
		}
	}

	byTeam := make(map[string][]int)
	var teams []string
	for i, l := range legs {
		if _, ok := byTeam[l.Team]; !ok {
			teams = append(teams, l.Team)
		}
		byTeam[l.Team] = append(byTeam[l.Team], i)
	}
	for _, team := range teams {
		idx := byTeam[team]
		if len(idx) >= 3 {
			out = append(out, newViolation(RuleSameTeamTrio, models.SeverityCritical,
				fmt.Sprintf("%d legs from %s", len(idx), team), legs, idx...))
		}
	}

	if len(legs) >= 3 {
		all := make([]int, len(legs))
		sameType, sameRole := true, true
		for i := range legs {
			all[i] = i
			sameType = sameType && legs[i].Type == legs[0].Type
			sameRole = sameRole && legs[i].RotationRole == legs[0].RotationRole
		}
		if sameType {
			out = append(out, newViolation(RuleLowDiversity, models.SeveritySoft,
				fmt.Sprintf("every leg is a %s thesis", legs[0].Type), legs, all...))
		}
		if sameRole {
			out = append(out, newViolation(RuleRoleConcentration, models.SeveritySoft,
				fmt.Sprintf("every leg is a %s", legs[0].RotationRole), legs, all...))
		}
	}

	return out
}

func validateLeg(r models.Recommendation, rules ValidationRules) []models.Violation {
	var out []models.Violation
	if rules.MaxStarterSpread > 0 && r.RotationRole == models.RotationStarter && math.Abs(r.Spread) > rules.MaxStarterSpread {
		out = append(out, models.Violation{
			Rule:     RuleBlowoutRiskHigh,
			Severity: models.SeverityCritical,
			Players:  []string{r.PlayerName},
			Message:  fmt.Sprintf("starter in a game with spread %.1f", math.Abs(r.Spread)),
		})
	}
	if rules.FlagQuestionable && playerctx.IsQuestionableStatus(r.Status) {
		out = append(out, models.Violation{
			Rule:     RuleInjuryRisk,
			Severity: models.SeverityCritical,
			Players:  []string{r.PlayerName},
			Message:  fmt.Sprintf("status %q", r.Status),
		})
	}
	return out
}

// ValidatePair returns the correlation violations between two legs.
func ValidatePair(a, b models.Recommendation) []models.Violation {
	pair := []models.Recommendation{a, b}
	if a.Key() == b.Key() {
		return []models.Violation{newViolation(RuleDuplicatePlayer, models.SeverityCritical,
			fmt.Sprintf("%s appears twice", a.PlayerName), pair, 0, 1)}
	}
	if a.Team != b.Team {
		return nil
	}

	var out []models.Violation
	if a.Position != models.PositionUnknown && a.Position == b.Position {
		if a.Position == models.PositionPG || a.Position == models.PositionC {
			out = append(out, newViolation(RulePositionCannibalism, models.SeverityCritical,
				fmt.Sprintf("two %s legs from %s", a.Position, a.Team), pair, 0, 1))
		} else {
			out = append(out, newViolation(RulePositionCompetition, models.SeveritySoft,
				fmt.Sprintf("two %s legs from %s", a.Position, a.Team), pair, 0, 1))
		}
	}
	if a.Market == b.Market {
		switch a.Market {
		case models.MarketREB, models.MarketAST:
			out = append(out, newViolation(RuleStatCannibalism, models.SeverityCritical,
				fmt.Sprintf("two %s legs from %s share the same pool", a.Market, a.Team), pair, 0, 1))
		case models.MarketPTS:
			out = append(out, newViolation(RuleMarketOverlap, models.SeveritySoft,
				fmt.Sprintf("two %s legs from %s", a.Market, a.Team), pair, 0, 1))
		}
	}
	return out
}

func newViolation(rule string, sev models.Severity, msg string, legs []models.Recommendation, idx ...int) models.Violation {
	names := make([]string, 0, len(idx))
	for _, i := range idx {
		names = append(names, legs[i].PlayerName)
	}
	return models.Violation{Rule: rule, Severity: sev, Players: names, Message: msg}
}
