package strategy

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/courtside/internal/models"
)

// TicketConfig describes how one daily ticket is drawn from composed games.
type TicketConfig struct {
	Kind       models.TicketKind
	Sources    []models.Bucket
	MinLegs    int
	MaxLegs    int
	MaxPerTeam int
	Rules      ValidationRules
}

type TicketConfigs struct {
	Conservative TicketConfig
	Aggressive   TicketConfig
}

func DefaultTicketConfigs() TicketConfigs {
	return TicketConfigs{
		Conservative: TicketConfig{
			Kind:       models.TicketConservative,
			Sources:    []models.Bucket{models.BucketConservadora, models.BucketOusada},
			MinLegs:    3,
			MaxLegs:    6,
			MaxPerTeam: 2,
			Rules:      ValidationRules{MaxStarterSpread: 15, FlagQuestionable: true},
		},
		Aggressive: TicketConfig{
			Kind:       models.TicketAggressive,
			Sources:    []models.Bucket{models.BucketOusada, models.BucketBanco, models.BucketExplosao},
			MinLegs:    2,
			MaxLegs:    4,
			MaxPerTeam: 1,
		},
	}
}

var marketOdds = map[models.Market]float64{
	models.MarketPTS:    1.8,
	models.MarketREB:    1.9,
	models.MarketAST:    2.0,
	models.MarketPRA:    2.5,
	models.MarketPtsReb: 2.2,
	models.MarketPtsAst: 2.3,
	models.MarketRebAst: 2.4,
	models.Market3PTM:   2.1,
	models.MarketBLK:    2.3,
	models.MarketSTL:    2.5,
}

const defaultOdds = 1.9

// EstimateOdds returns the flat decimal odds used for a market.
func EstimateOdds(m models.Market) float64 {
	if o, ok := marketOdds[m]; ok {
		return o
	}
	return defaultOdds
}

// BuildDailyMultiple assembles the conservative and aggressive tickets from
// every composed game of a slate. The aggressive ticket never reuses a
// player from the conservative one.
func (e *Engine) BuildDailyMultiple(date string, comps []models.Composition) models.DailyMultiple {
	var recs []models.Recommendation
	for _, c := range comps {
		recs = append(recs, c.All()...)
	}

	conservative := e.BuildTicket(e.cfg.Tickets.Conservative, recs, nil)
	taken := make(map[string]bool, len(conservative.Legs))
	for _, l := range conservative.Legs {
		taken[l.Key()] = true
	}
	aggressive := e.BuildTicket(e.cfg.Tickets.Aggressive, recs, taken)

	e.logger.WithFields(logrus.Fields{
		"date":              date,
		"games":             len(comps),
		"conservative_legs": len(conservative.Legs),
		"aggressive_legs":   len(aggressive.Legs),
	}).Info("Built daily multiple")

	return models.DailyMultiple{
		Date:         date,
		Conservative: conservative,
		Aggressive:   aggressive,
		GeneratedAt:  time.Now(),
	}
}

// BuildTicket selects legs greedily by score, then removes legs until no
// critical violation remains. A ticket that ends below MinLegs is empty.
func (e *Engine) BuildTicket(cfg TicketConfig, recs []models.Recommendation, exclude map[string]bool) models.Ticket {
	ticket := models.Ticket{Kind: cfg.Kind}

	var pool []models.Recommendation
	for _, r := range recs {
		if containsBucket(cfg.Sources, r.Bucket) && !exclude[r.Key()] {
			pool = append(pool, r)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Score() > pool[j].Score()
	})

	var legs []models.Recommendation
	players := make(map[string]bool)
	teams := make(map[string]int)
	for _, r := range pool {
		if len(legs) >= cfg.MaxLegs {
			break
		}
		if players[r.Key()] || teams[r.Team] >= cfg.MaxPerTeam {
			continue
		}
		legs = append(legs, r)
		players[r.Key()] = true
		teams[r.Team]++
	}

	legs, removed := resolveCritical(legs, cfg.Rules)
	ticket.Removed = removed

	if len(legs) < cfg.MinLegs {
		ticket.Removed = append(ticket.Removed, legs...)
		e.logger.WithFields(logrus.Fields{
			"kind":     cfg.Kind,
			"legs":     len(legs),
			"min_legs": cfg.MinLegs,
		}).Debug("Not enough legs for ticket")
		return ticket
	}

	ticket.Legs = legs
	ticket.Violations = ValidateTicket(legs, cfg.Rules)
	ticket.CombinedOdds = CombinedOdds(legs)
	ticket.DiversityBonus = DiversityBonus(legs)
	ticket.AverageConfidence = averageScore(legs)
	return ticket
}

// resolveCritical drops the lowest-scored leg of the ticket while any
// critical violation remains, re-validating after each removal. The loop is
// capped at the initial ticket size.
func resolveCritical(legs []models.Recommendation, rules ValidationRules) (kept, removed []models.Recommendation) {
	kept = append([]models.Recommendation(nil), legs...)
	for pass, limit := 0, len(kept); pass < limit && len(kept) > 0; pass++ {
		if !hasCriticalViolation(ValidateTicket(kept, rules)) {
			break
		}

		weakest := 0
		for i := 1; i < len(kept); i++ {
			if kept[i].Score() < kept[weakest].Score() {
				weakest = i
			}
		}
		removed = append(removed, kept[weakest])
		kept = append(kept[:weakest], kept[weakest+1:]...)
	}
	return kept, removed
}

func hasCriticalViolation(vs []models.Violation) bool {
	for _, v := range vs {
		if v.Severity == models.SeverityCritical {
			return true
		}
	}
	return false
}

// CombinedOdds multiplies the per-market odds of every leg.
func CombinedOdds(legs []models.Recommendation) float64 {
	if len(legs) == 0 {
		return 0
	}
	odds := 1.0
	for _, l := range legs {
		odds *= EstimateOdds(l.Market)
	}
	return models.Round(odds, 2)
}

// DiversityBonus rewards tickets spread over teams and roles, capped at 1.2.
func DiversityBonus(legs []models.Recommendation) float64 {
	teams := make(map[string]bool)
	roles := make(map[models.RotationRole]bool)
	for _, l := range legs {
		teams[l.Team] = true
		roles[l.RotationRole] = true
	}

	bonus := 1.0
	if len(teams) >= 2 {
		bonus *= 1.05
	}
	if len(teams) >= 3 {
		bonus *= 1.05
	}
	switch {
	case len(roles) >= 3:
		bonus *= 1.08
	case len(roles) >= 2:
		bonus *= 1.03
	}
	if bonus > 1.2 {
		bonus = 1.2
	}
	return models.Round(bonus, 3)
}

func averageScore(legs []models.Recommendation) float64 {
	if len(legs) == 0 {
		return 0
	}
	sum := 0.0
	for _, l := range legs {
		sum += l.Score()
	}
	return models.Round(sum/float64(len(legs)), 3)
}

func containsBucket(list []models.Bucket, b models.Bucket) bool {
	for _, v := range list {
		if v == b {
			return true
		}
	}
	return false
}
