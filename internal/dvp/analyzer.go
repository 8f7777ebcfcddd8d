// Package dvp ranks opposing defenses by what they allow to each position.
package dvp

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/stitts-dev/courtside/internal/models"
)

// DefaultRank is returned for teams missing from the table.
const DefaultRank = 15

var ErrUnknownPosition = errors.New("unknown position")

// Allowed is the per-game production a defense gives up to one position.
type Allowed struct {
	Points   float64 `json:"points"`
	Rebounds float64 `json:"rebounds"`
	Assists  float64 `json:"assists"`
}

func (a Allowed) value(m models.Metric) float64 {
	switch m {
	case models.MetricRebounds:
		return a.Rebounds
	case models.MetricAssists:
		return a.Assists
	}
	return a.Points
}

// Table maps team abbreviation to position to allowed production.
type Table map[string]map[models.Position]Allowed

// defaultAllowed fills positions absent from a team's row.
var defaultAllowed = map[models.Position]Allowed{
	models.PositionPG: {Points: 25.0, Rebounds: 5.0, Assists: 8.0},
	models.PositionSG: {Points: 24.0, Rebounds: 6.0, Assists: 4.0},
	models.PositionSF: {Points: 23.0, Rebounds: 7.0, Assists: 3.0},
	models.PositionPF: {Points: 22.0, Rebounds: 9.0, Assists: 2.5},
	models.PositionC:  {Points: 21.0, Rebounds: 12.0, Assists: 2.0},
}

// FallbackTable is used until a fresh table is loaded.
func FallbackTable() Table {
	return Table{
		"ATL": {
			models.PositionPG: {26.3, 5.2, 8.7},
			models.PositionSG: {25.1, 6.3, 4.5},
			models.PositionSF: {24.8, 7.4, 3.8},
			models.PositionPF: {23.5, 9.2, 2.9},
			models.PositionC:  {22.1, 12.8, 2.4},
		},
		"LAL": {
			models.PositionPG: {25.9, 5.4, 8.5},
			models.PositionSG: {24.7, 6.4, 4.3},
			models.PositionSF: {24.1, 7.6, 3.6},
			models.PositionPF: {22.8, 9.3, 2.7},
			models.PositionC:  {21.5, 12.3, 2.2},
		},
		"GSW": {
			models.PositionPG: {27.5, 5.8, 9.3},
			models.PositionSG: {26.2, 6.7, 4.9},
			models.PositionSF: {25.6, 7.9, 4.1},
			models.PositionPF: {24.3, 9.8, 3.2},
			models.PositionC:  {23.8, 13.5, 2.7},
		},
	}
}

// Analyzer answers defense-vs-position lookups. Safe for concurrent use.
type Analyzer struct {
	mu    sync.RWMutex
	table Table
}

func NewAnalyzer(table Table) *Analyzer {
	if len(table) == 0 {
		table = FallbackTable()
	}
	return &Analyzer{table: table}
}

// Load replaces the table. Empty tables are ignored.
func (a *Analyzer) Load(table Table) {
	if len(table) == 0 {
		return
	}
	a.mu.Lock()
	a.table = table
	a.mu.Unlock()
}

func (a *Analyzer) Teams() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.table)
}

// NormalizeMetric maps box-score shorthands onto the three ranked metrics.
func NormalizeMetric(raw string) models.Metric {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "reb", "rebounds", "blk":
		return models.MetricRebounds
	case "ast", "assists", "stl", "to":
		return models.MetricAssists
	}
	return models.MetricPoints
}

// RankAndTier ranks team among all teams by allowed value, descending, so
// rank 1 is the softest defense.
func (a *Analyzer) RankAndTier(team string, position models.Position, metric models.Metric) (int, models.MatchupTier) {
	rank := a.rank(team, position, metric)
	return rank, TierForRank(rank)
}

func (a *Analyzer) rank(team string, position models.Position, metric models.Metric) int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if _, ok := a.table[team]; !ok {
		return DefaultRank
	}

	type entry struct {
		team  string
		value float64
	}
	values := make([]entry, 0, len(a.table))
	for t, row := range a.table {
		allowed, ok := row[position]
		if !ok {
			allowed = defaultAllowed[position]
		}
		values = append(values, entry{team: t, value: allowed.value(metric)})
	}
	sort.Slice(values, func(i, j int) bool {
		if values[i].value != values[j].value {
			return values[i].value > values[j].value
		}
		return values[i].team < values[j].team
	})

	for i, e := range values {
		if e.team == team {
			return i + 1
		}
	}
	return DefaultRank
}

// MultiplierForRank turns a rank into a stat multiplier.
func MultiplierForRank(rank int) float64 {
	switch {
	case rank <= 5:
		return 1.15
	case rank <= 10:
		return 1.08
	case rank >= 25:
		return 0.85
	case rank >= 20:
		return 0.92
	}
	return 1.0
}

func TierForRank(rank int) models.MatchupTier {
	switch {
	case rank <= 5:
		return models.MatchupVeryFavorable
	case rank <= 10:
		return models.MatchupFavorable
	case rank <= 20:
		return models.MatchupNeutral
	case rank <= 25:
		return models.MatchupUnfavorable
	}
	return models.MatchupVeryUnfavorable
}

// Multiplier is the combined lookup for one stat shorthand.
func (a *Analyzer) Multiplier(opponent string, position models.Position, stat string) float64 {
	if opponent == "" || position == models.PositionUnknown {
		return 1.0
	}
	return MultiplierForRank(a.rank(opponent, position, NormalizeMetric(stat)))
}

var overallStats = []string{"pts", "reb", "ast", "stl", "blk", "to"}

// Analyze builds the full matchup profile for a player facing opponent.
func (a *Analyzer) Analyze(opponent string, position models.Position) (models.MatchupAnalysis, error) {
	if opponent == "" {
		return models.MatchupAnalysis{}, fmt.Errorf("dvp: opponent required")
	}
	if position == models.PositionUnknown {
		return models.MatchupAnalysis{}, fmt.Errorf("dvp %s: %w", opponent, ErrUnknownPosition)
	}

	analysis := models.MatchupAnalysis{
		Opponent: opponent,
		Position: position,
		Metrics:  make(map[models.Metric]models.MetricMatchup, 3),
	}
	for _, m := range []models.Metric{models.MetricPoints, models.MetricRebounds, models.MetricAssists} {
		rank, tier := a.RankAndTier(opponent, position, m)
		analysis.Metrics[m] = models.MetricMatchup{Rank: rank, Tier: tier, Multiplier: MultiplierForRank(rank)}
	}

	var sum float64
	for _, stat := range overallStats {
		sum += analysis.Metrics[NormalizeMetric(stat)].Multiplier
	}
	analysis.Overall = models.Round(sum/float64(len(overallStats)), 3)

	return analysis, nil
}
