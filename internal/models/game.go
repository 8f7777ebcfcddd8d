package models

import (
	"math"
	"time"
)

// LeagueAveragePace is the neutral possessions-per-48 rating.
const LeagueAveragePace = 100.0

// GameContext is the immutable per-matchup input. Spread is quoted from the
// home team's perspective: negative means the home team is favored.
type GameContext struct {
	GameID    string    `json:"game_id"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	Spread    float64   `json:"spread"`
	Total     float64   `json:"total"`
	Pace      float64   `json:"pace,omitempty"`
	StartTime time.Time `json:"start_time,omitempty"`
}

func (g GameContext) AbsSpread() float64 { return math.Abs(g.Spread) }

// SpreadFor returns the spread from team's perspective.
func (g GameContext) SpreadFor(team string) float64 {
	if team == g.AwayTeam {
		return -g.Spread
	}
	return g.Spread
}

// IsUnderdog reports whether team is getting points.
func (g GameContext) IsUnderdog(team string) bool {
	return g.SpreadFor(team) > 0
}

func (g GameContext) OpponentOf(team string) string {
	switch team {
	case g.HomeTeam:
		return g.AwayTeam
	case g.AwayTeam:
		return g.HomeTeam
	}
	return ""
}

// TeamContext describes one side of a matchup for the context builder.
type TeamContext struct {
	Team   string  `json:"team"`
	Pace   float64 `json:"pace,omitempty"`
	IsHome bool    `json:"is_home"`
}

// GameSlate bundles everything needed to compose one game.
type GameSlate struct {
	Game          GameContext             `json:"game"`
	Roster        []RosterEntry           `json:"roster"`
	Stats         map[string]RecentStats  `json:"stats,omitempty"`
	LineupSignals map[string]LineupSignal `json:"lineup_signals,omitempty"`
}

// Slate is one day of games.
type Slate struct {
	Date  string      `json:"date"`
	Games []GameSlate `json:"games"`
}
