package models

// RosterEntry is the roster/injury collaborator record for one player.
type RosterEntry struct {
	PlayerID  string `json:"player_id"`
	Name      string `json:"name"`
	Team      string `json:"team"`
	Position  string `json:"position"`
	IsStarter bool   `json:"is_starter"`
	Status    string `json:"status"`
	Tags      Tags   `json:"tags,omitempty"`
}

// Key matches PlayerContext.Key for the same player.
func (r RosterEntry) Key() string {
	if r.PlayerID != "" {
		return r.PlayerID
	}
	return r.Team + ":" + r.Name
}

// SeasonAverages holds full-season per-game numbers.
type SeasonAverages struct {
	Points   float64 `json:"points"`
	Rebounds float64 `json:"rebounds"`
	Assists  float64 `json:"assists"`
	Minutes  float64 `json:"minutes"`
}

func (s SeasonAverages) PRA() float64 { return s.Points + s.Rebounds + s.Assists }

// RecentStats is the nullable recent-performance record (5-game window).
// Zero CV values mean "not measured" and are read as 1.0 by the builder.
type RecentStats struct {
	GamesPlayed       int                 `json:"games_played"`
	MinutesAvg        float64             `json:"minutes_avg"`
	PointsAvg         float64             `json:"points_avg"`
	ReboundsAvg       float64             `json:"rebounds_avg"`
	AssistsAvg        float64             `json:"assists_avg"`
	CombinedAvg       float64             `json:"combined_avg"`
	LastMinutes       float64             `json:"last_minutes"`
	PointsCV          *float64            `json:"points_cv,omitempty"`
	ReboundsCV        *float64            `json:"rebounds_cv,omitempty"`
	AssistsCV         *float64            `json:"assists_cv,omitempty"`
	MinutesCV         *float64            `json:"minutes_cv,omitempty"`
	SeasonsExperience *int                `json:"seasons_experience,omitempty"`
	Season            *SeasonAverages     `json:"season,omitempty"`
	UsageRate         float64             `json:"usage_rate,omitempty"`
	AssistPct         float64             `json:"assist_pct,omitempty"`
	HitRate90         map[StatKey]float64 `json:"hit_rate_90,omitempty"`
	RecentTrend       float64             `json:"recent_trend,omitempty"`
}

// RecentWindow is the rolling 5-game view stored on a PlayerContext.
type RecentWindow struct {
	Points      float64 `json:"pts_l5"`
	Rebounds    float64 `json:"reb_l5"`
	Assists     float64 `json:"ast_l5"`
	PRA         float64 `json:"pra_l5"`
	Minutes     float64 `json:"min_l5"`
	LastMinutes float64 `json:"last_min"`
	PointsCV    float64 `json:"pts_cv"`
	ReboundsCV  float64 `json:"reb_cv"`
	AssistsCV   float64 `json:"ast_cv"`
	MinutesCV   float64 `json:"min_cv"`
}

// Scale multiplies the volume stats by factor, rounding to one decimal.
func (w RecentWindow) Scale(factor float64) RecentWindow {
	w.Points = Round(w.Points*factor, 1)
	w.Rebounds = Round(w.Rebounds*factor, 1)
	w.Assists = Round(w.Assists*factor, 1)
	w.PRA = Round(w.PRA*factor, 1)
	return w
}

func (w RecentWindow) Stat(key StatKey) float64 {
	switch key {
	case StatPoints:
		return w.Points
	case StatRebounds:
		return w.Rebounds
	case StatAssists:
		return w.Assists
	case StatPRA:
		return w.PRA
	}
	return 0
}

// DvPMultipliers default to 1.0 (neutral) when no matchup data exists.
type DvPMultipliers struct {
	Points   float64 `json:"points"`
	Rebounds float64 `json:"rebounds"`
	Assists  float64 `json:"assists"`
}

func NeutralDvP() DvPMultipliers {
	return DvPMultipliers{Points: 1.0, Rebounds: 1.0, Assists: 1.0}
}

func (d DvPMultipliers) For(key StatKey) float64 {
	switch key {
	case StatPoints:
		return d.Points
	case StatRebounds:
		return d.Rebounds
	case StatAssists:
		return d.Assists
	case StatPRA:
		return (d.Points + d.Rebounds + d.Assists) / 3
	}
	return 1.0
}

type MetricMatchup struct {
	Rank       int         `json:"rank"`
	Tier       MatchupTier `json:"tier"`
	Multiplier float64     `json:"multiplier"`
}

// MatchupAnalysis is the opponent's defense-vs-position profile for one player.
type MatchupAnalysis struct {
	Opponent string                   `json:"opponent"`
	Position Position                 `json:"position"`
	Metrics  map[Metric]MetricMatchup `json:"metrics"`
	Overall  float64                  `json:"overall"`
}

type PaceAdjustment struct {
	GamePace float64      `json:"game_pace"`
	Factor   float64      `json:"factor"`
	Category PaceCategory `json:"category"`
	Original RecentWindow `json:"original"`
}

type VacuumBoost struct {
	Active   bool    `json:"active"`
	Factor   float64 `json:"factor"`
	Reason   string  `json:"reason"`
	Replaces string  `json:"replaces"`
}

type RotationInfo struct {
	Role             RotationRole `json:"role"`
	Confidence       float64      `json:"confidence"`
	ProjectedMinutes float64      `json:"projected_minutes"`
	Source           string       `json:"source"`
	SamePositionOut  int          `json:"same_position_out"`
	LineupShock      bool         `json:"lineup_shock"`
}

// LineupSignal is an optional projected-lineup hint for one player.
type LineupSignal struct {
	Role       RotationRole `json:"role"`
	AvgMinutes float64      `json:"avg_minutes"`
	Confidence float64      `json:"confidence"`
}

// PlayerContext is the per-player, per-game feature record.
type PlayerContext struct {
	PlayerID  string   `json:"player_id"`
	Name      string   `json:"name"`
	Team      string   `json:"team"`
	Opponent  string   `json:"opponent,omitempty"`
	Position  Position `json:"position"`
	IsStarter bool     `json:"is_starter"`
	IsHome    bool     `json:"is_home"`
	Status    string   `json:"status"`

	Role            Role         `json:"role"`
	Style           Style        `json:"style"`
	Availability    Availability `json:"availability"`
	ExpectedMinutes float64      `json:"expected_minutes"`

	Recent             RecentWindow    `json:"recent"`
	Season             *SeasonAverages `json:"season,omitempty"`
	UsageTier          Tier            `json:"usage_tier"`
	Volatility         Tier            `json:"volatility"`
	GarbageTimeProfile Tier            `json:"garbage_time_profile"`
	Experience         int             `json:"experience"`
	GamesPlayed        int             `json:"games_played"`
	UsageRate          float64         `json:"usage_rate"`
	AssistPct          float64         `json:"assist_pct"`
	RecentTrend        float64         `json:"recent_trend"`
	Tags               Tags            `json:"tags"`

	DvP       DvPMultipliers      `json:"dvp"`
	Matchup   *MatchupAnalysis    `json:"matchup,omitempty"`
	HitRate90 map[StatKey]float64 `json:"hit_rate_90,omitempty"`

	Pace     *PaceAdjustment     `json:"pace,omitempty"`
	Vacuum   *VacuumBoost        `json:"vacuum,omitempty"`
	Rotation *RotationInfo       `json:"rotation,omitempty"`
	Ceilings map[StatKey]float64 `json:"ceilings,omitempty"`

	// Degraded marks a minimal context produced from malformed input.
	Degraded bool `json:"degraded,omitempty"`
}

func (p PlayerContext) IsOut() bool { return p.Availability == AvailabilityOut }

// RotationRole returns the enhancer-inferred role, if any.
func (p PlayerContext) RotationRole() (RotationRole, bool) {
	if p.Rotation == nil || p.Rotation.Role == "" {
		return "", false
	}
	return p.Rotation.Role, true
}

// GamePace is the pace the player's game is expected to run at: the pace
// enhancer's estimate, then the game's quoted pace, then league average.
func (p PlayerContext) GamePace(g GameContext) float64 {
	if p.Pace != nil && p.Pace.GamePace > 0 {
		return p.Pace.GamePace
	}
	if g.Pace > 0 {
		return g.Pace
	}
	return LeagueAveragePace
}

// Key identifies a player within a slate.
func (p PlayerContext) Key() string {
	if p.PlayerID != "" {
		return p.PlayerID
	}
	return p.Team + ":" + p.Name
}

// InjuryReport is one team-sheet line from the injury collaborator.
type InjuryReport struct {
	Name    string `json:"name"`
	NameKey string `json:"name_key"`
	Team    string `json:"team"`
	Status  string `json:"status"`
	Details string `json:"details,omitempty"`
	Date    string `json:"date,omitempty"`
}
