// Package playerctx turns roster, stat and matchup inputs into PlayerContext
// records.
package playerctx

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/courtside/internal/models"
)

// UnknownExperience is recorded when seasons of experience are missing.
const UnknownExperience = 99

// MatchupAnalyzer is the defense-vs-position lookup the builder consults.
type MatchupAnalyzer interface {
	Analyze(opponent string, position models.Position) (models.MatchupAnalysis, error)
}

type Options struct {
	TreatUnknownAsAvailable bool
}

type Builder struct {
	opts     Options
	analyzer MatchupAnalyzer
	logger   *logrus.Entry
}

// NewBuilder creates a context builder. analyzer may be nil.
func NewBuilder(opts Options, analyzer MatchupAnalyzer, logger *logrus.Logger) *Builder {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Builder{
		opts:     opts,
		analyzer: analyzer,
		logger:   logger.WithField("component", "context_builder"),
	}
}

// Build never fails: malformed input degrades to a minimal context.
func (b *Builder) Build(entry models.RosterEntry, stats *models.RecentStats, team, opponent models.TeamContext) (ctx models.PlayerContext) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.WithFields(logrus.Fields{
				"player": entry.Name,
				"team":   entry.Team,
				"panic":  fmt.Sprint(r),
			}).Warn("Context build failed, using minimal context")
			ctx = Minimal(entry)
		}
	}()

	if entry.Name == "" && entry.PlayerID == "" {
		b.logger.WithField("team", entry.Team).Warn("Roster entry without identity, using minimal context")
		return Minimal(entry)
	}

	return b.build(entry, stats, team, opponent)
}

func (b *Builder) build(entry models.RosterEntry, stats *models.RecentStats, team, opponent models.TeamContext) models.PlayerContext {
	window := recentWindow(stats)
	experience := UnknownExperience
	if stats != nil && stats.SeasonsExperience != nil && *stats.SeasonsExperience >= 0 {
		experience = *stats.SeasonsExperience
	}

	teamAbbr := entry.Team
	if teamAbbr == "" {
		teamAbbr = team.Team
	}

	ctx := models.PlayerContext{
		PlayerID:    entry.PlayerID,
		Name:        entry.Name,
		Team:        teamAbbr,
		Opponent:    opponent.Team,
		Position:    resolvePosition(entry.Name, entry.Position),
		IsStarter:   entry.IsStarter,
		IsHome:      team.IsHome,
		Status:      entry.Status,
		Recent:      window,
		Experience:  experience,
		RecentTrend: 1.0,
		DvP:         models.NeutralDvP(),
	}

	ctx.Availability, ctx.ExpectedMinutes = DeriveAvailability(
		entry.Status, entry.IsStarter, window.Minutes, window.LastMinutes, b.opts.TreatUnknownAsAvailable,
	)

	ctx.UsageTier = classifyUsage(window.PRA)
	ctx.Volatility = classifyVolatility(window.PointsCV, window.MinutesCV)
	ctx.Role = classifyRole(entry.IsStarter, ctx.UsageTier)
	ctx.Style = classifyStyle(window)
	ctx.GarbageTimeProfile = classifyGarbageTime(entry.IsStarter, experience, ctx.Volatility)

	if stats != nil {
		ctx.GamesPlayed = stats.GamesPlayed
		ctx.UsageRate = finite(stats.UsageRate)
		ctx.AssistPct = finite(stats.AssistPct)
		if stats.RecentTrend > 0 {
			ctx.RecentTrend = stats.RecentTrend
		}
		if stats.Season != nil {
			season := *stats.Season
			ctx.Season = &season
		}
		if len(stats.HitRate90) > 0 {
			ctx.HitRate90 = make(map[models.StatKey]float64, len(stats.HitRate90))
			for k, v := range stats.HitRate90 {
				ctx.HitRate90[k] = v
			}
		}
	}

	if opponent.Team != "" && b.analyzer != nil {
		if analysis, err := b.analyzer.Analyze(opponent.Team, ctx.Position); err == nil {
			ctx.Matchup = &analysis
			ctx.DvP = models.DvPMultipliers{
				Points:   multiplierOr(analysis, models.MetricPoints),
				Rebounds: multiplierOr(analysis, models.MetricRebounds),
				Assists:  multiplierOr(analysis, models.MetricAssists),
			}
		} else {
			b.logger.WithError(err).WithField("player", entry.Name).Debug("No matchup data")
		}
	}

	ctx.Tags = Classify(ctx, entry.Tags)

	return ctx
}

// Minimal is the fallback context for records that could not be built.
func Minimal(entry models.RosterEntry) models.PlayerContext {
	availability := models.AvailabilityUnknown
	if IsUnavailableStatus(entry.Status) {
		availability = models.AvailabilityOut
	}
	return models.PlayerContext{
		PlayerID:           entry.PlayerID,
		Name:               entry.Name,
		Team:               entry.Team,
		Position:           models.NormalizePosition(entry.Position),
		IsStarter:          entry.IsStarter,
		Status:             entry.Status,
		Role:               models.RoleDeepBench,
		Style:              models.StyleRole,
		Availability:       availability,
		Recent:             recentWindow(nil),
		UsageTier:          models.TierLow,
		Volatility:         models.TierHigh,
		GarbageTimeProfile: models.TierLow,
		Experience:         UnknownExperience,
		RecentTrend:        1.0,
		DvP:                models.NeutralDvP(),
		Degraded:           true,
	}
}

// recentWindow applies the missing-data policy: zero averages, maximal CVs.
func recentWindow(stats *models.RecentStats) models.RecentWindow {
	if stats == nil {
		return models.RecentWindow{PointsCV: 1.0, ReboundsCV: 1.0, AssistsCV: 1.0, MinutesCV: 1.0}
	}

	pra := finite(stats.CombinedAvg)
	if pra == 0 {
		pra = finite(stats.PointsAvg) + finite(stats.ReboundsAvg) + finite(stats.AssistsAvg)
	}

	return models.RecentWindow{
		Points:      finite(stats.PointsAvg),
		Rebounds:    finite(stats.ReboundsAvg),
		Assists:     finite(stats.AssistsAvg),
		PRA:         pra,
		Minutes:     finite(stats.MinutesAvg),
		LastMinutes: finite(stats.LastMinutes),
		PointsCV:    cvOrDefault(stats.PointsCV),
		ReboundsCV:  cvOrDefault(stats.ReboundsCV),
		AssistsCV:   cvOrDefault(stats.AssistsCV),
		MinutesCV:   cvOrDefault(stats.MinutesCV),
	}
}

func cvOrDefault(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return 1.0
	}
	return *v
}

// finite zeroes NaN, infinite and negative inputs.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func multiplierOr(a models.MatchupAnalysis, m models.Metric) float64 {
	if mm, ok := a.Metrics[m]; ok && mm.Multiplier > 0 {
		return mm.Multiplier
	}
	return 1.0
}
