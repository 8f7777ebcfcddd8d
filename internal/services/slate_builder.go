package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/courtside/internal/models"
	"github.com/stitts-dev/courtside/internal/providers"
)

const startersPerTeam = 5

type ScheduleSource interface {
	Scoreboard(ctx context.Context, date string) ([]models.GameContext, error)
}

type RosterSource interface {
	TeamRoster(ctx context.Context, team string) ([]models.RosterEntry, error)
}

type StatsSource interface {
	RecentStats(ctx context.Context, name, team string, season int) (models.RecentStats, error)
}

// ErrNoGamesBuilt is returned when games were scheduled but none could be
// assembled.
var ErrNoGamesBuilt = errors.New("no games could be assembled")

type SlateBuilderOptions struct {
	// MaxStatsPerTeam bounds game-log lookups per roster; zero means no limit.
	MaxStatsPerTeam int
	SlateTTL        time.Duration
}

// SlateBuilder assembles a day's models.Slate from the schedule, roster,
// injury and game-log collaborators.
type SlateBuilder struct {
	schedule ScheduleSource
	rosters  RosterSource
	stats    StatsSource
	injuries *InjuryMonitor
	breaker  *CircuitBreakerService
	cache    providers.Cache
	opts     SlateBuilderOptions
	logger   *logrus.Logger
}

// NewSlateBuilder wires the collaborators. stats, injuries, breaker and cache
// may be nil.
func NewSlateBuilder(schedule ScheduleSource, rosters RosterSource, stats StatsSource, injuries *InjuryMonitor, breaker *CircuitBreakerService, cache providers.Cache, opts SlateBuilderOptions, logger *logrus.Logger) *SlateBuilder {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SlateBuilder{
		schedule: schedule,
		rosters:  rosters,
		stats:    stats,
		injuries: injuries,
		breaker:  breaker,
		cache:    cache,
		opts:     opts,
		logger:   logger,
	}
}

// Build returns the slate for day. Games whose rosters cannot be fetched are
// skipped; missing game logs leave a player on builder defaults.
func (b *SlateBuilder) Build(ctx context.Context, day time.Time) (models.Slate, error) {
	date := day.Format("2006-01-02")
	if b.cache != nil {
		var cached models.Slate
		if err := b.cache.Get(ctx, SlateCacheKey(date), &cached); err == nil {
			return cached, nil
		}
	}

	var games []models.GameContext
	err := b.guard(UpstreamESPN, func() error {
		var err error
		games, err = b.schedule.Scoreboard(ctx, day.Format("20060102"))
		return err
	})
	if err != nil {
		return models.Slate{}, fmt.Errorf("failed to load schedule for %s: %w", date, err)
	}

	slate := models.Slate{Date: date, Games: make([]models.GameSlate, 0, len(games))}
	season := providers.CurrentSeason(day)

	for _, game := range games {
		if err := ctx.Err(); err != nil {
			return models.Slate{}, err
		}
		gs, err := b.buildGame(ctx, game, season)
		if err != nil {
			b.logger.WithFields(logrus.Fields{
				"game_id": game.GameID,
				"home":    game.HomeTeam,
				"away":    game.AwayTeam,
				"error":   err,
			}).Warn("Skipping game")
			continue
		}
		slate.Games = append(slate.Games, gs)
	}

	if len(games) > 0 && len(slate.Games) == 0 {
		return models.Slate{}, ErrNoGamesBuilt
	}

	b.logger.WithFields(logrus.Fields{
		"date":  date,
		"games": len(slate.Games),
	}).Info("Built slate")

	if b.cache != nil && b.opts.SlateTTL > 0 {
		if err := b.cache.Set(ctx, SlateCacheKey(date), slate, b.opts.SlateTTL); err != nil {
			b.logger.WithError(err).Warn("Failed to cache slate")
		}
	}
	return slate, nil
}

func (b *SlateBuilder) buildGame(ctx context.Context, game models.GameContext, season int) (models.GameSlate, error) {
	gs := models.GameSlate{
		Game:  game,
		Stats: make(map[string]models.RecentStats),
	}

	for _, team := range []string{game.HomeTeam, game.AwayTeam} {
		var roster []models.RosterEntry
		err := b.guard(UpstreamESPN, func() error {
			var err error
			roster, err = b.rosters.TeamRoster(ctx, team)
			return err
		})
		if err != nil {
			return models.GameSlate{}, fmt.Errorf("roster %s: %w", team, err)
		}

		for i := range roster {
			if roster[i].Team == "" {
				roster[i].Team = team
			}
			if b.injuries != nil {
				if status, ok := b.injuries.Status(ctx, roster[i].Name, team); ok {
					roster[i].Status = status
				}
			}
		}

		b.loadStats(ctx, roster, season, gs.Stats)
		markStarters(roster, gs.Stats)
		gs.Roster = append(gs.Roster, roster...)
	}
	return gs, nil
}

func (b *SlateBuilder) loadStats(ctx context.Context, roster []models.RosterEntry, season int, into map[string]models.RecentStats) {
	if b.stats == nil {
		return
	}
	fetched := 0
	for _, entry := range roster {
		if b.opts.MaxStatsPerTeam > 0 && fetched >= b.opts.MaxStatsPerTeam {
			return
		}
		if ctx.Err() != nil {
			return
		}
		fetched++

		var stats models.RecentStats
		err := b.guard(UpstreamBallDontLie, func() error {
			var err error
			stats, err = b.stats.RecentStats(ctx, entry.Name, entry.Team, season)
			return err
		})
		if err != nil {
			b.logger.WithFields(logrus.Fields{
				"player": entry.Name,
				"team":   entry.Team,
				"error":  err,
			}).Debug("No recent stats")
			continue
		}
		into[entry.Key()] = stats
	}
}

func (b *SlateBuilder) guard(upstream string, fn func() error) error {
	if b.breaker == nil {
		return fn()
	}
	return b.breaker.Guard(upstream, fn)
}

// markStarters flags the five players with the most recent minutes when the
// roster carries no starter information. Injured players are ranked too so an
// absent starter still registers as one.
func markStarters(roster []models.RosterEntry, stats map[string]models.RecentStats) {
	for _, e := range roster {
		if e.IsStarter {
			return
		}
	}

	idx := make([]int, 0, len(roster))
	for i, e := range roster {
		if s, ok := stats[e.Key()]; ok && s.MinutesAvg > 0 {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, c int) bool {
		return stats[roster[idx[a]].Key()].MinutesAvg > stats[roster[idx[c]].Key()].MinutesAvg
	})
	for n, i := range idx {
		if n >= startersPerTeam {
			break
		}
		roster[i].IsStarter = true
	}
}
