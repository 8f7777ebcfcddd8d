// Package pipeline wires the context builder, enhancers, thesis engine and
// strategy engine into a single per-game composition.
package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/courtside/internal/enhancers"
	"github.com/stitts-dev/courtside/internal/metrics"
	"github.com/stitts-dev/courtside/internal/models"
	"github.com/stitts-dev/courtside/internal/playerctx"
	"github.com/stitts-dev/courtside/internal/strategy"
	"github.com/stitts-dev/courtside/internal/thesis"
)

type Options struct {
	Context     playerctx.Options
	Enhancers   enhancers.Options
	PaceRatings map[string]float64
	Thesis      thesis.Config
	Strategy    strategy.Config
}

func DefaultOptions() Options {
	return Options{
		Enhancers: enhancers.AllEnabled(),
		Thesis:    thesis.DefaultConfig(),
		Strategy:  strategy.DefaultConfig(),
	}
}

// Composer is safe for concurrent use; every stage it holds is either
// stateless or keeps its state per call.
type Composer struct {
	builder  *playerctx.Builder
	pace     *enhancers.PaceAdjuster
	enhance  *enhancers.Pipeline
	theses   *thesis.Engine
	strategy *strategy.Engine
	metrics  *metrics.Registry
	logger   *logrus.Entry
}

// New builds a composer. analyzer may be nil.
func New(opts Options, analyzer playerctx.MatchupAnalyzer, logger *logrus.Logger) *Composer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	pace := enhancers.NewPaceAdjuster(opts.PaceRatings)
	return &Composer{
		builder:  playerctx.NewBuilder(opts.Context, analyzer, logger),
		pace:     pace,
		enhance:  enhancers.NewPipeline(opts.Enhancers, pace),
		theses:   thesis.NewEngine(opts.Thesis, logger),
		strategy: strategy.NewEngine(opts.Strategy, logger),
		logger:   logger.WithField("component", "composer"),
	}
}

func (c *Composer) Strategy() *strategy.Engine { return c.strategy }

// WithMetrics returns a copy of c that records to m; nil detaches it. The
// receiver is left unchanged.
func (c *Composer) WithMetrics(m *metrics.Registry) *Composer {
	cp := *c
	cp.metrics = m
	return &cp
}

// Contexts builds and enhances a context for every rostered player.
func (c *Composer) Contexts(gs models.GameSlate) []models.PlayerContext {
	game := gs.Game
	players := make([]models.PlayerContext, 0, len(gs.Roster))
	for _, entry := range gs.Roster {
		var stats *models.RecentStats
		if s, ok := gs.Stats[entry.Key()]; ok {
			stats = &s
		}
		opponent := game.OpponentOf(entry.Team)
		players = append(players, c.builder.Build(entry, stats,
			c.teamContext(entry.Team, game),
			c.teamContext(opponent, game),
		))
	}
	return c.enhance.Enhance(players, game, gs.LineupSignals)
}

func (c *Composer) teamContext(team string, game models.GameContext) models.TeamContext {
	if team == "" {
		return models.TeamContext{}
	}
	return models.TeamContext{
		Team:   team,
		Pace:   c.pace.TeamPace(team),
		IsHome: team == game.HomeTeam,
	}
}

// ComposeGame runs the full pipeline for one game. A panic in any stage is
// contained to this game: the result has empty buckets and Error set.
func (c *Composer) ComposeGame(gs models.GameSlate) (comp models.Composition) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			c.logger.WithFields(logrus.Fields{
				"game_id": gs.Game.GameID,
				"panic":   r,
			}).Error("Game pipeline failed, returning empty buckets")
			comp = c.strategy.Failed(gs.Game, fmt.Sprintf("pipeline failed: %v", r))
			comp.ID = uuid.New().String()
			c.metrics.ObserveComposition(comp, time.Since(start))
		}
	}()

	players := c.Contexts(gs)
	theses := c.theses.GenerateAll(players, gs.Game)
	c.metrics.ObserveTheses(theses)

	comp = c.strategy.Compose(gs.Game, theses, players)
	comp.ID = uuid.New().String()
	comp.Contexts = players
	c.metrics.ObserveComposition(comp, time.Since(start))

	c.logger.WithFields(logrus.Fields{
		"game_id": gs.Game.GameID,
		"players": len(players),
		"theses":  len(theses),
		"picks":   len(comp.All()),
	}).Info("Composed game")

	return comp
}

// ComposeSlate composes every game in order.
func (c *Composer) ComposeSlate(slate models.Slate) []models.Composition {
	out := make([]models.Composition, 0, len(slate.Games))
	for _, gs := range slate.Games {
		out = append(out, c.ComposeGame(gs))
	}
	return out
}

// DailyMultiple composes a slate and assembles its two tickets.
func (c *Composer) DailyMultiple(slate models.Slate) (models.DailyMultiple, []models.Composition) {
	comps := c.ComposeSlate(slate)
	return c.AssembleMultiple(slate.Date, comps), comps
}

// AssembleMultiple builds the two daily tickets from composed games.
func (c *Composer) AssembleMultiple(date string, comps []models.Composition) models.DailyMultiple {
	dm := c.strategy.BuildDailyMultiple(date, comps)
	dm.ID = uuid.New().String()
	c.metrics.ObserveMultiple(dm)
	return dm
}
