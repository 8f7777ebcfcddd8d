// Package strategy allocates theses into recommendation buckets and
// assembles daily multiples.
package strategy

import (
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/courtside/internal/models"
)

// Engine holds configuration only. Selection state lives in each call, so
// one Engine may compose many games concurrently.
type Engine struct {
	cfg      Config
	identify func([]models.Recommendation, models.GameContext) models.StrategyKind
	logger   *logrus.Entry
}

func NewEngine(cfg Config, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Engine{
		cfg:      cfg,
		identify: IdentifyStrategy,
		logger:   logger.WithField("component", "strategy_engine"),
	}
}

func (e *Engine) Config() Config { return e.cfg }

// Compose fills the four buckets for one game. players supplies status and
// pace for the theses' owners and may be nil. A panic anywhere in
// composition yields empty buckets with Error set.
func (e *Engine) Compose(game models.GameContext, theses []models.Thesis, players []models.PlayerContext) (comp models.Composition) {
	comp = models.Composition{
		Game:        game,
		ThesisCount: len(theses),
		ComposedAt:  time.Now(),
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.WithFields(logrus.Fields{
				"game_id": game.GameID,
				"panic":   r,
			}).Error("Composition failed, returning empty buckets")
			failed := e.Failed(game, fmt.Sprintf("composition failed: %v", r))
			comp.Buckets, comp.Error = failed.Buckets, failed.Error
		}
	}()

	for _, t := range theses {
		if t.IsRisk {
			comp.Risks = append(comp.Risks, t)
		}
	}

	byKey := make(map[string]models.PlayerContext, len(players))
	for _, p := range players {
		byKey[p.Key()] = p
	}

	pools := e.Categorize(theses)
	sel := newSelection()
	for _, bc := range e.cfg.Buckets {
		recs := e.selectBucket(sel, bc, pools[bc.Bucket], game, byKey)
		comp.Buckets = append(comp.Buckets, models.BucketSelection{Bucket: bc.Bucket, Recommendations: recs})
	}

	dedupeAcrossBuckets(comp.Buckets)

	for i := range comp.Buckets {
		e.annotate(&comp.Buckets[i], game)
	}

	e.logger.WithFields(logrus.Fields{
		"game_id": game.GameID,
		"theses":  len(theses),
		"picks":   len(comp.All()),
	}).Debug("Composed game")

	return comp
}

// selectBucket greedily accepts the best eligible candidates for one bucket.
func (e *Engine) selectBucket(sel *selection, bc BucketConfig, candidates []models.Thesis, game models.GameContext, players map[string]models.PlayerContext) []models.Recommendation {
	type scored struct {
		thesis   models.Thesis
		priority float64
	}

	eligible := make([]scored, 0, len(candidates))
	for _, t := range candidates {
		if sel.used(t.Key()) {
			continue
		}
		if t.Confidence < bc.MinConfidence || !bc.allowsRole(t.RotationRole) || !bc.allowsMarket(t.Market) {
			continue
		}
		boost := 1.0
		if bc.isPriority(t.Type) {
			boost = e.cfg.PriorityBoost
		}
		eligible = append(eligible, scored{thesis: t, priority: t.Confidence * boost})
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].priority > eligible[j].priority
	})

	var picks []models.Recommendation
	profiles := make(map[string]int)
	for _, c := range eligible {
		if len(picks) >= bc.Capacity {
			break
		}
		t := c.thesis
		if sel.used(t.Key()) {
			continue
		}
		profile := string(t.RotationRole) + "|" + string(t.Market)
		if e.cfg.ProfileCap > 0 && profiles[profile] >= e.cfg.ProfileCap {
			continue
		}

		sel.add(t)
		profiles[profile]++

		rec := newRecommendation(t, bc.Bucket, game, players[t.Key()])
		rec.PriorityScore = models.Round(c.priority, 3)
		sel.adjust(&rec, game, e.cfg.Correlation)
		picks = append(picks, rec)
	}
	return picks
}

func newRecommendation(t models.Thesis, b models.Bucket, game models.GameContext, ctx models.PlayerContext) models.Recommendation {
	return models.Recommendation{
		Thesis:             t,
		GameID:             game.GameID,
		Status:             ctx.Status,
		Bucket:             b,
		AdjustedConfidence: t.Confidence,
		Spread:             game.SpreadFor(t.Team),
		Total:              game.Total,
		GamePace:           ctx.GamePace(game),
	}
}

// dedupeAcrossBuckets keeps each player only in the bucket where it scored
// highest. Ties keep the earlier bucket.
func dedupeAcrossBuckets(buckets []models.BucketSelection) {
	type owner struct {
		bucket int
		score  float64
	}
	owners := make(map[string]owner)
	drop := make(map[int]map[string]bool)
	mark := func(bucket int, key string) {
		if drop[bucket] == nil {
			drop[bucket] = make(map[string]bool)
		}
		drop[bucket][key] = true
	}

	for i, b := range buckets {
		for _, rec := range b.Recommendations {
			key := rec.Key()
			prev, seen := owners[key]
			switch {
			case !seen:
				owners[key] = owner{bucket: i, score: rec.Score()}
			case rec.Score() > prev.score:
				mark(prev.bucket, key)
				owners[key] = owner{bucket: i, score: rec.Score()}
			default:
				mark(i, key)
			}
		}
	}

	for i, keys := range drop {
		kept := buckets[i].Recommendations[:0]
		for _, rec := range buckets[i].Recommendations {
			if !keys[rec.Key()] {
				kept = append(kept, rec)
			}
		}
		buckets[i].Recommendations = kept
	}
}

func (e *Engine) annotate(b *models.BucketSelection, game models.GameContext) {
	b.Strategy = e.identify(b.Recommendations, game)
	b.StrategyDescription = StrategyDescriptions[b.Strategy]
	for i := range b.Recommendations {
		b.Recommendations[i].IdentifiedStrategy = string(b.Strategy)
	}
}

// Failed returns the composition reported when a game cannot be composed:
// every configured bucket present and empty, with reason in Error.
func (e *Engine) Failed(game models.GameContext, reason string) models.Composition {
	return models.Composition{
		Game:       game,
		Buckets:    emptyBuckets(e.cfg.Buckets),
		Error:      reason,
		ComposedAt: time.Now(),
	}
}

func emptyBuckets(cfgs []BucketConfig) []models.BucketSelection {
	out := make([]models.BucketSelection, 0, len(cfgs))
	for _, bc := range cfgs {
		out = append(out, models.BucketSelection{
			Bucket:              bc.Bucket,
			Strategy:            models.StrategyIndividualPlay,
			StrategyDescription: StrategyDescriptions[models.StrategyIndividualPlay],
		})
	}
	return out
}
