package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/courtside/internal/dvp"
	"github.com/stitts-dev/courtside/internal/models"
	"github.com/stitts-dev/courtside/internal/providers"
)

// ticketRetentionDays is how long stored tickets survive the nightly prune.
const ticketRetentionDays = 30

type SlateSource interface {
	Build(ctx context.Context, day time.Time) (models.Slate, error)
}

// DataFetcherService refreshes the day's slate and injury sheets on a
// schedule and keeps the latest composed results for the API.
type DataFetcherService struct {
	slates          SlateSource
	recommendations *RecommendationService
	injuries        *InjuryMonitor
	tickets         *TicketStore
	publisher       Publisher
	matchups        *dvp.Analyzer
	cache           providers.Cache
	ttls            CacheTTLs
	logger          *logrus.Logger
	cron            *cron.Cron
	fetchInterval   time.Duration
	now             func() time.Time

	mu            sync.Mutex
	isRunning     bool
	lastSlate     *models.Slate
	lastRefresh   time.Time
	lastPersisted string
}

// NewDataFetcherService wires the scheduled jobs. injuries, tickets,
// publisher and cache may be nil.
func NewDataFetcherService(
	slates SlateSource,
	recommendations *RecommendationService,
	injuries *InjuryMonitor,
	tickets *TicketStore,
	publisher Publisher,
	cache providers.Cache,
	ttls CacheTTLs,
	logger *logrus.Logger,
	fetchInterval time.Duration,
) *DataFetcherService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DataFetcherService{
		slates:          slates,
		recommendations: recommendations,
		injuries:        injuries,
		tickets:         tickets,
		publisher:       publisher,
		cache:           cache,
		ttls:            ttls,
		logger:          logger,
		cron:            cron.New(),
		fetchInterval:   fetchInterval,
		now:             time.Now,
	}
}

// SetDvPAnalyzer makes every refresh load a defense-vs-position table into
// a, generated from the slate's recent stats and cached for ttls.DvP. a
// should be the analyzer the composer ranks matchups with. Call before Start.
func (s *DataFetcherService) SetDvPAnalyzer(a *dvp.Analyzer) {
	s.mu.Lock()
	s.matchups = a
	s.mu.Unlock()
}

// Start begins the scheduled data fetching
func (s *DataFetcherService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("data fetcher is already running")
	}

	schedule := fmt.Sprintf("@every %s", s.fetchInterval.String())
	if _, err := s.cron.AddFunc(schedule, s.refreshSlate); err != nil {
		return fmt.Errorf("failed to schedule slate refresh: %w", err)
	}

	if s.injuries != nil && s.ttls.Injuries > 0 {
		injurySchedule := fmt.Sprintf("@every %s", s.ttls.Injuries.String())
		if _, err := s.cron.AddFunc(injurySchedule, s.refreshInjuries); err != nil {
			return fmt.Errorf("failed to schedule injury refresh: %w", err)
		}
	}

	if s.tickets != nil {
		if _, err := s.cron.AddFunc("0 3 * * *", s.pruneTickets); err != nil {
			return fmt.Errorf("failed to schedule ticket pruning: %w", err)
		}
	}

	s.cron.Start()
	s.isRunning = true

	go s.refreshSlate()

	s.logger.Info("Data fetcher service started")
	return nil
}

// Stop halts the scheduled data fetching
func (s *DataFetcherService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Data fetcher service stopped")
}

func (s *DataFetcherService) refreshSlate() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout())
	defer cancel()

	if _, err := s.RefreshNow(ctx); err != nil {
		s.logger.WithError(err).Error("Scheduled slate refresh failed")
	}
}

// RefreshNow rebuilds today's slate, composes it and caches the results.
// The first multiple of each slate date is stored in the ticket history.
func (s *DataFetcherService) RefreshNow(ctx context.Context) (models.DailyMultiple, error) {
	day := s.now()
	slate, err := s.slates.Build(ctx, day)
	if err != nil {
		return models.DailyMultiple{}, fmt.Errorf("failed to build slate: %w", err)
	}

	s.mu.Lock()
	persist := s.lastPersisted != slate.Date
	matchups := s.matchups
	s.mu.Unlock()

	if matchups != nil {
		s.refreshDvP(ctx, matchups, slate)
	}

	dm, comps, err := s.recommendations.DailyMultiple(ctx, slate, persist)
	if err != nil {
		return dm, fmt.Errorf("failed to compose slate: %w", err)
	}

	s.mu.Lock()
	s.lastSlate = &slate
	s.lastRefresh = day
	if persist {
		s.lastPersisted = slate.Date
	}
	s.mu.Unlock()

	if s.cache != nil {
		for _, comp := range comps {
			if err := s.cache.Set(ctx, CompositionCacheKey(comp.Game.GameID), comp, s.ttls.Composition); err != nil {
				s.logger.WithError(err).Warn("Failed to cache composition")
			}
		}
		if err := s.cache.Set(ctx, MultipleCacheKey(slate.Date), dm, s.ttls.Composition); err != nil {
			s.logger.WithError(err).Warn("Failed to cache daily multiple")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"date":         slate.Date,
		"games":        len(slate.Games),
		"conservative": len(dm.Conservative.Legs),
		"aggressive":   len(dm.Aggressive.Legs),
	}).Info("Completed scheduled slate refresh")

	return dm, nil
}

// refreshDvP loads the cached table when one is still live, otherwise
// generates one from the slate and caches it.
func (s *DataFetcherService) refreshDvP(ctx context.Context, matchups *dvp.Analyzer, slate models.Slate) {
	if s.cache != nil {
		var cached dvp.Table
		if err := s.cache.Get(ctx, DvPCacheKey, &cached); err == nil && len(cached) > 0 {
			matchups.Load(cached)
			return
		}
	}

	table := dvp.Generate(dvp.SamplesFromSlate(slate))
	if len(table) == 0 {
		s.logger.WithField("date", slate.Date).Warn("No recent stats for DvP table, keeping current table")
		return
	}
	matchups.Load(table)
	s.logger.WithFields(logrus.Fields{
		"date":  slate.Date,
		"teams": len(table),
	}).Info("Generated DvP table")

	if s.cache != nil {
		if err := s.cache.Set(ctx, DvPCacheKey, table, s.ttls.DvP); err != nil {
			s.logger.WithError(err).Warn("Failed to cache DvP table")
		}
	}
}

func (s *DataFetcherService) refreshInjuries() {
	slate := s.LatestSlate()
	if slate == nil {
		return
	}

	var teams []string
	for _, g := range slate.Games {
		teams = append(teams, g.Game.HomeTeam, g.Game.AwayTeam)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout())
	defer cancel()

	changes, err := s.injuries.Refresh(ctx, teams)
	if err != nil {
		s.logger.WithError(err).Warn("Injury refresh incomplete")
	}
	if len(changes) == 0 || s.publisher == nil {
		return
	}

	s.logger.WithField("changes", len(changes)).Info("Injury designations changed")
	if err := s.publisher.Broadcast(TopicInjuries, MessageInjuryUpdate, changes); err != nil {
		s.logger.WithError(err).Warn("Failed to publish injury changes")
	}
}

func (s *DataFetcherService) pruneTickets() {
	cutoff := s.now().AddDate(0, 0, -ticketRetentionDays).Format("2006-01-02")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := s.tickets.PruneBefore(ctx, cutoff)
	if err != nil {
		s.logger.WithError(err).Error("Failed to prune tickets")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"cutoff":  cutoff,
		"removed": removed,
	}).Info("Pruned stored tickets")
}

// LatestSlate returns the most recently built slate, or nil.
func (s *DataFetcherService) LatestSlate() *models.Slate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSlate
}

func (s *DataFetcherService) jobTimeout() time.Duration {
	if s.fetchInterval > 0 {
		return s.fetchInterval
	}
	return 10 * time.Minute
}

// GetFetchStatus returns the current status of the fetcher
func (s *DataFetcherService) GetFetchStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	nextRuns := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		nextRuns = append(nextRuns, entry.Next)
	}

	return map[string]interface{}{
		"is_running":     s.isRunning,
		"fetch_interval": s.fetchInterval.String(),
		"last_refresh":   s.lastRefresh,
		"next_runs":      nextRuns,
		"cron_jobs":      len(entries),
	}
}
