package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/courtside/internal/models"
	"github.com/stitts-dev/courtside/internal/playerctx"
	"github.com/stitts-dev/courtside/internal/providers"
)

// InjurySource is the team injury-sheet collaborator.
type InjurySource interface {
	Injuries(ctx context.Context, team string) ([]models.InjuryReport, error)
}

// InjuryChange is a status transition seen between two refreshes.
type InjuryChange struct {
	Team     string `json:"team"`
	Player   string `json:"player"`
	Previous string `json:"previous"`
	Current  string `json:"current"`
}

type teamSheet struct {
	reports   []models.InjuryReport
	fetchedAt time.Time
}

// InjuryMonitor keeps a per-team view of injury sheets, refreshing a team
// once its sheet is older than the TTL. A failed refresh keeps serving the
// previous sheet.
type InjuryMonitor struct {
	source  InjurySource
	cache   providers.Cache
	breaker *CircuitBreakerService
	ttl     time.Duration
	logger  *logrus.Logger

	mu    sync.RWMutex
	teams map[string]teamSheet
	now   func() time.Time
}

// NewInjuryMonitor builds a monitor. cache and breaker may be nil.
func NewInjuryMonitor(source InjurySource, cache providers.Cache, breaker *CircuitBreakerService, ttl time.Duration, logger *logrus.Logger) *InjuryMonitor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &InjuryMonitor{
		source:  source,
		cache:   cache,
		breaker: breaker,
		ttl:     ttl,
		logger:  logger,
		teams:   make(map[string]teamSheet),
		now:     time.Now,
	}
}

// TeamInjuries returns the team's sheet, refreshing it when stale.
func (m *InjuryMonitor) TeamInjuries(ctx context.Context, team string) ([]models.InjuryReport, error) {
	team = providers.CanonicalTeam(team)

	m.mu.RLock()
	sheet, ok := m.teams[team]
	m.mu.RUnlock()
	if ok && m.now().Sub(sheet.fetchedAt) < m.ttl {
		return sheet.reports, nil
	}

	if !ok && m.cache != nil {
		var cached []models.InjuryReport
		if err := m.cache.Get(ctx, InjuryCacheKey(team), &cached); err == nil {
			m.store(team, cached)
			return cached, nil
		}
	}

	reports, _, err := m.refreshTeam(ctx, team)
	if err != nil {
		if ok {
			m.logger.WithFields(logrus.Fields{
				"team":  team,
				"error": err,
			}).Warn("Injury refresh failed, serving stale sheet")
			return sheet.reports, nil
		}
		return nil, err
	}
	return reports, nil
}

// Refresh re-fetches every team and reports status transitions. Teams that
// fail keep their previous sheet; the first error is returned.
func (m *InjuryMonitor) Refresh(ctx context.Context, teams []string) ([]InjuryChange, error) {
	var (
		changes  []InjuryChange
		firstErr error
	)
	for _, team := range teams {
		if ctx.Err() != nil {
			return changes, ctx.Err()
		}
		_, diff, err := m.refreshTeam(ctx, providers.CanonicalTeam(team))
		if err != nil {
			m.logger.WithFields(logrus.Fields{
				"team":  team,
				"error": err,
			}).Warn("Failed to refresh injuries")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		changes = append(changes, diff...)
	}
	return changes, firstErr
}

// Status looks a player up by normalized name.
func (m *InjuryMonitor) Status(ctx context.Context, name, team string) (string, bool) {
	reports, err := m.TeamInjuries(ctx, team)
	if err != nil {
		return "", false
	}
	key := providers.NormalizeName(name)
	for _, r := range reports {
		if r.NameKey == key {
			return r.Status, true
		}
	}
	return "", false
}

// IsPlayerOut reports whether the player's current designation rules them out.
func (m *InjuryMonitor) IsPlayerOut(ctx context.Context, name, team string) bool {
	status, ok := m.Status(ctx, name, team)
	return ok && playerctx.IsUnavailableStatus(status)
}

// Snapshot returns every cached sheet, stale or not.
func (m *InjuryMonitor) Snapshot() map[string][]models.InjuryReport {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]models.InjuryReport, len(m.teams))
	for team, sheet := range m.teams {
		out[team] = sheet.reports
	}
	return out
}

func (m *InjuryMonitor) refreshTeam(ctx context.Context, team string) ([]models.InjuryReport, []InjuryChange, error) {
	var reports []models.InjuryReport
	fetch := func() error {
		var err error
		reports, err = m.source.Injuries(ctx, team)
		return err
	}

	var err error
	if m.breaker != nil {
		err = m.breaker.Guard(UpstreamESPN, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch injuries for %s: %w", team, err)
	}

	for i := range reports {
		if reports[i].NameKey == "" {
			reports[i].NameKey = providers.NormalizeName(reports[i].Name)
		}
	}

	m.mu.RLock()
	previous, had := m.teams[team]
	m.mu.RUnlock()

	var changes []InjuryChange
	if had {
		changes = diffSheets(team, previous.reports, reports)
	}

	m.store(team, reports)
	if m.cache != nil {
		if err := m.cache.Set(ctx, InjuryCacheKey(team), reports, m.ttl); err != nil {
			m.logger.WithField("team", team).WithError(err).Warn("Failed to cache injuries")
		}
	}
	return reports, changes, nil
}

func (m *InjuryMonitor) store(team string, reports []models.InjuryReport) {
	m.mu.Lock()
	m.teams[team] = teamSheet{reports: reports, fetchedAt: m.now()}
	m.mu.Unlock()
}

func diffSheets(team string, before, after []models.InjuryReport) []InjuryChange {
	prev := make(map[string]models.InjuryReport, len(before))
	for _, r := range before {
		prev[r.NameKey] = r
	}

	var changes []InjuryChange
	for _, r := range after {
		old, ok := prev[r.NameKey]
		if !ok || strings.EqualFold(old.Status, r.Status) {
			continue
		}
		changes = append(changes, InjuryChange{
			Team:     team,
			Player:   r.Name,
			Previous: old.Status,
			Current:  r.Status,
		})
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Player < changes[j].Player })
	return changes
}
