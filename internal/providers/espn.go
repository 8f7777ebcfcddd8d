package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/stitts-dev/courtside/internal/metrics"
	"github.com/stitts-dev/courtside/internal/models"
)

const DefaultESPNBaseURL = "https://site.web.api.espn.com/apis/site/v2/sports/basketball/nba"

type ESPNOptions struct {
	BaseURL       string
	Timeout       time.Duration
	RosterTTL     time.Duration
	ScoreboardTTL time.Duration
	// RequestInterval spaces successive calls; zero disables the limiter.
	RequestInterval time.Duration
	Attempts        int
	Backoff         time.Duration
}

func DefaultESPNOptions() ESPNOptions {
	return ESPNOptions{
		BaseURL:         DefaultESPNBaseURL,
		Timeout:         10 * time.Second,
		RosterTTL:       3 * time.Hour,
		ScoreboardTTL:   10 * time.Minute,
		RequestInterval: 400 * time.Millisecond,
		Attempts:        3,
		Backoff:         time.Second,
	}
}

// ESPNClient reads the public ESPN scoreboard and team roster endpoints.
type ESPNClient struct {
	opts        ESPNOptions
	req         *requester
	cache       Cache
	metrics     *metrics.Registry
	rateLimiter *rate.Limiter
	logger      *logrus.Logger
}

// NewESPNClient creates an ESPN client. cache and m may be nil.
func NewESPNClient(opts ESPNOptions, cache Cache, m *metrics.Registry, logger *logrus.Logger) *ESPNClient {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultESPNBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	limit := rate.Inf
	if opts.RequestInterval > 0 {
		limit = rate.Every(opts.RequestInterval)
	}

	return &ESPNClient{
		opts: opts,
		req: &requester{
			httpClient: &http.Client{Timeout: opts.Timeout},
			logger:     logger,
			attempts:   opts.Attempts,
			backoff:    opts.Backoff,
		},
		cache:       cache,
		metrics:     m,
		rateLimiter: rate.NewLimiter(limit, 1),
		logger:      logger,
	}
}

type espnScoreboardResponse struct {
	Events []struct {
		ID           string `json:"id"`
		Date         string `json:"date"`
		Competitions []struct {
			Date        string `json:"date"`
			Competitors []struct {
				HomeAway string `json:"homeAway"`
				Team     struct {
					Abbreviation string `json:"abbreviation"`
				} `json:"team"`
			} `json:"competitors"`
			Odds []struct {
				Details   string  `json:"details"`
				Spread    float64 `json:"spread"`
				OverUnder float64 `json:"overUnder"`
			} `json:"odds"`
			Status struct {
				Type struct {
					Description string `json:"description"`
				} `json:"type"`
			} `json:"status"`
		} `json:"competitions"`
	} `json:"events"`
}

type espnRosterResponse struct {
	Team struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"team"`
	Athletes []espnAthlete `json:"athletes"`
}

type espnAthlete struct {
	ID          string `json:"id"`
	FullName    string `json:"fullName"`
	DisplayName string `json:"displayName"`
	Position    struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"position"`
	Status struct {
		Name string `json:"name"`
	} `json:"status"`
	Injuries []struct {
		Status      string `json:"status"`
		Date        string `json:"date"`
		Description string `json:"description"`
	} `json:"injuries"`
}

func (a espnAthlete) name() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.FullName
}

// status prefers the most recent injury designation over the roster flag.
func (a espnAthlete) status() string {
	if len(a.Injuries) > 0 && a.Injuries[0].Status != "" {
		return a.Injuries[0].Status
	}
	if a.Status.Name != "" {
		return a.Status.Name
	}
	return "Active"
}

// Scoreboard returns the games scheduled on date (YYYYMMDD; empty for today).
// The spread is quoted from the home team's perspective.
func (c *ESPNClient) Scoreboard(ctx context.Context, date string) ([]models.GameContext, error) {
	cacheKey := fmt.Sprintf("espn:nba:scoreboard:%s", date)

	var cached []models.GameContext
	if cacheGet(ctx, c.cache, cacheKey, &cached) {
		c.metrics.RecordCacheHit("scoreboard")
		return cached, nil
	}
	c.metrics.RecordCacheMiss("scoreboard")

	url := c.opts.BaseURL + "/scoreboard"
	if date != "" {
		url = fmt.Sprintf("%s?dates=%s", url, date)
	}

	var resp espnScoreboardResponse
	if err := c.fetch(ctx, "scoreboard", url, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch scoreboard: %w", err)
	}

	games := make([]models.GameContext, 0, len(resp.Events))
	for _, ev := range resp.Events {
		if len(ev.Competitions) == 0 {
			continue
		}
		comp := ev.Competitions[0]
		if len(comp.Competitors) < 2 {
			continue
		}

		game := models.GameContext{GameID: ev.ID}
		for _, team := range comp.Competitors {
			abbr := CanonicalTeam(team.Team.Abbreviation)
			if team.HomeAway == "home" {
				game.HomeTeam = abbr
			} else {
				game.AwayTeam = abbr
			}
		}
		if game.HomeTeam == "" || game.AwayTeam == "" {
			continue
		}
		if len(comp.Odds) > 0 {
			game.Spread = comp.Odds[0].Spread
			game.Total = comp.Odds[0].OverUnder
		}

		start := comp.Date
		if start == "" {
			start = ev.Date
		}
		if t, err := parseESPNTime(start); err == nil {
			game.StartTime = t
		}

		games = append(games, game)
	}

	cacheSet(ctx, c.cache, c.logger, cacheKey, games, c.opts.ScoreboardTTL)
	return games, nil
}

// TeamRoster returns roster entries with each player's current status.
// Starter flags are left unset; ESPN rosters carry no depth chart.
func (c *ESPNClient) TeamRoster(ctx context.Context, team string) ([]models.RosterEntry, error) {
	athletes, abbr, err := c.roster(ctx, team)
	if err != nil {
		return nil, err
	}

	entries := make([]models.RosterEntry, 0, len(athletes))
	for _, a := range athletes {
		name := a.name()
		if name == "" {
			continue
		}
		entries = append(entries, models.RosterEntry{
			PlayerID: "espn:" + a.ID,
			Name:     name,
			Team:     abbr,
			Position: a.Position.Abbreviation,
			Status:   a.status(),
		})
	}
	return entries, nil
}

// Injuries returns one report line per rostered player. Healthy players are
// reported as Active so callers can tell "healthy" from "unknown".
func (c *ESPNClient) Injuries(ctx context.Context, team string) ([]models.InjuryReport, error) {
	athletes, abbr, err := c.roster(ctx, team)
	if err != nil {
		return nil, err
	}

	reports := make([]models.InjuryReport, 0, len(athletes))
	for _, a := range athletes {
		name := a.name()
		report := models.InjuryReport{
			Name:    name,
			NameKey: NormalizeName(name),
			Team:    abbr,
			Status:  a.status(),
		}
		if len(a.Injuries) > 0 {
			report.Details = strings.TrimSpace(a.Injuries[0].Description)
			report.Date = a.Injuries[0].Date
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (c *ESPNClient) roster(ctx context.Context, team string) ([]espnAthlete, string, error) {
	abbr := CanonicalTeam(team)
	cacheKey := fmt.Sprintf("espn:nba:roster:%s", abbr)

	var cached espnRosterResponse
	if cacheGet(ctx, c.cache, cacheKey, &cached) {
		c.metrics.RecordCacheHit("roster")
		return cached.Athletes, abbr, nil
	}
	c.metrics.RecordCacheMiss("roster")

	url := fmt.Sprintf("%s/teams/%s/roster", c.opts.BaseURL, ESPNTeamCode(abbr))
	var resp espnRosterResponse
	if err := c.fetch(ctx, "roster", url, &resp); err != nil {
		return nil, abbr, fmt.Errorf("failed to fetch roster for %s: %w", abbr, err)
	}

	cacheSet(ctx, c.cache, c.logger, cacheKey, resp, c.opts.RosterTTL)
	return resp.Athletes, abbr, nil
}

func (c *ESPNClient) fetch(ctx context.Context, endpoint, url string, target interface{}) (err error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}
	timer := c.metrics.StartProviderTimer("espn", endpoint)
	defer func() { timer.Stop(err) }()

	return c.req.getJSON(ctx, url, target)
}

func parseESPNTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04Z07:00", "2006-01-02T15:04Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}
