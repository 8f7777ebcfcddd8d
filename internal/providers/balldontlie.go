package providers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/stitts-dev/courtside/internal/metrics"
	"github.com/stitts-dev/courtside/internal/models"
)

const (
	DefaultBallDontLieBaseURL = "https://api.balldontlie.io/v1"
	// RecentWindowSize is the number of most recent games summarised.
	RecentWindowSize = 5
)

var ErrPlayerNotFound = errors.New("player not found")

type BallDontLieOptions struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	StatsTTL time.Duration
	// RequestInterval spaces successive calls; the free tier allows five per
	// minute. Zero disables the limiter.
	RequestInterval time.Duration
	Attempts        int
	Backoff         time.Duration
}

func DefaultBallDontLieOptions() BallDontLieOptions {
	return BallDontLieOptions{
		BaseURL:         DefaultBallDontLieBaseURL,
		Timeout:         30 * time.Second,
		StatsTTL:        30 * time.Minute,
		RequestInterval: 12 * time.Second,
		Attempts:        3,
		Backoff:         time.Second,
	}
}

// BallDontLieClient reads player search and per-game box scores.
type BallDontLieClient struct {
	opts        BallDontLieOptions
	req         *requester
	cache       Cache
	metrics     *metrics.Registry
	rateLimiter *rate.Limiter
	logger      *logrus.Logger
}

// NewBallDontLieClient creates a client. cache and m may be nil.
func NewBallDontLieClient(opts BallDontLieOptions, cache Cache, m *metrics.Registry, logger *logrus.Logger) *BallDontLieClient {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBallDontLieBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	limit := rate.Inf
	if opts.RequestInterval > 0 {
		limit = rate.Every(opts.RequestInterval)
	}

	headers := map[string]string{}
	if opts.APIKey != "" {
		headers["Authorization"] = opts.APIKey
	}

	return &BallDontLieClient{
		opts: opts,
		req: &requester{
			httpClient: &http.Client{Timeout: opts.Timeout},
			logger:     logger,
			attempts:   opts.Attempts,
			backoff:    opts.Backoff,
			headers:    headers,
		},
		cache:       cache,
		metrics:     m,
		rateLimiter: rate.NewLimiter(limit, 1),
		logger:      logger,
	}
}

type ballDontLieMeta struct {
	NextCursor int `json:"next_cursor"`
	PerPage    int `json:"per_page"`
}

type ballDontLiePlayer struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
	DraftYear int    `json:"draft_year"`
	Team      struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"team"`
}

func (p ballDontLiePlayer) fullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type ballDontLiePlayersResponse struct {
	Data []ballDontLiePlayer `json:"data"`
	Meta ballDontLieMeta     `json:"meta"`
}

type ballDontLieStats struct {
	Min  string `json:"min"`
	Pts  int    `json:"pts"`
	Reb  int    `json:"reb"`
	Ast  int    `json:"ast"`
	Game struct {
		ID   int    `json:"id"`
		Date string `json:"date"`
	} `json:"game"`
}

type ballDontLieStatsResponse struct {
	Data []ballDontLieStats `json:"data"`
	Meta ballDontLieMeta    `json:"meta"`
}

// GameLog is one game's box-score line for a player.
type GameLog struct {
	Date     time.Time `json:"date"`
	Minutes  float64   `json:"minutes"`
	Points   float64   `json:"points"`
	Rebounds float64   `json:"rebounds"`
	Assists  float64   `json:"assists"`
}

// PlayerRef identifies a balldontlie player.
type PlayerRef struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Team      string `json:"team"`
	Position  string `json:"position"`
	DraftYear int    `json:"draft_year"`
}

// FindPlayer resolves a display name to a player, preferring a team match
// when several players share the normalized name.
func (c *BallDontLieClient) FindPlayer(ctx context.Context, name, team string) (PlayerRef, error) {
	key := NormalizeName(name)
	if key == "" {
		return PlayerRef{}, ErrPlayerNotFound
	}

	cacheKey := fmt.Sprintf("balldontlie:player:%s", strings.ReplaceAll(key, " ", "_"))
	var cached PlayerRef
	if cacheGet(ctx, c.cache, cacheKey, &cached) {
		c.metrics.RecordCacheHit("player")
		return cached, nil
	}
	c.metrics.RecordCacheMiss("player")

	parts := strings.Fields(key)
	q := url.Values{}
	q.Set("search", parts[len(parts)-1])
	q.Set("per_page", "100")

	var resp ballDontLiePlayersResponse
	if err := c.fetch(ctx, "players", c.opts.BaseURL+"/players?"+q.Encode(), &resp); err != nil {
		return PlayerRef{}, fmt.Errorf("failed to search player %s: %w", name, err)
	}

	var match *ballDontLiePlayer
	for i := range resp.Data {
		p := &resp.Data[i]
		if NormalizeName(p.fullName()) != key {
			continue
		}
		if match == nil || (team != "" && CanonicalTeam(p.Team.Abbreviation) == CanonicalTeam(team)) {
			match = p
		}
	}
	if match == nil {
		return PlayerRef{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
	}

	ref := PlayerRef{
		ID:        match.ID,
		Name:      match.fullName(),
		Team:      CanonicalTeam(match.Team.Abbreviation),
		Position:  match.Position,
		DraftYear: match.DraftYear,
	}
	cacheSet(ctx, c.cache, c.logger, cacheKey, ref, 24*time.Hour)
	return ref, nil
}

// GameLogs returns the player's games in season, most recent first.
// Did-not-play rows (zero minutes) are dropped.
func (c *BallDontLieClient) GameLogs(ctx context.Context, playerID, season int) ([]GameLog, error) {
	q := url.Values{}
	q.Add("player_ids[]", strconv.Itoa(playerID))
	q.Add("seasons[]", strconv.Itoa(season))
	q.Set("per_page", "100")

	var resp ballDontLieStatsResponse
	if err := c.fetch(ctx, "stats", c.opts.BaseURL+"/stats?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch game logs for %d: %w", playerID, err)
	}

	logs := make([]GameLog, 0, len(resp.Data))
	for _, s := range resp.Data {
		minutes := ParseMinutes(s.Min)
		if minutes <= 0 {
			continue
		}
		date, _ := time.Parse("2006-01-02", firstN(s.Game.Date, 10))
		logs = append(logs, GameLog{
			Date:     date,
			Minutes:  minutes,
			Points:   float64(s.Pts),
			Rebounds: float64(s.Reb),
			Assists:  float64(s.Ast),
		})
	}
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Date.After(logs[j].Date) })
	return logs, nil
}

// RecentStats resolves name and summarises their last RecentWindowSize games.
func (c *BallDontLieClient) RecentStats(ctx context.Context, name, team string, season int) (models.RecentStats, error) {
	cacheKey := fmt.Sprintf("balldontlie:recent:%d:%s", season, strings.ReplaceAll(NormalizeName(name), " ", "_"))
	var cached models.RecentStats
	if cacheGet(ctx, c.cache, cacheKey, &cached) {
		c.metrics.RecordCacheHit("recent_stats")
		return cached, nil
	}
	c.metrics.RecordCacheMiss("recent_stats")

	ref, err := c.FindPlayer(ctx, name, team)
	if err != nil {
		return models.RecentStats{}, err
	}
	logs, err := c.GameLogs(ctx, ref.ID, season)
	if err != nil {
		return models.RecentStats{}, err
	}

	stats := Summarize(logs, RecentWindowSize)
	if ref.DraftYear > 0 && season >= ref.DraftYear {
		exp := season - ref.DraftYear
		stats.SeasonsExperience = &exp
	}

	cacheSet(ctx, c.cache, c.logger, cacheKey, stats, c.opts.StatsTTL)
	return stats, nil
}

func (c *BallDontLieClient) fetch(ctx context.Context, endpoint, url string, target interface{}) (err error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}
	timer := c.metrics.StartProviderTimer("balldontlie", endpoint)
	defer func() { timer.Stop(err) }()

	return c.req.getJSON(ctx, url, target)
}

// Summarize averages the first window logs (most recent first). Coefficients
// of variation use the population deviation and are left nil when the mean is
// zero.
func Summarize(logs []GameLog, window int) models.RecentStats {
	if len(logs) > window {
		logs = logs[:window]
	}
	if len(logs) == 0 {
		return models.RecentStats{}
	}

	pts := make([]float64, len(logs))
	reb := make([]float64, len(logs))
	ast := make([]float64, len(logs))
	mins := make([]float64, len(logs))
	for i, g := range logs {
		pts[i], reb[i], ast[i], mins[i] = g.Points, g.Rebounds, g.Assists, g.Minutes
	}

	stats := models.RecentStats{
		GamesPlayed: len(logs),
		MinutesAvg:  models.Round(mean(mins), 1),
		PointsAvg:   models.Round(mean(pts), 1),
		ReboundsAvg: models.Round(mean(reb), 1),
		AssistsAvg:  models.Round(mean(ast), 1),
		LastMinutes: logs[0].Minutes,
		PointsCV:    cv(pts),
		ReboundsCV:  cv(reb),
		AssistsCV:   cv(ast),
		MinutesCV:   cv(mins),
	}
	stats.CombinedAvg = models.Round(stats.PointsAvg+stats.ReboundsAvg+stats.AssistsAvg, 1)
	return stats
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func cv(xs []float64) *float64 {
	m := mean(xs)
	if m == 0 {
		return nil
	}
	var ss float64
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	v := models.Round(math.Sqrt(ss/float64(len(xs)))/m, 3)
	return &v
}

// ParseMinutes reads "MM:SS", "MM" or "" into fractional minutes.
func ParseMinutes(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	mm, ss, found := strings.Cut(s, ":")
	m, err := strconv.ParseFloat(mm, 64)
	if err != nil {
		return 0
	}
	if !found {
		return m
	}
	sec, err := strconv.ParseFloat(ss, 64)
	if err != nil {
		return m
	}
	return m + sec/60
}

// CurrentSeason returns the starting year of the season in play at t.
// Seasons roll over in October.
func CurrentSeason(t time.Time) int {
	if t.Month() >= time.October {
		return t.Year()
	}
	return t.Year() - 1
}

func firstN(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
