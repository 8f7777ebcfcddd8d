package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/courtside/internal/metrics"
	"github.com/stitts-dev/courtside/pkg/utils"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache { return &memoryCache{data: map[string][]byte{}} }

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return errors.New("miss")
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func testESPN(t *testing.T, handler http.HandlerFunc, cache Cache) (*ESPNClient, *int32) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	opts := DefaultESPNOptions()
	opts.BaseURL = srv.URL
	opts.RequestInterval = 0
	opts.Backoff = time.Millisecond
	return NewESPNClient(opts, cache, metrics.New(), quietLogger()), &calls
}

const scoreboardJSON = `{
  "events": [
    {"id": "401", "date": "2026-10-16T23:30Z", "competitions": [{
      "competitors": [
        {"homeAway": "home", "team": {"abbreviation": "LAL"}},
        {"homeAway": "away", "team": {"abbreviation": "GS"}}
      ],
      "odds": [{"details": "LAL -4.5", "spread": -4.5, "overUnder": 229.5}]
    }]},
    {"id": "402", "competitions": [{"competitors": [{"homeAway": "home", "team": {"abbreviation": "BOS"}}]}]},
    {"id": "403", "competitions": [{
      "date": "2026-10-17T00:00Z",
      "competitors": [
        {"homeAway": "away", "team": {"abbreviation": "NY"}},
        {"homeAway": "home", "team": {"abbreviation": "MIA"}}
      ]
    }]}
  ]
}`

const rosterJSON = `{
  "team": {"abbreviation": "LAL"},
  "athletes": [
    {"id": "1", "displayName": "Luka Dončić", "position": {"abbreviation": "PG"}, "status": {"name": "Active"}},
    {"id": "2", "displayName": "Jaxson Hayes", "position": {"abbreviation": "C"},
     "injuries": [{"status": "Out", "date": "2026-10-15", "description": " Ankle "}]},
    {"id": "3", "fullName": "Rui Hachimura", "position": {"abbreviation": "F"}}
  ]
}`

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		"Luka Dončić":        "luka doncic",
		"Jaren Jackson Jr.":  "jaren jackson",
		"Karl-Anthony Towns": "karl anthony towns",
		"  De'Aaron  Fox ":   "deaaron fox",
		"Gary Payton II":     "gary payton",
		"":                   "",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, NormalizeName(in))
		})
	}
}

func TestTeamCodes(t *testing.T) {
	assert.Equal(t, "gs", ESPNTeamCode("GSW"))
	assert.Equal(t, "wsh", ESPNTeamCode("was"))
	assert.Equal(t, "xyz", ESPNTeamCode("XYZ"))
	assert.Equal(t, "GSW", CanonicalTeam("gs"))
	assert.Equal(t, "UTA", CanonicalTeam("UTAH"))
	assert.Equal(t, "LAL", CanonicalTeam("LAL"))
}

func TestScoreboard(t *testing.T) {
	client, calls := testESPN(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scoreboard", r.URL.Path)
		assert.Equal(t, "20261016", r.URL.Query().Get("dates"))
		_, _ = w.Write([]byte(scoreboardJSON))
	}, newMemoryCache())

	games, err := client.Scoreboard(context.Background(), "20261016")
	require.NoError(t, err)
	require.Len(t, games, 2)

	assert.Equal(t, "401", games[0].GameID)
	assert.Equal(t, "LAL", games[0].HomeTeam)
	assert.Equal(t, "GSW", games[0].AwayTeam)
	assert.Equal(t, -4.5, games[0].Spread)
	assert.Equal(t, 229.5, games[0].Total)
	assert.False(t, games[0].StartTime.IsZero())

	assert.Equal(t, "MIA", games[1].HomeTeam)
	assert.Equal(t, "NYK", games[1].AwayTeam)
	assert.Zero(t, games[1].Spread)

	_, err = client.Scoreboard(context.Background(), "20261016")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestTeamRosterAndInjuries(t *testing.T) {
	client, calls := testESPN(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/teams/lal/roster", r.URL.Path)
		_, _ = w.Write([]byte(rosterJSON))
	}, newMemoryCache())

	roster, err := client.TeamRoster(context.Background(), "LAL")
	require.NoError(t, err)
	require.Len(t, roster, 3)

	assert.Equal(t, "espn:1", roster[0].PlayerID)
	assert.Equal(t, "Active", roster[0].Status)
	assert.Equal(t, "Out", roster[1].Status)
	assert.Equal(t, "Rui Hachimura", roster[2].Name)
	assert.Equal(t, "Active", roster[2].Status)
	assert.Equal(t, "LAL", roster[2].Team)

	injuries, err := client.Injuries(context.Background(), "LAL")
	require.NoError(t, err)
	require.Len(t, injuries, 3)
	assert.Equal(t, "luka doncic", injuries[0].NameKey)
	assert.Equal(t, "Ankle", injuries[1].Details)
	assert.Equal(t, "2026-10-15", injuries[1].Date)

	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestRetriesServerErrors(t *testing.T) {
	var n int32
	client, calls := testESPN(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&n, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(rosterJSON))
	}, nil)

	roster, err := client.TeamRoster(context.Background(), "LAL")
	require.NoError(t, err)
	assert.Len(t, roster, 3)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	client, calls := testESPN(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, nil)

	_, err := client.TeamRoster(context.Background(), "XYZ")
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.True(t, errors.Is(err, utils.ErrProviderUnavailable))
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestCanceledContextStopsRetries(t *testing.T) {
	client, _ := testESPN(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, nil)
	client.req.backoff = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Scoreboard(ctx, "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func testBallDontLie(t *testing.T, handler http.HandlerFunc) *BallDontLieClient {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts := DefaultBallDontLieOptions()
	opts.BaseURL = srv.URL
	opts.APIKey = "secret"
	opts.RequestInterval = 0
	opts.Backoff = time.Millisecond
	return NewBallDontLieClient(opts, newMemoryCache(), nil, quietLogger())
}

const playersJSON = `{"data": [
  {"id": 10, "first_name": "Anthony", "last_name": "Davis", "position": "F-C", "draft_year": 2012, "team": {"abbreviation": "DAL"}},
  {"id": 11, "first_name": "Anthony", "last_name": "Davis", "position": "G", "draft_year": 2020, "team": {"abbreviation": "LAL"}},
  {"id": 12, "first_name": "Terence", "last_name": "Davis", "position": "G", "team": {"abbreviation": "SAC"}}
], "meta": {"per_page": 100}}`

const statsJSON = `{"data": [
  {"min": "30:30", "pts": 20, "reb": 10, "ast": 2, "game": {"date": "2026-01-03T00:00:00.000Z"}},
  {"min": "00", "pts": 0, "reb": 0, "ast": 0, "game": {"date": "2026-01-05T00:00:00.000Z"}},
  {"min": "34", "pts": 30, "reb": 12, "ast": 4, "game": {"date": "2026-01-07"}},
  {"min": "32", "pts": 25, "reb": 8, "ast": 3, "game": {"date": "2026-01-01"}}
], "meta": {"per_page": 100}}`

func TestBallDontLieRecentStats(t *testing.T) {
	client := testBallDontLie(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/players":
			assert.Equal(t, "davis", r.URL.Query().Get("search"))
			_, _ = w.Write([]byte(playersJSON))
		case "/stats":
			assert.Equal(t, "10", r.URL.Query().Get("player_ids[]"))
			assert.Equal(t, "2025", r.URL.Query().Get("seasons[]"))
			_, _ = w.Write([]byte(statsJSON))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	stats, err := client.RecentStats(context.Background(), "Anthony Davis", "DAL", 2025)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.GamesPlayed)
	assert.Equal(t, 34.0, stats.LastMinutes)
	assert.InDelta(t, 32.2, stats.MinutesAvg, 0.01)
	assert.Equal(t, 25.0, stats.PointsAvg)
	assert.Equal(t, 10.0, stats.ReboundsAvg)
	assert.Equal(t, 3.0, stats.AssistsAvg)
	assert.Equal(t, 38.0, stats.CombinedAvg)
	require.NotNil(t, stats.SeasonsExperience)
	assert.Equal(t, 13, *stats.SeasonsExperience)
	require.NotNil(t, stats.PointsCV)
	assert.InDelta(t, 0.163, *stats.PointsCV, 0.001)
}

func TestFindPlayerNotFound(t *testing.T) {
	client := testBallDontLie(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(playersJSON))
	})

	_, err := client.FindPlayer(context.Background(), "Nobody Davis", "")
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	_, err = client.FindPlayer(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, 0, Summarize(nil, 5).GamesPlayed)

	logs := []GameLog{
		{Minutes: 10, Points: 0, Rebounds: 4, Assists: 0},
		{Minutes: 10, Points: 0, Rebounds: 4, Assists: 0},
	}
	s := Summarize(logs, 5)
	assert.Nil(t, s.PointsCV)
	require.NotNil(t, s.ReboundsCV)
	assert.Equal(t, 0.0, *s.ReboundsCV)

	many := make([]GameLog, 8)
	for i := range many {
		many[i] = GameLog{Minutes: float64(20 + i), Points: 10}
	}
	s = Summarize(many, RecentWindowSize)
	assert.Equal(t, 5, s.GamesPlayed)
	assert.Equal(t, 22.0, s.MinutesAvg)
	assert.Equal(t, 20.0, s.LastMinutes)
}

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"32:15", 32.25},
		{"28", 28},
		{"", 0},
		{"DNP", 0},
		{"12:xx", 12},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseMinutes(tt.in), 1e-9)
		})
	}
}

func TestCurrentSeason(t *testing.T) {
	assert.Equal(t, 2026, CurrentSeason(time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2025, CurrentSeason(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)))
}
