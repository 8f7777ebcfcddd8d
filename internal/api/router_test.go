package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/courtside/internal/dvp"
	"github.com/stitts-dev/courtside/internal/metrics"
	"github.com/stitts-dev/courtside/internal/models"
	"github.com/stitts-dev/courtside/internal/pipeline"
	"github.com/stitts-dev/courtside/internal/services"
	"github.com/stitts-dev/courtside/pkg/config"
	"github.com/stitts-dev/courtside/pkg/database"
)

func newTestRouter(t *testing.T, withTickets bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	reg := metrics.New()
	composer := pipeline.New(pipeline.DefaultOptions(), dvp.NewAnalyzer(nil), logger).WithMetrics(reg)

	deps := Dependencies{
		Metrics:  reg,
		Breakers: services.NewCircuitBreakerService(1, 0, logger),
		Hub:      services.NewWebSocketHub(reg, logger),
	}
	if withTickets {
		db, err := database.NewSQLiteConnection("file::memory:")
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		deps.Tickets = services.NewTicketStore(db)
		require.NoError(t, deps.Tickets.AutoMigrate())
	}
	deps.Recommendations = services.NewRecommendationService(composer, 1, nil, deps.Tickets, logger)

	cfg := &config.Config{CorsOrigins: []string{"http://localhost:3000"}}
	return NewRouter(cfg, deps, logger)
}

func TestRouterHealthAndReady(t *testing.T) {
	router := newTestRouter(t, false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"espn":"closed"`)
}

func TestRouterMetricsAfterCompose(t *testing.T) {
	router := newTestRouter(t, false)

	gs := models.GameSlate{
		Game: models.GameContext{GameID: "g1", HomeTeam: "LAL", AwayTeam: "GSW", Spread: -2, Total: 230, Pace: 102},
		Roster: []models.RosterEntry{
			{PlayerID: "p1", Name: "Home Big", Team: "LAL", Position: "C", IsStarter: true, Status: "active"},
			{PlayerID: "p2", Name: "Away Guard", Team: "GSW", Position: "PG", IsStarter: true, Status: "active"},
		},
		Stats: map[string]models.RecentStats{
			"p1": {GamesPlayed: 5, MinutesAvg: 33, PointsAvg: 20, ReboundsAvg: 12, AssistsAvg: 2, CombinedAvg: 34, LastMinutes: 34},
			"p2": {GamesPlayed: 5, MinutesAvg: 35, PointsAvg: 25, ReboundsAvg: 4, AssistsAvg: 8, CombinedAvg: 37, LastMinutes: 35},
		},
	}
	body, err := json.Marshal(gs)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compose/game", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "courtside_compose_duration_seconds")
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(t, false)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/compose/game", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterTicketRoutesOptional(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(t, false).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tickets", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	newTestRouter(t, true).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tickets", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
