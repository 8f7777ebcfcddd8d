package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/courtside/internal/api/handlers"
	"github.com/stitts-dev/courtside/internal/api/middleware"
	"github.com/stitts-dev/courtside/internal/metrics"
	"github.com/stitts-dev/courtside/internal/services"
	"github.com/stitts-dev/courtside/pkg/config"
)

// Dependencies carries the services the routes are built from. Slates,
// Fetcher, Tickets, Cache, Breakers, Hub and Metrics may be nil.
type Dependencies struct {
	Recommendations *services.RecommendationService
	Slates          services.SlateSource
	Fetcher         *services.DataFetcherService
	Tickets         *services.TicketStore
	Cache           *services.CacheService
	Breakers        *services.CircuitBreakerService
	Hub             *services.WebSocketHub
	Metrics         *metrics.Registry
}

// NewRouter builds the engine with middleware, health, metrics, websocket and
// the /api/v1 group.
func NewRouter(cfg *config.Config, deps Dependencies, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.ErrorLogger(logger))
	router.Use(middleware.CORS(cfg.CorsOrigins))

	health := handlers.NewHealthHandler(breakerStates(deps.Breakers), pinger(deps.Cache), fetchStatuser(deps.Fetcher))
	router.GET("/health", health.GetHealth)
	router.GET("/ready", health.GetReady)

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	if deps.Hub != nil {
		ws := handlers.NewWebSocketHandler(deps.Hub, cfg.CorsOrigins, logger)
		router.GET("/ws", ws.HandleWebSocket)
	}

	SetupRoutes(router.Group("/api/v1"), deps)
	return router
}

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, deps Dependencies) {
	var latest handlers.LatestSlater
	if deps.Fetcher != nil {
		latest = deps.Fetcher
	}
	compositionHandler := handlers.NewCompositionHandler(deps.Recommendations, deps.Slates, latest)

	group.GET("/slate/today", compositionHandler.TodaySlate)
	group.POST("/compose/game", compositionHandler.ComposeGame)
	group.POST("/compose/slate", compositionHandler.ComposeSlate)
	group.POST("/multiple", compositionHandler.DailyMultiple)
	group.POST("/narrative", compositionHandler.Narrative)

	if deps.Tickets != nil {
		ticketHandler := handlers.NewTicketHandler(deps.Tickets)
		group.GET("/tickets", ticketHandler.ListTickets)
		group.GET("/tickets/:id", ticketHandler.GetTicket)
	}
}

// The helpers below keep typed nil pointers out of the handler interfaces.

func breakerStates(b *services.CircuitBreakerService) handlers.BreakerStates {
	if b == nil {
		return nil
	}
	return b
}

func pinger(c *services.CacheService) handlers.Pinger {
	if c == nil {
		return nil
	}
	return c
}

func fetchStatuser(f *services.DataFetcherService) handlers.FetchStatuser {
	if f == nil {
		return nil
	}
	return f
}
