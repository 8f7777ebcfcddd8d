package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/courtside/internal/api"
	"github.com/stitts-dev/courtside/internal/dvp"
	"github.com/stitts-dev/courtside/internal/metrics"
	"github.com/stitts-dev/courtside/internal/pipeline"
	"github.com/stitts-dev/courtside/internal/providers"
	"github.com/stitts-dev/courtside/internal/services"
	"github.com/stitts-dev/courtside/pkg/config"
	"github.com/stitts-dev/courtside/pkg/database"
	"github.com/stitts-dev/courtside/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	tickets := services.NewTicketStore(db)
	if err := tickets.AutoMigrate(); err != nil {
		log.Fatalf("Failed to migrate ticket store: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	redisClient, err := services.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	ttls := services.CacheTTLs{
		Injuries:    cfg.InjuryCacheTTL,
		Roster:      cfg.RosterCacheTTL,
		Stats:       cfg.StatsCacheTTL,
		Scoreboard:  cfg.ScoreboardCacheTTL,
		Composition: cfg.CompositionCacheTTL,
		DvP:         cfg.DvPCacheTTL,
	}

	reg := metrics.New()
	cache := services.NewCacheService(redisClient)
	breakers := services.NewCircuitBreakerService(cfg.CircuitBreakerThreshold, cfg.CircuitBreakerTimeout, log)

	hub := services.NewWebSocketHub(reg, log)
	go hub.Run(ctx)

	espnOpts := providers.DefaultESPNOptions()
	espnOpts.BaseURL = cfg.ESPNBaseURL
	espnOpts.Timeout = cfg.ExternalAPITimeout
	espnOpts.RosterTTL = ttls.Roster
	espnOpts.ScoreboardTTL = ttls.Scoreboard
	espn := providers.NewESPNClient(espnOpts, cache, reg, log)

	bdlOpts := providers.DefaultBallDontLieOptions()
	bdlOpts.BaseURL = cfg.BallDontLieBaseURL
	bdlOpts.APIKey = cfg.BallDontLieAPIKey
	bdlOpts.StatsTTL = ttls.Stats
	balldontlie := providers.NewBallDontLieClient(bdlOpts, cache, reg, log)

	injuries := services.NewInjuryMonitor(espn, cache, breakers, ttls.Injuries, log)
	slates := services.NewSlateBuilder(espn, espn, balldontlie, injuries, breakers, cache,
		services.SlateBuilderOptions{SlateTTL: ttls.Scoreboard}, log)

	opts := services.PipelineOptions(cfg.PipelineToggles())
	matchups := dvp.NewAnalyzer(dvp.FallbackTable())
	composer := pipeline.New(opts, matchups, log).WithMetrics(reg)
	recommendations := services.NewRecommendationService(composer, cfg.ComposeWorkers, hub, tickets, log)

	fetchInterval, err := time.ParseDuration(cfg.DataFetchInterval)
	if err != nil {
		log.Warnf("Invalid fetch interval, using default 30m: %v", err)
		fetchInterval = 30 * time.Minute
	}

	var fetcher *services.DataFetcherService
	if cfg.EnableBackgroundJobs {
		fetcher = services.NewDataFetcherService(slates, recommendations, injuries, tickets, hub, cache, ttls, log, fetchInterval)
		fetcher.SetDvPAnalyzer(matchups)
		if err := fetcher.Start(); err != nil {
			log.Errorf("Failed to start data fetcher: %v", err)
		}
		defer fetcher.Stop()
	}

	router := api.NewRouter(cfg, api.Dependencies{
		Recommendations: recommendations,
		Slates:          slates,
		Fetcher:         fetcher,
		Tickets:         tickets,
		Cache:           cache,
		Breakers:        breakers,
		Hub:             hub,
		Metrics:         reg,
	}, log)

	for _, route := range router.Routes() {
		log.Debugf("%s %s", route.Method, route.Path)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
	stop()

	log.Info("Server exited")
}
