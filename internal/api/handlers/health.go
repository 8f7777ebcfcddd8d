package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type BreakerStates interface {
	States() map[string]string
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type FetchStatuser interface {
	GetFetchStatus() map[string]interface{}
}

type HealthHandler struct {
	breakers BreakerStates
	cache    Pinger
	fetcher  FetchStatuser
}

// NewHealthHandler builds the handler. Any collaborator may be nil.
func NewHealthHandler(breakers BreakerStates, cache Pinger, fetcher FetchStatuser) *HealthHandler {
	return &HealthHandler{
		breakers: breakers,
		cache:    cache,
		fetcher:  fetcher,
	}
}

// GetHealth returns basic health status - always returns 200 if server is running
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"time":    time.Now().UTC(),
		"service": "courtside",
	})
}

// GetReady returns 200 only when the cache answers. Upstream breaker states
// and the fetch schedule are reported alongside.
func (h *HealthHandler) GetReady(c *gin.Context) {
	body := gin.H{"status": "ready"}
	status := http.StatusOK

	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.cache.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "not_ready"
			body["cache_error"] = err.Error()
		}
	}
	if h.breakers != nil {
		body["upstreams"] = h.breakers.States()
	}
	if h.fetcher != nil {
		body["fetcher"] = h.fetcher.GetFetchStatus()
	}

	c.JSON(status, body)
}
