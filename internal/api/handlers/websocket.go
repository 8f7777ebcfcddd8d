package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/courtside/internal/services"
)

type WebSocketHandler struct {
	hub      *services.WebSocketHub
	upgrader websocket.Upgrader
	logger   *logrus.Logger
}

// NewWebSocketHandler accepts upgrades from the given origins; "*" or an
// empty list accepts any.
func NewWebSocketHandler(hub *services.WebSocketHub, origins []string, logger *logrus.Logger) *WebSocketHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimSpace(o)] = true
	}

	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed["*"] || allowed[origin]
			},
		},
		logger: logger,
	}
}

// HandleWebSocket handles GET /ws?topics=compositions,multiples
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to upgrade connection")
		return
	}

	client := services.NewClient(h.hub, conn, parseTopics(c.Query("topics"))...)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

func parseTopics(raw string) []string {
	var topics []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	if len(topics) == 0 {
		return []string{services.TopicAll}
	}
	return topics
}
