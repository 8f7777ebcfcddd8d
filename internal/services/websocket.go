package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/courtside/internal/metrics"
)

// Topics and message types pushed to websocket subscribers.
const (
	TopicAll          = "*"
	TopicCompositions = "compositions"
	TopicMultiples    = "multiples"
	TopicInjuries     = "injuries"

	MessageComposition  = "composition"
	MessageMultiple     = "daily_multiple"
	MessageInjuryUpdate = "injury_update"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 256
)

type WebSocketHub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	metrics    *metrics.Registry
	logger     *logrus.Logger
}

type Client struct {
	ID     string
	hub    *WebSocketHub
	conn   *websocket.Conn
	send   chan []byte
	mu     sync.RWMutex
	topics map[string]bool
}

type WebSocketMessage struct {
	Type      string          `json:"type"`
	Topic     string          `json:"topic"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

type Subscription struct {
	Action string   `json:"action"` // "subscribe" or "unsubscribe"
	Topics []string `json:"topics"`
}

func NewWebSocketHub(m *metrics.Registry, logger *logrus.Logger) *WebSocketHub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &WebSocketHub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		metrics:    m,
		logger:     logger,
	}
}

// Run processes registrations until ctx is done, then closes every client.
// Run must be called at most once.
func (h *WebSocketHub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.metrics.SetWSClients(0)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.mu.Unlock()
			h.metrics.SetWSClients(n)
			h.logger.WithField("client_id", client.ID).Info("Client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.metrics.SetWSClients(n)
			h.logger.WithField("client_id", client.ID).Info("Client unregistered")
		}
	}
}

// Register adds client to the hub. Once the hub has stopped, the client's
// send channel is closed instead so its write pump exits.
func (h *WebSocketHub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *WebSocketHub) unregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to every client subscribed to topic. Clients
// whose buffers are full miss the message.
func (h *WebSocketHub) Broadcast(topic, messageType string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	message, err := json.Marshal(WebSocketMessage{
		Type:      messageType,
		Topic:     topic,
		Data:      payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if !client.IsSubscribedTo(topic) {
			continue
		}
		select {
		case client.send <- message:
		default:
			h.logger.WithField("client_id", client.ID).Warn("Client buffer full, dropping message")
		}
	}
	return nil
}

// NewClient creates a client subscribed to topics. conn may be nil in tests.
func NewClient(hub *WebSocketHub, conn *websocket.Conn, topics ...string) *Client {
	c := &Client{
		ID:     uuid.New().String(),
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		topics: make(map[string]bool),
	}
	for _, t := range topics {
		c.topics[t] = true
	}
	return c
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregisterClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var sub Subscription
		err := c.conn.ReadJSON(&sub)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.WithField("client_id", c.ID).WithError(err).Error("WebSocket error")
			}
			break
		}
		c.apply(sub)
	}
}

func (c *Client) apply(sub Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch sub.Action {
	case "subscribe":
		for _, topic := range sub.Topics {
			c.topics[topic] = true
		}
	case "unsubscribe":
		for _, topic := range sub.Topics {
			delete(c.topics, topic)
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) IsSubscribedTo(topic string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.topics[topic] || c.topics[TopicAll]
}
