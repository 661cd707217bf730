package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/common"
	"github.com/ternarybob/docqa/internal/interfaces"
	"github.com/ternarybob/docqa/internal/models"
	"golang.org/x/time/rate"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// broadcastEvents are forwarded to WebSocket clients
var broadcastEvents = []interfaces.EventType{
	interfaces.EventUploadStarted,
	interfaces.EventUploadProgress,
	interfaces.EventDocumentUploaded,
	interfaces.EventDocumentSelected,
	interfaces.EventQACreated,
	interfaces.EventSearchSettled,
}

// WSMessage is the envelope for every WebSocket frame
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ConnectedPayload is sent to each client on connect
type ConnectedPayload struct {
	ServerInstanceID string    `json:"server_instance_id"`
	Version          string    `json:"version"`
	Timestamp        time.Time `json:"timestamp"`
}

type WebSocketHandler struct {
	logger           arbor.ILogger
	clients          map[*websocket.Conn]bool
	clientMutex      map[*websocket.Conn]*sync.Mutex
	mu               sync.RWMutex
	eventService     interfaces.EventService
	allowedEvents    map[string]bool          // Whitelist of events to broadcast (empty = allow all)
	throttlers       map[string]*rate.Limiter // Per event type, only when configured
	serverInstanceID string                   // Unique ID generated on startup - clients use to detect server restart
}

func NewWebSocketHandler(eventService interfaces.EventService, logger arbor.ILogger, config *common.WebSocketConfig) *WebSocketHandler {
	h := &WebSocketHandler{
		logger:           logger,
		clients:          make(map[*websocket.Conn]bool),
		clientMutex:      make(map[*websocket.Conn]*sync.Mutex),
		eventService:     eventService,
		allowedEvents:    make(map[string]bool),
		throttlers:       make(map[string]*rate.Limiter),
		serverInstanceID: uuid.New().String(),
	}

	logger.Info().Str("server_instance_id", h.serverInstanceID).Msg("WebSocket handler initialized with server instance ID")

	// Empty list means allow all events
	if config != nil && len(config.AllowedEvents) > 0 {
		for _, eventType := range config.AllowedEvents {
			h.allowedEvents[eventType] = true
		}
		logger.Debug().
			Int("allowed_events", len(h.allowedEvents)).
			Msg("Initialized event whitelist for WebSocketHandler")
	}

	// Nil throttler = no throttling
	if config != nil {
		for eventType, intervalStr := range config.ThrottleIntervals {
			duration, err := time.ParseDuration(intervalStr)
			if err != nil {
				logger.Warn().
					Err(err).
					Str("event_type", eventType).
					Str("interval", intervalStr).
					Msg("Failed to parse throttle interval - throttler disabled")
				continue
			}
			h.throttlers[eventType] = rate.NewLimiter(rate.Every(duration), 1)
			logger.Debug().
				Str("event_type", eventType).
				Str("interval", intervalStr).
				Msg("Throttler initialized")
		}
	}

	if eventService != nil {
		h.subscribeToEvents()
	}

	return h
}

// ServerInstanceID returns the ID that changes on every restart
func (h *WebSocketHandler) ServerInstanceID() string {
	return h.serverInstanceID
}

// HandleWebSocket handles WebSocket connections
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	mutex := &sync.Mutex{}
	h.mu.Lock()
	h.clients[conn] = true
	h.clientMutex[conn] = mutex
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug().Msgf("WebSocket client connected (total: %d)", clientCount)

	h.send(conn, mutex, WSMessage{
		Type: "connected",
		Payload: ConnectedPayload{
			ServerInstanceID: h.serverInstanceID,
			Version:          common.GetVersion(),
			Timestamp:        time.Now(),
		},
	})

	// Handle client disconnection
	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		delete(h.clientMutex, conn)
		clientCount := len(h.clients)
		h.mu.Unlock()

		conn.Close()
		h.logger.Debug().Msgf("WebSocket client disconnected (remaining: %d)", clientCount)
	}()

	// Read messages from client (keep connection alive)
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn().Err(err).Msg("WebSocket error")
			}
			break
		}
	}
}

// Broadcast sends msg to all connected clients
func (h *WebSocketHandler) Broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msg.Type).Msg("Failed to marshal WebSocket message")
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	mutexes := make([]*sync.Mutex, 0, len(h.clients))
	for conn := range h.clients {
		clients = append(clients, conn)
		mutexes = append(mutexes, h.clientMutex[conn])
	}
	h.mu.RUnlock()

	for i, conn := range clients {
		mutex := mutexes[i]
		mutex.Lock()
		err := conn.WriteMessage(websocket.TextMessage, data)
		mutex.Unlock()

		if err != nil {
			h.logger.Warn().Err(err).Str("type", msg.Type).Msg("Failed to send message to client")
		}
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *WebSocketHandler) send(conn *websocket.Conn, mutex *sync.Mutex, msg WSMessage) {
	mutex.Lock()
	defer mutex.Unlock()
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Warn().Err(err).Str("type", msg.Type).Msg("Failed to send message to client")
	}
}

func (h *WebSocketHandler) subscribeToEvents() {
	for _, eventType := range broadcastEvents {
		if err := h.eventService.Subscribe(eventType, h.forward); err != nil {
			h.logger.Warn().Err(err).Str("event_type", string(eventType)).Msg("Failed to subscribe WebSocket handler")
		}
	}
}

// forward relays an event to clients after the whitelist and throttle checks
func (h *WebSocketHandler) forward(ctx context.Context, event interfaces.Event) error {
	eventType := string(event.Type)

	if len(h.allowedEvents) > 0 && !h.allowedEvents[eventType] {
		return nil
	}

	if limiter, ok := h.throttlers[eventType]; ok && !isFinalProgress(event) && !limiter.Allow() {
		return nil
	}

	h.Broadcast(WSMessage{Type: eventType, Payload: event.Payload})
	return nil
}

// isFinalProgress reports the 100% upload frame, which is never throttled
func isFinalProgress(event interfaces.Event) bool {
	status, ok := event.Payload.(models.UploadStatus)
	return ok && event.Type == interfaces.EventUploadProgress && status.Progress >= 100
}
