package ws

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"partnerz-backend/internal/delivery/http/middleware"
	"partnerz-backend/internal/domain"
	"partnerz-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const sendBuffer = 32

// Event is the envelope of everything pushed to a socket.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub keeps the open sockets of every signed-in profile and pushes chat messages
// to them. A profile may hold several sockets, one per tab.
type Hub struct {
	verifier middleware.TokenVerifier
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub(verifier middleware.TokenVerifier, allowedOrigins []string) *Hub {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[strings.TrimRight(origin, "/")] = true
	}

	return &Hub{
		verifier: verifier,
		clients:  make(map[string]map[*Client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed[origin]
			},
		},
	}
}

// ServeWS godoc
// @Summary      Realtime channel
// @Description  Upgrades to a websocket that receives chat messages addressed to the caller. Browsers pass the access token as ?token=.
// @Tags         chat
// @Param        token  query  string  false  "Access token"
// @Success      101
// @Failure      401    {object}  response.Response
// @Router       /ws [get]
func (h *Hub) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = middleware.BearerToken(c)
	}
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Missing access token"})
		return
	}

	claims, err := h.verifier.Verify(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Session expired or invalid. Please sign in again."})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Warnw("websocket upgrade failed", "user_id", claims.UserID, "error", err)
		return
	}

	client := &Client{
		hub:    h,
		userID: claims.UserID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
	h.register(client)

	go client.writePump()
	client.readPump()
}

// PublishMessage implements domain.MessagePublisher.
func (h *Hub) PublishMessage(recipientID string, message *domain.Message) {
	payload, err := json.Marshal(Event{Type: "message", Data: message})
	if err != nil {
		logger.Log.Errorw("failed to encode websocket event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[recipientID] {
		select {
		case client.send <- payload:
		default:
			logger.Log.Warnw("websocket send buffer full", "user_id", recipientID)
		}
	}
}

// Connections returns the number of open sockets of a profile.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Close ends every open socket.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, set := range h.clients {
		for client := range set {
			close(client.send)
		}
		delete(h.clients, userID)
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[client.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[client.userID] = set
	}
	set[client] = struct{}{}
	logger.Log.Debugw("websocket connected", "user_id", client.userID, "connections", len(set))
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
	logger.Log.Debugw("websocket disconnected", "user_id", client.userID)
}
