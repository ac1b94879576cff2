package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"chatmood/backend/pkg/logger"
	pkgws "chatmood/backend/pkg/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
	HandshakeTimeout: 10 * time.Second,
	ReadBufferSize:   1024,
	WriteBufferSize:  1024,
}

// Client is one websocket subscriber, bound to a single analysis ID
type Client struct {
	ID         string
	AnalysisID string
	Conn       *websocket.Conn
	Send       chan []byte
	Hub        *Hub
}

// Hub fans analysis progress out to subscribed clients. Progress is a
// fire-and-forget side channel: a slow or absent subscriber never blocks
// the analysis pipeline.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan pkgws.ProgressEvent
	register   chan *Client
	unregister chan *Client
	log        *logger.Logger
	mu         sync.Mutex
}

// NewHub creates a progress hub
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.GetGlobal()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan pkgws.ProgressEvent, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run processes registrations and broadcasts until the process exits
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.log.Debug("ws client subscribed", "client_id", client.ID, "analysis_id", client.AnalysisID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			frame, err := json.Marshal(pkgws.Envelope{Type: "progress", Content: event})
			if err != nil {
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				if client.AnalysisID != event.AnalysisID {
					continue
				}
				select {
				case client.Send <- frame:
				default:
					// Subscriber cannot keep up; drop it
					delete(h.clients, client)
					close(client.Send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues a progress event for fan-out. It never blocks the caller;
// when the hub is saturated the event is dropped.
func (h *Hub) Publish(event pkgws.ProgressEvent) {
	select {
	case h.broadcast <- event:
	default:
	}
}

// ServeWs upgrades an HTTP request into a progress subscription. The
// analysis ID comes from the query string.
func ServeWs(hub *Hub, c *gin.Context) {
	analysisID := c.Query("analysisId")
	if analysisID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "analysisId query parameter is required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		hub.log.LogError(err, "websocket upgrade failed")
		return
	}

	client := &Client{
		ID:         uuid.New().String(),
		AnalysisID: analysisID,
		Conn:       conn,
		Send:       make(chan []byte, 64),
		Hub:        hub,
	}

	hub.register <- client

	go client.writePump()
	go client.readPump()
}

// writePump pushes frames and pings to the peer
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; the socket is one-way. It exists to
// react to pongs and connection closure.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(1024)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
