// internal/server/handlers/websocket.go

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"

	"datescout/internal/logger"
)

// WebSocketClient represents a connected WebSocket client following the
// progress of one analysis run
type WebSocketClient struct {
	conn              *websocket.Conn
	send              chan []byte
	runID             string
	natsConn          *nats.Conn
	natsSubscriptions []*nats.Subscription
}

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 64 * 1024,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS policy is enforced at the router level
		return true
	},
}

// AnalysisWebSocketHandler streams analysis progress and completion events
// for a run to the client. The engine publishes these on NATS; the handler
// only bridges them to the socket.
func AnalysisWebSocketHandler(natsConn *nats.Conn, eventsTopic string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runID := chi.URLParam(r, "id")
		if runID == "" {
			http.Error(w, "Missing analysis ID", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("failed to upgrade to WebSocket: %v", err)
			return
		}

		client := &WebSocketClient{
			conn:     conn,
			send:     make(chan []byte, 64),
			runID:    runID,
			natsConn: natsConn,
		}

		go client.writePump()
		go client.readPump()

		if err := client.subscribe(eventsTopic); err != nil {
			logger.Error("failed to subscribe to analysis topics: %v", err)
			client.closeConnection()
			return
		}

		welcome, _ := json.Marshal(map[string]interface{}{
			"type":   "subscribed",
			"run_id": runID,
			"time":   time.Now().UTC(),
		})
		client.send <- welcome

		logger.Debug("new WebSocket connection for analysis %s", runID)
	}
}

// subscribe wires the client to the run's progress and completion subjects
func (c *WebSocketClient) subscribe(eventsTopic string) error {
	subjects := []string{
		fmt.Sprintf("%s.progress.%s", eventsTopic, c.runID),
		fmt.Sprintf("%s.completed.%s", eventsTopic, c.runID),
	}

	for _, subject := range subjects {
		sub, err := c.natsConn.Subscribe(subject, func(msg *nats.Msg) {
			select {
			case c.send <- msg.Data:
			default:
				// Slow client: drop rather than block the NATS callback.
			}
		})
		if err != nil {
			return fmt.Errorf("subscribing to %s: %w", subject, err)
		}
		c.natsSubscriptions = append(c.natsSubscriptions, sub)
	}

	return nil
}

// readPump consumes control frames from the client; the progress stream is
// one-way, so incoming data messages are discarded
func (c *WebSocketClient) readPump() {
	config := DefaultWebSocketConfig()

	defer c.closeConnection()

	c.conn.SetReadLimit(config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Debug("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps queued messages to the WebSocket connection
func (c *WebSocketClient) writePump() {
	config := DefaultWebSocketConfig()
	ticker := time.NewTicker(config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// closeConnection drains the NATS subscriptions and closes the socket
func (c *WebSocketClient) closeConnection() {
	for _, sub := range c.natsSubscriptions {
		_ = sub.Unsubscribe()
	}
	c.natsSubscriptions = nil
	_ = c.conn.Close()
}
