package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WebSocketClient streams one connected subscriber's BroadcastEvents onto
// the wire as JSON, and accepts subscription-change requests in the other
// direction.
type WebSocketClient struct {
	conn         *websocket.Conn
	send         chan BroadcastEvent
	subscription *Subscription
	broadcaster  *Broadcaster
	log          *logrus.Logger
	mu           sync.Mutex
}

// SubscriptionRequest is the client message that opens or replaces a
// subscription. An empty SessionID or EventTypes matches "all".
type SubscriptionRequest struct {
	Type       string   `json:"type"`
	SessionID  string   `json:"sessionId"`
	EventTypes []string `json:"events"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &WebSocketClient{
		conn:        conn,
		send:        make(chan BroadcastEvent, 256),
		broadcaster: s.broadcaster,
		log:         s.log,
	}

	go client.writePump()
	go client.readPump()
}

// readPump accepts subscription requests for the lifetime of the
// connection; state and execution events only ever flow the other way.
func (c *WebSocketClient) readPump() {
	defer c.teardown()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("websocket set read deadline failed")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Warn("websocket read failed")
			}
			return
		}

		var req SubscriptionRequest
		if err := json.Unmarshal(message, &req); err != nil {
			c.log.WithError(err).Warn("malformed subscription request")
			continue
		}
		if req.Type == "subscribe" {
			c.subscribeTo(req)
		}
	}
}

// writePump drains queued events onto the socket and keeps the connection
// alive with periodic pings while idle.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			c.log.WithError(err).Warn("websocket close failed")
		}
	}()

	for {
		select {
		case event, open := <-c.send:
			if !c.extendWriteDeadline() {
				return
			}
			if !open {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				c.log.WithError(err).Warn("websocket write failed")
				return
			}

		case <-ticker.C:
			if !c.extendWriteDeadline() {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *WebSocketClient) extendWriteDeadline() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.log.WithError(err).Warn("websocket set write deadline failed")
		return false
	}
	return true
}

// subscribeTo replaces the client's active subscription, if any, with a
// new one matching the request and starts relaying its events.
func (c *WebSocketClient) subscribeTo(req SubscriptionRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.subscription != nil {
		c.broadcaster.Unsubscribe(c.subscription)
	}

	eventTypes := make([]EventType, 0, len(req.EventTypes))
	for _, et := range req.EventTypes {
		eventTypes = append(eventTypes, EventType(et))
	}

	c.subscription = c.broadcaster.Subscribe(req.SessionID, eventTypes)
	go c.relay(c.subscription)
}

// relay copies events from a subscription's channel into the client's send
// queue until the subscription is torn down. It takes the subscription as
// a parameter, not via c.subscription, so a stale goroutine from a replaced
// subscription drains its own channel rather than the new one.
func (c *WebSocketClient) relay(sub *Subscription) {
	for event := range sub.Channel {
		select {
		case c.send <- event:
		default:
			// client's send queue is saturated, drop the event
		}
	}
}

func (c *WebSocketClient) teardown() {
	if err := c.conn.Close(); err != nil {
		c.log.WithError(err).Warn("websocket close failed")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subscription != nil {
		c.broadcaster.Unsubscribe(c.subscription)
		c.subscription = nil
	}
}
