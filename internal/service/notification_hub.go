package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"skillify_backend/pkg/logger"
	"skillify_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	shardCount     = 32
	sendBuffer     = 64

	notificationChannel = "skillify:notifications"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Room is the name of the per-user channel a connection joins.
func Room(userID uint) string {
	return fmt.Sprintf("user_%d", userID)
}

type Client struct {
	Hub     *NotificationHub
	Conn    *websocket.Conn
	Send    chan []byte
	UserID  uint
	Limiter *rate.Limiter
}

// readPump only drains control frames and client pings; the notification
// channel is server to client.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("WebSocket unexpected close", zap.Error(err), zap.Uint("userId", c.UserID))
			}
			break
		}
		if !c.Limiter.Allow() {
			continue
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		if msg.Type == "ping" {
			c.Hub.deliverLocal(c.UserID, mustMarshal(WSMessage{Type: "pong"}))
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

type shard struct {
	rooms map[uint]map[*Client]struct{}
	mu    sync.RWMutex
}

// NotificationHub pushes server events to every open connection of a user.
// With Redis configured, events fan out through pub/sub so each instance
// delivers to the connections it holds.
type NotificationHub struct {
	shards [shardCount]*shard
	Redis  *redis.Client
}

func NewNotificationHub(rdb *redis.Client) *NotificationHub {
	h := &NotificationHub{Redis: rdb}
	for i := 0; i < shardCount; i++ {
		h.shards[i] = &shard{rooms: make(map[uint]map[*Client]struct{})}
	}
	return h
}

func (h *NotificationHub) getShard(userID uint) *shard {
	return h.shards[userID%shardCount]
}

type pubSubMessage struct {
	UserID  uint            `json:"userId"`
	Payload json.RawMessage `json:"payload"`
}

// Run relays pub/sub traffic until ctx is done. Without Redis it returns at once.
func (h *NotificationHub) Run(ctx context.Context) {
	if h.Redis == nil {
		return
	}
	pubsub := h.Redis.Subscribe(ctx, notificationChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ps pubSubMessage
			if err := json.Unmarshal([]byte(msg.Payload), &ps); err != nil {
				logger.Log.Error("PubSub unmarshal error", zap.Error(err))
				continue
			}
			h.deliverLocal(ps.UserID, ps.Payload)
		}
	}
}

func (h *NotificationHub) register(c *Client) {
	s := h.getShard(c.UserID)
	s.mu.Lock()
	room, ok := s.rooms[c.UserID]
	if !ok {
		room = make(map[*Client]struct{})
		s.rooms[c.UserID] = room
	}
	room[c] = struct{}{}
	s.mu.Unlock()
	monitoring.WSConnections.Inc()
	logger.Log.Debug("Client joined room", zap.String("room", Room(c.UserID)))
}

func (h *NotificationHub) unregister(c *Client) {
	s := h.getShard(c.UserID)
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[c.UserID]
	if !ok {
		return
	}
	if _, ok := room[c]; !ok {
		return
	}
	delete(room, c)
	close(c.Send)
	if len(room) == 0 {
		delete(s.rooms, c.UserID)
	}
	monitoring.WSConnections.Dec()
}

// Notify sends msg to the room of userID.
func (h *NotificationHub) Notify(ctx context.Context, userID uint, msg WSMessage) {
	payload := mustMarshal(msg)
	monitoring.WSMessages.WithLabelValues(msg.Type).Inc()
	h.dispatch(ctx, userID, payload)
}

// dispatch publishes payload for every instance, or delivers it here when Redis is absent or failing.
func (h *NotificationHub) dispatch(ctx context.Context, userID uint, payload []byte) {
	if h.Redis != nil {
		data, err := json.Marshal(pubSubMessage{UserID: userID, Payload: payload})
		if err == nil {
			err = h.Redis.Publish(ctx, notificationChannel, data).Err()
		}
		if err == nil {
			return
		}
		logger.Log.Warn("Publish failed, delivering locally", zap.Error(err), zap.Uint("userId", userID))
	}
	h.deliverLocal(userID, payload)
}

func (h *NotificationHub) deliverLocal(userID uint, payload []byte) {
	s := h.getShard(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for client := range s.rooms[userID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *NotificationHub) IsOnline(userID uint) bool {
	s := h.getShard(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms[userID]) > 0
}

// Stop closes every connection.
func (h *NotificationHub) Stop() {
	closed := 0
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.Lock()
		for userID, room := range s.rooms {
			for client := range room {
				close(client.Send)
				closed++
			}
			delete(s.rooms, userID)
		}
		s.mu.Unlock()
	}
	monitoring.WSConnections.Set(0)
	logger.Log.Info("NotificationHub stopped", zap.Int("closedConnections", closed))
}

func ServeWs(hub *NotificationHub, w http.ResponseWriter, r *http.Request, userID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err), zap.Uint("userId", userID))
		return
	}
	client := &Client{
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan []byte, sendBuffer),
		UserID:  userID,
		Limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
	hub.register(client)

	go client.writePump()
	go client.readPump()
}

func mustMarshal(msg WSMessage) []byte {
	b, err := json.Marshal(msg)
	if err != nil {
		logger.Log.Error("Marshal websocket message", zap.Error(err))
		return []byte(`{}`)
	}
	return b
}
