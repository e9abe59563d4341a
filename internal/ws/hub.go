package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
)

const (
	writeWait          = 10 * time.Second
	pongWait           = 60 * time.Second
	pingPeriod         = (pongWait * 9) / 10
	maxMessageSize     = 64 * 1024
	maxSendChannelSize = 256
	roomQueueSize      = 256
)

// HubOptions tune idle room cleanup.
type HubOptions struct {
	CleanupInterval time.Duration
	IdleRoomTTL     time.Duration
}

// Hub owns one Room per chat id. A room exists while it has members or has
// been active within IdleRoomTTL.
type Hub struct {
	mu           sync.RWMutex
	rooms        map[uint]*Room
	options      HubOptions
	shutdown     chan struct{}
	shutdownOnce sync.Once
	metrics      *Metrics
}

// HubStats is a point-in-time view of the hub.
type HubStats struct {
	TotalRooms       int64 `json:"total_rooms"`
	TotalConnections int64 `json:"total_connections"`
}

// Metrics are cumulative counters exported through the Prometheus collector.
type Metrics struct {
	MessagesSent     atomic.Int64
	MessagesReceived atomic.Int64
	Connections      atomic.Int64
	Rejections       atomic.Int64
	Errors           atomic.Int64
	Dropped          atomic.Int64
}

func NewHub(options ...HubOptions) *Hub {
	opts := HubOptions{
		CleanupInterval: 5 * time.Minute,
		IdleRoomTTL:     time.Hour,
	}

	if len(options) > 0 {
		opts = options[0]
	}

	hub := &Hub{
		rooms:    make(map[uint]*Room),
		options:  opts,
		shutdown: make(chan struct{}),
		metrics:  &Metrics{},
	}

	go hub.cleanupLoop()

	return hub
}

func (h *Hub) Metrics() *Metrics {
	return h.metrics
}

// GetRoomSafe returns the chat's room if it exists.
func (h *Hub) GetRoomSafe(chatID uint) (*Room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, exists := h.rooms[chatID]
	return room, exists
}

// Join registers the client in its chat's room, creating the room on demand.
// Registration is complete when Join returns, so every broadcast issued
// afterwards reaches the client.
func (h *Hub) Join(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, exists := h.rooms[client.ChatID]
	if !exists {
		room = NewRoom(client.ChatID)
		h.rooms[client.ChatID] = room
	}

	room.Register(client)
	h.metrics.Connections.Inc()
}

// Leave removes the client from its room. Calling it for a client that never
// joined, or twice, is a no-op.
func (h *Hub) Leave(client *Client) {
	room, exists := h.GetRoomSafe(client.ChatID)
	if !exists {
		return
	}

	room.Unregister(client)
}

// Broadcast delivers ev to every session of the chat, the sender included.
func (h *Hub) Broadcast(chatID uint, ev any) {
	room, exists := h.GetRoomSafe(chatID)
	if !exists {
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("hub: failed to marshal broadcast for chat %d: %v", chatID, err)
		h.metrics.Errors.Inc()
		return
	}

	room.Broadcast(data)
	h.metrics.MessagesSent.Inc()
}

// IsUserActive reports whether userID has an open session in the chat on this
// instance.
func (h *Hub) IsUserActive(_ context.Context, chatID, userID uint) (bool, error) {
	room, exists := h.GetRoomSafe(chatID)
	if !exists {
		return false, nil
	}
	return room.HasUser(userID), nil
}

// GetRoomInfo is nil when the chat has no room.
func (h *Hub) GetRoomInfo(chatID uint) *RoomInfo {
	room, exists := h.GetRoomSafe(chatID)
	if !exists {
		return nil
	}

	return room.GetInfo()
}

func (h *Hub) GetStats() HubStats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := HubStats{TotalRooms: int64(len(h.rooms))}
	for _, room := range h.rooms {
		stats.TotalConnections += int64(room.activeCount.Load())
	}
	return stats
}

// Shutdown stops every room and closes every client.
func (h *Hub) Shutdown() {
	h.shutdownOnce.Do(func() {
		close(h.shutdown)

		h.mu.Lock()
		defer h.mu.Unlock()

		for _, room := range h.rooms {
			room.Shutdown()
		}

		h.rooms = make(map[uint]*Room)
	})
}

func (h *Hub) cleanupLoop() {
	ticker := time.NewTicker(h.options.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.shutdown:
			return
		case <-ticker.C:
			h.cleanupInactiveRooms()
		}
	}
}

func (h *Hub) cleanupInactiveRooms() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for chatID, room := range h.rooms {
		if room.IsEmpty() && room.IdleFor() > h.options.IdleRoomTTL {
			room.Shutdown()
			delete(h.rooms, chatID)
		}
	}
}

type RoomInfo struct {
	ChatID        uint      `json:"chat_id"`
	ActiveClients int       `json:"active_clients"`
	CreatedAt     time.Time `json:"created_at"`
	LastActivity  time.Time `json:"last_activity"`
}

// Room is the broadcast group of one chat. Membership changes synchronously;
// broadcasts go through a single queue so members see them in issue order.
type Room struct {
	chatID       uint
	mu           sync.RWMutex
	clients      map[*Client]struct{}
	broadcast    chan []byte
	shutdown     chan struct{}
	shutdownOnce sync.Once
	createdAt    time.Time
	lastActive   atomic.Time
	activeCount  atomic.Int32
}

func NewRoom(chatID uint) *Room {
	room := &Room{
		chatID:    chatID,
		clients:   make(map[*Client]struct{}),
		broadcast: make(chan []byte, roomQueueSize),
		shutdown:  make(chan struct{}),
		createdAt: time.Now(),
	}

	room.lastActive.Store(time.Now())

	go room.run()

	return room
}

func (r *Room) run() {
	defer func() {
		r.mu.Lock()
		for client := range r.clients {
			client.Close()
		}
		r.clients = make(map[*Client]struct{})
		r.activeCount.Store(0)
		r.mu.Unlock()
	}()

	for {
		select {
		case <-r.shutdown:
			return
		case message := <-r.broadcast:
			r.handleBroadcast(message)
		}
	}
}

func (r *Room) handleBroadcast(message []byte) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for client := range r.clients {
		client.SendRaw(message)
	}

	r.lastActive.Store(time.Now())
}

func (r *Room) Register(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[client]; exists {
		return
	}

	r.clients[client] = struct{}{}
	r.activeCount.Inc()
	r.lastActive.Store(time.Now())
}

// Unregister reports whether the client was a member.
func (r *Room) Unregister(client *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[client]; !exists {
		return false
	}

	delete(r.clients, client)
	r.activeCount.Dec()
	r.lastActive.Store(time.Now())
	return true
}

// Broadcast queues a message for every member.
func (r *Room) Broadcast(message []byte) {
	select {
	case r.broadcast <- message:
	case <-r.shutdown:
	}
}

func (r *Room) HasUser(userID uint) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for client := range r.clients {
		if client.UserID == userID {
			return true
		}
	}
	return false
}

func (r *Room) GetInfo() *RoomInfo {
	return &RoomInfo{
		ChatID:        r.chatID,
		ActiveClients: int(r.activeCount.Load()),
		CreatedAt:     r.createdAt,
		LastActivity:  r.lastActive.Load(),
	}
}

func (r *Room) IsEmpty() bool {
	return r.activeCount.Load() == 0
}

func (r *Room) IdleFor() time.Duration {
	return time.Since(r.lastActive.Load())
}

func (r *Room) Shutdown() {
	r.shutdownOnce.Do(func() { close(r.shutdown) })
}

// Client is one WebSocket connection bound to a chat.
type Client struct {
	UserID   uint
	ChatID   uint
	ctx      context.Context
	cancel   context.CancelFunc
	conn     *websocket.Conn
	send     chan []byte
	mu       sync.RWMutex
	isClosed bool
	metrics  *Metrics
}

func NewClient(ctx context.Context, conn *websocket.Conn, userID, chatID uint, metrics *Metrics) *Client {
	ctx, cancel := context.WithCancel(ctx)

	if metrics == nil {
		metrics = &Metrics{}
	}

	return &Client{
		UserID:  userID,
		ChatID:  chatID,
		ctx:     ctx,
		cancel:  cancel,
		conn:    conn,
		send:    make(chan []byte, maxSendChannelSize),
		metrics: metrics,
	}
}

// ReadPump reads text frames and hands each one to handle, finishing it before
// reading the next frame.
func (c *Client) ReadPump(handle func(frame []byte)) {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived) {
				log.Printf("ws: read error for user %d in chat %d: %v", c.UserID, c.ChatID, err)
			}
			return
		}

		if messageType != websocket.TextMessage {
			continue
		}

		c.metrics.MessagesReceived.Inc()
		handle(frame)
	}
}

// WritePump drains the send queue, one WebSocket frame per event, and keeps
// the connection alive with pings.
func (c *Client) WritePump() error {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			return nil
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return nil
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return err
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

func (c *Client) SendJSON(v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return false
	}

	return c.SendRaw(data)
}

// SendRaw queues data for the writer. It drops the frame when the client is
// closed or its queue is full.
func (c *Client) SendRaw(data []byte) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.isClosed {
		return false
	}

	select {
	case c.send <- data:
		return true
	default:
		c.metrics.Dropped.Inc()
		log.Printf("ws: send queue full for user %d in chat %d, dropping frame", c.UserID, c.ChatID)
		return false
	}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isClosed {
		return
	}

	c.isClosed = true
	c.cancel()
	close(c.send)
	if c.conn != nil {
		c.conn.Close()
	}
}

func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isClosed
}
