package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"miniapp-gateway/internal/pkg/logger"
	"miniapp-gateway/internal/platform"
)

const DefaultClusterChannel = "gateway_device_events"

var (
	ErrDeviceOffline = errors.New("device is not connected")
	ErrDeviceGone    = errors.New("device disconnected during call")
	ErrSendQueueFull = errors.New("device send queue is full")
)

// Hub tracks device connections, carries bridge calls to them and fans
// pushes out to other gateway instances through Redis.
type Hub struct {
	// DeviceID -> connections, oldest first. Calls go to the newest.
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	pendingMu sync.Mutex
	pending   map[string]pendingCall

	rdb        *redis.Client
	channel    string
	instanceID string

	callTimeout time.Duration
	logger      logger.ILogger

	quit     chan struct{}
	quitOnce sync.Once
}

func NewHub(rdb *redis.Client, log logger.ILogger, callTimeout time.Duration) *Hub {
	return &Hub{
		clients:     make(map[uuid.UUID][]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		pending:     make(map[string]pendingCall),
		rdb:         rdb,
		channel:     DefaultClusterChannel,
		instanceID:  uuid.NewString(),
		callTimeout: callTimeout,
		logger:      log,
		quit:        make(chan struct{}),
	}
}

// UseChannel sets the Redis channel shared by the instances. Call it before
// Run; an empty name keeps the default.
func (h *Hub) UseChannel(name string) *Hub {
	if name != "" {
		h.channel = name
	}
	return h
}

// Run owns registration until ctx ends, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer h.quitOnce.Do(func() { close(h.quit) })

	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.DeviceID] = append(h.clients[client.DeviceID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Device connected", map[string]interface{}{"device_id": client.DeviceID})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) drop(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.DeviceID]
	for i, c := range clients {
		if c == client {
			h.clients[client.DeviceID] = append(clients[:i:i], clients[i+1:]...)
			close(client.Send)
			close(client.done)
			break
		}
	}
	if len(h.clients[client.DeviceID]) == 0 {
		delete(h.clients, client.DeviceID)
		h.logger.Info("Hub", "Device disconnected", map[string]interface{}{"device_id": client.DeviceID})
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, clients := range h.clients {
		for _, c := range clients {
			close(c.Send)
			close(c.done)
		}
		delete(h.clients, id)
	}
}

// Connected reports whether the device has a socket on this instance.
func (h *Hub) Connected(deviceID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[deviceID]) > 0
}

// Call runs target.method on the device and waits for its result. A failure
// reported by the device comes back as *platform.BridgeError.
func (h *Hub) Call(ctx context.Context, deviceID uuid.UUID, target, method string, params any) (json.RawMessage, error) {
	var rawParams json.RawMessage
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("marshal %s.%s params: %w", target, method, err)
		}
		rawParams = b
	}

	id := uuid.NewString()
	frame, err := json.Marshal(Message{Type: TypeBridgeCall, ID: id, Target: target, Method: method, Params: rawParams})
	if err != nil {
		return nil, err
	}

	reply := make(chan Message, 1)
	h.pendingMu.Lock()
	h.pending[id] = pendingCall{deviceID: deviceID, reply: reply}
	h.pendingMu.Unlock()
	defer func() {
		h.pendingMu.Lock()
		delete(h.pending, id)
		h.pendingMu.Unlock()
	}()

	client, err := h.enqueue(deviceID, frame)
	if err != nil {
		return nil, err
	}

	if h.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.callTimeout)
		defer cancel()
	}

	select {
	case msg := <-reply:
		if msg.OK {
			return msg.Data, nil
		}
		if msg.Error != nil {
			return nil, msg.Error
		}
		return nil, &platform.BridgeError{Message: target + "." + method + " failed"}
	case <-client.done:
		return nil, ErrDeviceGone
	case <-ctx.Done():
		return nil, fmt.Errorf("bridge call %s.%s: %w", target, method, ctx.Err())
	}
}

// enqueue hands frame to the newest connection of the device.
func (h *Hub) enqueue(deviceID uuid.UUID, frame []byte) (*Client, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.clients[deviceID]
	if len(clients) == 0 {
		return nil, ErrDeviceOffline
	}
	client := clients[len(clients)-1]
	select {
	case client.Send <- frame:
		return client, nil
	default:
		h.logger.Warn("Hub", "Client Send buffer full, dropping call", map[string]interface{}{"device_id": deviceID})
		return nil, ErrSendQueueFull
	}
}

// Push delivers msg to every connection of the device, here and on the other
// instances.
func (h *Hub) Push(ctx context.Context, deviceID uuid.UUID, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.deliverLocal(deviceID, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterPayload{
			Origin:         h.instanceID,
			TargetDeviceID: deviceID.String(),
			Message:        data,
		})
		if err := h.rdb.Publish(ctx, h.channel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Failed to publish to cluster", map[string]interface{}{"device_id": deviceID, "error": err.Error()})
		}
	}
	return nil
}

func (h *Hub) deliverLocal(deviceID uuid.UUID, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[deviceID] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"device_id": deviceID})
		}
	}
}

func (h *Hub) handleMessage(c *Client, raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.logger.Warn("Hub", "Malformed frame", map[string]interface{}{"device_id": c.DeviceID, "error": err.Error()})
		return
	}

	switch msg.Type {
	case TypeBridgeResult:
		h.pendingMu.Lock()
		call, ok := h.pending[msg.ID]
		h.pendingMu.Unlock()
		if !ok {
			h.logger.Debug("Hub", "Result for unknown call", map[string]interface{}{"device_id": c.DeviceID, "call_id": msg.ID})
			return
		}
		if call.deviceID != c.DeviceID {
			h.logger.Warn("Hub", "Result from a device the call was not sent to", map[string]interface{}{
				"device_id": c.DeviceID,
				"call_id":   msg.ID,
			})
			return
		}
		select {
		case call.reply <- msg:
		default:
		}
	default:
		h.logger.Debug("Hub", "Ignoring frame", map[string]interface{}{"device_id": c.DeviceID, "type": msg.Type})
	}
}

type pendingCall struct {
	deviceID uuid.UUID
	reply    chan Message
}

type clusterPayload struct {
	Origin         string          `json:"origin"`
	TargetDeviceID string          `json:"target_device_id"`
	Message        json.RawMessage `json:"message"`
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, h.channel)
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
			h.handleClusterMessage([]byte(msg.Payload))
		}
	}
}

// handleClusterMessage delivers a push published by another instance.
func (h *Hub) handleClusterMessage(raw []byte) {
	var payload clusterPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.logger.Warn("Hub", "Redis msg parse error", map[string]interface{}{"error": err.Error()})
		return
	}
	if payload.Origin == h.instanceID {
		return
	}
	deviceID, err := uuid.Parse(payload.TargetDeviceID)
	if err != nil {
		return
	}
	h.deliverLocal(deviceID, payload.Message)
}
