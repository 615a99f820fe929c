// Package hub is the server's websocket endpoint. It upgrades connections,
// decodes request frames, routes them to the registered command handlers and
// answers every request with exactly one ack. Event frames are broadcast to
// all connected clients.
package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrijs2005/groundstation/internal/logging"
	"github.com/dmitrijs2005/groundstation/internal/protocol"
	"github.com/dmitrijs2005/groundstation/internal/server/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Clients are desktop consoles, not browsers; no origin policy applies.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handlerFunc executes one command. The returned value is marshalled into the
// success ack payload; a non-nil error produces a failure ack carrying the
// error text verbatim.
type handlerFunc func(ctx context.Context, c *client, payload json.RawMessage) (any, error)

// Hub owns the connection set and the topic registry.
type Hub struct {
	log     logging.Logger
	metrics *Metrics

	station    *services.StationService
	users      *services.UserService
	tles       *services.TLEService
	recordings *services.RecordingService

	handlers map[string]handlerFunc

	mu      sync.RWMutex
	clients map[*client]struct{}

	startedAt time.Time
}

func New(log logging.Logger, metrics *Metrics, station *services.StationService,
	users *services.UserService, tles *services.TLEService, recordings *services.RecordingService) *Hub {

	h := &Hub{
		log:        log.With("component", "hub"),
		metrics:    metrics,
		station:    station,
		users:      users,
		tles:       tles,
		recordings: recordings,
		handlers:   make(map[string]handlerFunc),
		clients:    make(map[*client]struct{}),
		startedAt:  time.Now(),
	}
	h.registerHandlers()
	return h
}

// ServeHTTP upgrades the connection and starts its pumps.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error(r.Context(), "upgrade failed", "error", err)
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, 64)}
	h.register(c)

	go c.writePump()
	go c.readPump(context.Background())
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.metrics.connectedClients.Set(float64(n))
	h.log.Info(context.Background(), "client connected", "clients", n)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	c.shutdown()

	h.metrics.connectedClients.Set(float64(n))
	h.log.Info(context.Background(), "client disconnected", "clients", n)
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast pushes an event frame to every connected client.
func (h *Hub) Broadcast(topic string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error(context.Background(), "event marshal failed", "topic", topic, "error", err)
		return
	}
	frame, err := json.Marshal(&protocol.Frame{Kind: protocol.KindEvent, Topic: topic, Payload: data})
	if err != nil {
		return
	}

	h.metrics.eventsTotal.WithLabelValues(topic).Inc()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.enqueue(frame)
	}
}

// RunStatusTicker broadcasts a station-status event every interval until the
// context is cancelled.
func (h *Hub) RunStatusTicker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Broadcast(protocol.EventStatus, &protocol.StatusEvent{
				ConnectedClients: h.clientCount(),
				UptimeSeconds:    int64(time.Since(h.startedAt).Seconds()),
			})
		}
	}
}

// dispatch routes one decoded frame. Only request frames are meaningful from
// clients; anything else is dropped.
func (h *Hub) dispatch(ctx context.Context, c *client, frame *protocol.Frame) {
	if frame.Kind != protocol.KindRequest || frame.ID == "" {
		h.log.Warn(ctx, "dropping non-request frame", "kind", frame.Kind)
		return
	}

	h.metrics.commandsTotal.WithLabelValues(frame.Topic).Inc()

	handler, ok := h.handlers[frame.Topic]
	if !ok {
		h.ackError(c, frame, "unknown command: "+frame.Topic)
		return
	}

	result, err := handler(ctx, c, frame.Payload)
	if err != nil {
		h.ackError(c, frame, err.Error())
		return
	}
	h.ackSuccess(ctx, c, frame, result)
}

func (h *Hub) ackSuccess(ctx context.Context, c *client, req *protocol.Frame, result any) {
	var payload json.RawMessage
	if result != nil {
		var err error
		if payload, err = json.Marshal(result); err != nil {
			h.ackError(c, req, "internal error")
			h.log.Error(ctx, "ack marshal failed", "topic", req.Topic, "error", err)
			return
		}
	}

	data, err := json.Marshal(&protocol.Frame{Kind: protocol.KindAck, ID: req.ID, Success: true, Payload: payload})
	if err != nil {
		return
	}
	c.enqueue(data)
}

func (h *Hub) ackError(c *client, req *protocol.Frame, msg string) {
	h.metrics.commandErrors.WithLabelValues(req.Topic).Inc()

	data, err := json.Marshal(&protocol.Frame{Kind: protocol.KindAck, ID: req.ID, Success: false, Error: msg})
	if err != nil {
		return
	}
	c.enqueue(data)
}
