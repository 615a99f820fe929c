// Package channel maintains the client's single websocket connection to the
// station server. It correlates request frames with their acknowledgements by
// ULID, guarantees a registered callback fires at most once, dispatches
// unsolicited event frames to subscribers, and reconnects with exponential
// backoff when the link drops.
package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/groundstation/internal/logging"
	"github.com/dmitrijs2005/groundstation/internal/protocol"
)

// ErrChannelUnavailable is returned when a request is attempted while the
// connection is down. Callers surface it as "not connected" without retrying.
var ErrChannelUnavailable = errors.New("channel unavailable")

// AckCallback receives the acknowledgement for one request. It is invoked at
// most once, from the channel's read loop.
type AckCallback func(*protocol.Ack)

// EventHandler receives unsolicited event frames for a subscribed topic.
type EventHandler func(payload json.RawMessage)

type Channel struct {
	url      string
	log      logging.Logger
	minDelay time.Duration
	maxDelay time.Duration

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	notify    chan struct{}
	pending   map[string]AckCallback
	handlers  map[string][]EventHandler
	onConnect []func()

	writeMu sync.Mutex
}

func New(url string, log logging.Logger, minDelay, maxDelay time.Duration) *Channel {
	return &Channel{
		url:      url,
		log:      log.With("component", "channel"),
		minDelay: minDelay,
		maxDelay: maxDelay,
		notify:   make(chan struct{}),
		pending:  make(map[string]AckCallback),
		handlers: make(map[string][]EventHandler),
	}
}

// Run connects and keeps reconnecting until the context is cancelled. Every
// drop fails all in-flight requests with ErrChannelUnavailable before the
// next dial attempt.
func (c *Channel) Run(ctx context.Context) {
	for {
		conn, err := c.dial(ctx)
		if err != nil {
			return
		}

		c.setConnected(conn)
		c.log.Info(ctx, "connected", "url", c.url)
		c.fireOnConnect()

		c.readLoop(ctx, conn)

		c.setDisconnected()
		conn.Close()
		c.failPending(ErrChannelUnavailable)

		select {
		case <-ctx.Done():
			return
		default:
		}
		c.log.Warn(ctx, "connection lost, reconnecting")
	}
}

func (c *Channel) dial(ctx context.Context) (*websocket.Conn, error) {
	var conn *websocket.Conn

	backoff := retry.WithCappedDuration(c.maxDelay, retry.NewExponential(c.minDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		conn, _, err = websocket.DefaultDialer.DialContext(ctx, c.url, nil)
		if err != nil {
			c.log.Debug(ctx, "dial failed", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (c *Channel) setConnected(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn = conn
	c.connected = true
	close(c.notify)
}

func (c *Channel) setDisconnected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn = nil
	c.connected = false
	c.notify = make(chan struct{})
}

// Connected reports whether a request can currently be sent.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// WaitConnected blocks until the channel is connected or ctx is done.
func (c *Channel) WaitConnected(ctx context.Context) error {
	for {
		c.mu.Lock()
		if c.connected {
			c.mu.Unlock()
			return nil
		}
		notify := c.notify
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-notify:
		}
	}
}

func (c *Channel) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var frame protocol.Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.log.Warn(ctx, "dropping undecodable frame", "error", err)
			continue
		}

		switch frame.Kind {
		case protocol.KindAck:
			c.deliverAck(ctx, &frame)
		case protocol.KindEvent:
			c.deliverEvent(&frame)
		default:
			c.log.Warn(ctx, "dropping unexpected frame", "kind", frame.Kind)
		}
	}
}

// deliverAck fires the pending callback for the frame's id. The callback is
// removed before invocation so a duplicated ack cannot fire it twice.
func (c *Channel) deliverAck(ctx context.Context, frame *protocol.Frame) {
	c.mu.Lock()
	cb, ok := c.pending[frame.ID]
	if ok {
		delete(c.pending, frame.ID)
	}
	c.mu.Unlock()

	if !ok {
		c.log.Debug(ctx, "dropping ack with no pending request", "id", frame.ID)
		return
	}
	cb(&protocol.Ack{Success: frame.Success, Error: frame.Error, Payload: frame.Payload})
}

func (c *Channel) deliverEvent(frame *protocol.Frame) {
	c.mu.Lock()
	handlers := append([]EventHandler(nil), c.handlers[frame.Topic]...)
	c.mu.Unlock()

	for _, h := range handlers {
		h(frame.Payload)
	}
}

// On subscribes a handler to an event topic.
func (c *Channel) On(topic string, h EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[topic] = append(c.handlers[topic], h)
}

// OnConnect registers a hook invoked after every successful (re)connect.
// Hooks run on their own goroutine so they may issue requests; session
// resumption is the typical use.
func (c *Channel) OnConnect(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onConnect = append(c.onConnect, fn)
}

// fireOnConnect runs the hooks off the Run goroutine: the read loop must be
// serving acks while a hook's request is in flight.
func (c *Channel) fireOnConnect() {
	c.mu.Lock()
	hooks := append([]func(){}, c.onConnect...)
	c.mu.Unlock()

	for _, fn := range hooks {
		go fn()
	}
}

// Off removes every handler subscribed to an event topic.
func (c *Channel) Off(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handlers, topic)
}

// Request sends one request frame and registers cb for its ack. It returns
// the correlation id so the caller can Cancel on timeout. If the channel is
// down, or the write fails, no frame is in flight and ErrChannelUnavailable
// is returned.
func (c *Channel) Request(ctx context.Context, topic string, payload any, cb AckCallback) (string, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		if raw, err = json.Marshal(payload); err != nil {
			return "", fmt.Errorf("marshal %s payload: %w", topic, err)
		}
	}

	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return "", ErrChannelUnavailable
	}
	conn := c.conn
	id := protocol.NewCorrelationID()
	c.pending[id] = cb
	c.mu.Unlock()

	frame := &protocol.Frame{Kind: protocol.KindRequest, ID: id, Topic: topic, Payload: raw}

	c.writeMu.Lock()
	err := conn.WriteJSON(frame)
	c.writeMu.Unlock()

	if err != nil {
		c.Cancel(id)
		return "", fmt.Errorf("%w: %v", ErrChannelUnavailable, err)
	}
	return id, nil
}

// Cancel forgets a pending request. A late ack for the id is then dropped.
func (c *Channel) Cancel(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, id)
}

func (c *Channel) failPending(err error) {
	c.mu.Lock()
	pending := c.pending
	c.pending = make(map[string]AckCallback)
	c.mu.Unlock()

	for _, cb := range pending {
		cb(&protocol.Ack{Success: false, Error: err.Error()})
	}
}
