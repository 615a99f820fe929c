package channel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/groundstation/internal/logging"
	"github.com/dmitrijs2005/groundstation/internal/protocol"
)

var testUpgrader = websocket.Upgrader{}

// ackServer answers every request according to its topic:
//
//	echo   — one success ack echoing the request payload
//	reject — one failure ack with error "nope"
//	dup    — the same success ack twice
//	silent — no ack at all
//	drop   — closes the connection without answering
type ackServer struct {
	mu    sync.Mutex
	conns []*websocket.Conn
}

func (s *ackServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := testUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.conns = append(s.conns, conn)
	s.mu.Unlock()

	for {
		var frame protocol.Frame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}

		ack := protocol.Frame{Kind: protocol.KindAck, ID: frame.ID, Success: true, Payload: frame.Payload}
		switch frame.Topic {
		case "echo":
			conn.WriteJSON(&ack)
		case "reject":
			conn.WriteJSON(&protocol.Frame{Kind: protocol.KindAck, ID: frame.ID, Success: false, Error: "nope"})
		case "dup":
			conn.WriteJSON(&ack)
			conn.WriteJSON(&ack)
		case "silent":
		case "drop":
			conn.Close()
			return
		}
	}
}

func (s *ackServer) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		c.Close()
	}
	s.conns = nil
}

func testLogger() logging.Logger {
	return logging.Discard()
}

func startChannel(t *testing.T, handler http.Handler) *Channel {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ch := New(url, testLogger(), 10*time.Millisecond, 100*time.Millisecond)
	go ch.Run(ctx)

	waitCtx, waitCancel := context.WithTimeout(ctx, 5*time.Second)
	defer waitCancel()
	require.NoError(t, ch.WaitConnected(waitCtx))
	return ch
}

func requestAck(t *testing.T, ch *Channel, topic string, payload any) *protocol.Ack {
	t.Helper()

	done := make(chan *protocol.Ack, 1)
	_, err := ch.Request(context.Background(), topic, payload, func(ack *protocol.Ack) {
		done <- ack
	})
	require.NoError(t, err)

	select {
	case ack := <-done:
		return ack
	case <-time.After(5 * time.Second):
		t.Fatal("no ack")
		return nil
	}
}

func TestChannel_RequestAck(t *testing.T) {
	ch := startChannel(t, &ackServer{})

	ack := requestAck(t, ch, "echo", map[string]string{"hello": "world"})
	require.True(t, ack.Success)
	require.JSONEq(t, `{"hello":"world"}`, string(ack.Payload))
}

func TestChannel_RejectionCarriesError(t *testing.T) {
	ch := startChannel(t, &ackServer{})

	ack := requestAck(t, ch, "reject", nil)
	require.False(t, ack.Success)
	require.Equal(t, "nope", ack.Error)
}

func TestChannel_DuplicateAckFiresOnce(t *testing.T) {
	ch := startChannel(t, &ackServer{})

	var calls atomic.Int32
	done := make(chan struct{}, 2)
	_, err := ch.Request(context.Background(), "dup", nil, func(*protocol.Ack) {
		calls.Add(1)
		done <- struct{}{}
	})
	require.NoError(t, err)

	<-done
	select {
	case <-done:
		t.Fatal("callback fired twice")
	case <-time.After(100 * time.Millisecond):
	}
	require.EqualValues(t, 1, calls.Load())
}

func TestChannel_CancelDropsLateAck(t *testing.T) {
	ch := startChannel(t, &ackServer{})

	fired := make(chan struct{}, 1)
	id, err := ch.Request(context.Background(), "silent", nil, func(*protocol.Ack) {
		fired <- struct{}{}
	})
	require.NoError(t, err)
	ch.Cancel(id)

	select {
	case <-fired:
		t.Fatal("cancelled callback fired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestChannel_EventsDispatched(t *testing.T) {
	srv := &ackServer{}
	ch := startChannel(t, srv)

	got := make(chan json.RawMessage, 1)
	ch.On("tick", func(payload json.RawMessage) {
		got <- payload
	})

	// establish the server-side connection record, then push an event
	requestAck(t, ch, "echo", nil)

	srv.mu.Lock()
	conn := srv.conns[len(srv.conns)-1]
	srv.mu.Unlock()
	require.NoError(t, conn.WriteJSON(&protocol.Frame{
		Kind: protocol.KindEvent, Topic: "tick", Payload: json.RawMessage(`{"n":1}`),
	}))

	select {
	case payload := <-got:
		require.JSONEq(t, `{"n":1}`, string(payload))
	case <-time.After(5 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestChannel_OffUnsubscribes(t *testing.T) {
	srv := &ackServer{}
	ch := startChannel(t, srv)

	got := make(chan json.RawMessage, 1)
	ch.On("tick", func(payload json.RawMessage) {
		got <- payload
	})
	ch.Off("tick")

	requestAck(t, ch, "echo", nil)
	srv.mu.Lock()
	conn := srv.conns[len(srv.conns)-1]
	srv.mu.Unlock()
	require.NoError(t, conn.WriteJSON(&protocol.Frame{
		Kind: protocol.KindEvent, Topic: "tick", Payload: json.RawMessage(`{}`),
	}))

	select {
	case <-got:
		t.Fatal("unsubscribed handler fired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestChannel_OnConnectFiresOnEveryConnect(t *testing.T) {
	srv := &ackServer{}

	httpSrv := httptest.NewServer(srv)
	t.Cleanup(httpSrv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(httpSrv.URL, "http")
	ch := New(url, testLogger(), 10*time.Millisecond, 100*time.Millisecond)

	var fires atomic.Int32
	ch.OnConnect(func() { fires.Add(1) })
	go ch.Run(ctx)

	waitCtx, waitCancel := context.WithTimeout(ctx, 5*time.Second)
	defer waitCancel()
	require.NoError(t, ch.WaitConnected(waitCtx))
	require.Eventually(t, func() bool { return fires.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	srv.closeAll()

	require.Eventually(t, func() bool { return fires.Load() == 2 }, 5*time.Second, 10*time.Millisecond)
}

// A hook may issue a request of its own: the read loop must already be serving
// acks when hooks run.
func TestChannel_OnConnectHookCanRequest(t *testing.T) {
	srv := &ackServer{}

	httpSrv := httptest.NewServer(srv)
	t.Cleanup(httpSrv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(httpSrv.URL, "http")
	ch := New(url, testLogger(), 10*time.Millisecond, 100*time.Millisecond)

	acked := make(chan *protocol.Ack, 1)
	ch.OnConnect(func() {
		ch.Request(context.Background(), "echo", map[string]string{"resume": "1"}, func(ack *protocol.Ack) {
			acked <- ack
		})
	})
	go ch.Run(ctx)

	select {
	case ack := <-acked:
		require.True(t, ack.Success)
		require.JSONEq(t, `{"resume":"1"}`, string(ack.Payload))
	case <-time.After(5 * time.Second):
		t.Fatal("connect hook request not acked")
	}
}

func TestChannel_RequestWhileDisconnected(t *testing.T) {
	ch := New("ws://127.0.0.1:1/ws", testLogger(), time.Millisecond, time.Millisecond)

	_, err := ch.Request(context.Background(), "echo", nil, func(*protocol.Ack) {})
	require.ErrorIs(t, err, ErrChannelUnavailable)
	require.False(t, ch.Connected())
}

func TestChannel_DropFailsPendingAndReconnects(t *testing.T) {
	srv := &ackServer{}
	ch := startChannel(t, srv)

	done := make(chan *protocol.Ack, 1)
	_, err := ch.Request(context.Background(), "silent", nil, func(ack *protocol.Ack) {
		done <- ack
	})
	require.NoError(t, err)

	srv.closeAll()

	select {
	case ack := <-done:
		require.False(t, ack.Success)
		require.Equal(t, ErrChannelUnavailable.Error(), ack.Error)
	case <-time.After(5 * time.Second):
		t.Fatal("pending request not failed on drop")
	}

	waitCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, ch.WaitConnected(waitCtx))

	ack := requestAck(t, ch, "echo", nil)
	require.True(t, ack.Success)
}
