// Package dispatch turns the channel's callback-based request API into
// synchronous calls with a bounded wait. It owns the client-side error
// taxonomy: unavailable channel, server rejection (message verbatim),
// timeout, and malformed acknowledgement.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/groundstation/internal/client/channel"
	"github.com/dmitrijs2005/groundstation/internal/protocol"
)

// DefaultTimeout bounds how long a command waits for its ack. A server that
// never answers must not leave an operation in flight forever.
const DefaultTimeout = 15 * time.Second

var (
	// ErrTimeout reports that no acknowledgement arrived in time.
	ErrTimeout = errors.New("request timed out")

	// ErrMalformedAck reports a success acknowledgement whose payload could
	// not be decoded; it is treated like a rejection, never applied.
	ErrMalformedAck = errors.New("malformed acknowledgement")
)

// RemoteError is a server-side rejection. Message carries the server's error
// text verbatim so the operator sees exactly what the authority said.
type RemoteError struct {
	Command string
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Caller is the request surface dispatch needs; *channel.Channel satisfies it.
type Caller interface {
	Request(ctx context.Context, topic string, payload any, cb channel.AckCallback) (string, error)
	Cancel(id string)
}

type Dispatcher struct {
	ch      Caller
	timeout time.Duration
}

func New(ch Caller, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{ch: ch, timeout: timeout}
}

// Call sends one command and blocks until its ack, a timeout, or ctx
// cancellation. On rejection the returned error is a *RemoteError, except
// that a drop-induced failure surfaces as ErrChannelUnavailable.
func (d *Dispatcher) Call(ctx context.Context, topic string, payload any) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	done := make(chan *protocol.Ack, 1)
	id, err := d.ch.Request(ctx, topic, payload, func(ack *protocol.Ack) {
		done <- ack
	})
	if err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		// Forget the request so a late ack is dropped instead of firing a
		// callback nobody is waiting on.
		d.ch.Cancel(id)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: %w", topic, ErrTimeout)
		}
		return nil, ctx.Err()
	case ack := <-done:
		if !ack.Success {
			if ack.Error == channel.ErrChannelUnavailable.Error() {
				return nil, channel.ErrChannelUnavailable
			}
			return nil, &RemoteError{Command: topic, Message: ack.Error}
		}
		return ack.Payload, nil
	}
}

// CallInto runs Call and decodes the success payload into T. A payload that
// fails to decode yields ErrMalformedAck: the caller treats the operation as
// rejected and applies nothing.
func CallInto[T any](ctx context.Context, d *Dispatcher, topic string, payload any) (T, error) {
	var result T

	raw, err := d.Call(ctx, topic, payload)
	if err != nil {
		return result, err
	}
	if len(raw) == 0 {
		return result, fmt.Errorf("%s: %w: empty payload", topic, ErrMalformedAck)
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return result, fmt.Errorf("%s: %w: %v", topic, ErrMalformedAck, err)
	}
	return result, nil
}
