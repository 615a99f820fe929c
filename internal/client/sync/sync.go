// Package sync coordinates mutations for one resource type: it issues the
// command, waits for the acknowledgement and applies the acknowledged list to
// the store. Acks are applied in issue order; an ack for an older request
// never overwrites the list delivered by a newer one.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/groundstation/internal/client/dispatch"
	"github.com/dmitrijs2005/groundstation/internal/client/resources"
	"github.com/dmitrijs2005/groundstation/internal/client/store"
	"github.com/dmitrijs2005/groundstation/internal/protocol"
)

// Caller is the synchronous command surface the coordinator needs;
// *dispatch.Dispatcher satisfies it.
type Caller interface {
	Call(ctx context.Context, topic string, payload any) (json.RawMessage, error)
}

// Coordinator drives all list-changing operations for one resource type.
type Coordinator[T any] struct {
	desc  resources.Descriptor[T]
	d     Caller
	store *store.Store[T]

	mu      sync.Mutex
	seq     uint64
	applied uint64
}

func NewCoordinator[T any](desc resources.Descriptor[T], d Caller) *Coordinator[T] {
	return &Coordinator[T]{
		desc:  desc,
		d:     d,
		store: store.New(desc.ID, desc.NewDefault),
	}
}

// Store exposes the coordinator's state container for rendering.
func (c *Coordinator[T]) Store() *store.Store[T] {
	return c.store
}

func (c *Coordinator[T]) nextSeq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// applyIfFresh installs the acknowledged list unless a newer request already
// completed. Stale lists are dropped so a slow ack cannot roll the cache
// back.
func (c *Coordinator[T]) applyIfFresh(seq uint64, items []T) {
	c.mu.Lock()
	if seq < c.applied {
		c.mu.Unlock()
		return
	}
	c.applied = seq
	c.mu.Unlock()

	c.store.Complete(items)
}

// call issues one command and decodes the acknowledged list. A payload that
// does not decode as a list is treated as a rejection.
func (c *Coordinator[T]) call(ctx context.Context, topic string, payload any) error {
	seq := c.nextSeq()
	c.store.Begin()

	raw, err := c.d.Call(ctx, topic, payload)
	if err != nil {
		c.store.Fail(err.Error())
		return err
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		err = fmt.Errorf("%s: %w: %v", topic, dispatch.ErrMalformedAck, err)
		c.store.Fail(err.Error())
		return err
	}

	c.applyIfFresh(seq, items)
	return nil
}

// Fetch replaces the cached list with the server's current one.
func (c *Coordinator[T]) Fetch(ctx context.Context) error {
	return c.call(ctx, protocol.GetCommand(c.desc.Plural), nil)
}

// Create submits a new item. The item must not carry a server id yet.
func (c *Coordinator[T]) Create(ctx context.Context, item T) error {
	if id := c.desc.ID(&item); id != 0 {
		err := fmt.Errorf("create %s: item already has id %d", c.desc.Singular, id)
		c.store.Fail(err.Error())
		return err
	}
	return c.call(ctx, protocol.SubmitCommand(c.desc.Singular), &item)
}

// Update edits an existing item, addressed by its server id.
func (c *Coordinator[T]) Update(ctx context.Context, item T) error {
	if c.desc.ID(&item) == 0 {
		err := fmt.Errorf("update %s: item has no id", c.desc.Singular)
		c.store.Fail(err.Error())
		return err
	}
	return c.call(ctx, protocol.EditCommand(c.desc.Singular), &item)
}

// CreateFrom submits a new item using a caller-built payload, for resource
// types whose submit payload carries fields the cached struct does not
// (user passwords, for one).
func (c *Coordinator[T]) CreateFrom(ctx context.Context, payload any) error {
	return c.call(ctx, protocol.SubmitCommand(c.desc.Singular), payload)
}

// UpdateFrom edits an existing item using a caller-built payload.
func (c *Coordinator[T]) UpdateFrom(ctx context.Context, payload any) error {
	return c.call(ctx, protocol.EditCommand(c.desc.Singular), payload)
}

// Do issues a resource-specific auxiliary command whose ack carries the full
// list, applying it like any other mutation.
func (c *Coordinator[T]) Do(ctx context.Context, topic string, payload any) error {
	return c.call(ctx, topic, payload)
}

// SaveForm submits the open form, choosing create or edit by whether the
// form was opened on an existing item. The form closes only on success.
func (c *Coordinator[T]) SaveForm(ctx context.Context) error {
	form := c.store.Form()

	var err error
	if c.store.Editing() {
		err = c.Update(ctx, form)
	} else {
		err = c.Create(ctx, form)
	}
	if err != nil {
		return err
	}

	c.store.CloseForm()
	return nil
}

// DeleteSelected deletes every selected item in one command. With nothing
// selected it is a no-op. Selection pruning happens when the acknowledged
// list is applied.
func (c *Coordinator[T]) DeleteSelected(ctx context.Context) error {
	ids := c.store.SelectedIDs()
	if len(ids) == 0 {
		return nil
	}
	return c.Delete(ctx, ids)
}

// Delete removes the given ids in one command.
func (c *Coordinator[T]) Delete(ctx context.Context, ids []int64) error {
	err := c.call(ctx, protocol.DeleteCommand(c.desc.Singular), &protocol.DeleteRequest{IDs: ids})
	if err != nil {
		return err
	}
	c.store.CloseConfirmDelete()
	return nil
}
