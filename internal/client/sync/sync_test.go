package sync

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/groundstation/internal/client/dispatch"
	"github.com/dmitrijs2005/groundstation/internal/client/resources"
	"github.com/dmitrijs2005/groundstation/internal/protocol"
	"github.com/dmitrijs2005/groundstation/internal/server/models"
)

// fakeCaller answers each command through a programmable respond func and
// records what was sent.
type fakeCaller struct {
	mu      sync.Mutex
	topics  []string
	bodies  []json.RawMessage
	respond func(topic string, payload json.RawMessage) (json.RawMessage, error)
}

func (f *fakeCaller) Call(_ context.Context, topic string, payload any) (json.RawMessage, error) {
	var raw json.RawMessage
	if payload != nil {
		raw, _ = json.Marshal(payload)
	}

	f.mu.Lock()
	f.topics = append(f.topics, topic)
	f.bodies = append(f.bodies, raw)
	respond := f.respond
	f.mu.Unlock()

	return respond(topic, raw)
}

func (f *fakeCaller) lastTopic() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.topics[len(f.topics)-1]
}

func listResponse[T any](items []T) func(string, json.RawMessage) (json.RawMessage, error) {
	return func(string, json.RawMessage) (json.RawMessage, error) {
		return json.Marshal(items)
	}
}

func TestCoordinator_FetchPopulatesStore(t *testing.T) {
	f := &fakeCaller{respond: listResponse([]models.Camera{{ID: 1, Name: "Cam1"}})}
	c := NewCoordinator(resources.Cameras, f)

	require.NoError(t, c.Fetch(context.Background()))
	require.Equal(t, "get-cameras", f.lastTopic())

	items := c.Store().Items()
	require.Len(t, items, 1)
	require.Equal(t, "Cam1", items[0].Name)
	require.False(t, c.Store().Loading())
}

func TestCoordinator_CreateSubmitsAndReplaces(t *testing.T) {
	f := &fakeCaller{respond: listResponse([]models.Camera{
		{ID: 1, Name: "Cam1", URL: "rtsp://x", Type: "mjpeg"},
	})}
	c := NewCoordinator(resources.Cameras, f)

	err := c.Create(context.Background(), models.Camera{Name: "Cam1", URL: "rtsp://x", Type: "mjpeg"})
	require.NoError(t, err)
	require.Equal(t, "submit-camera", f.lastTopic())

	items := c.Store().Items()
	require.Len(t, items, 1)
	require.EqualValues(t, 1, items[0].ID)
}

func TestCoordinator_CreateRefusesExistingID(t *testing.T) {
	f := &fakeCaller{respond: listResponse([]models.Camera{})}
	c := NewCoordinator(resources.Cameras, f)

	err := c.Create(context.Background(), models.Camera{ID: 4, Name: "Cam"})
	require.Error(t, err)
	require.Empty(t, f.topics)
	require.Contains(t, c.Store().Err(), "already has id")
}

func TestCoordinator_UpdateEditsByID(t *testing.T) {
	f := &fakeCaller{respond: listResponse([]models.Rig{
		{ID: 7, Name: "IC-9700", Host: "10.0.0.5", Port: 4532},
	})}
	c := NewCoordinator(resources.Rigs, f)

	err := c.Update(context.Background(), models.Rig{ID: 7, Name: "IC-9700", Host: "10.0.0.5", Port: 4532})
	require.NoError(t, err)
	require.Equal(t, "edit-rig", f.lastTopic())
	require.Equal(t, "10.0.0.5", c.Store().Items()[0].Host)
}

func TestCoordinator_UpdateRefusesZeroID(t *testing.T) {
	f := &fakeCaller{respond: listResponse([]models.Rig{})}
	c := NewCoordinator(resources.Rigs, f)

	err := c.Update(context.Background(), models.Rig{Name: "no id yet"})
	require.Error(t, err)
	require.Empty(t, f.topics)
}

func TestCoordinator_DeleteSelectedPrunesSelection(t *testing.T) {
	f := &fakeCaller{respond: listResponse([]models.Camera{{ID: 3}, {ID: 5}, {ID: 9}})}
	c := NewCoordinator(resources.Cameras, f)
	require.NoError(t, c.Fetch(context.Background()))

	c.Store().ToggleSelect(3)
	c.Store().ToggleSelect(5)
	c.Store().ToggleSelect(9)
	c.Store().ToggleSelect(9) // deselect again
	c.Store().ToggleSelect(9)

	f.mu.Lock()
	f.respond = listResponse([]models.Camera{{ID: 9}})
	f.mu.Unlock()

	c.Store().OpenConfirmDelete()
	require.NoError(t, c.DeleteSelected(context.Background()))
	require.Equal(t, "delete-camera", f.lastTopic())

	var req protocol.DeleteRequest
	f.mu.Lock()
	require.NoError(t, json.Unmarshal(f.bodies[len(f.bodies)-1], &req))
	f.mu.Unlock()
	require.Equal(t, []int64{3, 5, 9}, req.IDs)

	require.Equal(t, []int64{9}, c.Store().SelectedIDs())
	require.False(t, c.Store().ConfirmingDelete())
}

func TestCoordinator_DeleteSelectedNoopWhenEmpty(t *testing.T) {
	f := &fakeCaller{respond: listResponse([]models.Camera{})}
	c := NewCoordinator(resources.Cameras, f)

	require.NoError(t, c.DeleteSelected(context.Background()))
	require.Empty(t, f.topics)
}

func TestCoordinator_FailureKeepsItemsAndForm(t *testing.T) {
	f := &fakeCaller{respond: listResponse([]models.Camera{{ID: 1, Name: "Cam1"}})}
	c := NewCoordinator(resources.Cameras, f)
	require.NoError(t, c.Fetch(context.Background()))

	c.Store().OpenAdd()
	form := c.Store().Form()
	form.Name = "Cam1"
	c.Store().SetForm(form)

	f.mu.Lock()
	f.respond = func(topic string, _ json.RawMessage) (json.RawMessage, error) {
		return nil, &dispatch.RemoteError{Command: topic, Message: "duplicate name"}
	}
	f.mu.Unlock()

	err := c.SaveForm(context.Background())
	require.Error(t, err)

	var remote *dispatch.RemoteError
	require.ErrorAs(t, err, &remote)
	require.Equal(t, "duplicate name", remote.Message)

	require.Len(t, c.Store().Items(), 1)
	require.True(t, c.Store().FormOpen())
	require.Equal(t, "Cam1", c.Store().Form().Name)
	require.Equal(t, "duplicate name", c.Store().Err())
}

func TestCoordinator_SaveFormChoosesVerbAndCloses(t *testing.T) {
	f := &fakeCaller{respond: listResponse([]models.Camera{{ID: 1, Name: "Cam1"}})}
	c := NewCoordinator(resources.Cameras, f)
	require.NoError(t, c.Fetch(context.Background()))

	c.Store().OpenAdd()
	form := c.Store().Form()
	form.Name = "Cam2"
	c.Store().SetForm(form)
	require.NoError(t, c.SaveForm(context.Background()))
	require.Equal(t, "submit-camera", f.lastTopic())
	require.False(t, c.Store().FormOpen())

	require.True(t, c.Store().OpenEdit(1))
	require.NoError(t, c.SaveForm(context.Background()))
	require.Equal(t, "edit-camera", f.lastTopic())
}

func TestCoordinator_MalformedAckIsRejection(t *testing.T) {
	f := &fakeCaller{respond: listResponse([]models.Camera{{ID: 1, Name: "Cam1"}})}
	c := NewCoordinator(resources.Cameras, f)
	require.NoError(t, c.Fetch(context.Background()))

	f.mu.Lock()
	f.respond = func(string, json.RawMessage) (json.RawMessage, error) {
		return json.RawMessage(`{"not":"a list"}`), nil
	}
	f.mu.Unlock()

	err := c.Fetch(context.Background())
	require.ErrorIs(t, err, dispatch.ErrMalformedAck)
	// the cached list survives
	require.Len(t, c.Store().Items(), 1)
}

// A slow ack for an older request must not overwrite the list applied by a
// newer one.
func TestCoordinator_StaleAckDropped(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	firstCall := true

	f := &fakeCaller{}
	f.respond = func(topic string, _ json.RawMessage) (json.RawMessage, error) {
		f.mu.Lock()
		slow := firstCall
		firstCall = false
		f.mu.Unlock()

		if slow {
			close(started)
			<-release
			return json.Marshal([]models.Camera{{ID: 1, Name: "stale"}})
		}
		return json.Marshal([]models.Camera{{ID: 1, Name: "fresh"}, {ID: 2}})
	}

	c := NewCoordinator(resources.Cameras, f)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = c.Fetch(context.Background())
	}()

	// second request issued after the first, completes first
	<-started
	require.NoError(t, c.Fetch(context.Background()))
	require.Len(t, c.Store().Items(), 2)

	close(release)
	wg.Wait()

	items := c.Store().Items()
	require.Len(t, items, 2)
	require.Equal(t, "fresh", items[0].Name)
}

func TestCoordinator_ChannelDownSurfacesError(t *testing.T) {
	f := &fakeCaller{respond: func(string, json.RawMessage) (json.RawMessage, error) {
		return nil, errors.New("channel unavailable")
	}}
	c := NewCoordinator(resources.Cameras, f)

	err := c.Fetch(context.Background())
	require.Error(t, err)
	require.Equal(t, "channel unavailable", c.Store().Err())
}
