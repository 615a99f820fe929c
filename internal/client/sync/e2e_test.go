package sync

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/groundstation/internal/client/channel"
	"github.com/dmitrijs2005/groundstation/internal/client/dispatch"
	"github.com/dmitrijs2005/groundstation/internal/client/resources"
	"github.com/dmitrijs2005/groundstation/internal/logging"
	"github.com/dmitrijs2005/groundstation/internal/protocol"
	"github.com/dmitrijs2005/groundstation/internal/server/hub"
	"github.com/dmitrijs2005/groundstation/internal/server/models"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/groundstation/internal/server/services"
)

// Full round trip through the real server hub and the real client channel.
func TestCoordinator_AgainstRealHub(t *testing.T) {
	log := logging.Discard()

	rm := repomanager.NewInMemoryRepositoryManager()
	users := services.NewUserService(nil, rm, "test-secret", time.Hour)
	require.NoError(t, users.EnsureAdmin(context.Background(), "admin"))

	h := hub.New(log, hub.NewMetrics(),
		services.NewStationService(nil, rm),
		users,
		services.NewTLEService(nil, rm),
		services.NewRecordingService(nil, rm, nil))

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ch := channel.New(url, log, 10*time.Millisecond, 100*time.Millisecond)
	go ch.Run(ctx)

	waitCtx, waitCancel := context.WithTimeout(ctx, 5*time.Second)
	defer waitCancel()
	require.NoError(t, ch.WaitConnected(waitCtx))

	d := dispatch.New(ch, 5*time.Second)

	_, err := dispatch.CallInto[protocol.LoginResult](ctx, d, protocol.TopicLogin,
		&protocol.LoginRequest{Username: "admin", Password: "admin"})
	require.NoError(t, err)

	cameras := NewCoordinator(resources.Cameras, d)

	require.NoError(t, cameras.Fetch(ctx))
	require.Empty(t, cameras.Store().Items())

	require.NoError(t, cameras.Create(ctx, models.Camera{Name: "Cam1", URL: "rtsp://x", Type: "mjpeg"}))
	items := cameras.Store().Items()
	require.Len(t, items, 1)
	require.NotZero(t, items[0].ID)

	items[0].Name = "Roof cam"
	require.NoError(t, cameras.Update(ctx, items[0]))
	require.Equal(t, "Roof cam", cameras.Store().Items()[0].Name)

	cameras.Store().ToggleSelect(items[0].ID)
	require.NoError(t, cameras.DeleteSelected(ctx))
	require.Empty(t, cameras.Store().Items())
	require.Empty(t, cameras.Store().SelectedIDs())
}
