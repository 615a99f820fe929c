package repomanager

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/groundstation/internal/common"
	"github.com/dmitrijs2005/groundstation/internal/server/models"
	"github.com/stretchr/testify/require"
)

func TestInMemory_CameraLifecycle(t *testing.T) {
	m := NewInMemoryRepositoryManager()
	repo := m.Cameras(nil)
	ctx := context.Background()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	cam, err := repo.Create(ctx, &models.Camera{Name: "Cam1", URL: "rtsp://x", Type: "mjpeg"})
	require.NoError(t, err)
	require.EqualValues(t, 1, cam.ID)

	cam.Name = "Cam1b"
	_, err = repo.Update(ctx, cam)
	require.NoError(t, err)

	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Cam1b", list[0].Name)

	require.NoError(t, repo.Delete(ctx, []int64{cam.ID}))
	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestInMemory_UpdateMissing(t *testing.T) {
	m := NewInMemoryRepositoryManager()
	_, err := m.Rigs(nil).Update(context.Background(), &models.Rig{ID: 42, Name: "nope"})
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInMemory_SatelliteUpsertByNorad(t *testing.T) {
	m := NewInMemoryRepositoryManager()
	repo := m.Satellites(nil)
	ctx := context.Background()

	require.NoError(t, repo.UpsertByNorad(ctx, &models.Satellite{Name: "ISS", NoradID: 25544, TLELine1: "1 ..."}))
	require.NoError(t, repo.UpsertByNorad(ctx, &models.Satellite{Name: "ISS (ZARYA)", NoradID: 25544, TLELine1: "1 new"}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "ISS (ZARYA)", list[0].Name)
	require.Equal(t, "1 new", list[0].TLELine1)
}

func TestInMemory_TLESourceMarkFetched(t *testing.T) {
	m := NewInMemoryRepositoryManager()
	repo := m.TLESources(nil)
	ctx := context.Background()

	src, err := repo.Create(ctx, &models.TLESource{Name: "amateur", URL: "http://x"})
	require.NoError(t, err)

	at := time.Now()
	require.NoError(t, repo.MarkFetched(ctx, src.ID, at, 12))

	got, err := repo.GetByID(ctx, src.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastFetchedAt)
	require.Equal(t, 12, got.SatelliteCount)
}

func TestInMemory_UserUniqueUsername(t *testing.T) {
	m := NewInMemoryRepositoryManager()
	repo := m.Users(nil)
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.User{Username: "op", Role: models.RoleOperator, PasswordHash: "h"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.User{Username: "op", Role: models.RoleViewer, PasswordHash: "h2"})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestInMemory_UserListHidesHash(t *testing.T) {
	m := NewInMemoryRepositoryManager()
	repo := m.Users(nil)
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.User{Username: "op", Role: models.RoleOperator, PasswordHash: "secret"})
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list[0].PasswordHash)

	// lookup for auth still returns it
	u, err := repo.GetByUsername(ctx, "op")
	require.NoError(t, err)
	require.Equal(t, "secret", u.PasswordHash)
}

func TestInMemory_PreferencesSingleton(t *testing.T) {
	m := NewInMemoryRepositoryManager()
	repo := m.Preferences(nil)
	ctx := context.Background()

	p, err := repo.Get(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, p.ID)

	p.Callsign = "N0CALL"
	p.Latitude = 52.52
	saved, err := repo.Save(ctx, p)
	require.NoError(t, err)
	require.EqualValues(t, 1, saved.ID)

	again, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "N0CALL", again.Callsign)
}
