package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/groundstation/internal/client/resources"
	"github.com/dmitrijs2005/groundstation/internal/server/models"
)

func newCameraStore() *Store[models.Camera] {
	return New(resources.Cameras.ID, resources.Cameras.NewDefault)
}

func TestStore_CompleteReplacesWholeList(t *testing.T) {
	s := newCameraStore()

	s.Complete([]models.Camera{{ID: 1, Name: "old"}, {ID: 2, Name: "gone"}})
	s.Complete([]models.Camera{{ID: 1, Name: "new"}, {ID: 3, Name: "added"}})

	items := s.Items()
	require.Len(t, items, 2)
	require.Equal(t, "new", items[0].Name)
	require.EqualValues(t, 3, items[1].ID)
}

func TestStore_FailPreservesItemsAndForm(t *testing.T) {
	s := newCameraStore()
	s.Complete([]models.Camera{{ID: 1, Name: "Cam1"}})

	s.OpenAdd()
	form := s.Form()
	form.Name = "typed but not saved"
	s.SetForm(form)

	s.Begin()
	s.Fail("duplicate name")

	require.Equal(t, "duplicate name", s.Err())
	require.False(t, s.Loading())
	require.Len(t, s.Items(), 1)
	require.Equal(t, "typed but not saved", s.Form().Name)
	require.True(t, s.FormOpen())
}

func TestStore_BeginClearsError(t *testing.T) {
	s := newCameraStore()
	s.Fail("boom")
	s.Begin()
	require.Empty(t, s.Err())
	require.True(t, s.Loading())
}

func TestStore_SelectionPrunedOnReplacement(t *testing.T) {
	s := newCameraStore()
	s.Complete([]models.Camera{{ID: 3}, {ID: 5}, {ID: 9}})

	s.ToggleSelect(3)
	s.ToggleSelect(5)
	s.ToggleSelect(9)

	s.Complete([]models.Camera{{ID: 9}})
	require.Equal(t, []int64{9}, s.SelectedIDs())
}

func TestStore_ToggleSelect(t *testing.T) {
	s := newCameraStore()
	s.Complete([]models.Camera{{ID: 1}})

	s.ToggleSelect(1)
	require.True(t, s.IsSelected(1))
	s.ToggleSelect(1)
	require.False(t, s.IsSelected(1))
}

func TestStore_OpenAddSeedsTemplate(t *testing.T) {
	s := newCameraStore()
	s.OpenAdd()

	require.True(t, s.FormOpen())
	require.False(t, s.Editing())
	require.Equal(t, "rtsp", s.Form().Type)
	require.Zero(t, s.Form().ID)
}

func TestStore_OpenEditCopiesItem(t *testing.T) {
	s := newCameraStore()
	s.Complete([]models.Camera{{ID: 7, Name: "Roof"}})

	require.True(t, s.OpenEdit(7))
	require.True(t, s.Editing())
	require.Equal(t, "Roof", s.Form().Name)

	// editing the form must not touch the cached item
	form := s.Form()
	form.Name = "changed"
	s.SetForm(form)
	require.Equal(t, "Roof", s.Items()[0].Name)

	require.False(t, s.OpenEdit(404))
}

func TestStore_CloseFormResets(t *testing.T) {
	s := newCameraStore()
	s.OpenAdd()
	form := s.Form()
	form.Name = "draft"
	s.SetForm(form)

	s.CloseForm()
	require.False(t, s.FormOpen())
	require.Empty(t, s.Form().Name)
}

func TestStore_ConfirmDeleteFlag(t *testing.T) {
	s := newCameraStore()
	s.OpenConfirmDelete()
	require.True(t, s.ConfirmingDelete())
	s.CloseConfirmDelete()
	require.False(t, s.ConfirmingDelete())
}
