package repomanager

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/groundstation/internal/common"
	"github.com/dmitrijs2005/groundstation/internal/dbx"
	"github.com/dmitrijs2005/groundstation/internal/server/models"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/cameras"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/preferences"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/recordings"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/rigs"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/rotators"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/satellites"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/sdrs"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/tlesources"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/users"
)

// InMemoryRepositoryManager backs all repositories with in-process tables.
// It exists for tests and for running the server without Postgres; the DBTX
// argument of the accessor methods is ignored.
type InMemoryRepositoryManager struct {
	cameras    *memTable[models.Camera]
	rigs       *memTable[models.Rig]
	rotators   *memTable[models.Rotator]
	sdrs       *memTable[models.SDRDevice]
	satellites *memTable[models.Satellite]
	tleSources *memTable[models.TLESource]
	users      *memTable[models.User]
	recordings *memTable[models.Recording]

	prefsMu sync.Mutex
	prefs   models.Preferences
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		cameras:    newMemTable(func(c *models.Camera) *int64 { return &c.ID }),
		rigs:       newMemTable(func(r *models.Rig) *int64 { return &r.ID }),
		rotators:   newMemTable(func(r *models.Rotator) *int64 { return &r.ID }),
		sdrs:       newMemTable(func(d *models.SDRDevice) *int64 { return &d.ID }),
		satellites: newMemTable(func(s *models.Satellite) *int64 { return &s.ID }),
		tleSources: newMemTable(func(s *models.TLESource) *int64 { return &s.ID }),
		users:      newMemTable(func(u *models.User) *int64 { return &u.ID }),
		recordings: newMemTable(func(r *models.Recording) *int64 { return &r.ID }),
		prefs:      models.Preferences{ID: 1, Timezone: "UTC", Metric: true},
	}
}

// memTable is a mutex-guarded ordered table with auto-increment ids.
type memTable[T any] struct {
	mu     sync.Mutex
	nextID int64
	rows   []T
	id     func(*T) *int64
}

func newMemTable[T any](id func(*T) *int64) *memTable[T] {
	return &memTable[T]{nextID: 1, id: id}
}

func (t *memTable[T]) list() []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]T, len(t.rows))
	copy(out, t.rows)
	return out
}

func (t *memTable[T]) insert(row *T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	*t.id(row) = t.nextID
	t.nextID++
	t.rows = append(t.rows, *row)
}

func (t *memTable[T]) update(row *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	want := *t.id(row)
	for i := range t.rows {
		if *t.id(&t.rows[i]) == want {
			t.rows[i] = *row
			return nil
		}
	}
	return common.ErrorNotFound
}

func (t *memTable[T]) get(id int64) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		if *t.id(&t.rows[i]) == id {
			row := t.rows[i]
			return &row, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (t *memTable[T]) delete(ids []int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := t.rows[:0]
	for i := range t.rows {
		if _, ok := drop[*t.id(&t.rows[i])]; !ok {
			kept = append(kept, t.rows[i])
		}
	}
	t.rows = kept
}

func (t *memTable[T]) mutate(id int64, fn func(*T)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		if *t.id(&t.rows[i]) == id {
			fn(&t.rows[i])
			return nil
		}
	}
	return common.ErrorNotFound
}

// --- cameras

type memCameras struct{ t *memTable[models.Camera] }

func (r memCameras) List(ctx context.Context) ([]models.Camera, error) { return r.t.list(), nil }

func (r memCameras) Create(ctx context.Context, c *models.Camera) (*models.Camera, error) {
	c.CreatedAt, c.UpdatedAt = time.Now(), time.Now()
	r.t.insert(c)
	return c, nil
}

func (r memCameras) Update(ctx context.Context, c *models.Camera) (*models.Camera, error) {
	c.UpdatedAt = time.Now()
	if err := r.t.update(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r memCameras) Delete(ctx context.Context, ids []int64) error {
	r.t.delete(ids)
	return nil
}

// --- rigs

type memRigs struct{ t *memTable[models.Rig] }

func (r memRigs) List(ctx context.Context) ([]models.Rig, error) { return r.t.list(), nil }

func (r memRigs) Create(ctx context.Context, rig *models.Rig) (*models.Rig, error) {
	rig.CreatedAt, rig.UpdatedAt = time.Now(), time.Now()
	r.t.insert(rig)
	return rig, nil
}

func (r memRigs) Update(ctx context.Context, rig *models.Rig) (*models.Rig, error) {
	rig.UpdatedAt = time.Now()
	if err := r.t.update(rig); err != nil {
		return nil, err
	}
	return rig, nil
}

func (r memRigs) Delete(ctx context.Context, ids []int64) error {
	r.t.delete(ids)
	return nil
}

// --- rotators

type memRotators struct{ t *memTable[models.Rotator] }

func (r memRotators) List(ctx context.Context) ([]models.Rotator, error) { return r.t.list(), nil }

func (r memRotators) Create(ctx context.Context, rot *models.Rotator) (*models.Rotator, error) {
	rot.CreatedAt, rot.UpdatedAt = time.Now(), time.Now()
	r.t.insert(rot)
	return rot, nil
}

func (r memRotators) Update(ctx context.Context, rot *models.Rotator) (*models.Rotator, error) {
	rot.UpdatedAt = time.Now()
	if err := r.t.update(rot); err != nil {
		return nil, err
	}
	return rot, nil
}

func (r memRotators) Delete(ctx context.Context, ids []int64) error {
	r.t.delete(ids)
	return nil
}

// --- sdrs

type memSDRs struct{ t *memTable[models.SDRDevice] }

func (r memSDRs) List(ctx context.Context) ([]models.SDRDevice, error) { return r.t.list(), nil }

func (r memSDRs) Create(ctx context.Context, d *models.SDRDevice) (*models.SDRDevice, error) {
	d.CreatedAt, d.UpdatedAt = time.Now(), time.Now()
	r.t.insert(d)
	return d, nil
}

func (r memSDRs) Update(ctx context.Context, d *models.SDRDevice) (*models.SDRDevice, error) {
	d.UpdatedAt = time.Now()
	if err := r.t.update(d); err != nil {
		return nil, err
	}
	return d, nil
}

func (r memSDRs) Delete(ctx context.Context, ids []int64) error {
	r.t.delete(ids)
	return nil
}

// --- satellites

type memSatellites struct{ t *memTable[models.Satellite] }

func (r memSatellites) List(ctx context.Context) ([]models.Satellite, error) { return r.t.list(), nil }

func (r memSatellites) Create(ctx context.Context, s *models.Satellite) (*models.Satellite, error) {
	s.CreatedAt, s.UpdatedAt = time.Now(), time.Now()
	r.t.insert(s)
	return s, nil
}

func (r memSatellites) Update(ctx context.Context, s *models.Satellite) (*models.Satellite, error) {
	s.UpdatedAt = time.Now()
	if err := r.t.update(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r memSatellites) Delete(ctx context.Context, ids []int64) error {
	r.t.delete(ids)
	return nil
}

func (r memSatellites) UpsertByNorad(ctx context.Context, s *models.Satellite) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	for i := range r.t.rows {
		if r.t.rows[i].NoradID == s.NoradID {
			r.t.rows[i].Name = s.Name
			r.t.rows[i].GroupName = s.GroupName
			r.t.rows[i].TLELine1 = s.TLELine1
			r.t.rows[i].TLELine2 = s.TLELine2
			r.t.rows[i].UpdatedAt = time.Now()
			return nil
		}
	}
	s.ID = r.t.nextID
	r.t.nextID++
	s.CreatedAt, s.UpdatedAt = time.Now(), time.Now()
	r.t.rows = append(r.t.rows, *s)
	return nil
}

// --- tle sources

type memTLESources struct{ t *memTable[models.TLESource] }

func (r memTLESources) List(ctx context.Context) ([]models.TLESource, error) { return r.t.list(), nil }

func (r memTLESources) GetByID(ctx context.Context, id int64) (*models.TLESource, error) {
	return r.t.get(id)
}

func (r memTLESources) Create(ctx context.Context, src *models.TLESource) (*models.TLESource, error) {
	src.CreatedAt, src.UpdatedAt = time.Now(), time.Now()
	r.t.insert(src)
	return src, nil
}

func (r memTLESources) Update(ctx context.Context, src *models.TLESource) (*models.TLESource, error) {
	src.UpdatedAt = time.Now()
	if err := r.t.update(src); err != nil {
		return nil, err
	}
	return src, nil
}

func (r memTLESources) Delete(ctx context.Context, ids []int64) error {
	r.t.delete(ids)
	return nil
}

func (r memTLESources) MarkFetched(ctx context.Context, id int64, fetchedAt time.Time, count int) error {
	return r.t.mutate(id, func(src *models.TLESource) {
		at := fetchedAt
		src.LastFetchedAt = &at
		src.SatelliteCount = count
		src.UpdatedAt = time.Now()
	})
}

// --- users

type memUsers struct{ t *memTable[models.User] }

func (r memUsers) List(ctx context.Context) ([]models.User, error) {
	list := r.t.list()
	for i := range list {
		list[i].PasswordHash = ""
	}
	return list, nil
}

func (r memUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	for i := range r.t.rows {
		if r.t.rows[i].Username == username {
			u := r.t.rows[i]
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if existing, _ := r.GetByUsername(ctx, u.Username); existing != nil {
		return nil, common.ErrorAlreadyExists
	}
	u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
	r.t.insert(u)
	return u, nil
}

func (r memUsers) Update(ctx context.Context, u *models.User, newHash string) (*models.User, error) {
	err := r.t.mutate(u.ID, func(row *models.User) {
		row.Username = u.Username
		row.Role = u.Role
		if newHash != "" {
			row.PasswordHash = newHash
		}
		row.UpdatedAt = time.Now()
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r memUsers) Delete(ctx context.Context, ids []int64) error {
	r.t.delete(ids)
	return nil
}

// --- preferences

type memPreferences struct{ m *InMemoryRepositoryManager }

func (r memPreferences) Get(ctx context.Context) (*models.Preferences, error) {
	r.m.prefsMu.Lock()
	defer r.m.prefsMu.Unlock()
	p := r.m.prefs
	return &p, nil
}

func (r memPreferences) Save(ctx context.Context, p *models.Preferences) (*models.Preferences, error) {
	r.m.prefsMu.Lock()
	defer r.m.prefsMu.Unlock()
	p.ID = 1
	p.UpdatedAt = time.Now()
	r.m.prefs = *p
	return p, nil
}

// --- recordings

type memRecordings struct{ t *memTable[models.Recording] }

func (r memRecordings) List(ctx context.Context) ([]models.Recording, error) { return r.t.list(), nil }

func (r memRecordings) GetByID(ctx context.Context, id int64) (*models.Recording, error) {
	return r.t.get(id)
}

func (r memRecordings) Create(ctx context.Context, rec *models.Recording) (*models.Recording, error) {
	rec.CreatedAt = time.Now()
	r.t.insert(rec)
	return rec, nil
}

func (r memRecordings) Delete(ctx context.Context, ids []int64) error {
	r.t.delete(ids)
	return nil
}

func (r memRecordings) MarkUploaded(ctx context.Context, id int64) error {
	return r.t.mutate(id, func(rec *models.Recording) {
		rec.Status = models.RecordingUploaded
	})
}

// --- manager accessors

func (m *InMemoryRepositoryManager) Cameras(db dbx.DBTX) cameras.Repository {
	return memCameras{m.cameras}
}

func (m *InMemoryRepositoryManager) Rigs(db dbx.DBTX) rigs.Repository {
	return memRigs{m.rigs}
}

func (m *InMemoryRepositoryManager) Rotators(db dbx.DBTX) rotators.Repository {
	return memRotators{m.rotators}
}

func (m *InMemoryRepositoryManager) SDRs(db dbx.DBTX) sdrs.Repository {
	return memSDRs{m.sdrs}
}

func (m *InMemoryRepositoryManager) Satellites(db dbx.DBTX) satellites.Repository {
	return memSatellites{m.satellites}
}

func (m *InMemoryRepositoryManager) TLESources(db dbx.DBTX) tlesources.Repository {
	return memTLESources{m.tleSources}
}

func (m *InMemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return memUsers{m.users}
}

func (m *InMemoryRepositoryManager) Preferences(db dbx.DBTX) preferences.Repository {
	return memPreferences{m}
}

func (m *InMemoryRepositoryManager) Recordings(db dbx.DBTX) recordings.Repository {
	return memRecordings{m.recordings}
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}
