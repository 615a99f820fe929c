// Package services contains the server-side business logic. Every mutating
// call returns the full authoritative list of the affected resource type:
// clients never compute post-mutation state themselves, they replace their
// cache with what these methods return.
package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/groundstation/internal/server/models"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/repomanager"
)

// StationService owns CRUD for the station's equipment and tracking
// resources.
type StationService struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewStationService(db *sql.DB, rm repomanager.RepositoryManager) *StationService {
	return &StationService{db: db, rm: rm}
}

// --- cameras

func (s *StationService) ListCameras(ctx context.Context) ([]models.Camera, error) {
	return s.rm.Cameras(s.db).List(ctx)
}

func (s *StationService) CreateCamera(ctx context.Context, c *models.Camera) ([]models.Camera, error) {
	if _, err := s.rm.Cameras(s.db).Create(ctx, c); err != nil {
		return nil, err
	}
	return s.ListCameras(ctx)
}

func (s *StationService) UpdateCamera(ctx context.Context, c *models.Camera) ([]models.Camera, error) {
	if _, err := s.rm.Cameras(s.db).Update(ctx, c); err != nil {
		return nil, err
	}
	return s.ListCameras(ctx)
}

func (s *StationService) DeleteCameras(ctx context.Context, ids []int64) ([]models.Camera, error) {
	if err := s.rm.Cameras(s.db).Delete(ctx, ids); err != nil {
		return nil, err
	}
	return s.ListCameras(ctx)
}

// --- rigs

func (s *StationService) ListRigs(ctx context.Context) ([]models.Rig, error) {
	return s.rm.Rigs(s.db).List(ctx)
}

func (s *StationService) CreateRig(ctx context.Context, r *models.Rig) ([]models.Rig, error) {
	if _, err := s.rm.Rigs(s.db).Create(ctx, r); err != nil {
		return nil, err
	}
	return s.ListRigs(ctx)
}

func (s *StationService) UpdateRig(ctx context.Context, r *models.Rig) ([]models.Rig, error) {
	if _, err := s.rm.Rigs(s.db).Update(ctx, r); err != nil {
		return nil, err
	}
	return s.ListRigs(ctx)
}

func (s *StationService) DeleteRigs(ctx context.Context, ids []int64) ([]models.Rig, error) {
	if err := s.rm.Rigs(s.db).Delete(ctx, ids); err != nil {
		return nil, err
	}
	return s.ListRigs(ctx)
}

// --- rotators

func (s *StationService) ListRotators(ctx context.Context) ([]models.Rotator, error) {
	return s.rm.Rotators(s.db).List(ctx)
}

func (s *StationService) CreateRotator(ctx context.Context, r *models.Rotator) ([]models.Rotator, error) {
	if _, err := s.rm.Rotators(s.db).Create(ctx, r); err != nil {
		return nil, err
	}
	return s.ListRotators(ctx)
}

func (s *StationService) UpdateRotator(ctx context.Context, r *models.Rotator) ([]models.Rotator, error) {
	if _, err := s.rm.Rotators(s.db).Update(ctx, r); err != nil {
		return nil, err
	}
	return s.ListRotators(ctx)
}

func (s *StationService) DeleteRotators(ctx context.Context, ids []int64) ([]models.Rotator, error) {
	if err := s.rm.Rotators(s.db).Delete(ctx, ids); err != nil {
		return nil, err
	}
	return s.ListRotators(ctx)
}

// --- SDR devices

func (s *StationService) ListSDRs(ctx context.Context) ([]models.SDRDevice, error) {
	return s.rm.SDRs(s.db).List(ctx)
}

func (s *StationService) CreateSDR(ctx context.Context, d *models.SDRDevice) ([]models.SDRDevice, error) {
	if _, err := s.rm.SDRs(s.db).Create(ctx, d); err != nil {
		return nil, err
	}
	return s.ListSDRs(ctx)
}

func (s *StationService) UpdateSDR(ctx context.Context, d *models.SDRDevice) ([]models.SDRDevice, error) {
	if _, err := s.rm.SDRs(s.db).Update(ctx, d); err != nil {
		return nil, err
	}
	return s.ListSDRs(ctx)
}

func (s *StationService) DeleteSDRs(ctx context.Context, ids []int64) ([]models.SDRDevice, error) {
	if err := s.rm.SDRs(s.db).Delete(ctx, ids); err != nil {
		return nil, err
	}
	return s.ListSDRs(ctx)
}

// --- satellites

func (s *StationService) ListSatellites(ctx context.Context) ([]models.Satellite, error) {
	return s.rm.Satellites(s.db).List(ctx)
}

func (s *StationService) CreateSatellite(ctx context.Context, sat *models.Satellite) ([]models.Satellite, error) {
	if _, err := s.rm.Satellites(s.db).Create(ctx, sat); err != nil {
		return nil, err
	}
	return s.ListSatellites(ctx)
}

func (s *StationService) UpdateSatellite(ctx context.Context, sat *models.Satellite) ([]models.Satellite, error) {
	if _, err := s.rm.Satellites(s.db).Update(ctx, sat); err != nil {
		return nil, err
	}
	return s.ListSatellites(ctx)
}

func (s *StationService) DeleteSatellites(ctx context.Context, ids []int64) ([]models.Satellite, error) {
	if err := s.rm.Satellites(s.db).Delete(ctx, ids); err != nil {
		return nil, err
	}
	return s.ListSatellites(ctx)
}

// --- preferences

func (s *StationService) GetPreferences(ctx context.Context) (*models.Preferences, error) {
	return s.rm.Preferences(s.db).Get(ctx)
}

func (s *StationService) SavePreferences(ctx context.Context, p *models.Preferences) (*models.Preferences, error) {
	return s.rm.Preferences(s.db).Save(ctx, p)
}
