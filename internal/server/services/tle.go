package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/groundstation/internal/server/models"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/groundstation/internal/tle"
)

// httpGet is a test seam for fetching TLE source URLs.
var httpGet = func(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch failed: %s", resp.Status)
	}
	return resp.Body, nil
}

// RefreshProgress is invoked as a refresh advances so the hub can broadcast
// progress events. May be nil.
type RefreshProgress func(stage string, satellite string, count int)

// TLEService imports element sets from configured sources.
type TLEService struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewTLEService(db *sql.DB, rm repomanager.RepositoryManager) *TLEService {
	return &TLEService{db: db, rm: rm}
}

func (s *TLEService) ListSources(ctx context.Context) ([]models.TLESource, error) {
	return s.rm.TLESources(s.db).List(ctx)
}

func (s *TLEService) CreateSource(ctx context.Context, src *models.TLESource) ([]models.TLESource, error) {
	if _, err := s.rm.TLESources(s.db).Create(ctx, src); err != nil {
		return nil, err
	}
	return s.ListSources(ctx)
}

func (s *TLEService) UpdateSource(ctx context.Context, src *models.TLESource) ([]models.TLESource, error) {
	if _, err := s.rm.TLESources(s.db).Update(ctx, src); err != nil {
		return nil, err
	}
	return s.ListSources(ctx)
}

func (s *TLEService) DeleteSources(ctx context.Context, ids []int64) ([]models.TLESource, error) {
	if err := s.rm.TLESources(s.db).Delete(ctx, ids); err != nil {
		return nil, err
	}
	return s.ListSources(ctx)
}

// RefreshSource downloads one source, upserts every parsed satellite keyed by
// NORAD id, stamps the source and returns the updated source list. Satellites
// imported from a source start enabled.
func (s *TLEService) RefreshSource(ctx context.Context, id int64, progress RefreshProgress) ([]models.TLESource, error) {
	report := func(stage, satellite string, count int) {
		if progress != nil {
			progress(stage, satellite, count)
		}
	}

	src, err := s.rm.TLESources(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	report("fetching", "", 0)
	body, err := httpGet(ctx, src.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching %q: %w", src.Name, err)
	}
	defer body.Close()

	report("parsing", "", 0)
	sets, err := tle.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", src.Name, err)
	}

	satRepo := s.rm.Satellites(s.db)
	for i, set := range sets {
		sat := &models.Satellite{
			Name:      set.Name,
			NoradID:   set.NoradID,
			GroupName: src.GroupName,
			TLELine1:  set.Line1,
			TLELine2:  set.Line2,
			Enabled:   true,
		}
		if err := satRepo.UpsertByNorad(ctx, sat); err != nil {
			return nil, err
		}
		report("parsing", set.Name, i+1)
	}

	if err := s.rm.TLESources(s.db).MarkFetched(ctx, id, time.Now(), len(sets)); err != nil {
		return nil, err
	}

	report("done", "", len(sets))
	return s.ListSources(ctx)
}
