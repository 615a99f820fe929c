package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/groundstation/internal/server/models"
)

// One form func and one list printer per resource type.

func (a *App) cameraForm(c *models.Camera) error {
	if err := a.promptStringField("Name", &c.Name); err != nil {
		return err
	}
	if err := a.promptStringField("URL", &c.URL); err != nil {
		return err
	}
	if err := a.promptStringField("Type (mjpeg/rtsp/usb)", &c.Type); err != nil {
		return err
	}
	return a.promptBoolField("Enabled", &c.Enabled)
}

func printCameras(w io.Writer, items []models.Camera) {
	for _, c := range items {
		fmt.Fprintf(w, "%4d  %-20s %-6s %-5t %s\n", c.ID, c.Name, c.Type, c.Enabled, c.URL)
	}
}

func (a *App) rigForm(r *models.Rig) error {
	if err := a.promptStringField("Name", &r.Name); err != nil {
		return err
	}
	if err := a.promptStringField("Host", &r.Host); err != nil {
		return err
	}
	if err := a.promptIntField("Port", &r.Port); err != nil {
		return err
	}
	if err := a.promptStringField("Model", &r.Model); err != nil {
		return err
	}
	return a.promptBoolField("Enabled", &r.Enabled)
}

func printRigs(w io.Writer, items []models.Rig) {
	for _, r := range items {
		fmt.Fprintf(w, "%4d  %-20s %s:%d %-12s %t\n", r.ID, r.Name, r.Host, r.Port, r.Model, r.Enabled)
	}
}

func (a *App) rotatorForm(r *models.Rotator) error {
	if err := a.promptStringField("Name", &r.Name); err != nil {
		return err
	}
	if err := a.promptStringField("Host", &r.Host); err != nil {
		return err
	}
	if err := a.promptIntField("Port", &r.Port); err != nil {
		return err
	}
	if err := a.promptFloatField("Min azimuth", &r.MinAz); err != nil {
		return err
	}
	if err := a.promptFloatField("Max azimuth", &r.MaxAz); err != nil {
		return err
	}
	if err := a.promptFloatField("Min elevation", &r.MinEl); err != nil {
		return err
	}
	if err := a.promptFloatField("Max elevation", &r.MaxEl); err != nil {
		return err
	}
	return a.promptBoolField("Enabled", &r.Enabled)
}

func printRotators(w io.Writer, items []models.Rotator) {
	for _, r := range items {
		fmt.Fprintf(w, "%4d  %-20s %s:%d az %g..%g el %g..%g %t\n",
			r.ID, r.Name, r.Host, r.Port, r.MinAz, r.MaxAz, r.MinEl, r.MaxEl, r.Enabled)
	}
}

func (a *App) sdrForm(d *models.SDRDevice) error {
	if err := a.promptStringField("Name", &d.Name); err != nil {
		return err
	}
	if err := a.promptStringField("Driver (rtlsdr/airspy/hackrf/sdrplay)", &d.Driver); err != nil {
		return err
	}
	if err := a.promptStringField("Serial", &d.Serial); err != nil {
		return err
	}
	if err := a.promptInt64Field("Sample rate", &d.SampleRate); err != nil {
		return err
	}
	if err := a.promptIntField("PPM correction", &d.PPM); err != nil {
		return err
	}
	return a.promptBoolField("Enabled", &d.Enabled)
}

func printSDRs(w io.Writer, items []models.SDRDevice) {
	for _, d := range items {
		fmt.Fprintf(w, "%4d  %-20s %-8s sn=%-12s %d sps %+d ppm %t\n",
			d.ID, d.Name, d.Driver, d.Serial, d.SampleRate, d.PPM, d.Enabled)
	}
}

func (a *App) satelliteForm(s *models.Satellite) error {
	if err := a.promptStringField("Name", &s.Name); err != nil {
		return err
	}
	if err := a.promptInt64Field("NORAD id", &s.NoradID); err != nil {
		return err
	}
	if err := a.promptStringField("Group", &s.GroupName); err != nil {
		return err
	}
	if err := a.promptStringField("TLE line 1", &s.TLELine1); err != nil {
		return err
	}
	if err := a.promptStringField("TLE line 2", &s.TLELine2); err != nil {
		return err
	}
	return a.promptBoolField("Enabled", &s.Enabled)
}

func printSatellites(w io.Writer, items []models.Satellite) {
	for _, s := range items {
		fmt.Fprintf(w, "%4d  %-24s norad=%-6d %-12s %t\n", s.ID, s.Name, s.NoradID, s.GroupName, s.Enabled)
	}
}

func (a *App) tleSourceForm(s *models.TLESource) error {
	if err := a.promptStringField("Name", &s.Name); err != nil {
		return err
	}
	if err := a.promptStringField("URL", &s.URL); err != nil {
		return err
	}
	if err := a.promptStringField("Group", &s.GroupName); err != nil {
		return err
	}
	return a.promptBoolField("Auto refresh", &s.AutoRefresh)
}

func printTLESources(w io.Writer, items []models.TLESource) {
	for _, s := range items {
		fetched := "never"
		if s.LastFetchedAt != nil {
			fetched = s.LastFetchedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%4d  %-16s %-40s sats=%-4d fetched=%s\n", s.ID, s.Name, s.URL, s.SatelliteCount, fetched)
	}
}

func printUsers(w io.Writer, items []models.User) {
	for _, u := range items {
		fmt.Fprintf(w, "%4d  %-20s %s\n", u.ID, u.Username, u.Role)
	}
}

func printRecordings(w io.Writer, items []models.Recording) {
	for _, r := range items {
		fmt.Fprintf(w, "%4d  %-24s %s %4ds %-9s %s\n",
			r.ID, r.Satellite, r.StartedAt.Format(time.RFC3339), r.DurationS, r.Status, r.StorageKey)
	}
}
