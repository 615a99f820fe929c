package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/groundstation/internal/client/dispatch"
	"github.com/dmitrijs2005/groundstation/internal/protocol"
	"github.com/dmitrijs2005/groundstation/internal/server/models"
)

func (a *App) login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	pw, err := getPassword(a.out)
	if err != nil {
		return err
	}

	result, err := dispatch.CallInto[protocol.LoginResult](ctx, a.d, protocol.TopicLogin,
		&protocol.LoginRequest{Username: username, Password: string(pw)})
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.session = &session{token: result.Token, username: result.Username, role: result.Role}
	a.mu.Unlock()

	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", result.Username, result.Role)
	return nil
}

// resumeSession re-authenticates a reconnected channel with the stored token
// instead of forcing a password re-login. Runs as a connect hook; on the
// first connect there is no session yet and it does nothing.
func (a *App) resumeSession() {
	a.mu.Lock()
	s := a.session
	a.mu.Unlock()
	if s == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.config.RequestTimeout)
	defer cancel()

	result, err := dispatch.CallInto[protocol.LoginResult](ctx, a.d, protocol.TopicAuth,
		&protocol.AuthRequest{Token: s.token})
	if err != nil {
		a.mu.Lock()
		a.session = nil
		a.mu.Unlock()
		fmt.Fprintln(a.out, "\nSession expired, please log in again")
		return
	}

	a.mu.Lock()
	a.session = &session{token: result.Token, username: result.Username, role: result.Role}
	a.mu.Unlock()
}

func (a *App) logout() {
	a.mu.Lock()
	a.session = nil
	a.mu.Unlock()
	fmt.Fprintln(a.out, "Logged out")
}

func (a *App) showPreferences(ctx context.Context) error {
	p, err := dispatch.CallInto[models.Preferences](ctx, a.d, protocol.GetCommand("preferences"), nil)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Callsign: %s\nLocation: %g, %g (%gm) %s\nTimezone: %s\nMetric:   %t\n",
		p.Callsign, p.Latitude, p.Longitude, p.AltitudeM, p.Locator, p.Timezone, p.Metric)
	return nil
}

func (a *App) editPreferences(ctx context.Context) error {
	p, err := dispatch.CallInto[models.Preferences](ctx, a.d, protocol.GetCommand("preferences"), nil)
	if err != nil {
		return err
	}

	if err := a.promptStringField("Callsign", &p.Callsign); err != nil {
		return err
	}
	if err := a.promptFloatField("Latitude", &p.Latitude); err != nil {
		return err
	}
	if err := a.promptFloatField("Longitude", &p.Longitude); err != nil {
		return err
	}
	if err := a.promptFloatField("Altitude (m)", &p.AltitudeM); err != nil {
		return err
	}
	if err := a.promptStringField("Locator", &p.Locator); err != nil {
		return err
	}
	if err := a.promptStringField("Timezone", &p.Timezone); err != nil {
		return err
	}
	if err := a.promptBoolField("Metric units", &p.Metric); err != nil {
		return err
	}

	saved, err := dispatch.CallInto[models.Preferences](ctx, a.d, protocol.SubmitCommand("preferences"), &p)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved preferences for %s\n", saved.Callsign)
	return nil
}

// refreshTLESource asks the server to re-import one source. Progress arrives
// as events; the final source list comes back in the ack.
func (a *App) refreshTLESource(ctx context.Context, id int64) error {
	fmt.Fprintf(a.out, "Refreshing source %d...\n", id)
	err := a.tlesources.Do(ctx, protocol.TopicRefreshTLESource, &protocol.RefreshTLERequest{SourceID: id})
	if err != nil {
		return err
	}
	printTLESources(a.out, a.tlesources.Store().Items())
	return nil
}

func (a *App) recordingUploadURL(ctx context.Context, id int64) error {
	result, err := dispatch.CallInto[protocol.RecordingURLResult](ctx, a.d, protocol.TopicRecordingUploadURL,
		&protocol.RecordingURLRequest{RecordingID: id})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "PUT %s\n", result.URL)
	return nil
}

// recordingUploaded confirms a finished upload so the capture leaves the
// pending state; the ack carries the updated list.
func (a *App) recordingUploaded(ctx context.Context, id int64) error {
	err := a.recordings.Do(ctx, protocol.TopicRecordingUploaded, &protocol.RecordingURLRequest{RecordingID: id})
	if err != nil {
		return err
	}
	printRecordings(a.out, a.recordings.Store().Items())
	return nil
}

func (a *App) recordingDownloadURL(ctx context.Context, id int64) error {
	result, err := dispatch.CallInto[protocol.RecordingURLResult](ctx, a.d, protocol.TopicRecordingDownloadURL,
		&protocol.RecordingURLRequest{RecordingID: id})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "GET %s\n", result.URL)
	return nil
}

func (a *App) showStatus() {
	a.mu.Lock()
	status := a.lastStatus
	a.mu.Unlock()

	if !a.ch.Connected() {
		fmt.Fprintln(a.out, "Link: offline")
		return
	}
	fmt.Fprintln(a.out, "Link: online")
	if status != nil {
		fmt.Fprintf(a.out, "Server: %d clients, up %ds\n", status.ConnectedClients, status.UptimeSeconds)
	}
}
