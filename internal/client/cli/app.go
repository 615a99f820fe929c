// Package cli is the interactive station console. It keeps one websocket
// channel to the server, a coordinator per resource type, and a small REPL on
// top of them.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/dmitrijs2005/groundstation/internal/client/channel"
	"github.com/dmitrijs2005/groundstation/internal/client/config"
	"github.com/dmitrijs2005/groundstation/internal/client/dispatch"
	"github.com/dmitrijs2005/groundstation/internal/client/resources"
	clisync "github.com/dmitrijs2005/groundstation/internal/client/sync"
	"github.com/dmitrijs2005/groundstation/internal/logging"
	"github.com/dmitrijs2005/groundstation/internal/protocol"
	"github.com/dmitrijs2005/groundstation/internal/server/models"
)

// session holds the result of the last successful login.
type session struct {
	token    string
	username string
	role     string
}

type App struct {
	config *config.Config
	log    logging.Logger

	ch *channel.Channel
	d  *dispatch.Dispatcher

	reader *bufio.Reader
	out    io.Writer

	mu         sync.Mutex
	session    *session
	lastStatus *protocol.StatusEvent

	cameras    *clisync.Coordinator[models.Camera]
	rigs       *clisync.Coordinator[models.Rig]
	rotators   *clisync.Coordinator[models.Rotator]
	sdrs       *clisync.Coordinator[models.SDRDevice]
	satellites *clisync.Coordinator[models.Satellite]
	tlesources *clisync.Coordinator[models.TLESource]
	users      *clisync.Coordinator[models.User]
	recordings *clisync.Coordinator[models.Recording]

	actions map[string]*resourceActions
}

func NewApp(c *config.Config) *App {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	ch := channel.New(c.ServerURL, log, c.ReconnectMinDelay, c.ReconnectMaxDelay)
	d := dispatch.New(ch, c.RequestTimeout)

	a := &App{
		config: c,
		log:    log,
		ch:     ch,
		d:      d,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,

		cameras:    clisync.NewCoordinator(resources.Cameras, d),
		rigs:       clisync.NewCoordinator(resources.Rigs, d),
		rotators:   clisync.NewCoordinator(resources.Rotators, d),
		sdrs:       clisync.NewCoordinator(resources.SDRs, d),
		satellites: clisync.NewCoordinator(resources.Satellites, d),
		tlesources: clisync.NewCoordinator(resources.TLESources, d),
		users:      clisync.NewCoordinator(resources.Users, d),
		recordings: clisync.NewCoordinator(resources.Recordings, d),
	}

	a.registerActions()
	a.subscribeEvents()
	ch.OnConnect(a.resumeSession)
	return a
}

func (a *App) subscribeEvents() {
	a.ch.On(protocol.EventTLERefresh, func(payload json.RawMessage) {
		var ev protocol.TLERefreshEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return
		}
		switch ev.Stage {
		case "done":
			fmt.Fprintf(a.out, "\n[tle] source %d: imported %d satellites\n", ev.SourceID, ev.Count)
		case "failed":
			fmt.Fprintf(a.out, "\n[tle] source %d: refresh failed: %s\n", ev.SourceID, ev.Error)
		}
	})

	a.ch.On(protocol.EventStatus, func(payload json.RawMessage) {
		var ev protocol.StatusEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return
		}
		a.mu.Lock()
		a.lastStatus = &ev
		a.mu.Unlock()
	})
}

func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.ch.Run(ctx)

	a.repl(ctx, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session != nil
}

func (a *App) prompt() string {
	a.mu.Lock()
	s := a.session
	a.mu.Unlock()

	link := "offline"
	if a.ch.Connected() {
		link = "online"
	}
	if s == nil {
		return fmt.Sprintf("%s, not logged in", link)
	}
	return fmt.Sprintf("%s, %s/%s", link, s.username, s.role)
}
