package cli

import (
	"context"
	"fmt"
	"io"

	clisync "github.com/dmitrijs2005/groundstation/internal/client/sync"
	"github.com/dmitrijs2005/groundstation/internal/protocol"
	"github.com/dmitrijs2005/groundstation/internal/server/models"
)

// resourceActions adapts one typed coordinator to the string-keyed REPL.
type resourceActions struct {
	list func(ctx context.Context) error
	add  func(ctx context.Context) error
	edit func(ctx context.Context, id int64) error
	del  func(ctx context.Context, ids []int64) error
}

// makeActions builds the standard list/add/edit/delete glue for a resource:
// forms run on a copy in the store, and only a successful ack closes them.
func makeActions[T any](a *App, c *clisync.Coordinator[T],
	form func(*T) error, print func(io.Writer, []T)) *resourceActions {

	return &resourceActions{
		list: func(ctx context.Context) error {
			if err := c.Fetch(ctx); err != nil {
				return err
			}
			print(a.out, c.Store().Items())
			return nil
		},

		add: func(ctx context.Context) error {
			c.Store().OpenAdd()
			item := c.Store().Form()
			if err := form(&item); err != nil {
				c.Store().CloseForm()
				return err
			}
			c.Store().SetForm(item)

			if err := c.SaveForm(ctx); err != nil {
				return err
			}
			print(a.out, c.Store().Items())
			return nil
		},

		edit: func(ctx context.Context, id int64) error {
			if !c.Store().OpenEdit(id) {
				// not cached yet, refresh once and retry
				if err := c.Fetch(ctx); err != nil {
					return err
				}
				if !c.Store().OpenEdit(id) {
					return fmt.Errorf("no item with id %d", id)
				}
			}

			item := c.Store().Form()
			if err := form(&item); err != nil {
				c.Store().CloseForm()
				return err
			}
			c.Store().SetForm(item)

			if err := c.SaveForm(ctx); err != nil {
				return err
			}
			print(a.out, c.Store().Items())
			return nil
		},

		del: func(ctx context.Context, ids []int64) error {
			if err := c.Delete(ctx, ids); err != nil {
				return err
			}
			print(a.out, c.Store().Items())
			return nil
		},
	}
}

func (a *App) registerActions() {
	a.actions = map[string]*resourceActions{
		"cameras":    makeActions(a, a.cameras, a.cameraForm, printCameras),
		"rigs":       makeActions(a, a.rigs, a.rigForm, printRigs),
		"rotators":   makeActions(a, a.rotators, a.rotatorForm, printRotators),
		"sdrs":       makeActions(a, a.sdrs, a.sdrForm, printSDRs),
		"satellites": makeActions(a, a.satellites, a.satelliteForm, printSatellites),
		"tlesources": makeActions(a, a.tlesources, a.tleSourceForm, printTLESources),
		"users":      a.userActions(),
		"recordings": a.recordingActions(),
	}
}

// userActions differs from the standard glue because the submit payload
// carries a password that is not part of the cached User struct.
func (a *App) userActions() *resourceActions {
	c := a.users

	promptUser := func(sub *protocol.UserSubmit) error {
		if err := a.promptStringField("Username", &sub.Username); err != nil {
			return err
		}
		if err := a.promptStringField("Role (admin/operator/viewer)", &sub.Role); err != nil {
			return err
		}
		pw, err := getPassword(a.out)
		if err != nil {
			return err
		}
		sub.Password = string(pw)
		return nil
	}

	return &resourceActions{
		list: func(ctx context.Context) error {
			if err := c.Fetch(ctx); err != nil {
				return err
			}
			printUsers(a.out, c.Store().Items())
			return nil
		},

		add: func(ctx context.Context) error {
			sub := protocol.UserSubmit{Role: models.RoleViewer}
			if err := promptUser(&sub); err != nil {
				return err
			}
			if err := c.CreateFrom(ctx, &sub); err != nil {
				return err
			}
			printUsers(a.out, c.Store().Items())
			return nil
		},

		edit: func(ctx context.Context, id int64) error {
			if !c.Store().OpenEdit(id) {
				if err := c.Fetch(ctx); err != nil {
					return err
				}
				if !c.Store().OpenEdit(id) {
					return fmt.Errorf("no user with id %d", id)
				}
			}
			u := c.Store().Form()
			c.Store().CloseForm()

			sub := protocol.UserSubmit{ID: u.ID, Username: u.Username, Role: u.Role}
			if err := promptUser(&sub); err != nil {
				return err
			}
			if err := c.UpdateFrom(ctx, &sub); err != nil {
				return err
			}
			printUsers(a.out, c.Store().Items())
			return nil
		},

		del: func(ctx context.Context, ids []int64) error {
			if err := c.Delete(ctx, ids); err != nil {
				return err
			}
			printUsers(a.out, c.Store().Items())
			return nil
		},
	}
}

// recordingActions has no edit: captures are immutable once registered.
func (a *App) recordingActions() *resourceActions {
	c := a.recordings

	return &resourceActions{
		list: func(ctx context.Context) error {
			if err := c.Fetch(ctx); err != nil {
				return err
			}
			printRecordings(a.out, c.Store().Items())
			return nil
		},

		del: func(ctx context.Context, ids []int64) error {
			if err := c.Delete(ctx, ids); err != nil {
				return err
			}
			printRecordings(a.out, c.Store().Items())
			return nil
		},
	}
}
