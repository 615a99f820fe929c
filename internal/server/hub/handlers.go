package hub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/groundstation/internal/common"
	"github.com/dmitrijs2005/groundstation/internal/protocol"
	"github.com/dmitrijs2005/groundstation/internal/server/auth"
	"github.com/dmitrijs2005/groundstation/internal/server/models"
	"github.com/dmitrijs2005/groundstation/internal/server/services"
)

func decode[T any](raw json.RawMessage) (*T, error) {
	v := new(T)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: missing payload", common.ErrorValidation)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	return v, nil
}

func (h *Hub) requireAuth(c *client) (*auth.Claims, error) {
	claims := c.getClaims()
	if claims == nil {
		return nil, fmt.Errorf("%w: login required", common.ErrorUnauthorized)
	}
	return claims, nil
}

// requireRole enforces write access. Viewers can read everything but mutate
// nothing; user administration additionally requires the admin role.
func (h *Hub) requireRole(c *client, roles ...string) (*auth.Claims, error) {
	claims, err := h.requireAuth(c)
	if err != nil {
		return nil, err
	}
	for _, r := range roles {
		if claims.Role == r {
			return claims, nil
		}
	}
	return nil, fmt.Errorf("%w: role %q may not perform this command", common.ErrorUnauthorized, claims.Role)
}

func (h *Hub) registerHandlers() {
	h.handlers[protocol.TopicPing] = func(ctx context.Context, c *client, _ json.RawMessage) (any, error) {
		return map[string]string{"pong": "ok"}, nil
	}

	h.handlers[protocol.TopicLogin] = h.handleLogin
	h.handlers[protocol.TopicAuth] = h.handleAuth

	registerResource(h, "camera", "cameras",
		h.station.ListCameras, h.station.CreateCamera, h.station.UpdateCamera, h.station.DeleteCameras)
	registerResource(h, "rig", "rigs",
		h.station.ListRigs, h.station.CreateRig, h.station.UpdateRig, h.station.DeleteRigs)
	registerResource(h, "rotator", "rotators",
		h.station.ListRotators, h.station.CreateRotator, h.station.UpdateRotator, h.station.DeleteRotators)
	registerResource(h, "sdr", "sdrs",
		h.station.ListSDRs, h.station.CreateSDR, h.station.UpdateSDR, h.station.DeleteSDRs)
	registerResource(h, "satellite", "satellites",
		h.station.ListSatellites, h.station.CreateSatellite, h.station.UpdateSatellite, h.station.DeleteSatellites)
	registerResource(h, "tlesource", "tlesources",
		h.tles.ListSources, h.tles.CreateSource, h.tles.UpdateSource, h.tles.DeleteSources)

	h.registerPreferences()
	h.registerUsers()
	h.registerTLERefresh()
	h.registerRecordings()
}

func (h *Hub) handleLogin(ctx context.Context, c *client, payload json.RawMessage) (any, error) {
	req, err := decode[protocol.LoginRequest](payload)
	if err != nil {
		return nil, err
	}

	token, u, err := h.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	c.setClaims(&auth.Claims{UserID: u.ID, Username: u.Username, Role: u.Role})
	h.log.Info(ctx, "login", "username", u.Username, "role", u.Role)
	return &protocol.LoginResult{Token: token, Username: u.Username, Role: u.Role}, nil
}

// handleAuth restores a session from a previously issued token, so a client
// that reconnects does not have to present the password again.
func (h *Hub) handleAuth(ctx context.Context, c *client, payload json.RawMessage) (any, error) {
	req, err := decode[protocol.AuthRequest](payload)
	if err != nil {
		return nil, err
	}

	claims, err := h.users.Authenticate(req.Token)
	if err != nil {
		return nil, err
	}

	c.setClaims(claims)
	h.log.Info(ctx, "session resumed", "username", claims.Username, "role", claims.Role)
	return &protocol.LoginResult{Token: req.Token, Username: claims.Username, Role: claims.Role}, nil
}

// registerResource wires the four-verb vocabulary for one resource type onto
// a service's CRUD methods. Reads need any session, writes need operator or
// admin.
func registerResource[T any](h *Hub, singular, plural string,
	list func(context.Context) ([]T, error),
	create func(context.Context, *T) ([]T, error),
	update func(context.Context, *T) ([]T, error),
	del func(context.Context, []int64) ([]T, error),
) {
	h.handlers[protocol.GetCommand(plural)] = func(ctx context.Context, c *client, _ json.RawMessage) (any, error) {
		if _, err := h.requireAuth(c); err != nil {
			return nil, err
		}
		return list(ctx)
	}

	h.handlers[protocol.SubmitCommand(singular)] = func(ctx context.Context, c *client, payload json.RawMessage) (any, error) {
		if _, err := h.requireRole(c, models.RoleAdmin, models.RoleOperator); err != nil {
			return nil, err
		}
		v, err := decode[T](payload)
		if err != nil {
			return nil, err
		}
		return create(ctx, v)
	}

	h.handlers[protocol.EditCommand(singular)] = func(ctx context.Context, c *client, payload json.RawMessage) (any, error) {
		if _, err := h.requireRole(c, models.RoleAdmin, models.RoleOperator); err != nil {
			return nil, err
		}
		v, err := decode[T](payload)
		if err != nil {
			return nil, err
		}
		return update(ctx, v)
	}

	h.handlers[protocol.DeleteCommand(singular)] = func(ctx context.Context, c *client, payload json.RawMessage) (any, error) {
		if _, err := h.requireRole(c, models.RoleAdmin, models.RoleOperator); err != nil {
			return nil, err
		}
		req, err := decode[protocol.DeleteRequest](payload)
		if err != nil {
			return nil, err
		}
		return del(ctx, req.IDs)
	}
}

func (h *Hub) registerPreferences() {
	h.handlers[protocol.GetCommand("preferences")] = func(ctx context.Context, c *client, _ json.RawMessage) (any, error) {
		if _, err := h.requireAuth(c); err != nil {
			return nil, err
		}
		return h.station.GetPreferences(ctx)
	}

	h.handlers[protocol.SubmitCommand("preferences")] = func(ctx context.Context, c *client, payload json.RawMessage) (any, error) {
		if _, err := h.requireRole(c, models.RoleAdmin, models.RoleOperator); err != nil {
			return nil, err
		}
		p, err := decode[models.Preferences](payload)
		if err != nil {
			return nil, err
		}
		return h.station.SavePreferences(ctx, p)
	}
}

func (h *Hub) registerUsers() {
	h.handlers[protocol.GetCommand("users")] = func(ctx context.Context, c *client, _ json.RawMessage) (any, error) {
		if _, err := h.requireRole(c, models.RoleAdmin); err != nil {
			return nil, err
		}
		return h.users.List(ctx)
	}

	h.handlers[protocol.SubmitCommand("user")] = func(ctx context.Context, c *client, payload json.RawMessage) (any, error) {
		if _, err := h.requireRole(c, models.RoleAdmin); err != nil {
			return nil, err
		}
		sub, err := decode[services.UserSubmit](payload)
		if err != nil {
			return nil, err
		}
		return h.users.Create(ctx, sub)
	}

	h.handlers[protocol.EditCommand("user")] = func(ctx context.Context, c *client, payload json.RawMessage) (any, error) {
		if _, err := h.requireRole(c, models.RoleAdmin); err != nil {
			return nil, err
		}
		sub, err := decode[services.UserSubmit](payload)
		if err != nil {
			return nil, err
		}
		return h.users.Update(ctx, sub)
	}

	h.handlers[protocol.DeleteCommand("user")] = func(ctx context.Context, c *client, payload json.RawMessage) (any, error) {
		claims, err := h.requireRole(c, models.RoleAdmin)
		if err != nil {
			return nil, err
		}
		req, err := decode[protocol.DeleteRequest](payload)
		if err != nil {
			return nil, err
		}
		for _, id := range req.IDs {
			if id == claims.UserID {
				return nil, fmt.Errorf("%w: cannot delete the logged-in account", common.ErrorValidation)
			}
		}
		return h.users.Delete(ctx, req.IDs)
	}
}

func (h *Hub) registerTLERefresh() {
	h.handlers[protocol.TopicRefreshTLESource] = func(ctx context.Context, c *client, payload json.RawMessage) (any, error) {
		if _, err := h.requireRole(c, models.RoleAdmin, models.RoleOperator); err != nil {
			return nil, err
		}
		req, err := decode[protocol.RefreshTLERequest](payload)
		if err != nil {
			return nil, err
		}

		sources, err := h.tles.RefreshSource(ctx, req.SourceID, func(stage, satellite string, count int) {
			h.Broadcast(protocol.EventTLERefresh, &protocol.TLERefreshEvent{
				SourceID: req.SourceID, Stage: stage, Satellite: satellite, Count: count,
			})
		})
		if err != nil {
			h.Broadcast(protocol.EventTLERefresh, &protocol.TLERefreshEvent{
				SourceID: req.SourceID, Stage: "failed", Error: err.Error(),
			})
			return nil, err
		}
		return sources, nil
	}
}

func (h *Hub) registerRecordings() {
	h.handlers[protocol.GetCommand("recordings")] = func(ctx context.Context, c *client, _ json.RawMessage) (any, error) {
		if _, err := h.requireAuth(c); err != nil {
			return nil, err
		}
		return h.recordings.List(ctx)
	}

	h.handlers[protocol.SubmitCommand("recording")] = func(ctx context.Context, c *client, payload json.RawMessage) (any, error) {
		if _, err := h.requireRole(c, models.RoleAdmin, models.RoleOperator); err != nil {
			return nil, err
		}
		rec, err := decode[models.Recording](payload)
		if err != nil {
			return nil, err
		}
		return h.recordings.Create(ctx, rec)
	}

	h.handlers[protocol.DeleteCommand("recording")] = func(ctx context.Context, c *client, payload json.RawMessage) (any, error) {
		if _, err := h.requireRole(c, models.RoleAdmin, models.RoleOperator); err != nil {
			return nil, err
		}
		req, err := decode[protocol.DeleteRequest](payload)
		if err != nil {
			return nil, err
		}
		return h.recordings.Delete(ctx, req.IDs)
	}

	h.handlers[protocol.TopicRecordingUploadURL] = func(ctx context.Context, c *client, payload json.RawMessage) (any, error) {
		if _, err := h.requireRole(c, models.RoleAdmin, models.RoleOperator); err != nil {
			return nil, err
		}
		req, err := decode[protocol.RecordingURLRequest](payload)
		if err != nil {
			return nil, err
		}
		key, url, err := h.recordings.UploadURL(ctx, req.RecordingID)
		if err != nil {
			return nil, err
		}
		return &protocol.RecordingURLResult{RecordingID: req.RecordingID, StorageKey: key, URL: url}, nil
	}

	h.handlers[protocol.TopicRecordingUploaded] = func(ctx context.Context, c *client, payload json.RawMessage) (any, error) {
		if _, err := h.requireRole(c, models.RoleAdmin, models.RoleOperator); err != nil {
			return nil, err
		}
		req, err := decode[protocol.RecordingURLRequest](payload)
		if err != nil {
			return nil, err
		}
		return h.recordings.ConfirmUpload(ctx, req.RecordingID)
	}

	h.handlers[protocol.TopicRecordingDownloadURL] = func(ctx context.Context, c *client, payload json.RawMessage) (any, error) {
		if _, err := h.requireAuth(c); err != nil {
			return nil, err
		}
		req, err := decode[protocol.RecordingURLRequest](payload)
		if err != nil {
			return nil, err
		}
		url, err := h.recordings.DownloadURL(ctx, req.RecordingID)
		if err != nil {
			return nil, err
		}
		return &protocol.RecordingURLResult{RecordingID: req.RecordingID, URL: url}, nil
	}
}
