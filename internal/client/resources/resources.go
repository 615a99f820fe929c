// Package resources describes the resource types the console manages. The
// wire structs are shared with the server (package models): acknowledgement
// payloads decode straight into them. A Descriptor binds each type to its
// command vocabulary, its id accessor and its new-item template.
package resources

import "github.com/dmitrijs2005/groundstation/internal/server/models"

// Descriptor ties one resource type to everything the sync layer needs.
type Descriptor[T any] struct {
	// Singular and Plural feed the command vocabulary: get-<Plural>,
	// submit-<Singular>, edit-<Singular>, delete-<Singular>.
	Singular string
	Plural   string

	// ID extracts the server-assigned id; zero means not yet created.
	ID func(*T) int64

	// NewDefault returns the template used to seed an add form.
	NewDefault func() T
}

var Cameras = Descriptor[models.Camera]{
	Singular: "camera",
	Plural:   "cameras",
	ID:       func(c *models.Camera) int64 { return c.ID },
	NewDefault: func() models.Camera {
		return models.Camera{Type: "rtsp", Enabled: true}
	},
}

var Rigs = Descriptor[models.Rig]{
	Singular: "rig",
	Plural:   "rigs",
	ID:       func(r *models.Rig) int64 { return r.ID },
	NewDefault: func() models.Rig {
		// rigctld's default port
		return models.Rig{Port: 4532, Enabled: true}
	},
}

var Rotators = Descriptor[models.Rotator]{
	Singular: "rotator",
	Plural:   "rotators",
	ID:       func(r *models.Rotator) int64 { return r.ID },
	NewDefault: func() models.Rotator {
		// rotctld's default port
		return models.Rotator{Port: 4533, MaxAz: 360, MaxEl: 90, Enabled: true}
	},
}

var SDRs = Descriptor[models.SDRDevice]{
	Singular: "sdr",
	Plural:   "sdrs",
	ID:       func(d *models.SDRDevice) int64 { return d.ID },
	NewDefault: func() models.SDRDevice {
		return models.SDRDevice{Driver: "rtlsdr", SampleRate: 2_048_000, Enabled: true}
	},
}

var Satellites = Descriptor[models.Satellite]{
	Singular: "satellite",
	Plural:   "satellites",
	ID:       func(s *models.Satellite) int64 { return s.ID },
	NewDefault: func() models.Satellite {
		return models.Satellite{Enabled: true}
	},
}

var TLESources = Descriptor[models.TLESource]{
	Singular: "tlesource",
	Plural:   "tlesources",
	ID:       func(s *models.TLESource) int64 { return s.ID },
	NewDefault: func() models.TLESource {
		return models.TLESource{AutoRefresh: true}
	},
}

var Users = Descriptor[models.User]{
	Singular: "user",
	Plural:   "users",
	ID:       func(u *models.User) int64 { return u.ID },
	NewDefault: func() models.User {
		return models.User{Role: models.RoleViewer}
	},
}

var Recordings = Descriptor[models.Recording]{
	Singular: "recording",
	Plural:   "recordings",
	ID:       func(r *models.Recording) int64 { return r.ID },
	NewDefault: func() models.Recording {
		return models.Recording{}
	},
}
