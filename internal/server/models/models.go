// Package models defines the station's resource records. The server is the
// single authority for these: ids are assigned by the database and clients
// only ever see full lists returned by command acknowledgements.
package models

import "time"

// Camera is a video source pointed at the antenna farm or the sky.
type Camera struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Type      string    `json:"type"` // mjpeg | rtsp | usb
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Rig is a radio transceiver reachable through a rigctld-style TCP endpoint.
type Rig struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Host      string    `json:"host"`
	Port      int       `json:"port"`
	Model     string    `json:"model"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Rotator is an az/el antenna rotator controller.
type Rotator struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Host      string    `json:"host"`
	Port      int       `json:"port"`
	MinAz     float64   `json:"min_az"`
	MaxAz     float64   `json:"max_az"`
	MinEl     float64   `json:"min_el"`
	MaxEl     float64   `json:"max_el"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SDRDevice is a software-defined radio receiver attached to the station.
type SDRDevice struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Driver     string    `json:"driver"` // rtlsdr | airspy | hackrf | sdrplay
	Serial     string    `json:"serial"`
	SampleRate int64     `json:"sample_rate"`
	PPM        int       `json:"ppm"`
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Satellite is one tracked object with its current element set.
type Satellite struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	NoradID   int64     `json:"norad_id"`
	GroupName string    `json:"group_name"`
	TLELine1  string    `json:"tle_line1"`
	TLELine2  string    `json:"tle_line2"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TLESource is a URL the station periodically pulls element sets from.
type TLESource struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	URL           string     `json:"url"`
	GroupName     string     `json:"group_name"`
	AutoRefresh   bool       `json:"auto_refresh"`
	LastFetchedAt *time.Time `json:"last_fetched_at,omitempty"`
	SatelliteCount int       `json:"satellite_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// User roles.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
	RoleViewer   = "viewer"
)

// User is a station account. PasswordHash never leaves the server.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Preferences is the station-wide singleton: operator identity, geodetic
// location and display options. It is stored as a single row with id 1.
type Preferences struct {
	ID        int64     `json:"id"`
	Callsign  string    `json:"callsign"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	AltitudeM float64   `json:"altitude_m"`
	Locator   string    `json:"locator"`
	Timezone  string    `json:"timezone"`
	Metric    bool      `json:"metric"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Recording statuses.
const (
	RecordingPending  = "pending"
	RecordingUploaded = "uploaded"
)

// Recording is an archived observation capture stored in object storage.
type Recording struct {
	ID         int64     `json:"id"`
	Satellite  string    `json:"satellite"`
	StartedAt  time.Time `json:"started_at"`
	DurationS  int       `json:"duration_s"`
	StorageKey string    `json:"storage_key"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
