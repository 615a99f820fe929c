// Package protocol defines the JSON frames exchanged between the station
// server and its clients over a single websocket, plus the command naming
// vocabulary shared by both sides.
//
// Every client request carries a ULID correlation id; the server answers each
// request with exactly one ack frame echoing that id. Event frames have no id
// and are pushed to every subscribed connection.
package protocol

import (
	"crypto/rand"
	"encoding/json"

	"github.com/oklog/ulid/v2"
)

// Frame kinds.
const (
	KindRequest = "request"
	KindAck     = "ack"
	KindEvent   = "event"
)

// Frame is the single wire unit. Which fields are meaningful depends on Kind:
//
//	request: ID, Topic, Payload
//	ack:     ID, Success, Payload (on success) or Error (on failure)
//	event:   Topic, Payload
type Frame struct {
	Kind    string          `json:"kind"`
	ID      string          `json:"id,omitempty"`
	Topic   string          `json:"topic,omitempty"`
	Success bool            `json:"success,omitempty"`
	Error   string          `json:"error,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Ack is the decoded acknowledgement delivered to request callbacks.
type Ack struct {
	Success bool
	Error   string
	Payload json.RawMessage
}

// NewCorrelationID returns a fresh ULID string for request/ack matching.
func NewCorrelationID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// Command vocabulary. Resource commands follow `<verb>-<resource>`: the list
// command uses the plural collection name, mutations the singular.
const (
	verbGet    = "get-"
	verbSubmit = "submit-"
	verbEdit   = "edit-"
	verbDelete = "delete-"
)

func GetCommand(plural string) string      { return verbGet + plural }
func SubmitCommand(singular string) string { return verbSubmit + singular }
func EditCommand(singular string) string   { return verbEdit + singular }
func DeleteCommand(singular string) string { return verbDelete + singular }

// Auxiliary topics outside the four-verb resource vocabulary.
const (
	TopicLogin                = "login"
	TopicAuth                 = "auth"
	TopicPing                 = "ping"
	TopicRefreshTLESource     = "refresh-tlesource"
	TopicRecordingUploadURL   = "recording-upload-url"
	TopicRecordingDownloadURL = "recording-download-url"
	TopicRecordingUploaded    = "recording-uploaded"

	// Server-pushed events.
	EventTLERefresh = "tle-refresh"
	EventStatus     = "station-status"
)

// LoginRequest/LoginResult carry the auth handshake on TopicLogin.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// AuthRequest resumes a session on a fresh connection using the token issued
// by an earlier login, so a reconnect does not force a password prompt.
type AuthRequest struct {
	Token string `json:"token"`
}

// UserSubmit is the payload of submit-user / edit-user. Password travels in
// plaintext over the channel and is hashed server-side before storage; an
// empty password on edit keeps the existing one.
type UserSubmit struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}

// DeleteRequest is the payload of every delete-<resource> command.
type DeleteRequest struct {
	IDs []int64 `json:"ids"`
}

// RefreshTLERequest asks the server to re-fetch one TLE source by id.
type RefreshTLERequest struct {
	SourceID int64 `json:"source_id"`
}

// TLERefreshEvent reports progress of a running source refresh.
type TLERefreshEvent struct {
	SourceID  int64  `json:"source_id"`
	Stage     string `json:"stage"` // fetching | parsing | done | failed
	Satellite string `json:"satellite,omitempty"`
	Count     int    `json:"count"`
	Error     string `json:"error,omitempty"`
}

// RecordingURLRequest/RecordingURLResult carry presigned storage URL
// negotiation for observation recordings.
type RecordingURLRequest struct {
	RecordingID int64 `json:"recording_id"`
}

type RecordingURLResult struct {
	RecordingID int64  `json:"recording_id"`
	StorageKey  string `json:"storage_key,omitempty"`
	URL         string `json:"url"`
}

// StatusEvent is broadcast periodically so dashboards can show liveness
// without polling.
type StatusEvent struct {
	ConnectedClients int   `json:"connected_clients"`
	UptimeSeconds    int64 `json:"uptime_seconds"`
}
