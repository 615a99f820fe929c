package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/groundstation/internal/flagx"
	"github.com/dmitrijs2005/groundstation/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations may
// be given as strings ("15s") or integer nanoseconds.
type JsonConfig struct {
	ServerURL         string         `json:"server_url"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	ReconnectMinDelay timex.Duration `json:"reconnect_min_delay"`
	ReconnectMaxDelay timex.Duration `json:"reconnect_max_delay"`
}

// parseJson overlays cfg with values loaded from the JSON file given via
// -c/-config. Missing file path means no overlay; read or parse failures
// panic (startup config is unrecoverable).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.ReconnectMinDelay.Duration != 0 {
		cfg.ReconnectMinDelay = time.Duration(jc.ReconnectMinDelay.Duration)
	}
	if jc.ReconnectMaxDelay.Duration != 0 {
		cfg.ReconnectMaxDelay = time.Duration(jc.ReconnectMaxDelay.Duration)
	}
}
