package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/akarpov87/vsnap/internal/flagx"
	"github.com/akarpov87/vsnap/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so intervals can be given either as strings like "500ms"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	DataDir        *string         `json:"data_dir"`
	ConnectTimeout *timex.Duration `json:"connect_timeout"`
	PollInterval   *timex.Duration `json:"poll_interval"`
	PollBudget     *timex.Duration `json:"poll_budget"`
	BatchSize      *int            `json:"batch_size"`
	AutoConnect    *bool           `json:"auto_connect"`
	SnapshotName   *string         `json:"snapshot_name"`
}

// parseJson overlays cfg with values loaded from the JSON file given via
// the -c/-config flags. Absent file means no overlay; read or unmarshal
// errors panic (caller recovers if desired). Only fields present in the
// JSON override the defaults.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DataDir != nil {
		cfg.DataDir = *jc.DataDir
	}
	if jc.ConnectTimeout != nil {
		cfg.ConnectTimeout = time.Duration(jc.ConnectTimeout.Duration)
	}
	if jc.PollInterval != nil {
		cfg.PollInterval = time.Duration(jc.PollInterval.Duration)
	}
	if jc.PollBudget != nil {
		cfg.PollBudget = time.Duration(jc.PollBudget.Duration)
	}
	if jc.BatchSize != nil {
		cfg.BatchSize = *jc.BatchSize
	}
	if jc.AutoConnect != nil {
		cfg.AutoConnect = *jc.AutoConnect
	}
	if jc.SnapshotName != nil {
		cfg.SnapshotName = *jc.SnapshotName
	}
}
