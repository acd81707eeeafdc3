package config

import "time"

// Config holds runtime settings for vsnap.
//
// Fields:
//   - DataDir: overrides the platform-default application data directory
//     (empty means use filex.DataDir).
//   - ConnectTimeout: scoped timeout applied to each remote call.
//   - PollInterval: sleep between task-status polls inside a chunk.
//   - PollBudget: wall-clock bound for one chunk's poll loop; items still
//     pending at the bound are reported as failures.
//   - BatchSize: how many remote tasks may be outstanding per session.
//   - AutoConnect: whether to connect to all saved servers on startup.
//   - SnapshotName: the fixed name given to snapshots created in bulk.
type Config struct {
	DataDir        string
	ConnectTimeout time.Duration
	PollInterval   time.Duration
	PollBudget     time.Duration
	BatchSize      int
	AutoConnect    bool
	SnapshotName   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = ""
	c.ConnectTimeout = 10 * time.Second
	c.PollInterval = 500 * time.Millisecond
	c.PollBudget = 30 * time.Minute
	c.BatchSize = 5
	c.AutoConnect = true
	c.SnapshotName = "Monthly OS Patching"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
