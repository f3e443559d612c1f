package config

import (
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/models"
)

// Config holds runtime settings for the TaskKeeper client.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - DatabasePath: SQLite file holding the local task store.
//   - LogFile: rotating log file; empty logs to stderr.
//   - Calendar*: optional Google Calendar publishing (JSON only).
//   - Location: fixed coordinates attached to new tasks (JSON only).
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	DatabasePath        string
	LogFile             string

	CalendarCredentialsFile string
	CalendarTokenFile       string
	CalendarID              string

	Location *models.Location
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.DatabasePath = "tasks.db"
	c.LogFile = "taskkeeper.log"
	c.CalendarID = "primary"
}

// CalendarEnabled reports whether OAuth credentials for calendar publishing
// were configured.
func (c *Config) CalendarEnabled() bool {
	return c.CalendarCredentialsFile != "" && c.CalendarTokenFile != ""
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
