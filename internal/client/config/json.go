package config

import (
	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
	"github.com/dmitrijs2005/taskkeeper/internal/models"
	"github.com/dmitrijs2005/taskkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. After parsing,
// values are copied into the runtime Config.
type JsonConfig struct {
	ServerEndpointAddr      string           `json:"server_endpoint_addr"`
	OnlineCheckInterval     timex.Duration   `json:"online_check_interval"`
	DatabasePath            string           `json:"database_path"`
	LogFile                 *string          `json:"log_file"`
	CalendarCredentialsFile string           `json:"calendar_credentials_file"`
	CalendarTokenFile       string           `json:"calendar_token_file"`
	CalendarID              string           `json:"calendar_id"`
	Location                *models.Location `json:"location"`
}

// parseJson overlays Config with values loaded from the file given with -c or
// -config. Nothing happens when neither flag is present. Read and unmarshal
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig
	if err := flagx.DecodeJSONFile(jsonConfigFile, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	// An explicit "" switches file logging off.
	if jc.LogFile != nil {
		cfg.LogFile = *jc.LogFile
	}
	if jc.CalendarCredentialsFile != "" {
		cfg.CalendarCredentialsFile = jc.CalendarCredentialsFile
	}
	if jc.CalendarTokenFile != "" {
		cfg.CalendarTokenFile = jc.CalendarTokenFile
	}
	if jc.CalendarID != "" {
		cfg.CalendarID = jc.CalendarID
	}
	if jc.Location != nil {
		cfg.Location = jc.Location
	}
}
