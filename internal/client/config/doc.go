// Package config loads runtime configuration for the TaskKeeper client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-i int      online status check interval (seconds)
//	-f string   path of the local SQLite database
//	-l string   path of the log file ("" logs to stderr)
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds. Keys left out keep their previous value:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "database_path": "tasks.db",
//	  "log_file": "taskkeeper.log",
//	  "calendar_credentials_file": "credentials.json",
//	  "calendar_token_file": "token.json",
//	  "calendar_id": "primary",
//	  "location": {"lat": 56.95, "lng": 24.1}
//	}
package config
