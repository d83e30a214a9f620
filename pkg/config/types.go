package config

import "strconv"

// Config represents the persistent fleetscope configuration stored as
// config.toml in the .fleetscope/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version int          `toml:"version"`
	Agent   AgentConfig  `toml:"agent"`
	Upload  UploadConfig `toml:"upload"`
	Log     LogConfig    `toml:"log"`
}

// AgentConfig holds settings for connecting to the agent backend.
type AgentConfig struct {
	// BaseURL is the agent server root (scheme + host + port).
	BaseURL string `toml:"base_url,omitempty"`

	// AppName is the agent application path segment (e.g. "vehicle_service_logs").
	AppName string `toml:"app_name,omitempty"`

	// UserID is the user path segment on session routes.
	UserID string `toml:"user_id,omitempty"`
}

// UploadConfig holds settings for the file-processing endpoint.
type UploadConfig struct {
	// Target overrides the server used for file uploads.
	// Empty means the agent base URL.
	Target string `toml:"target,omitempty"`
}

// LogConfig holds logging settings for CLI commands.
type LogConfig struct {
	// JSON switches command logging to structured JSON output.
	JSON bool `toml:"json,omitempty"`

	// File, when set, receives a JSON copy of chat logs.
	File string `toml:"file,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"agent.base_url": {
		get: func(c *Config) string { return c.Agent.BaseURL },
		set: func(c *Config, v string) error { c.Agent.BaseURL = v; return nil },
	},
	"agent.app_name": {
		get: func(c *Config) string { return c.Agent.AppName },
		set: func(c *Config, v string) error { c.Agent.AppName = v; return nil },
	},
	"agent.user_id": {
		get: func(c *Config) string { return c.Agent.UserID },
		set: func(c *Config, v string) error { c.Agent.UserID = v; return nil },
	},
	"upload.target": {
		get: func(c *Config) string { return c.Upload.Target },
		set: func(c *Config, v string) error { c.Upload.Target = v; return nil },
	},
	"log.json": {
		get: func(c *Config) string { return strconv.FormatBool(c.Log.JSON) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return errInvalidBool("log.json", err)
			}
			c.Log.JSON = b
			return nil
		},
	},
	"log.file": {
		get: func(c *Config) string { return c.Log.File },
		set: func(c *Config, v string) error { c.Log.File = v; return nil },
	},
}
