package config

const (
	defaultBaseURL = "http://localhost:8000"
	defaultAppName = "vehicle_service_logs"
	defaultUserID  = "user"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Agent: AgentConfig{
			BaseURL: defaultBaseURL,
			AppName: defaultAppName,
			UserID:  defaultUserID,
		},
	}
}
