package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --base-url
// on "fleetscope chat", "fleetscope sessions", and "fleetscope upload").
type Flag struct {
	// Name is the long flag name (e.g. "base-url").
	Name string

	// Shorthand is the one-letter short flag (e.g. "b"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "agent.base_url").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of registry keys to Flag definitions.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag and BindRegisteredFlags to
// avoid typos or drift from one command to another.
const (
	FlagBaseURL      = "base-url"
	FlagAppName      = "app"
	FlagUserID       = "user"
	FlagUploadTarget = "upload-target"
	FlagLogFile      = "log-file"
)

// ClientFlags is the shared registry for commands that talk to the agent backend.
var ClientFlags = FlagSet{
	FlagBaseURL: {
		Name:        "base-url",
		Shorthand:   "b",
		ViperKey:    "agent.base_url",
		Description: "Agent server base URL",
	},
	FlagAppName: {
		Name:        "app",
		Shorthand:   "a",
		ViperKey:    "agent.app_name",
		Description: "Agent application name",
	},
	FlagUserID: {
		Name:        "user",
		Shorthand:   "u",
		ViperKey:    "agent.user_id",
		Description: "User id used on session routes",
	},
	FlagUploadTarget: {
		Name:        "upload-target",
		ViperKey:    "upload.target",
		Description: "Server URL for file uploads (defaults to the agent base URL)",
	},
	FlagLogFile: {
		Name:        "log-file",
		ViperKey:    "log.file",
		Description: "File receiving a JSON copy of chat logs",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}
