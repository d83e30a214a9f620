// Package configcmder provides the config command for managing persistent
// fleetscope configuration stored in the .fleetscope/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent fleetscope configuration.

Configuration is stored as config.toml in the .fleetscope/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values.

Keys use dotted notation matching the TOML section structure:
  agent.base_url, agent.app_name, agent.user_id,
  upload.target,
  log.json, log.file

Use subcommands to get, set, or list configuration values:
  fleetscope config set <key> <value>    Set a configuration value
  fleetscope config get <key>            Get a configuration value
  fleetscope config list                 List all configuration values

Examples:
  fleetscope config set agent.base_url http://agent.internal:8000
  fleetscope config set agent.user_id fleet-ops
  fleetscope config get agent.base_url
  fleetscope config list`

const configShortDesc string = "Manage persistent fleetscope configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
