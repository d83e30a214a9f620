// Package sessionscmder provides the sessions command group for managing
// server-side agent sessions.
package sessionscmder

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fleetscope/fleetscope/pkg/agent"
	"github.com/fleetscope/fleetscope/pkg/config"
	"github.com/fleetscope/fleetscope/pkg/logger"
)

const sessionsLongDesc string = `Manage agent sessions.

Sessions hold conversation history and per-session state (like the vehicle
the conversation is scoped to) on the agent backend. The chat command manages
its own session automatically; these commands are for inspecting and cleaning
up sessions directly.`

const sessionsShortDesc string = "Manage agent sessions"

func NewSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: sessionsShortDesc,
		Long:  sessionsLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newDeleteCmd())

	return cmd
}

// clientSettings holds the resolved connection settings shared by every
// sessions subcommand.
type clientSettings struct {
	baseURL string
	appName string
	userID  string
}

// bindClientFlags registers the shared connection flags on cmd.
func bindClientFlags(cmd *cobra.Command, s *clientSettings) {
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagBaseURL, &s.baseURL)
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagAppName, &s.appName)
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagUserID, &s.userID)
}

// resolveClientSettings loads config and environment, then applies any flags
// set on cmd. Meant to run from PreRunE.
func resolveClientSettings(cmd *cobra.Command, s *clientSettings) error {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(configDir)
	if err != nil {
		return err
	}

	config.BindRegisteredFlags(v, cmd, config.ClientFlags, []string{
		config.FlagBaseURL,
		config.FlagAppName,
		config.FlagUserID,
	})

	s.baseURL = v.GetString("agent.base_url")
	s.appName = v.GetString("agent.app_name")
	s.userID = v.GetString("agent.user_id")
	return nil
}

// newClient builds an agent client from the resolved settings.
func newClient(cmd *cobra.Command, s *clientSettings) (*agent.Client, error) {
	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return nil, fmt.Errorf("could not get debug flag: %w", err)
	}

	var log *slog.Logger
	if debug {
		log = logger.New(
			logger.WithWriter(os.Stderr),
			logger.WithPretty(true),
			logger.WithDebug(true),
		)
	} else {
		log = logger.Nop()
	}

	client, err := agent.New(agent.Config{
		BaseURL: s.baseURL,
		AppName: s.appName,
		UserID:  s.userID,
		Logger:  log,
	})
	if err != nil {
		return nil, fmt.Errorf("creating agent client: %w", err)
	}

	return client, nil
}
