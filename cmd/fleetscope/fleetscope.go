// Package fleetscopecmder
package fleetscopecmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/fleetscope/fleetscope/cmd/fleetscope/chat"
	configcmder "github.com/fleetscope/fleetscope/cmd/fleetscope/config"
	sessionscmder "github.com/fleetscope/fleetscope/cmd/fleetscope/sessions"
	uploadcmder "github.com/fleetscope/fleetscope/cmd/fleetscope/upload"
	versioncmder "github.com/fleetscope/fleetscope/cmd/version"
)

const fleetscopeLongDesc string = `Fleetscope is a client for the vehicle service-log agent.

Chat with the agent about your fleet's service history:
  fleetscope chat                Interactive chat session
  fleetscope chat "message"      One-shot question

Manage server-side sessions and upload logs for processing:
  fleetscope sessions            List, create, show, delete sessions
  fleetscope upload <path>       Upload a service log for processing`

const fleetscopeShortDesc string = "Fleetscope - Vehicle Service-Log Agent CLI"

func NewFleetscopeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fleetscope",
		Short: fleetscopeShortDesc,
		Long:  fleetscopeLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .fleetscope/ directory location")

	// Add subcommands
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(sessionscmder.NewSessionsCmd())
	cmd.AddCommand(uploadcmder.NewUploadCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
