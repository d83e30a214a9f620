package sessionscmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fleetscope/fleetscope/pkg/cliui"
	"github.com/fleetscope/fleetscope/pkg/dotdir"
)

func newDeleteCmd() *cobra.Command {
	settings := &clientSettings{}

	cmd := &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return resolveClientSettings(cmd, settings)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd, settings)
			if err != nil {
				return err
			}

			sessionID := args[0]
			if err := client.DeleteSession(context.Background(), sessionID); err != nil {
				return fmt.Errorf("deleting session: %w", err)
			}

			// Drop the saved pointer if it referenced the deleted session.
			configDir, _ := cmd.Flags().GetString("config-dir")
			ddm := dotdir.NewManager()
			state, err := ddm.LoadSessionState(configDir)
			if err == nil && state != nil && state.SessionID == sessionID {
				if err := ddm.ClearSessionState(configDir); err != nil {
					return fmt.Errorf("clearing session state: %w", err)
				}
			}

			fmt.Printf("%s Deleted session %s\n", cliui.SuccessMark, cliui.IDStyle.Render(sessionID))
			return nil
		},
	}

	bindClientFlags(cmd, settings)
	return cmd
}
