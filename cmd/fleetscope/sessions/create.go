package sessionscmder

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fleetscope/fleetscope/pkg/cliui"
	"github.com/fleetscope/fleetscope/pkg/dotdir"
)

func newCreateCmd() *cobra.Command {
	settings := &clientSettings{}
	var noSave bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new session",
		Long: `Create a new session on the agent backend.

The new session becomes the one chat resumes, unless --no-save is given.`,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return resolveClientSettings(cmd, settings)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd, settings)
			if err != nil {
				return err
			}

			session, err := client.CreateSession(context.Background())
			if err != nil {
				return fmt.Errorf("creating session: %w", err)
			}
			if session == nil || session.ID == "" {
				return fmt.Errorf("server created session without an id")
			}

			if !noSave {
				configDir, _ := cmd.Flags().GetString("config-dir")
				err := dotdir.NewManager().SaveSessionState(&dotdir.SessionState{
					SessionID: session.ID,
					LastUsed:  time.Now().UTC(),
				}, configDir)
				if err != nil {
					return fmt.Errorf("saving session state: %w", err)
				}
			}

			fmt.Printf("%s Created session %s\n", cliui.SuccessMark, cliui.IDStyle.Render(session.ID))
			return nil
		},
	}

	bindClientFlags(cmd, settings)
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not make this the session chat resumes")
	return cmd
}
