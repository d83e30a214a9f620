package sessionscmder

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fleetscope/fleetscope/pkg/cliui"
)

func newListCmd() *cobra.Command {
	settings := &clientSettings{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions for the configured app and user",
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return resolveClientSettings(cmd, settings)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd, settings)
			if err != nil {
				return err
			}

			sessions := client.ListSessions(context.Background())
			if len(sessions) == 0 {
				fmt.Println(cliui.DimStyle.Render("No sessions."))
				return nil
			}

			for _, s := range sessions {
				updated := time.Unix(int64(s.LastUpdateTime), 0).UTC()
				fmt.Printf("%s  %s\n",
					cliui.IDStyle.Render(s.ID),
					cliui.DimStyle.Render(updated.Format(time.RFC3339)),
				)
			}
			return nil
		},
	}

	bindClientFlags(cmd, settings)
	return cmd
}
