package sessionscmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/fleetscope/fleetscope/pkg/cliui"
	"github.com/fleetscope/fleetscope/pkg/utils"
)

func newShowCmd() *cobra.Command {
	settings := &clientSettings{}

	cmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show a session and its state",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return resolveClientSettings(cmd, settings)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd, settings)
			if err != nil {
				return err
			}

			session, err := client.GetSession(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("fetching session: %w", err)
			}
			if session == nil {
				fmt.Println(cliui.DimStyle.Render("Session not found."))
				return nil
			}

			updated := time.Unix(int64(session.LastUpdateTime), 0).UTC()

			fmt.Printf("%s %s\n", cliui.KeyStyle.Render("id:"), cliui.IDStyle.Render(session.ID))
			fmt.Printf("%s %s\n", cliui.KeyStyle.Render("app:"), session.AppName)
			fmt.Printf("%s %s\n", cliui.KeyStyle.Render("user:"), session.UserID)
			fmt.Printf("%s %s\n", cliui.KeyStyle.Render("updated:"), updated.Format(time.RFC3339))

			if len(session.State) > 0 {
				fmt.Printf("%s\n", cliui.KeyStyle.Render("state:"))
				renderState(os.Stdout, session.State)
			}
			return nil
		},
	}

	bindClientFlags(cmd, settings)
	return cmd
}

// statePreviewLen caps how much of a state value appears in show output.
const statePreviewLen = 72

// renderState prints one preview line per state entry, keys sorted for
// stable output.
func renderState(w io.Writer, state map[string]any) {
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		preview := utils.Truncate(stateValue(state[k]), statePreviewLen)
		fmt.Fprintf(w, "  %s %s\n",
			cliui.DimStyle.Render(k+":"),
			cliui.PreviewStyle.Render(preview),
		)
	}
}

// stateValue renders a state entry for preview. Strings appear verbatim;
// anything else is compact JSON.
func stateValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
