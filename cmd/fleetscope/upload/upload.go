// Package uploadcmder provides the upload command for sending service-log
// files to the backend's ingestion endpoint.
package uploadcmder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fleetscope/fleetscope/pkg/agent"
	"github.com/fleetscope/fleetscope/pkg/cliui"
	"github.com/fleetscope/fleetscope/pkg/config"
	"github.com/fleetscope/fleetscope/pkg/logger"
)

const uploadLongDesc string = `Upload service-log files for processing.

Each file is sent to the backend's file ingestion endpoint, which parses it
and indexes its records so the agent can answer questions about them.

By default files go to the same host the agent runs on; use --upload-target
to send them elsewhere.

Examples:
  fleetscope upload workshop-march.pdf
  fleetscope upload *.csv --upload-target http://ingest.internal:8000`

const uploadShortDesc string = "Upload service-log files for processing"

type uploadCommander struct {
	baseURL      string
	uploadTarget string
	showResult   bool

	logger *slog.Logger
}

func NewUploadCmd() *cobra.Command {
	cmder := &uploadCommander{}

	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: uploadShortDesc,
		Long:  uploadLongDesc,
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}

			config.BindRegisteredFlags(v, cmd, config.ClientFlags, []string{
				config.FlagBaseURL,
				config.FlagUploadTarget,
			})

			cmder.baseURL = v.GetString("agent.base_url")
			cmder.uploadTarget = v.GetString("upload.target")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			debug, err := cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			if debug {
				cmder.logger = logger.New(
					logger.WithWriter(os.Stderr),
					logger.WithPretty(true),
					logger.WithDebug(true),
				)
			} else {
				cmder.logger = logger.Nop()
			}

			return cmder.run(args)
		},
	}

	config.AddStringFlag(cmd, config.ClientFlags, config.FlagBaseURL, &cmder.baseURL)
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagUploadTarget, &cmder.uploadTarget)
	cmd.Flags().BoolVar(&cmder.showResult, "show-result", false, "Print the server's processing result as JSON")

	return cmd
}

func (c *uploadCommander) run(paths []string) error {
	client, err := agent.New(agent.Config{
		BaseURL:      c.baseURL,
		UploadTarget: c.uploadTarget,
		Logger:       c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating agent client: %w", err)
	}

	ctx := context.Background()
	var failed int

	for _, path := range paths {
		result, err := c.uploadOne(ctx, client, path)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s %s: %v\n", cliui.FailMark, path, err)
			continue
		}

		if c.showResult && result != nil {
			pretty, err := json.MarshalIndent(result, "", "  ")
			if err == nil {
				fmt.Printf("%s\n", pretty)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(paths))
	}
	return nil
}

func (c *uploadCommander) uploadOne(ctx context.Context, client *agent.Client, path string) (json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var result json.RawMessage
	name := filepath.Base(path)

	err = cliui.Step(os.Stdout, fmt.Sprintf("Uploading %s", cliui.NameStyle.Render(name)), func() error {
		var err error
		result, err = client.UploadFile(ctx, name, f)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
