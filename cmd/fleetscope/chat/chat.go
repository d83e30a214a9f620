// Package chatcmder provides the chat command for talking to the vehicle
// service-log agent.
package chatcmder

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fleetscope/fleetscope/pkg/agent"
	"github.com/fleetscope/fleetscope/pkg/cliui"
	"github.com/fleetscope/fleetscope/pkg/config"
	"github.com/fleetscope/fleetscope/pkg/dotdir"
	"github.com/fleetscope/fleetscope/pkg/logger"
	"github.com/fleetscope/fleetscope/pkg/utils"
)

var (
	userPrompt  = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	agentPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("agent> ")
)

type chatCommander struct {
	baseURL   string
	appName   string
	userID    string
	logFile   string
	configDir string
	fresh     bool
	debug     bool

	logger *slog.Logger
}

const chatLongDesc string = `Chat with the vehicle service-log agent.

With no arguments, starts an interactive session. With arguments, sends them
as a single message and prints the rendered reply.

The server-side session is persisted in the .fleetscope/ directory so
consecutive invocations continue the same conversation. Use --fresh to start
a new session.

Mentioning a vehicle id in your message (e.g. "vehicle id: XY-12") scopes the
conversation to that vehicle.

Examples:
  fleetscope chat
  fleetscope chat "when was vehicle id: XY-12 last serviced?"
  fleetscope chat --fresh --base-url http://agent.internal:8000`

const chatShortDesc string = "Chat with the service-log agent"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat [message...]",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return err
			}

			config.BindRegisteredFlags(v, cmd, config.ClientFlags, []string{
				config.FlagBaseURL,
				config.FlagAppName,
				config.FlagUserID,
				config.FlagLogFile,
			})

			cmder.baseURL = v.GetString("agent.base_url")
			cmder.appName = v.GetString("agent.app_name")
			cmder.userID = v.GetString("agent.user_id")
			cmder.logFile = v.GetString("log.file")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(args)
		},
	}

	config.AddStringFlag(cmd, config.ClientFlags, config.FlagBaseURL, &cmder.baseURL)
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagAppName, &cmder.appName)
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagUserID, &cmder.userID)
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagLogFile, &cmder.logFile)
	cmd.Flags().BoolVar(&cmder.fresh, "fresh", false, "Start a new session instead of resuming")

	return cmd
}

func (c *chatCommander) run(args []string) error {
	if err := c.setupLogger(); err != nil {
		return err
	}

	client, err := agent.New(agent.Config{
		BaseURL: c.baseURL,
		AppName: c.appName,
		UserID:  c.userID,
		Logger:  c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating agent client: %w", err)
	}

	ctx := context.Background()
	sessionID, resumed, err := c.resolveSession(ctx, client)
	if err != nil {
		return err
	}

	fmt.Println()
	if resumed {
		fmt.Printf("  %s Resuming session %s\n", cliui.SuccessMark, cliui.IDStyle.Render(utils.Truncate(sessionID, 16)))
	} else {
		fmt.Printf("  %s New session %s\n", cliui.DimStyle.Render("●"), cliui.IDStyle.Render(utils.Truncate(sessionID, 16)))
	}

	if len(args) > 0 {
		return c.runOnce(ctx, client, sessionID, strings.Join(args, " "))
	}

	return c.runInteractive(ctx, client, sessionID)
}

// setupLogger builds the chat logger: pretty records to stderr, plus a JSON
// copy to the configured log file when one is set.
func (c *chatCommander) setupLogger() error {
	pretty := logger.New(
		logger.WithWriter(os.Stderr),
		logger.WithPretty(true),
		logger.WithDebug(c.debug),
	)

	if c.logFile == "" {
		c.logger = pretty
		return nil
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	c.logger = logger.Multi(
		pretty,
		logger.New(logger.WithWriter(f), logger.WithJSON(true), logger.WithDebug(c.debug)),
	)
	return nil
}

// resolveSession returns the session id to chat on: the persisted one when it
// still exists server-side (unless --fresh), otherwise a newly created one.
func (c *chatCommander) resolveSession(ctx context.Context, client *agent.Client) (id string, resumed bool, err error) {
	ddm := dotdir.NewManager()

	if !c.fresh {
		state, err := ddm.LoadSessionState(c.configDir)
		if err != nil {
			return "", false, fmt.Errorf("loading session state: %w", err)
		}

		if state != nil && state.SessionID != "" {
			existing, err := client.GetSession(ctx, state.SessionID)
			if err == nil && existing != nil {
				c.touchSession(ddm, state.SessionID)
				return state.SessionID, true, nil
			}
			c.logger.Debug("persisted session no longer exists", "session_id", state.SessionID)
		}
	}

	created, err := client.CreateSession(ctx)
	if err != nil {
		return "", false, fmt.Errorf("creating session: %w", err)
	}
	if created == nil || created.ID == "" {
		return "", false, fmt.Errorf("server created session without an id")
	}

	c.touchSession(ddm, created.ID)
	return created.ID, false, nil
}

// touchSession persists the session pointer; failure to save is non-fatal.
func (c *chatCommander) touchSession(ddm *dotdir.Manager, sessionID string) {
	err := ddm.SaveSessionState(&dotdir.SessionState{
		SessionID: sessionID,
		LastUsed:  time.Now().UTC(),
	}, c.configDir)
	if err != nil {
		c.logger.Warn("could not save session state", "err", err)
	}
}

// runOnce sends a single message and prints the rendered reply.
func (c *chatCommander) runOnce(ctx context.Context, client *agent.Client, sessionID, text string) error {
	fragments, err := client.SendMessageStream(ctx, agent.Message{
		SessionID: sessionID,
		Text:      text,
	})
	if err != nil {
		return err
	}

	var reply strings.Builder
	for _, fragment := range fragments {
		reply.WriteString(fragmentText(fragment))
	}

	rendered, err := cliui.RenderMarkdown(reply.String())
	if err != nil {
		// Fall back to the raw reply when the renderer is unavailable.
		rendered = reply.String()
	}

	fmt.Println()
	fmt.Print(rendered)
	return nil
}

// runInteractive reads messages from stdin and streams replies live.
func (c *chatCommander) runInteractive(ctx context.Context, client *agent.Client, sessionID string) error {
	fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		fmt.Print(agentPrompt)
		err := client.StreamMessage(ctx, agent.Message{
			SessionID: sessionID,
			Text:      input,
		}, func(fragment json.RawMessage) error {
			fmt.Print(fragmentText(fragment))
			return nil
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "\n  %s %v\n", cliui.FailMark, err)
			continue
		}

		fmt.Println()
		fmt.Println()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}

// fragmentText extracts displayable text from an opaque content fragment.
// Fragments are either plain strings or model content objects with text
// parts; anything else is shown as compact JSON.
func fragmentText(fragment json.RawMessage) string {
	var s string
	if err := json.Unmarshal(fragment, &s); err == nil {
		return s
	}

	var content struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	}
	if err := json.Unmarshal(fragment, &content); err == nil && len(content.Parts) > 0 {
		var b strings.Builder
		for _, p := range content.Parts {
			b.WriteString(p.Text)
		}
		return b.String()
	}

	return string(fragment)
}
