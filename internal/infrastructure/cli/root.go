// Package cli wires the cobra command tree and terminal rendering.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwiatr/verba/internal/app"
	"github.com/mwiatr/verba/internal/infrastructure/voice"
	"github.com/mwiatr/verba/internal/orchestrator"
)

// Options holds CLI-level configuration.
type Options struct {
	WorkingDir string
	Language   string
	Verbose    bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, app.Options{
		WorkingDir: opts.WorkingDir,
		Language:   opts.Language,
		Verbose:    opts.Verbose,
	})
	if err != nil {
		return nil, err
	}

	root := &cobra.Command{
		Use:   "verba [request]",
		Short: "verba - natural language command router",
		Long:  "verba turns plain-language requests into build, shell, git, docker and python commands.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runInteractive(container, cmd)
			}
			return runRequest(container, cmd, args)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return container.Close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCommand(container))
	root.AddCommand(newInteractiveCommand(container))
	root.AddCommand(newVoiceCommand(container))
	root.AddCommand(newHistoryCommand(container))
	root.AddCommand(newDoctorCommand(container))
	return root, nil
}

func runRequest(container *app.Container, cmd *cobra.Command, args []string) error {
	resp := container.Orchestrator.Process(cmd.Context(), strings.Join(args, " "))
	RenderResponse(cmd.OutOrStdout(), resp)
	if !resp.Success {
		return fmt.Errorf("request failed")
	}
	return nil
}

func newRunCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "run [request]",
		Short: "Process a single request and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(container, cmd, args)
		},
	}
}

func runInteractive(container *app.Container, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "verba session in %s (exit to quit)\n", container.Session.WorkingDir())

	scanner := bufio.NewScanner(os.Stdin)
	var lastResp = container.Orchestrator.Process(cmd.Context(), "what can i do")
	RenderResponse(out, lastResp)

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "exit" || line == "quit":
			return nil
		case strings.HasPrefix(line, "cd "):
			target := strings.TrimSpace(line[3:])
			if container.Session.ChangeDirectory(target) {
				fmt.Fprintln(out, container.Session.WorkingDir())
			} else {
				fmt.Fprintf(out, "no such directory: %s\n", target)
			}
			continue
		}

		// A bare number or shortcut picks from the last suggestion box.
		if s, ok := orchestrator.SelectSuggestion(line, lastResp.Suggestions); ok {
			line = s.Command
			fmt.Fprintf(out, "-> %s\n", line)
		}

		lastResp = container.Orchestrator.Process(cmd.Context(), line)
		RenderResponse(out, lastResp)
	}
}

func newInteractiveCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(container, cmd)
		},
	}
}

func newVoiceCommand(container *app.Container) *cobra.Command {
	var duration time.Duration
	cmd := &cobra.Command{
		Use:   "voice",
		Short: "Start a voice session (scripted gateway unless a speech engine is configured)",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			gateway := voice.NewScriptedGateway()

			responses := make(chan string, 4)
			err := gateway.StartListening(func(text string) {
				resp := container.Orchestrator.Process(cmd.Context(), text)
				responses <- resp.Message
			})
			if err != nil {
				return err
			}
			defer gateway.StopListening()

			fmt.Fprintln(out, "voice session: type utterances, empty line to stop")
			scanner := bufio.NewScanner(os.Stdin)
			deadline := time.After(duration)
			for {
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					return nil
				}
				gateway.Say(line)
				select {
				case msg := <-responses:
					fmt.Fprintln(out, msg)
					_ = gateway.Speak(msg)
				case <-deadline:
					return nil
				}
			}
		},
	}
	cmd.Flags().DurationVar(&duration, "duration", time.Hour, "Maximum session length")
	return cmd
}

func newHistoryCommand(container *app.Container) *cobra.Command {
	var (
		limit  int
		search string
		clear  bool
		export string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect persisted command history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return fmt.Errorf("history is disabled")
			}
			if clear {
				return container.HistoryStore.Clear()
			}
			if export != "" {
				return container.HistoryStore.ExportJSON(export)
			}
			records, err := container.HistoryStore.Records(limit, search)
			if err != nil {
				return err
			}
			RenderHistory(cmd.OutOrStdout(), records)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by substring")
	cmd.Flags().BoolVar(&clear, "clear", false, "Delete all history")
	cmd.Flags().StringVar(&export, "export", "", "Export history to a JSONL file")
	return cmd
}

func newDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and backend availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := container.DoctorService.Run(cmd.Context())
			RenderHealth(cmd.OutOrStdout(), report)
			return err
		},
	}
}
