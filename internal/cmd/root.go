// Package cmd holds the sift command line interface.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/sift-sh/sift/internal/config"
	"github.com/sift-sh/sift/internal/db"
	"github.com/sift-sh/sift/internal/log"
	"github.com/sift-sh/sift/internal/review"
	"github.com/sift-sh/sift/internal/tui"
	"github.com/sift-sh/sift/internal/update"
	"github.com/sift-sh/sift/internal/version"
)

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
}

var rootCmd = &cobra.Command{
	Use:   "sift",
	Short: "Triage a review queue from the terminal",
	Long:  "sift is a keyboard-first TUI for working through a review queue one item at a time: approve, reject, defer, undo.",
	Example: `
# Run sift
sift

# Run with debug logging
sift -d

# Run against a specific directory's queue
sift -c /path/to/project
  `,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := setupApp(cmd)
		if err != nil {
			return err
		}

		conn, err := db.Connect(ctx, cfg.DataDir())
		if err != nil {
			return fmt.Errorf("failed to open item store: %w", err)
		}
		defer conn.Close()

		service := review.NewService(db.New(conn))

		go func() {
			for info := range update.CheckAsync(ctx, cfg.DataDir()) {
				slog.Info("Update available", "current", info.CurrentVersion, "latest", info.LatestVersion)
			}
		}()

		program := tea.NewProgram(
			tui.New(ctx, cfg, service),
			tea.WithAltScreen(),
			tea.WithMouseAllMotion(),
			tea.WithContext(ctx),
		)
		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	},
}

// Execute runs the root command with fang's signal handling and styled
// help output.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// setupApp resolves flags, loads the config, and wires logging. Every
// subcommand that touches the data directory goes through here.
func setupApp(cmd *cobra.Command) (*config.Config, error) {
	cwd, err := resolveCwd(cmd)
	if err != nil {
		return nil, err
	}
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Init(cwd, debug)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log.Setup(cfg.DataDir(), cfg.Options.Debug)
	return cfg, nil
}

func resolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		if err := os.Chdir(cwd); err != nil {
			return "", fmt.Errorf("failed to change directory: %w", err)
		}
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return cwd, nil
}
