// Package main provides the layerkit playground, a terminal UI for trying
// out nested dismissible, escape and text-selection layers.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/idursun/layerkit/internal/config"
	"github.com/idursun/layerkit/internal/ui"
)

// Build-time variables (set via ldflags)
var version = "dev"

var globalOpts struct {
	configPath string
	logFile    string
	debug      bool
	watch      bool
}

var rootCmd = &cobra.Command{
	Use:   "layerkit",
	Short: "Playground for nested overlay layers",
	Long: `layerkit opens a terminal page on which overlays can be stacked.

Each overlay registers a dismissible, an escape and a text-selection layer.
Clicking outside, pressing escape or moving focus away closes only the layer
responsible for the interaction.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&globalOpts.configPath, "config", "",
		"Path to a TOML config merged over the built-in defaults")
	rootCmd.Flags().StringVar(&globalOpts.logFile, "log-file", "",
		"Write logs to this file (default: discard)")
	rootCmd.Flags().BoolVar(&globalOpts.debug, "debug", false,
		"Enable debug logging")
	rootCmd.Flags().BoolVar(&globalOpts.watch, "watch", false,
		"Reload --config when the file changes")
}

func run(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := setupLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := config.Load(globalOpts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	p := tea.NewProgram(ui.New(cfg, logger), tea.WithAltScreen(), tea.WithMouseCellMotion())

	if globalOpts.watch && globalOpts.configPath != "" {
		w, err := config.NewWatcher(globalOpts.configPath, func(cfg *config.Config, err error) {
			p.Send(ui.ConfigReloadedMsg{Config: cfg, Err: err})
		})
		if err != nil {
			return fmt.Errorf("failed to watch config: %w", err)
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("failed to watch config: %w", err)
		}
		defer func() {
			if err := w.Stop(); err != nil {
				logger.Warn("failed to stop config watcher", "error", err)
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// setupLogger returns a logger writing to --log-file. The terminal belongs to
// the UI, so without a file logs are dropped.
func setupLogger() (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if globalOpts.debug {
		level = slog.LevelDebug
	}

	var w io.Writer = io.Discard
	closeFn := func() {}
	if globalOpts.logFile != "" {
		f, err := os.OpenFile(globalOpts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
