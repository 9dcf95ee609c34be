package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"labnote/internal/app"
	"labnote/internal/config"
	"labnote/internal/db"
	"labnote/internal/report"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	verbose    bool
	configPath string
)

// rootCmd launches the interactive notebook TUI when called without a
// subcommand.
var rootCmd = &cobra.Command{
	Use:   "labnote",
	Short: "A session notebook with attachments and PDF reports",
	Long: `Labnote records working sessions as ordered notes with file
attachments, persists them in SQLite, and exports them as paginated
PDF reports.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		store, err := db.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer store.Close()

		exporter := report.NewExporter(cfg.ExportDir)
		exporter.Columns = cfg.Columns

		p := tea.NewProgram(app.New(store, exporter), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run tui: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Config file path")
}

// openStore loads the config and opens the store for a subcommand.
func openStore() (*db.Store, config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, cfg, err
	}
	store, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, cfg, fmt.Errorf("open store: %w", err)
	}
	return store, cfg, nil
}
