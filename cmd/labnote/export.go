package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"labnote/internal/db"
	"labnote/internal/report"
)

var exportID int64

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a saved session as a PDF report",
	Long: `Export renders a saved session as a paginated PDF report in the
configured export directory. Without --id the most recent session is
exported.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cfg, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()

		var sess *db.Session
		if exportID > 0 {
			sess, err = store.LoadSession(ctx, exportID)
		} else {
			sess, err = store.LoadLatestSession(ctx)
		}
		if errors.Is(err, db.ErrSessionNotFound) || errors.Is(err, db.ErrNoSessions) {
			return fmt.Errorf("nothing to export: %w", err)
		}
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}

		exporter := report.NewExporter(cfg.ExportDir)
		exporter.Columns = cfg.Columns

		path, err := exporter.Export(sess.Title, sess.CreatedAt, sess.Notes)
		if err != nil {
			slog.Error("export failed", "session", sess.ID, "err", err)
			return fmt.Errorf("export report: %w", err)
		}

		slog.Debug("report written", "session", sess.ID, "path", path)
		fmt.Println(path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().Int64Var(&exportID, "id", 0, "Session id to export (default: latest)")
}
