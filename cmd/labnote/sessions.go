package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List saved sessions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		sessions, err := store.ListSessions(context.Background())
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Fprintln(os.Stderr, "no saved sessions")
			return nil
		}
		for _, info := range sessions {
			fmt.Printf("%d\t%s\n", info.ID, info.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}
