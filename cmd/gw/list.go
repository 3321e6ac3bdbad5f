package main

import (
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/ghostwriter/internal/search"
	"github.com/Zuo-Peng/ghostwriter/internal/tui"
)

func listCmd() *cobra.Command {
	var sender, since string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse all conversations, newest first",
		Long:  `Opens a TUI panel showing every ingested conversation (newest first) with its top topic. Typing switches to full-text search over message content.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			return tui.RunList(db, search.Options{
				UserID: cfg.UserID,
				Sender: sender,
				Since:  since,
			})
		},
	}

	cmd.Flags().StringVar(&sender, "sender", "", "When filtering, only messages from this sender")
	cmd.Flags().StringVar(&since, "since", "", "When filtering, only conversations dated on or after (YYYY-MM-DD)")

	return cmd
}
