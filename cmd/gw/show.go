package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/ghostwriter/internal/render"
)

func showCmd() *cobra.Command {
	var hitSeq, context int
	var query string
	var withSummary bool

	cmd := &cobra.Command{
		Use:     "show <conversationId>",
		Aliases: []string{"preview"},
		Short:   "Show a stored conversation with context around a hit",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			out, _, err := render.RenderConversation(db, args[0], render.Options{
				HitSeq:  hitSeq,
				Context: context,
				Query:   query,
			})
			if err != nil {
				return err
			}
			fmt.Print(out)

			if withSummary {
				s, err := db.GetSummary(args[0])
				if err != nil {
					return err
				}
				if s != nil {
					fmt.Print("\n" + s.Text)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&hitSeq, "hit", -1, "Message position to highlight")
	cmd.Flags().IntVar(&context, "context", 10, "Messages before/after hit to show (-1 = all)")
	cmd.Flags().StringVar(&query, "query", "", "Search query for keyword highlighting")
	cmd.Flags().BoolVar(&withSummary, "summary", false, "Print the daily summary after the messages")

	return cmd
}
