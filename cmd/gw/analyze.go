package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/ghostwriter/internal/analysis"
	"github.com/Zuo-Peng/ghostwriter/internal/index"
	"github.com/Zuo-Peng/ghostwriter/internal/parse"
	"github.com/Zuo-Peng/ghostwriter/internal/scan"
	"github.com/Zuo-Peng/ghostwriter/internal/summary"
)

func analyzeCmd() *cobra.Command {
	var strategies []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze one export without storing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if len(strategies) == 0 {
				strategies = cfg.Strategies
			}
			ss, err := analysis.StrategiesByName(strategies)
			if err != nil {
				return err
			}

			fi, err := scan.Validate(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(fi.Path)
			if err != nil {
				return fmt.Errorf("read %s: %w", fi.Path, err)
			}
			p, err := parse.ParserFor(fi.Kind)
			if err != nil {
				return err
			}
			msgs := p.Parse(string(data))
			if len(msgs) == 0 {
				return index.ErrNoMessages
			}

			conv := parse.NewConversation(cfg.UserID, scan.DateFromFile(fi), msgs)
			result, err := analysis.New(ss...).Analyze(conv)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			fmt.Print(summary.Generate(cfg.UserID, conv.ID, conv.Date, result).Text)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&strategies, "strategy", nil, "Strategies to run (topics, action_items, questions, statistics); default all")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw analysis result as JSON")

	return cmd
}
