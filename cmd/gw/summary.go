package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/ghostwriter/internal/export"
)

func summaryCmd() *cobra.Command {
	var format, outDir string
	var all bool

	cmd := &cobra.Command{
		Use:   "summary [date]",
		Short: "Show or export the daily summaries for a date (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := time.Now().Format(time.DateOnly)
			if len(args) == 1 {
				if _, err := time.Parse(time.DateOnly, args[0]); err != nil {
					return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", args[0])
				}
				date = args[0]
			}

			cfg, db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			sums, err := db.SummariesForDate(cfg.UserID, date)
			if err != nil {
				return err
			}
			if len(sums) == 0 {
				fmt.Fprintf(os.Stderr, "No summaries for %s.\n", date)
				return nil
			}

			f, err := export.ForName(format)
			if err != nil {
				return err
			}
			if outDir == "" && all {
				outDir = cfg.OutputDir
			}

			for i := range sums {
				s := &sums[i]
				switch {
				case all:
					paths, err := export.ExportAll(s, outDir)
					if err != nil {
						return err
					}
					for _, p := range paths {
						fmt.Fprintf(os.Stderr, "Exported %s\n", p)
					}
				case outDir != "":
					p, err := export.Export(s, f, outDir)
					if err != nil {
						return err
					}
					fmt.Fprintf(os.Stderr, "Exported %s\n", p)
				default:
					out, err := f.Format(s)
					if err != nil {
						return err
					}
					fmt.Print(out)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "txt", "Output format (txt, md, html, json)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Write to this directory instead of stdout")
	cmd.Flags().BoolVar(&all, "all", false, "Export in every format (to --out or the configured output dir)")

	return cmd
}
