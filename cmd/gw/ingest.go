package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/ghostwriter/internal/export"
	"github.com/Zuo-Peng/ghostwriter/internal/index"
	"github.com/Zuo-Peng/ghostwriter/internal/notify"
)

func ingestCmd() *cobra.Command {
	var force, prune bool
	var formats []string

	cmd := &cobra.Command{
		Use:   "ingest [files...]",
		Short: "Parse, analyze and summarize WhatsApp exports",
		Long: `Ingest the given export files, or every .txt export under the configured
export root when no files are given. Each file becomes one stored
conversation with a daily summary. Files that have not changed since the
last run are skipped unless --force is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			analyzer, err := cfg.Analyzer()
			if err != nil {
				return err
			}

			svc := notify.FromConfig(cfg.Notify, os.Stderr)
			in := &index.Ingester{
				DB:       db,
				Analyzer: analyzer,
				UserID:   cfg.UserID,
				Notifier: svc,
				Force:    force,
			}
			log.Debug().Strs("notifiers", svc.Names()).Msg("notification channels")

			var res *index.BatchResult
			if len(args) == 0 {
				fmt.Fprintf(os.Stderr, "Scanning %s...\n", cfg.ExportRoot)
				res, err = in.IngestRoot(cmd.Context(), cfg.ExportRoot, prune)
				if err != nil {
					return fmt.Errorf("ingest: %w", err)
				}
			} else {
				res = in.IngestFiles(cmd.Context(), args)
			}

			fmt.Print(res.Format())

			for _, s := range res.Summaries {
				for _, name := range formats {
					path, err := export.ExportAs(s, name, cfg.OutputDir)
					if err != nil {
						return err
					}
					fmt.Fprintf(os.Stderr, "Exported %s\n", path)
				}
			}

			if !res.IsSuccess() {
				return fmt.Errorf("%d of %d files failed", res.FailureCount(), res.TotalFiles)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-ingest files even when unchanged")
	cmd.Flags().BoolVar(&prune, "prune", false, "Delete conversations whose export file is gone (export root only)")
	cmd.Flags().StringSliceVar(&formats, "export", nil, "Also export each new summary (txt, md, html, json)")

	return cmd
}
