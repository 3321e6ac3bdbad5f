package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/ghostwriter/internal/config"
	"github.com/Zuo-Peng/ghostwriter/internal/index"
	"github.com/Zuo-Peng/ghostwriter/internal/notify"
	"github.com/Zuo-Peng/ghostwriter/internal/scan"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify config, export root, DB, FTS5, and show stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Config ===")
			if p, err := config.Path(); err == nil {
				fmt.Printf("  File: %s\n", p)
			}
			fmt.Printf("  User: %s\n", cfg.UserID)
			if err := cfg.Validate(); err != nil {
				for _, line := range strings.Split(err.Error(), "\n") {
					fmt.Printf("  Problem: %s\n", line)
				}
			} else {
				fmt.Println("  Status: OK")
			}
			names := notify.FromConfig(cfg.Notify, os.Stderr).Names()
			if len(names) == 0 {
				names = []string{"none"}
			}
			fmt.Printf("  Notifiers: %s\n", strings.Join(names, ", "))

			fmt.Println("\n=== Exports ===")
			checkDir("Root", cfg.ExportRoot)
			files, err := scan.ScanExports(cfg.ExportRoot)
			if err != nil {
				fmt.Printf("  scan error: %v\n", err)
			} else {
				invalid := 0
				for _, f := range files {
					if _, err := scan.Validate(f.Path); err != nil {
						invalid++
					}
				}
				fmt.Printf("  Export files: %d (%d invalid)\n", len(files), invalid)
			}

			fmt.Println("\n=== Database ===")
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (run 'gw ingest' first)")
				return nil
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			convCount, err := db.ConversationCount()
			if err != nil {
				return fmt.Errorf("count conversations: %w", err)
			}
			msgCount, err := db.MessageCount()
			if err != nil {
				return fmt.Errorf("count messages: %w", err)
			}
			sumCount, err := db.SummaryCount()
			if err != nil {
				return fmt.Errorf("count summaries: %w", err)
			}

			fmt.Printf("  Conversations: %s\n", humanize.Comma(int64(convCount)))
			fmt.Printf("  Messages:      %s\n", humanize.Comma(int64(msgCount)))
			fmt.Printf("  Summaries:     %s\n", humanize.Comma(int64(sumCount)))
			if sumCount != convCount {
				fmt.Printf("  Warning: %d conversations without a summary\n", convCount-sumCount)
			}

			fmt.Println("\n=== FTS5 ===")
			var ftsCount int
			err = db.Raw().QueryRow("SELECT COUNT(*) FROM messages_fts").Scan(&ftsCount)
			if err != nil {
				fmt.Printf("  FTS5 error: %v\n", err)
			} else {
				fmt.Printf("  FTS5 entries: %d\n", ftsCount)
				if ftsCount == msgCount {
					fmt.Println("  Status: OK (synced)")
				} else {
					fmt.Printf("  Status: MISMATCH (messages=%d, fts=%d)\n", msgCount, ftsCount)
				}
			}

			if info, err := os.Stat(cfg.DBPath); err == nil {
				fmt.Printf("\n=== DB Size: %s ===\n", humanize.Bytes(uint64(info.Size())))
			}

			return nil
		},
	}
}

func checkDir(name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Printf("  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}
