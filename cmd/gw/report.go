package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/ghostwriter/internal/report"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Weekly and monthly activity reports built from stored summaries",
	}
	cmd.AddCommand(weeklyCmd(), monthlyCmd(), reportListCmd())
	return cmd
}

func weeklyCmd() *cobra.Command {
	var end string

	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Report on the seven days ending on --end (default today)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			endDate := time.Now()
			if end != "" {
				t, err := time.Parse(time.DateOnly, end)
				if err != nil {
					return fmt.Errorf("invalid --end %q, expected YYYY-MM-DD", end)
				}
				endDate = t
			}

			cfg, db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			start, last := report.WeekWindow(endDate)
			sums, err := db.SummariesBetween(cfg.UserID, start, last)
			if err != nil {
				return err
			}

			r := report.Weekly(cfg.UserID, endDate, sums)
			if err := db.SaveReport(r.Record()); err != nil {
				log.Warn().Err(err).Msg("could not store weekly report")
			}
			fmt.Print(r.Format())
			return nil
		},
	}

	cmd.Flags().StringVar(&end, "end", "", "Last day of the week (YYYY-MM-DD)")
	return cmd
}

func monthlyCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Report on one calendar month (default the current month)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			year, mon := now.Year(), now.Month()
			if month != "" {
				t, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("invalid --month %q, expected YYYY-MM", month)
				}
				year, mon = t.Year(), t.Month()
			}

			cfg, db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			start, end := report.MonthRange(year, mon)
			sums, err := db.SummariesBetween(cfg.UserID, start, end)
			if err != nil {
				return err
			}

			r, err := report.Monthly(cfg.UserID, year, mon, sums)
			if err != nil {
				return err
			}
			if err := db.SaveReport(r.Record()); err != nil {
				log.Warn().Err(err).Msg("could not store monthly report")
			}
			fmt.Print(r.Format())
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month to report on (YYYY-MM)")
	return cmd
}

func reportListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			recs, err := db.ListReports(cfg.UserID)
			if err != nil {
				return err
			}
			for _, r := range recs {
				fmt.Printf("%s\t%s\t%s..%s\t%s\n", r.ID, r.Kind, r.PeriodStart, r.PeriodEnd, r.CreatedAt.Local().Format(time.DateTime))
			}
			return nil
		},
	}
}
