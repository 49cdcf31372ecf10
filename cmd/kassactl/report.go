package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/8gymsport-prog/penjualan/internal/events"
	"github.com/8gymsport-prog/penjualan/internal/models"
	"github.com/8gymsport-prog/penjualan/internal/reports"
	"github.com/8gymsport-prog/penjualan/internal/services"
)

var (
	reportUser   string
	reportFormat string
	reportFrom   string
	reportTo     string
	reportOut    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a user's sales report to a file",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportUser, "user", "", "user id")
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "txt", "txt, csv, xlsx or pdf")
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "first day, YYYY-MM-DD (default today)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "last day, YYYY-MM-DD (default today)")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "output file (default the report's own file name)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	if reportUser == "" {
		return errors.New("--user is required")
	}
	format, err := reports.ParseFormat(reportFormat)
	if err != nil {
		return err
	}

	cfg, db, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	now := time.Now().In(loc)

	rng, err := parseRange(reportFrom, reportTo, now)
	if err != nil {
		return err
	}

	user, err := services.NewAccountService(db, cfg.MaxAvatarBytes).Profile(cmd.Context(), reportUser)
	if err != nil {
		return fmt.Errorf("loading user %s: %w", reportUser, err)
	}

	sales := services.NewSalesService(db, db, nil, events.LogPublisher{})
	txs, err := sales.List(cmd.Context(), user.ID, rng)
	if err != nil {
		return err
	}

	meta := reports.Meta{Username: user.Username, PrintedAt: now}
	if cfg.ReportFontPath != "" {
		if meta.Font, err = reports.LoadFont(cfg.ReportFontPath, cfg.ReportFontBoldPath); err != nil {
			return err
		}
	}
	path := reportOut
	if path == "" {
		path = reports.FileName(format, meta)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := reports.Render(f, format, txs, meta); err != nil {
		f.Close()
		return fmt.Errorf("rendering report: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d transactions to %s\n", len(txs), path)
	return nil
}

// parseRange turns inclusive YYYY-MM-DD bounds into a half-open range in
// now's location.
func parseRange(from, to string, now time.Time) (models.DateRange, error) {
	day := func(v string) (models.DateRange, error) {
		if v == "" {
			return models.Day(now), nil
		}
		t, err := time.ParseInLocation("2006-01-02", v, now.Location())
		if err != nil {
			return models.DateRange{}, fmt.Errorf("invalid date %q: %w", v, err)
		}
		return models.Day(t), nil
	}

	start, err := day(from)
	if err != nil {
		return models.DateRange{}, err
	}
	end, err := day(to)
	if err != nil {
		return models.DateRange{}, err
	}
	if end.From.Before(start.From) {
		return models.DateRange{}, errors.New("--to is before --from")
	}
	return models.DateRange{From: start.From, To: end.To}, nil
}
