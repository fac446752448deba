// Package report handles the performance report command
package report

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/statement-ledger/cmd/root"
	"fjacquet/statement-ledger/internal/fileutils"
	"fjacquet/statement-ledger/internal/logging"
	"fjacquet/statement-ledger/internal/models"
	"fjacquet/statement-ledger/internal/report"
	"fjacquet/statement-ledger/internal/store"
	"fjacquet/statement-ledger/internal/validation"
)

// Options holds the report command flags.
type Options struct {
	Month  string
	From   string
	To     string
	Format string
	Output string
}

var opts Options

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Report business performance for a period",
	Long: `Report gross revenue, operating costs and profit, partner withdrawals,
investment flow and the final balance for a period.

Without a period flag every stored transaction is included. Use --month for
a calendar month or --from/--to for an inclusive date range.

Examples:
  ledger report --month 01/2024
  ledger report --from 01/01/2024 --to 31/03/2024 --format json -o q1.json`,
	Args: cobra.NoArgs,
	RunE: reportFunc,
}

func init() {
	Cmd.Flags().StringVarP(&opts.Month, "month", "m", "", "Month to report (MM/YYYY or YYYY-MM)")
	Cmd.Flags().StringVar(&opts.From, "from", "", "Start date (DD/MM/YYYY or YYYY-MM-DD)")
	Cmd.Flags().StringVar(&opts.To, "to", "", "End date (DD/MM/YYYY or YYYY-MM-DD)")
	Cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format (text or json, default from config)")
	Cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write the report to a file instead of stdout")
}

func reportFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	filter, err := report.ParseFilter(opts.Month, opts.From, opts.To)
	if err != nil {
		return err
	}

	format := opts.Format
	if format == "" {
		format = c.GetConfig().Report.Format
	}
	if err := validation.IsValidReportFormat(format); err != nil {
		return err
	}
	if opts.Output != "" {
		if err := validation.IsValidOutputPath(opts.Output); err != nil {
			return err
		}
	}

	var reader report.TransactionReader
	st, err := c.OpenExistingStore()
	switch {
	case err == nil:
		defer func() { _ = st.Close() }()
		reader = st
	case store.IsUnavailable(err):
		reader = store.NewUnavailable(err)
	default:
		return err
	}

	rep, err := c.NewReportService(reader).Build(root.Context(cmd), filter)
	if err != nil {
		return err
	}

	data, err := c.NewReportGenerator().GenerateReport(&rep, format)
	if err != nil {
		return err
	}

	if opts.Output != "" {
		if err := fileutils.WriteFile(opts.Output, data, models.PermissionReportFile); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		root.GetLogger().Info("Report written", logging.Field{Key: logging.FieldFile, Value: opts.Output})
		return nil
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}
