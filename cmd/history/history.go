// Package history handles listing recorded import runs and stored
// investment movements
package history

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fjacquet/statement-ledger/cmd/root"
	"fjacquet/statement-ledger/internal/currencyutils"
	"fjacquet/statement-ledger/internal/store"
)

var (
	limit       int
	investments bool
)

// Cmd represents the history command
var Cmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded import runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  historyFunc,
}

func init() {
	Cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 lists all)")
	Cmd.Flags().BoolVar(&investments, "investments", false, "List stored investment movements instead of import runs")
}

func historyFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	var st store.Reader
	opened, err := c.OpenExistingStore()
	switch {
	case err == nil:
		defer func() { _ = opened.Close() }()
		st = opened
	case store.IsUnavailable(err):
		st = store.NewUnavailable(err)
	default:
		return err
	}

	if investments {
		return listInvestments(cmd, out, st, c.GetConfig().Report.CurrencySymbol)
	}

	runs, err := st.ListImportRuns(root.Context(cmd), limit)
	if err != nil && !store.IsUnavailable(err) {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No imports recorded")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tKIND\tPARSED\tAPPENDED\tSOURCE\tID")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
			run.StartedAt.Local().Format("02/01/2006 15:04"), run.Kind, run.Parsed, run.Appended, run.Source, run.ID)
	}
	return w.Flush()
}

func listInvestments(cmd *cobra.Command, out io.Writer, st store.Reader, symbol string) error {
	movements, err := st.ListInvestments(root.Context(cmd), store.TransactionFilter{})
	if err != nil && !store.IsUnavailable(err) {
		return err
	}
	if len(movements) == 0 {
		fmt.Fprintln(out, "No investment movements recorded")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTYPE\tAMOUNT\tDESCRIPTION")
	for _, m := range movements {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			m.Date.Format("02/01/2006"), m.Type, currencyutils.FormatMoney(m.Amount, symbol), m.Description)
	}
	return w.Flush()
}
