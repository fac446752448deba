// Package recategorize handles recomputing stored categories
package recategorize

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/statement-ledger/cmd/root"
	"fjacquet/statement-ledger/internal/dateutils"
	"fjacquet/statement-ledger/internal/logging"
	"fjacquet/statement-ledger/internal/models"
	"fjacquet/statement-ledger/internal/store"
)

var dryRun bool

// Cmd represents the recategorize command
var Cmd = &cobra.Command{
	Use:   "recategorize",
	Short: "Recompute the category of every stored transaction",
	Long: `Recompute the category of every stored transaction from its date,
description and amount with the current rules. Only the category and rule
version columns are rewritten; identifiers never change.`,
	Args: cobra.NoArgs,
	RunE: recategorizeFunc,
}

func init() {
	Cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report the changes without writing them")
}

func recategorizeFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	ctx := root.Context(cmd)

	st, err := c.OpenExistingStore()
	if err != nil {
		if store.IsUnavailable(err) {
			fmt.Fprintln(out, "Store not initialized, nothing to recategorize")
			return nil
		}
		return err
	}
	defer func() { _ = st.Close() }()

	stored, err := st.ListTransactions(ctx, store.TransactionFilter{})
	if err != nil {
		return err
	}

	updated, _ := c.GetCategorizer().Recategorize(stored)
	var changed []models.CategorizedTransaction
	for i := range updated {
		if updated[i].Category != stored[i].Category || updated[i].RuleVersion != stored[i].RuleVersion {
			changed = append(changed, updated[i])
		}
	}

	if dryRun {
		for _, tx := range changed {
			fmt.Fprintf(out, "%s  %-40s  %s\n", tx.Date.Format(dateutils.DateLayoutBrazilian), tx.Description, tx.Category)
		}
		fmt.Fprintf(out, "%d of %d transactions would change\n", len(changed), len(stored))
		return nil
	}

	n, err := st.UpdateCategories(ctx, changed)
	if err != nil {
		return err
	}
	root.GetLogger().Info("Recategorization finished",
		logging.Field{Key: logging.FieldCount, Value: len(stored)},
		logging.Field{Key: "updated", Value: n})
	fmt.Fprintf(out, "%d of %d transactions updated\n", n, len(stored))
	return nil
}
