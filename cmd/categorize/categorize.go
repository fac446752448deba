// Package categorize handles transaction categorization commands
package categorize

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/statement-ledger/cmd/root"
	"fjacquet/statement-ledger/internal/currencyutils"
	"fjacquet/statement-ledger/internal/fileutils"
	"fjacquet/statement-ledger/internal/models"
)

var (
	initRules bool
	force     bool
	listRules bool
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize [description] [amount]",
	Short: "Categorize a transaction with the current rules",
	Long: `Categorize a transaction description and signed amount with the current
rules, without touching the store.

Use --init-rules to write the built-in rules to the configured rules file
as a starting point, and --list to print the rules in evaluation order.

Examples:
  ledger categorize "PIX RECEBIDO CLIENTE" 1000,00
  ledger categorize -- "TARIFA BANCARIA" -45,90
  ledger categorize --init-rules`,
	Args: cobra.MaximumNArgs(2),
	RunE: categorizeFunc,
}

func init() {
	Cmd.Flags().BoolVar(&initRules, "init-rules", false, "Write the built-in rules to the rules file")
	Cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing rules file with --init-rules")
	Cmd.Flags().BoolVarP(&listRules, "list", "l", false, "List the rules in evaluation order")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	switch {
	case initRules:
		ruleStore := c.GetRuleStore()
		if fileutils.FileExists(ruleStore.RulesFile) && !force {
			return fmt.Errorf("rules file %s already exists (use --force to overwrite)", ruleStore.RulesFile)
		}
		if err := ruleStore.SaveRules(models.DefaultRuleConfig()); err != nil {
			return err
		}
		fmt.Fprintf(out, "Rules written to %s\n", ruleStore.RulesFile)
		return nil

	case listRules:
		cat := c.GetCategorizer()
		fmt.Fprintf(out, "Rule version: %s\n", cat.Version())
		for i, name := range cat.RuleNames() {
			fmt.Fprintf(out, "%2d. %s\n", i+1, name)
		}
		return nil
	}

	if len(args) != 2 {
		return fmt.Errorf("categorize needs a description and an amount")
	}
	amount, err := currencyutils.ParseAmount(args[1])
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[1], err)
	}

	category := c.GetCategorizer().Categorize(args[0], amount)
	fmt.Fprintf(out, "Category: %s\n", category)
	return nil
}
