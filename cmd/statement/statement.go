// Package statement handles the bank statement import command
package statement

import (
	"github.com/spf13/cobra"

	"fjacquet/statement-ledger/cmd/root"
)

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import <statement.csv>",
	Short: "Import a bank statement export into the store",
	Long: `Import a delimited bank statement export into the store.

Every row is categorized with the current rules and identified by its
content, so importing the same or an overlapping export again only appends
the rows that are not stored yet.

Example:
  ledger import extrato_2024-01.csv`,
	Args: cobra.ExactArgs(1),
	RunE: importFunc,
}

func importFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	st, err := c.OpenStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	result, err := c.NewImporter(st).ImportFile(root.Context(cmd), args[0])
	if err != nil {
		return err
	}
	root.PrintResult(cmd, result)
	return nil
}
