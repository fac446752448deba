// Package investment handles the investment export import command
package investment

import (
	"github.com/spf13/cobra"

	"fjacquet/statement-ledger/cmd/root"
)

// Cmd represents the import-investments command
var Cmd = &cobra.Command{
	Use:   "import-investments <export.ofx>",
	Short: "Import an OFX investment export into the store",
	Long: `Import the STMTTRN movements of an OFX investment export (SGML or XML)
into the investment table. Movements are identified by FITID, so repeated
imports only append new movements.`,
	Args: cobra.ExactArgs(1),
	RunE: importInvestmentsFunc,
}

func importInvestmentsFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	st, err := c.OpenStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	result, err := c.NewImporter(st).ImportInvestments(root.Context(cmd), args[0])
	if err != nil {
		return err
	}
	root.PrintResult(cmd, result)
	return nil
}
