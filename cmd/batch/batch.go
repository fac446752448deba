// Package batch handles batch import of statement directories
package batch

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/statement-ledger/cmd/root"
)

var workers int

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Import every statement and investment export of a directory",
	Long: `Import every .csv statement export and .ofx investment export found
under a directory.

Files are parsed in parallel and merged into the store one at a time in
path order. A file that cannot be read is reported and skipped; the other
files are still imported.

Example:
  ledger batch exports/`,
	Args: cobra.ExactArgs(1),
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().IntVarP(&workers, "workers", "w", 4, "Number of files parsed concurrently")
}

func batchFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	st, err := c.OpenStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	summary, err := c.NewBatchImporter(st, workers).ImportDirectory(root.Context(cmd), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, file := range summary.Files {
		root.PrintResult(cmd, file.Result)
	}
	if len(summary.Files) == 0 {
		fmt.Fprintf(out, "No statement or investment files found in %s\n", args[0])
		return nil
	}

	fmt.Fprintf(out, "Imported %d new records from %d files", summary.Appended, len(summary.Files)-summary.Failed)
	if !summary.DateRange.IsZero() {
		fmt.Fprintf(out, " covering %s", summary.DateRange)
	}
	fmt.Fprintln(out)
	if summary.Failed > 0 {
		fmt.Fprintf(out, "%d files failed\n", summary.Failed)
	}
	return nil
}
