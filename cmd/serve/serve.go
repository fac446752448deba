// Package serve handles the HTTP report server command
package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"fjacquet/statement-ledger/cmd/root"
	"fjacquet/statement-ledger/internal/logging"
	"fjacquet/statement-ledger/internal/report"
	"fjacquet/statement-ledger/internal/server"
	"fjacquet/statement-ledger/internal/store"
)

const shutdownTimeout = 10 * time.Second

var address string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve reports over HTTP",
	Long: `Serve the report API until interrupted.

Endpoints:
  GET /api/health
  GET /api/report?month=MM/YYYY | ?from=DD/MM/YYYY&to=DD/MM/YYYY [&format=text|json]
  GET /api/imports?limit=N`,
	Args: cobra.NoArgs,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().StringVarP(&address, "address", "a", "", "Listen address (default from config)")
}

func serveFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	logger := c.GetLogger()

	addr := address
	if addr == "" {
		addr = c.GetConfig().Server.Address
	}

	var (
		reader  report.TransactionReader
		history server.HistoryReader
	)
	st, err := c.OpenExistingStore()
	switch {
	case err == nil:
		defer func() { _ = st.Close() }()
		reader, history = st, st
	case store.IsUnavailable(err):
		logger.WithError(err).Warn("Store not initialized, serving empty reports")
		u := store.NewUnavailable(err)
		reader, history = u, u
	default:
		return err
	}

	srv := c.NewServer(reader, history, root.Version)

	ctx, stop := signal.NotifyContext(root.Context(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server", logging.Field{Key: "address", Value: addr})
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
