// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"fjacquet/statement-ledger/internal/config"
	"fjacquet/statement-ledger/internal/container"
	"fjacquet/statement-ledger/internal/ingest"
	"fjacquet/statement-ledger/internal/logging"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// GlobalFlags holds the persistent flags shared by every command.
type GlobalFlags struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
	StorePath  string
	RulesFile  string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "ledger",
		Short: "A CLI tool to import bank statements and report business performance.",
		Long: `ledger imports bank statement exports and investment files into a local
store, categorizes every transaction with deterministic keyword rules and
reports revenue, costs, partner withdrawals and investment flow per period.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to ledger!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Initialize(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				if err := AppContainer.Close(); err != nil {
					Log.Warnf("Failed to close container: %v", err)
				}
			}
		},
	}

	// Flags are the persistent flags accessible to all commands
	Flags = GlobalFlags{}

	// AppContainer is the dependency container built before each command runs
	AppContainer *container.Container
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&Flags.ConfigFile, "config", "c", "", "Config file (default searches ./config.yaml, .ledger/ and $HOME/.ledger/)")
	Cmd.PersistentFlags().StringVar(&Flags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&Flags.LogFormat, "log-format", "", "Log format (text or json)")
	Cmd.PersistentFlags().StringVar(&Flags.StorePath, "store", "", "Path to the SQLite store")
	Cmd.PersistentFlags().StringVar(&Flags.RulesFile, "rules", "", "Path to the categorization rules file")
}

// Initialize loads the configuration, applies flag overrides and builds the
// container shared by the subcommands.
func Initialize(cmd *cobra.Command) error {
	config.LoadEnv()

	cfg, err := config.LoadConfig(Flags.ConfigFile)
	if err != nil {
		return err
	}
	applyOverrides(cfg)

	Log = config.ConfigureLoggingFromConfig(cfg)
	logger := logging.NewLogrusAdapterFromLogger(Log)

	c, err := container.NewContainerWithLogger(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	AppContainer = c
	return nil
}

func applyOverrides(cfg *config.Config) {
	if Flags.LogLevel != "" {
		cfg.Log.Level = Flags.LogLevel
	}
	if Flags.LogFormat != "" {
		cfg.Log.Format = Flags.LogFormat
	}
	if Flags.StorePath != "" {
		cfg.Store.Path = Flags.StorePath
	}
	if Flags.RulesFile != "" {
		cfg.Rules.File = Flags.RulesFile
	}
}

// GetContainer returns the container built for the running command.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("container not initialized")
	}
	return AppContainer, nil
}

// GetLogger returns the container logger, falling back to the shared logrus
// instance before initialization.
func GetLogger() logging.Logger {
	if AppContainer != nil {
		return AppContainer.GetLogger()
	}
	return logging.NewLogrusAdapterFromLogger(Log)
}

// Context returns the command context, or a background context when the
// command runs outside Execute.
func Context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// PrintResult writes the status line of an import.
func PrintResult(cmd *cobra.Command, result ingest.Result) {
	if !result.OK() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: import failed: %s\n", result.Source, result.Status)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", result.Source, result.Status)
	if result.Malformed > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d malformed rows skipped\n", result.Source, result.Malformed)
	}
}
