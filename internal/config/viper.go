// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"fjacquet/statement-ledger/internal/logging"
)

// Malformed-row policies for statement imports.
const (
	MalformedSkip  = "skip"
	MalformedAbort = "abort"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter         string `mapstructure:"delimiter" yaml:"delimiter"`
		SkipRows          int    `mapstructure:"skip_rows" yaml:"skip_rows"`
		DateFormat        string `mapstructure:"date_format" yaml:"date_format"`
		DateColumn        string `mapstructure:"date_column" yaml:"date_column"`
		DescriptionColumn string `mapstructure:"description_column" yaml:"description_column"`
		AmountColumn      string `mapstructure:"amount_column" yaml:"amount_column"`
		DecimalSeparator  string `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	} `mapstructure:"csv" yaml:"csv"`

	Import struct {
		MalformedRows string `mapstructure:"malformed_rows" yaml:"malformed_rows"`
	} `mapstructure:"import" yaml:"import"`

	Store struct {
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"store" yaml:"store"`

	Rules struct {
		File               string `mapstructure:"file" yaml:"file"`
		InvestmentGrouping string `mapstructure:"investment_grouping" yaml:"investment_grouping"`
		FoldAccents        bool   `mapstructure:"fold_accents" yaml:"fold_accents"`
	} `mapstructure:"rules" yaml:"rules"`

	Report struct {
		BalanceKeyword string `mapstructure:"balance_keyword" yaml:"balance_keyword"`
		CurrencySymbol string `mapstructure:"currency_symbol" yaml:"currency_symbol"`
		Format         string `mapstructure:"format" yaml:"format"`
		Recategorize   bool   `mapstructure:"recategorize" yaml:"recategorize"`
	} `mapstructure:"report" yaml:"report"`

	Server struct {
		Address string `mapstructure:"address" yaml:"address"`
	} `mapstructure:"server" yaml:"server"`
}

// LoadConfig loads configuration, reading configFile when it is set instead
// of searching the default locations. An explicit file must exist.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.ledger")
		v.AddConfigPath(".ledger")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix("LEDGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless explicit)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		if !errors.As(err, &notFound) {
			Logger.Warnf("Error reading config file %s: %v", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// CSV defaults match the bank's statement export
	v.SetDefault("csv.delimiter", ";")
	v.SetDefault("csv.skip_rows", 5)
	v.SetDefault("csv.date_format", "02/01/2006")
	v.SetDefault("csv.date_column", "Data Lançamento")
	v.SetDefault("csv.description_column", "Descrição")
	v.SetDefault("csv.amount_column", "Valor")
	v.SetDefault("csv.decimal_separator", ",")

	v.SetDefault("import.malformed_rows", MalformedSkip)

	v.SetDefault("store.path", "financas.db")

	v.SetDefault("rules.file", "rules.yaml")
	v.SetDefault("rules.investment_grouping", "literal")
	v.SetDefault("rules.fold_accents", false)

	v.SetDefault("report.balance_keyword", "cdb porquinho")
	v.SetDefault("report.currency_symbol", "R$")
	v.SetDefault("report.format", "text")
	v.SetDefault("report.recategorize", false)

	v.SetDefault("server.address", ":8080")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	// Validate CSV layout
	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}
	if config.CSV.SkipRows < 0 {
		return fmt.Errorf("csv.skip_rows must not be negative, got: %d", config.CSV.SkipRows)
	}
	if config.CSV.DecimalSeparator != "," && config.CSV.DecimalSeparator != "." {
		return fmt.Errorf("csv.decimal_separator must be ',' or '.', got: %s", config.CSV.DecimalSeparator)
	}
	if config.CSV.DateColumn == "" || config.CSV.DescriptionColumn == "" || config.CSV.AmountColumn == "" {
		return fmt.Errorf("csv column names must not be empty")
	}

	// Validate import policy
	if config.Import.MalformedRows != MalformedSkip && config.Import.MalformedRows != MalformedAbort {
		return fmt.Errorf("invalid import.malformed_rows: %s (must be '%s' or '%s')",
			config.Import.MalformedRows, MalformedSkip, MalformedAbort)
	}

	if config.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}

	// Validate rule options
	grouping := strings.ToLower(config.Rules.InvestmentGrouping)
	if grouping != "literal" && grouping != "explicit" {
		return fmt.Errorf("invalid rules.investment_grouping: %s (must be 'literal' or 'explicit')", config.Rules.InvestmentGrouping)
	}

	// Validate report format
	if config.Report.Format != "text" && config.Report.Format != "json" {
		return fmt.Errorf("invalid report format: %s (must be 'text' or 'json')", config.Report.Format)
	}

	return nil
}

// ConfigureLoggingFromConfig returns a new logger configured from the log section.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()
	logging.Configure(logger, config.Log.Level, config.Log.Format)
	return logger
}
