package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"fjacquet/statement-ledger/internal/logging"
	"fjacquet/statement-ledger/internal/models"
)

// RuleStore manages loading and saving of the categorization rule file.
type RuleStore struct {
	RulesFile string
	logger    logging.Logger
}

// NewRuleStore creates a new store for the rule file.
func NewRuleStore(rulesFile string, logger logging.Logger) *RuleStore {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &RuleStore{RulesFile: rulesFile, logger: logger}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *RuleStore) FindConfigFile(filename string) (string, error) {
	// Check if it's an absolute path
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	// Common locations to check for config files
	locations := []string{
		filename,                          // Current directory
		filepath.Join("config", filename), // ./config/ directory
		filepath.Join(".ledger", filename),
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	// If still not found, check in user's home directory under .config/statement-ledger/
	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "statement-ledger", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

func (s *RuleStore) filename() string {
	if s.RulesFile == "" {
		return "rules.yaml"
	}
	return s.RulesFile
}

// LoadRules loads the rule file. A missing file yields the built-in rules.
func (s *RuleStore) LoadRules() (models.RuleConfig, error) {
	filename := s.filename()

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Rules file not found, using built-in rules",
				logging.Field{Key: logging.FieldFile, Value: filename})
			return models.DefaultRuleConfig(), nil
		}
		return models.RuleConfig{}, fmt.Errorf("error resolving rules file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return models.RuleConfig{}, fmt.Errorf("error reading rules file: %w", err)
	}

	var cfg models.RuleConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return models.RuleConfig{}, fmt.Errorf("error parsing rules file %s: %w", filePath, err)
	}
	if err := cfg.Validate(); err != nil {
		return models.RuleConfig{}, fmt.Errorf("invalid rules file %s: %w", filePath, err)
	}

	s.logger.Debug("Loaded rules",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: "rule_version", Value: cfg.Version},
		logging.Field{Key: logging.FieldCount, Value: len(cfg.Partners)})
	return cfg, nil
}

// SaveRules writes cfg to the rule file path as given.
func (s *RuleStore) SaveRules(cfg models.RuleConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid rules: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling rules: %w", err)
	}

	path := s.filename()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
			return fmt.Errorf("error creating rules directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, models.PermissionReportFile); err != nil {
		return fmt.Errorf("error writing rules file: %w", err)
	}
	return nil
}
