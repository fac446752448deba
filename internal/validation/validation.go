// Package validation checks operator input before it reaches the services.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/statement-ledger/internal/apperror"
)

// Report output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// IsValidReportFormat checks if the given report format is supported.
func IsValidReportFormat(format string) error {
	switch format {
	case FormatText, FormatJSON:
		return nil
	default:
		return &apperror.ValidationError{
			Field:  "format",
			Reason: fmt.Sprintf("unsupported report format '%s', supported formats are '%s' and '%s'", format, FormatText, FormatJSON),
		}
	}
}

// IsValidOutputPath checks that a report can be written to path: it must not
// name a directory, and an existing parent must be a directory.
func IsValidOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return &apperror.ValidationError{Field: "output", Reason: "path is empty"}
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return &apperror.ValidationError{Field: "output", Reason: fmt.Sprintf("%s is a directory", path)}
	}

	parent := filepath.Dir(path)
	info, err := os.Stat(parent)
	switch {
	case os.IsNotExist(err):
		return nil
	case err != nil:
		return fmt.Errorf("error checking path %s: %w", parent, err)
	case !info.IsDir():
		return &apperror.ValidationError{Field: "output", Reason: fmt.Sprintf("%s is not a directory", parent)}
	}
	return nil
}
