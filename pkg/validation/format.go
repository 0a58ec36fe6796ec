// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/standings-forecast/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateSource checks that the standings source is one of the supported backends.
func ValidateSource(source string) error {
	switch source {
	case constants.SourceFile, constants.SourcePostgres, constants.SourceRedis:
		return nil
	}
	return fmt.Errorf("expected standings source of %s, %s or %s, got %q",
		constants.SourceFile, constants.SourcePostgres, constants.SourceRedis, source)
}

// ValidateFraction checks that value lies in [0, 1].
func ValidateFraction(name string, value float64) error {
	if value < 0 || value > 1 {
		return fmt.Errorf("%s must be between 0 and 1, got %v", name, value)
	}
	return nil
}
