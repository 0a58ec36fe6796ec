package validation

import (
	"strings"
	"testing"
)

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		expectErr bool
	}{
		{"Valid pretty format", "pretty", false},
		{"Valid csv format", "csv", false},
		{"JSON not supported", "json", true},
		{"Empty format", "", true},
		{"Case sensitive", "CSV", true},
		{"Leading/trailing spaces", " pretty ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if tt.expectErr && err == nil {
				t.Errorf("ValidateOutputFormat(%q) expected error but got none", tt.format)
			}
			if !tt.expectErr && err != nil {
				t.Errorf("ValidateOutputFormat(%q) unexpected error = %v", tt.format, err)
			}
		})
	}
}

func TestValidateSource(t *testing.T) {
	tests := []struct {
		source    string
		expectErr bool
	}{
		{"file", false},
		{"postgres", false},
		{"redis", false},
		{"mongo", true},
		{"", true},
		{"File", true},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			err := ValidateSource(tt.source)
			if tt.expectErr && err == nil {
				t.Errorf("ValidateSource(%q) expected error but got none", tt.source)
			}
			if !tt.expectErr && err != nil {
				t.Errorf("ValidateSource(%q) unexpected error = %v", tt.source, err)
			}
		})
	}
}

func TestValidateFraction(t *testing.T) {
	for _, value := range []float64{0, 0.4, 1} {
		if err := ValidateFraction("x", value); err != nil {
			t.Errorf("ValidateFraction(%v) unexpected error = %v", value, err)
		}
	}
	for _, value := range []float64{-0.01, 1.5} {
		err := ValidateFraction("search.chaseLowFraction", value)
		if err == nil {
			t.Errorf("ValidateFraction(%v) expected error", value)
			continue
		}
		if !strings.Contains(err.Error(), "search.chaseLowFraction") {
			t.Errorf("error should name the setting: %v", err)
		}
	}
}
