package search

import (
	"testing"
)

func TestWindowValidate(t *testing.T) {
	tests := []struct {
		name      string
		window    Window
		expectErr bool
	}{
		{"Defaults", DefaultWindow(), false},
		{"Full range", Window{BattingLowFraction: 0, ChaseLowFraction: 0, ChaseHighFraction: 1}, false},
		{"Equal chase bounds", Window{BattingLowFraction: 0.5, ChaseLowFraction: 0.8, ChaseHighFraction: 0.8}, false},
		{"Negative batting fraction", Window{BattingLowFraction: -0.1, ChaseLowFraction: 0.6, ChaseHighFraction: 0.95}, true},
		{"Batting fraction above one", Window{BattingLowFraction: 1.1, ChaseLowFraction: 0.6, ChaseHighFraction: 0.95}, true},
		{"Chase high above one", Window{BattingLowFraction: 0.4, ChaseLowFraction: 0.6, ChaseHighFraction: 1.5}, true},
		{"Inverted chase bounds", Window{BattingLowFraction: 0.4, ChaseLowFraction: 0.95, ChaseHighFraction: 0.6}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.window.Validate()
			if tt.expectErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestWindowDomains(t *testing.T) {
	w := DefaultWindow()

	low, high := w.battingDomain(120)
	if low != 48 || high != 119 {
		t.Errorf("battingDomain(120) = [%d, %d], expected [48, 119]", low, high)
	}

	low, high = w.chaseDomain(120)
	if low != 72 || high != 114 {
		t.Errorf("chaseDomain(120) = [%d, %d], expected [72, 114]", low, high)
	}

	low, high = w.chaseDomain(300)
	if low != 180 || high != 285 {
		t.Errorf("chaseDomain(300) = [%d, %d], expected [180, 285]", low, high)
	}
}
