package cmd

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestFormatVerdictTiers(t *testing.T) {
	// Force colorized output regardless of test terminal.
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	tests := []struct {
		label string
		tier  string
	}{
		{"SCAM", "red"},
		{"SUSPICIOUS", "orange"},
		{"LOW RISK", "yellow"},
		{"LIKELY LEGITIMATE", "green"},
	}
	for _, tc := range tests {
		got := formatVerdict(tc.label, tc.tier)
		if !strings.Contains(got, tc.label) {
			t.Errorf("formatVerdict(%q, %q) = %q, label lost", tc.label, tc.tier, got)
		}
		if got == tc.label {
			t.Errorf("formatVerdict(%q, %q) applied no color", tc.label, tc.tier)
		}
	}
}

func TestFormatVerdictUnknownTierPassthrough(t *testing.T) {
	if got := formatVerdict("WEIRD", "purple"); got != "WEIRD" {
		t.Errorf("unknown tier = %q, want passthrough", got)
	}
}
