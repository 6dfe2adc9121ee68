package cmd

import (
	"github.com/fatih/color"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
	colorOrange  = color.New(color.FgHiYellow).SprintFunc()
)

// formatVerdict renders a verdict label in its color tier.
func formatVerdict(label, tier string) string {
	switch tier {
	case "red":
		return colorError(label)
	case "orange":
		return colorOrange(label)
	case "yellow":
		return colorWarn(label)
	case "green":
		return colorSuccess(label)
	default:
		return label
	}
}
