// Package format holds small display-formatting helpers for the dashboard.
package format

import (
	"fmt"
	"time"
)

// Mebibytes converts a byte count to whole mebibytes, the unit the dashboard
// reports memory in.
func Mebibytes(bytes uint64) uint64 {
	return bytes / 1024 / 1024
}

// Uptime formats an uptime duration as "Nd HHh MMm" with leading components
// dropped when zero.
//
// Parameters:
//   - d: The uptime to format.
//
// Returns:
//   - string: A formatted string representing the uptime.
func Uptime(d time.Duration) string {
	d = d.Round(time.Minute)
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// Percent renders a [0,100] percentage as a whole number for the progress
// elements of the page.
func Percent(v float64) string {
	return fmt.Sprintf("%.0f", v)
}
