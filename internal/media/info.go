package media

import (
	"fmt"
	"math"
	"os"

	"github.com/dustin/go-humanize"
)

// FormatDuration renders a duration in seconds as H:MM:SS for display.
func FormatDuration(seconds float64) string {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "0:00:00"
	}
	total := int(math.Round(seconds))
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
}

// FileSize returns the human-readable size of the file at path, or "unknown"
// when the file cannot be inspected.
func FileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "unknown"
	}
	return humanize.Bytes(uint64(info.Size()))
}
