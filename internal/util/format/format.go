// Package format renders sizes, bitrates and durations for terminal output.
package format

import (
	"fmt"
	"math"
	"time"
)

// HumanizeBytes converts a byte count into a binary-unit string, e.g. "1.5 MB".
func HumanizeBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit && exp < 4; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %s", float64(b)/float64(div), [...]string{"KB", "MB", "GB", "TB", "PB"}[exp])
}

// HumanizeBitrate renders bits per second with a decimal unit, e.g. "8.26 Mb/s".
func HumanizeBitrate(bps int64) string {
	switch {
	case bps >= 1_000_000:
		return fmt.Sprintf("%.2f Mb/s", float64(bps)/1_000_000)
	case bps >= 1_000:
		return fmt.Sprintf("%.0f kb/s", float64(bps)/1_000)
	default:
		return fmt.Sprintf("%d b/s", bps)
	}
}

// Clock renders seconds as H:MM:SS.mmm.
func Clock(sec float64) string {
	if sec <= 0 || math.IsNaN(sec) || math.IsInf(sec, 0) {
		return "0:00:00.000"
	}
	d := time.Duration(math.Round(sec * float64(time.Second)))
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, s, d/time.Millisecond)
}
