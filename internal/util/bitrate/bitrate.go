package bitrate

import (
	"errors"
	"math"
	"strconv"
)

const (
	// AudioBps is the fixed AAC audio bitrate assumed for every encode.
	AudioBps int64 = 128_000
	// MinVideoBps is the lowest video bitrate ever handed to the encoder.
	MinVideoBps int64 = 100_000
)

// ErrInvalidDuration is returned when the duration cannot be divided by.
var ErrInvalidDuration = errors.New("duration must be a positive number of seconds")

// TargetBytes converts a size in megabytes (1 MB = 1024*1024 bytes) to bytes.
func TargetBytes(sizeMB int) int64 {
	return int64(sizeMB) * 1024 * 1024
}

// VideoBps calculates the video bitrate (bits/s) that makes
// (video + audio) * duration / 8 land on targetBytes.
// Results below MinVideoBps are raised to MinVideoBps and results beyond the
// int64 range saturate at math.MaxInt64.
func VideoBps(durationSec float64, targetBytes, audioBps int64) (int64, error) {
	if durationSec <= 0 || math.IsNaN(durationSec) || math.IsInf(durationSec, 0) {
		return 0, ErrInvalidDuration
	}
	totalBps := float64(targetBytes*8) / durationSec
	videoBps := totalBps - float64(audioBps)
	if videoBps < float64(MinVideoBps) {
		return MinVideoBps, nil
	}
	return saturate(videoBps), nil
}

// FormatKbps renders bps the way ffmpeg expects it, e.g. 8260608 -> "8260k".
func FormatKbps(bps int64) string {
	return strconv.FormatInt(bps/1000, 10) + "k"
}

// EstimatedBytes returns the size a stream pair of the given bitrates
// produces over durationSec, ignoring container overhead.
func EstimatedBytes(durationSec float64, videoBps, audioBps int64) int64 {
	if durationSec <= 0 {
		return 0
	}
	return saturate((float64(videoBps) + float64(audioBps)) * durationSec / 8)
}

// saturate truncates f toward zero, clamped to [0, math.MaxInt64].
func saturate(f float64) int64 {
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= math.MaxInt64: // 2^63 after conversion; int64(f) is undefined there
		return math.MaxInt64
	}
	return int64(f)
}
