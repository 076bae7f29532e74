package model

import (
	"errors"
	"fmt"
	"strings"
)

// TargetSize is an output size target in megabytes.
type TargetSize int

const (
	Size50MB  TargetSize = 50
	Size100MB TargetSize = 100

	DefaultSize = Size100MB
)

// AllowedSizes lists the accepted --size values in ascending order.
var AllowedSizes = []TargetSize{Size50MB, Size100MB}

// ErrInvalidSize reports a size outside AllowedSizes.
var ErrInvalidSize = errors.New("invalid target size")

// ParseTargetSize validates a megabyte value against AllowedSizes.
func ParseTargetSize(mb int) (TargetSize, error) {
	for _, s := range AllowedSizes {
		if int(s) == mb {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %d MB (valid: %s)", ErrInvalidSize, mb, allowedList())
}

// MB returns the size as a plain megabyte count.
func (s TargetSize) MB() int { return int(s) }

func (s TargetSize) String() string { return fmt.Sprintf("%d MB", int(s)) }

func allowedList() string {
	parts := make([]string, 0, len(AllowedSizes))
	for _, s := range AllowedSizes {
		parts = append(parts, fmt.Sprintf("%d", int(s)))
	}
	return strings.Join(parts, "|")
}

// EncodingRequest is the validated user input for a single shrink.
type EncodingRequest struct {
	InputPath  string
	OutputPath string
	TargetSize TargetSize
}

// NewEncodingRequest validates paths and size and returns an EncodingRequest.
func NewEncodingRequest(input, output string, sizeMB int) (EncodingRequest, error) {
	input = strings.TrimSpace(input)
	output = strings.TrimSpace(output)
	if input == "" {
		return EncodingRequest{}, errors.New("input path is required")
	}
	if output == "" {
		return EncodingRequest{}, errors.New("output path is required")
	}
	size, err := ParseTargetSize(sizeMB)
	if err != nil {
		return EncodingRequest{}, err
	}
	return EncodingRequest{InputPath: input, OutputPath: output, TargetSize: size}, nil
}

// BitrateParameters are the inputs of the video bitrate calculation.
type BitrateParameters struct {
	DurationSec float64 // > 0, from the duration probe
	TargetBytes int64   // TargetSize * 1024 * 1024
	AudioBps    int64   // fixed audio bitrate
}

// OutputVideo captures encoding results.
type OutputVideo struct {
	OutputPath string
	Bytes      int64
	VideoBps   int64
}
