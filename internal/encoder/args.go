package encoder

import (
	"vidfit/internal/util/bitrate"
)

// Params are the per-encode inputs to ffmpeg.
type Params struct {
	InputPath  string
	OutputPath string
	VideoBps   int64
	AudioBps   int64 // 0 means bitrate.AudioBps
}

// BuildArgs constructs ffmpeg arguments for a bitrate-targeted H.264/AAC
// encode. The output is overwritten and is always the last argument.
func BuildArgs(p Params, includeProgress bool) []string {
	audio := p.AudioBps
	if audio <= 0 {
		audio = bitrate.AudioBps
	}
	args := []string{
		"-y",
		"-i", p.InputPath,
		"-c:v", "libx264",
		"-b:v", bitrate.FormatKbps(p.VideoBps),
		"-c:a", "aac",
		"-b:a", bitrate.FormatKbps(audio),
	}
	if includeProgress {
		args = append(args, "-progress", "pipe:1", "-nostats")
	}
	return append(args, p.OutputPath)
}
