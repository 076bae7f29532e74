package deps

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ErrNotFound is wrapped by every lookup failure.
var ErrNotFound = errors.New("dependency not found")

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Find resolves a binary. A non-empty customPath is tried as a file first and
// then looked up in PATH; otherwise name is looked up in PATH.
func Find(name, customPath string) (string, error) {
	if customPath != "" {
		if fi, err := os.Stat(customPath); err == nil && !fi.IsDir() {
			return customPath, nil
		}
		if p, err := lookPath(customPath); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("%w: could not find %s at %q", ErrNotFound, name, customPath)
	}
	if p, err := lookPath(name); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("%w: could not find %s in PATH. Please install ffmpeg", ErrNotFound, name)
}

// FindFFmpeg returns the path to the ffmpeg binary.
func FindFFmpeg(customPath string) (string, error) {
	return Find("ffmpeg", customPath)
}

// FindFFprobe returns the path to the ffprobe binary.
func FindFFprobe(customPath string) (string, error) {
	return Find("ffprobe", customPath)
}

// Status reports the availability of one external tool.
type Status struct {
	Name      string
	Path      string
	Available bool
	Detail    string
}

// Check resolves ffprobe and ffmpeg and reports both, in that order.
func Check(ffprobePath, ffmpegPath string) []Status {
	out := make([]Status, 0, 2)
	for _, req := range []struct{ name, custom string }{
		{"ffprobe", ffprobePath},
		{"ffmpeg", ffmpegPath},
	} {
		st := Status{Name: req.name}
		p, err := Find(req.name, req.custom)
		if err != nil {
			st.Detail = err.Error()
		} else {
			st.Path = p
			st.Available = true
		}
		out = append(out, st)
	}
	return out
}
