package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"vidfit/internal/encoder"
	"vidfit/internal/model"
	"vidfit/internal/probe"
	"vidfit/internal/util/deps"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{"VIDFIT_SIZE", "VIDFIT_VERBOSE", "VIDFIT_FFMPEG", "VIDFIT_FFPROBE", "VIDFIT_NO_UI"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

// writeScript creates an executable shell script standing in for ffprobe or ffmpeg.
func writeScript(t *testing.T, name, body string) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return p
}

const (
	probe60s   = "echo 60.000000\n"
	ffmpegOK   = "for a in \"$@\"; do out=\"$a\"; done\nprintf 'encoded' > \"$out\"\n"
	ffmpegFail = "echo 'Conversion failed!' >&2\nexit 1\n"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ExitCLIError
}

func TestExitFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "probe", err: &probe.Error{Input: "a.mp4", Err: errors.New("boom")}, want: ExitProbeError},
		{name: "encode", err: &encoder.Error{Output: "b.mp4", Err: errors.New("boom")}, want: ExitEncodeError},
		{name: "missing dep", err: fmt.Errorf("%w: ffmpeg", deps.ErrNotFound), want: ExitMissingDep},
		{name: "invalid size", err: fmt.Errorf("%w: 75", model.ErrInvalidSize), want: ExitCLIError},
		{name: "other", err: errors.New("boom"), want: ExitCLIError},
		{name: "already mapped", err: &ExitError{Code: ExitEncodeError, Err: errors.New("x")}, want: ExitEncodeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exitFor(tt.err)
			if got.Code != tt.want {
				t.Errorf("exitFor() code = %d, want %d", got.Code, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Error("exitFor() should wrap the original error")
			}
		})
	}
}

func TestRun_ArgumentErrors(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
	}{
		{name: "invalid size", args: []string{"--size", "75", "--ffprobe", "/nonexistent/ffprobe", "in.mp4", "out.mp4"}},
		{name: "missing output", args: []string{"in.mp4"}},
		{name: "too many args", args: []string{"a", "b", "c"}},
		{name: "blank input", args: []string{"  ", "out.mp4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			if code := exitCode(err); code != ExitCLIError {
				t.Errorf("exit code = %d (%v), want %d", code, err, ExitCLIError)
			}
		})
	}
}

func TestRun_InvalidSizeMessage(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, "-s", "75", "in.mp4", "out.mp4")
	if !errors.Is(err, model.ErrInvalidSize) {
		t.Fatalf("error = %v, want ErrInvalidSize", err)
	}
	if !strings.Contains(err.Error(), "50|100") {
		t.Errorf("error %q should list the allowed sizes", err.Error())
	}
}

func TestRun_MissingDependency(t *testing.T) {
	isolate(t)
	probeBin := writeScript(t, "ffprobe", probe60s)
	tests := []struct {
		name string
		args []string
	}{
		{name: "ffprobe", args: []string{"--ffprobe", "/nonexistent/ffprobe", "in.mp4", "out.mp4"}},
		{name: "ffmpeg", args: []string{"--ffprobe", probeBin, "--ffmpeg", "/nonexistent/ffmpeg", "in.mp4", "out.mp4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			if code := exitCode(err); code != ExitMissingDep {
				t.Errorf("exit code = %d (%v), want %d", code, err, ExitMissingDep)
			}
		})
	}
}

func TestRun_Success(t *testing.T) {
	isolate(t)
	probeBin := writeScript(t, "ffprobe", probe60s)
	ffmpegBin := writeScript(t, "ffmpeg", ffmpegOK)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.mp4")
	out := filepath.Join(dir, "out.mp4")

	stdout, _, err := execute(t, "--ffprobe", probeBin, "--ffmpeg", ffmpegBin, "--no-ui", "--size", "50", in, out)
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	for _, want := range []string{
		"Video duration: 60.00 seconds",
		"Target size: 50 MB",
		"Using video bitrate: 6862k (6862506 bps)",
		"Saved: " + out + " (7 B)",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
	if b, err := os.ReadFile(out); err != nil || string(b) != "encoded" {
		t.Errorf("output file = %q, %v", b, err)
	}
}

func TestRun_ProbeFailure(t *testing.T) {
	isolate(t)
	probeBin := writeScript(t, "ffprobe", "echo 'in.mp4: Invalid data found' >&2\nexit 1\n")
	ffmpegBin := writeScript(t, "ffmpeg", ffmpegOK)
	out := filepath.Join(t.TempDir(), "out.mp4")

	_, _, err := execute(t, "--ffprobe", probeBin, "--ffmpeg", ffmpegBin, "--no-ui", "in.mp4", out)
	if code := exitCode(err); code != ExitProbeError {
		t.Fatalf("exit code = %d (%v), want %d", code, err, ExitProbeError)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("ffmpeg must not run when probing fails")
	}
}

func TestRun_EncodeFailure(t *testing.T) {
	isolate(t)
	probeBin := writeScript(t, "ffprobe", probe60s)
	ffmpegBin := writeScript(t, "ffmpeg", ffmpegFail)

	_, _, err := execute(t, "--ffprobe", probeBin, "--ffmpeg", ffmpegBin, "--no-ui", "in.mp4", filepath.Join(t.TempDir(), "out.mp4"))
	if code := exitCode(err); code != ExitEncodeError {
		t.Fatalf("exit code = %d (%v), want %d", code, err, ExitEncodeError)
	}
	if !strings.Contains(err.Error(), "Conversion failed!") {
		t.Errorf("error %q should carry the ffmpeg stderr excerpt", err.Error())
	}
}

func TestRun_EnvSelectsSize(t *testing.T) {
	isolate(t)
	t.Setenv("VIDFIT_SIZE", "50")
	t.Setenv("VIDFIT_FFPROBE", writeScript(t, "ffprobe", probe60s))

	stdout, _, err := execute(t, "plan", "in.mp4", "out.mp4")
	if err != nil {
		t.Fatalf("plan error = %v", err)
	}
	if !strings.Contains(stdout, "6862k") || !strings.Contains(stdout, "50 MB") {
		t.Errorf("plan should use the env size:\n%s", stdout)
	}
}

func TestPlan(t *testing.T) {
	isolate(t)
	probeBin := writeScript(t, "ffprobe", probe60s)
	out := filepath.Join(t.TempDir(), "out.mp4")

	stdout, _, err := execute(t, "plan", "--ffprobe", probeBin, mediaPath("clip.mp4"), out)
	if err != nil {
		t.Fatalf("plan error = %v", err)
	}
	for _, want := range []string{"100 MB", "13853k", "13853013 bps", "0:01:00.000", "-b:v 13853k", "-b:a 128k"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("plan output missing %q:\n%s", want, stdout)
		}
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("plan must not write the output")
	}
}

func TestPlan_NeedsOnlyFFprobe(t *testing.T) {
	isolate(t)
	probeBin := writeScript(t, "ffprobe", probe60s)
	_, _, err := execute(t, "plan", "--ffprobe", probeBin, "--ffmpeg", "/nonexistent/ffmpeg", "in.mp4", "out.mp4")
	if err != nil {
		t.Errorf("plan error = %v, want success without ffmpeg", err)
	}
}

func TestDoctor(t *testing.T) {
	isolate(t)
	probeBin := writeScript(t, "ffprobe", probe60s)
	ffmpegBin := writeScript(t, "ffmpeg", ffmpegOK)

	stdout, _, err := execute(t, "doctor", "--ffprobe", probeBin, "--ffmpeg", ffmpegBin)
	if err != nil {
		t.Fatalf("doctor error = %v", err)
	}
	if strings.Contains(stdout, "missing") || !strings.Contains(stdout, probeBin) {
		t.Errorf("doctor output:\n%s", stdout)
	}

	stdout, _, err = execute(t, "doctor", "--ffprobe", probeBin, "--ffmpeg", "/nonexistent/ffmpeg")
	if code := exitCode(err); code != ExitMissingDep {
		t.Errorf("exit code = %d, want %d", code, ExitMissingDep)
	}
	if !strings.Contains(stdout, "missing") {
		t.Errorf("doctor should flag ffmpeg as missing:\n%s", stdout)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	isolate(t)
	stdout, _, err := execute(t, "config", "init")
	if err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if !strings.Contains(stdout, "config.yaml") {
		t.Errorf("config init output = %q", stdout)
	}
	if _, _, err := execute(t, "config", "init"); err == nil {
		t.Error("second config init should refuse to overwrite")
	}

	stdout, _, err = execute(t, "config", "show", "--size", "50")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	for _, want := range []string{"50", "config.yaml", "(search PATH)"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("config show missing %q:\n%s", want, stdout)
		}
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)
	stdout, _, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion error = %v", err)
	}
	if !strings.Contains(stdout, "vidfit") {
		t.Error("bash completion should mention vidfit")
	}
	if _, _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}

func mediaPath(name string) string { return filepath.Join("media", name) }

func TestPlan_TinyDurationKeepsBitratePositive(t *testing.T) {
	isolate(t)
	probeBin := writeScript(t, "ffprobe", "echo 0.00000000001\n")

	stdout, _, err := execute(t, "plan", "--ffprobe", probeBin, "in.mp4", "out.mp4")
	if err != nil {
		t.Fatalf("plan error = %v", err)
	}
	if !strings.Contains(stdout, "-b:v 9223372036854775k") {
		t.Errorf("bitrate should saturate at the int64 maximum:\n%s", stdout)
	}
	if strings.Contains(stdout, "-b:v -") || strings.Contains(stdout, "(-") {
		t.Errorf("plan shows a negative value:\n%s", stdout)
	}
}

func TestSkipSettings_MalformedConfig(t *testing.T) {
	isolate(t)
	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "vidfit")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("size: [unterminated\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := execute(t, "config", "show"); exitCode(err) != ExitCLIError {
		t.Errorf("config show exit = %d (%v), want %d", exitCode(err), err, ExitCLIError)
	}
	if _, _, err := execute(t, "completion", "zsh"); err != nil {
		t.Errorf("completion error = %v, want success despite a broken config", err)
	}
	if _, _, err := execute(t, "config", "init", "--overwrite"); err != nil {
		t.Errorf("config init error = %v, want success despite a broken config", err)
	}
}
