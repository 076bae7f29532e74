package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	var out, errOut bytes.Buffer
	l := New(&out, &errOut, false)

	l.Printf("Target size: %d MB", 100)
	l.Info("probing %s", "in.mp4")
	l.Warn("output is %d%% over target", 12)
	l.Error("boom")
	l.Debug("hidden")

	so := out.String()
	if !strings.Contains(so, "Target size: 100 MB\n") {
		t.Errorf("stdout missing plain line: %q", so)
	}
	if !strings.Contains(so, "info:") || !strings.Contains(so, "probing in.mp4") {
		t.Errorf("stdout missing info line: %q", so)
	}
	se := errOut.String()
	if !strings.Contains(se, "warning:") || !strings.Contains(se, "output is 12% over target") {
		t.Errorf("stderr missing warning: %q", se)
	}
	if !strings.Contains(se, "error:") || !strings.Contains(se, "boom") {
		t.Errorf("stderr missing error: %q", se)
	}
	if strings.Contains(se+so, "hidden") {
		t.Error("debug line printed without verbose")
	}
}

func TestLogger_Verbose(t *testing.T) {
	var out, errOut bytes.Buffer
	l := New(&out, &errOut, true)
	if !l.Verbose() {
		t.Fatal("Verbose() = false")
	}
	l.Debug("ffprobe at %s", "/usr/bin/ffprobe")
	if !strings.Contains(errOut.String(), "ffprobe at /usr/bin/ffprobe") {
		t.Errorf("debug line missing: %q", errOut.String())
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Info("nothing")
	l.Error("nothing")
}
