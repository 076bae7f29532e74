package encoder

import (
	"strings"
	"testing"
)

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name            string
		p               Params
		includeProgress bool
		want            string
		wantContains    []string
		wantNotContains []string
	}{
		{
			name: "default audio bitrate",
			p: Params{
				InputPath:  "/tmp/input.mp4",
				OutputPath: "/tmp/output.mp4",
				VideoBps:   8_260_608,
			},
			want: "-y -i /tmp/input.mp4 -c:v libx264 -b:v 8260k -c:a aac -b:a 128k /tmp/output.mp4",
		},
		{
			name: "floor bitrate",
			p: Params{
				InputPath:  "in.mov",
				OutputPath: "out.mp4",
				VideoBps:   100_000,
				AudioBps:   128_000,
			},
			wantContains:    []string{"-b:v 100k", "-b:a 128k"},
			wantNotContains: []string{"-progress"},
		},
		{
			name: "with progress",
			p: Params{
				InputPath:  "in.mp4",
				OutputPath: "out.mp4",
				VideoBps:   2_000_000,
			},
			includeProgress: true,
			wantContains:    []string{"-b:v 2000k", "-progress pipe:1 -nostats"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := BuildArgs(tt.p, tt.includeProgress)
			argsStr := strings.Join(args, " ")

			if tt.want != "" && argsStr != tt.want {
				t.Errorf("BuildArgs() = %q, want %q", argsStr, tt.want)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(argsStr, want) {
					t.Errorf("BuildArgs() args missing %q, got: %v", want, args)
				}
			}
			for _, notWant := range tt.wantNotContains {
				if strings.Contains(argsStr, notWant) {
					t.Errorf("BuildArgs() args should not contain %q, got: %v", notWant, args)
				}
			}
			if args[0] != "-y" {
				t.Errorf("BuildArgs() first arg = %v, want -y", args[0])
			}
			if args[len(args)-1] != tt.p.OutputPath {
				t.Errorf("BuildArgs() last arg = %v, want %v", args[len(args)-1], tt.p.OutputPath)
			}
		})
	}
}
