package gst

import (
	"strings"
	"testing"
)

func TestShellQuote(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty string",
			input: "",
			want:  "''",
		},
		{
			name:  "plain word",
			input: "queue",
			want:  "'queue'",
		},
		{
			name:  "spaces and shell metacharacters",
			input: "a b; rm -rf $HOME",
			want:  "'a b; rm -rf $HOME'",
		},
		{
			name:  "embedded single quote",
			input: "it's",
			want:  `'it'\''s'`,
		},
		{
			name:  "pipeline string",
			input: "gst-launch-1.0 srtsrc uri=srt://:5000 ! queue",
			want:  "'gst-launch-1.0 srtsrc uri=srt://:5000 ! queue'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShellQuote(tt.input); got != tt.want {
				t.Errorf("ShellQuote(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestNixShellCommand(t *testing.T) {
	cmd := NixShellCommand("gst-launch-1.0 videotestsrc ! autovideosink")

	if !strings.HasPrefix(cmd, "NIX_PATH=nixpkgs=https://github.com/nh2/nixpkgs/archive/") {
		t.Errorf("missing pinned NIX_PATH prefix: %s", cmd)
	}

	for _, pkg := range gstPackages {
		if !strings.Contains(cmd, "-p "+pkg) {
			t.Errorf("missing plugin package %s: %s", pkg, cmd)
		}
	}

	want := "--run 'gst-launch-1.0 videotestsrc ! autovideosink'"
	if !strings.HasSuffix(cmd, want) {
		t.Errorf("command must end with quoted --run argument %q: %s", want, cmd)
	}
}

func TestNixShellCommandQuotesInnerQuotes(t *testing.T) {
	// Pipelines can carry quoted caps; the wrapper must keep the whole
	// invocation one shell word.
	cmd := NixShellCommand(`gst-launch-1.0 textoverlay text='hi'`)

	if !strings.Contains(cmd, `--run 'gst-launch-1.0 textoverlay text='\''hi'\'''`) {
		t.Errorf("inner quotes not escaped: %s", cmd)
	}
}
