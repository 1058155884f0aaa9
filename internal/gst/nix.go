package gst

import "strings"

// nixpkgsSnapshot pins the toolset so both peers run identical
// GStreamer builds regardless of the host distribution.
const nixpkgsSnapshot = "https://github.com/nh2/nixpkgs/archive/6dc03726f61868c0b8020e9ca98ac71972528d8f.tar.gz"

// gstPackages is the fixed plugin set the pipeline stages depend on.
var gstPackages = []string{
	"gst_all_1.gstreamer",
	"gst_all_1.gst-plugins-good",
	"gst_all_1.gst-plugins-base",
	"gst_all_1.gst-plugins-bad",
	"gst_all_1.gst-plugins-ugly",
	"gst_all_1.gst-libav",
}

// ShellQuote quotes s so a POSIX shell treats it as a single word.
// Everything goes inside single quotes; embedded single quotes are
// closed, escaped and reopened.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// NixShellCommand wraps a gst-launch invocation in the pinned nix-shell
// launcher. The inner invocation is shell-quoted as the single argument
// to --run.
func NixShellCommand(inner string) string {
	parts := []string{
		"NIX_PATH=nixpkgs=" + nixpkgsSnapshot,
		"nix-shell",
	}
	for _, pkg := range gstPackages {
		parts = append(parts, "-p "+pkg)
	}
	parts = append(parts, "--run "+ShellQuote(inner))

	return strings.Join(parts, " ")
}
