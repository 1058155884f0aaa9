// Package process provides subprocess lifecycle management.
//
// Process wraps os/exec for single subprocess management:
//   - Graceful shutdown with SIGINT and configurable timeout
//   - Force kill with SIGKILL if graceful shutdown times out
//   - Output streaming with pluggable log parsing
//   - Restart support for configuration changes
//   - Leading KEY=value tokens in the command become child environment,
//     so pinned nix-shell invocations run without an intermediate shell
//
// Example usage:
//
//	p := process.NewProcess("session", command, logging.GetLogger("process"))
//	p.SetLogParser(logging.GetLogger("gst"), gst.ParseLogLevel)
//	exitCode := p.RunWithRestart()
package process
