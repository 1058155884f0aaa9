package gst

import "strings"

// debugLevels maps GStreamer debug log tokens (the category column of
// GST_DEBUG output) to slog-style levels.
var debugLevels = map[string]string{
	"ERROR": "error",
	"WARN":  "warning",
	"FIXME": "warning",
	"INFO":  "info",
	"DEBUG": "debug",
	"LOG":   "debug",
	"TRACE": "trace",
}

// ParseLogLevel extracts the log level from gst-launch output.
// gst-launch prints human messages like "ERROR: from element ..." and,
// with GST_DEBUG set, timestamped rows whose fifth column is the level.
// Returns the level and the message with the level token stripped.
func ParseLogLevel(line string) (level, msg string) {
	switch {
	case strings.HasPrefix(line, "ERROR: "):
		return "error", strings.TrimPrefix(line, "ERROR: ")
	case strings.HasPrefix(line, "WARNING: "):
		return "warning", strings.TrimPrefix(line, "WARNING: ")
	}

	// Debug rows: "0:00:00.123456789 1234 0x5678 WARN category file:line ..."
	if len(line) > 2 && line[0] == '0' && line[1] == ':' {
		fields := strings.Fields(line)
		if len(fields) >= 4 {
			if lvl, ok := debugLevels[fields[3]]; ok {
				return lvl, line
			}
		}
	}

	return "info", line
}
