package gst

import "testing"

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantLevel string
		wantMsg   string
	}{
		{
			name:      "error message",
			line:      "ERROR: from element /GstPipeline:pipeline0/GstSRTSink:srtsink0: Failed to connect",
			wantLevel: "error",
			wantMsg:   "from element /GstPipeline:pipeline0/GstSRTSink:srtsink0: Failed to connect",
		},
		{
			name:      "warning message",
			line:      "WARNING: erroneous pipeline: no element \"srtsink\"",
			wantLevel: "warning",
			wantMsg:   "erroneous pipeline: no element \"srtsink\"",
		},
		{
			name:      "progress message",
			line:      "Setting pipeline to PLAYING ...",
			wantLevel: "info",
			wantMsg:   "Setting pipeline to PLAYING ...",
		},
		{
			name:      "debug row warn",
			line:      "0:00:00.063989373  1234 0x55f0 WARN  basesrc gstbasesrc.c:3600:gst_base_src_start_complete: pad not activated yet",
			wantLevel: "warning",
			wantMsg:   "0:00:00.063989373  1234 0x55f0 WARN  basesrc gstbasesrc.c:3600:gst_base_src_start_complete: pad not activated yet",
		},
		{
			name:      "debug row trace",
			line:      "0:00:01.000000000  1234 0x55f0 TRACE GST_REFCOUNTING gstobject.c:200: ref 0x7f",
			wantLevel: "trace",
		},
		{
			name:      "empty line",
			line:      "",
			wantLevel: "info",
			wantMsg:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, msg := ParseLogLevel(tt.line)
			if level != tt.wantLevel {
				t.Errorf("level = %q, want %q", level, tt.wantLevel)
			}
			if tt.wantMsg != "" && msg != tt.wantMsg {
				t.Errorf("msg = %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}
