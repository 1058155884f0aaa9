package session

import (
	"testing"

	"github.com/srtcast/srtcast/internal/display"
	"github.com/srtcast/srtcast/internal/geometry"
)

func schemaByKey(opts []Option) map[string]Option {
	m := make(map[string]Option, len(opts))
	for _, o := range opts {
		m[o.Key] = o
	}
	return m
}

func TestSchemaPerScreenOptions(t *testing.T) {
	displays := []display.Geometry{
		{Index: 0, Rect: geometry.Rect{Width: 1920, Height: 1080}},
		{Index: 1, Rect: geometry.Rect{Width: 2560, Height: 1440, X: 1920}},
	}

	opts := schemaByKey(Schema(displays, BuiltinDefaults()))

	s0, ok := opts["screenshare-screen-0"]
	if !ok {
		t.Fatal("missing screenshare-screen-0")
	}
	if s0.Help != "1920x1080+0,0" {
		t.Errorf("screen 0 help = %q, want geometry string", s0.Help)
	}
	if s0.ExclusiveGroup != GroupMode {
		t.Errorf("screen 0 group = %q, want mode", s0.ExclusiveGroup)
	}

	all, ok := opts[OptShareAll]
	if !ok {
		t.Fatal("missing screenshare-all")
	}
	if all.Help != "4480x1440+0,0" {
		t.Errorf("all-screens help = %q, want bounding geometry", all.Help)
	}
}

func TestSchemaHeadless(t *testing.T) {
	opts := schemaByKey(Schema(nil, BuiltinDefaults()))

	if _, ok := opts["screenshare-screen-0"]; ok {
		t.Error("headless schema must not offer per-screen options")
	}
	if _, ok := opts[OptShareAll]; ok {
		t.Error("headless schema must not offer screenshare-all")
	}
	// The custom rectangle stays available; it fails later at display
	// capture, not at option definition.
	if _, ok := opts[OptShareRect]; !ok {
		t.Error("custom rectangle option missing")
	}
}

func TestSchemaDefaults(t *testing.T) {
	opts := schemaByKey(Schema(nil, BuiltinDefaults()))

	for key, want := range map[string]string{
		OptBitrate: "2048",
		OptLatency: "1000",
		OptFPS:     "30",
		OptFEC:     "false",
	} {
		if got := opts[key].Default; got != want {
			t.Errorf("%s default = %q, want %q", key, got, want)
		}
	}
}

func TestSchemaRectangleValidator(t *testing.T) {
	opts := schemaByKey(Schema(nil, BuiltinDefaults()))

	rect := opts[OptShareRect]
	if rect.Validate == nil {
		t.Fatal("rectangle option must carry a validator")
	}
	if err := rect.Validate("1920x1080+0,0"); err != nil {
		t.Errorf("valid rectangle rejected: %v", err)
	}
	if err := rect.Validate("nope"); err == nil {
		t.Error("invalid rectangle accepted")
	}
	if rect.Pattern == "" {
		t.Error("rectangle option must expose its pattern for form renderers")
	}
}

func TestSchemaGroups(t *testing.T) {
	displays := []display.Geometry{{Index: 0, Rect: geometry.Rect{Width: 1920, Height: 1080}}}

	connection, mode := 0, 0
	for _, o := range Schema(displays, BuiltinDefaults()) {
		switch o.ExclusiveGroup {
		case GroupConnection:
			connection++
		case GroupMode:
			mode++
		}
	}

	if connection != 2 {
		t.Errorf("connection group has %d options, want 2", connection)
	}
	// view + screen-0 + all + rectangle
	if mode != 4 {
		t.Errorf("mode group has %d options, want 4", mode)
	}
}
