package display

import (
	"errors"
	"testing"

	"github.com/srtcast/srtcast/internal/geometry"
)

const dualMonitorOutput = `Monitors: 2
 0: +*eDP-1 1920/344x1080/194+0+0  eDP-1
 1: +HDMI-1 2560/598x1440/336+1920+0  HDMI-1
`

func TestParseMonitors(t *testing.T) {
	displays, err := ParseMonitors(dualMonitorOutput)
	if err != nil {
		t.Fatalf("ParseMonitors failed: %v", err)
	}

	if len(displays) != 2 {
		t.Fatalf("got %d displays, want 2", len(displays))
	}

	want0 := Geometry{
		Index:   0,
		Output:  "eDP-1",
		Primary: true,
		Rect:    geometry.Rect{Width: 1920, Height: 1080, X: 0, Y: 0},
	}
	if displays[0] != want0 {
		t.Errorf("display 0 = %+v, want %+v", displays[0], want0)
	}

	want1 := Geometry{
		Index:   1,
		Output:  "HDMI-1",
		Primary: false,
		Rect:    geometry.Rect{Width: 2560, Height: 1440, X: 1920, Y: 0},
	}
	if displays[1] != want1 {
		t.Errorf("display 1 = %+v, want %+v", displays[1], want1)
	}
}

func TestParseMonitorsSingle(t *testing.T) {
	out := "Monitors: 1\n 0: +*DP-2 3840/600x2160/340+0+0  DP-2\n"

	displays, err := ParseMonitors(out)
	if err != nil {
		t.Fatalf("ParseMonitors failed: %v", err)
	}
	if len(displays) != 1 {
		t.Fatalf("got %d displays, want 1", len(displays))
	}
	if !displays[0].Primary {
		t.Error("expected primary display")
	}
	if displays[0].Rect.String() != "3840x2160+0,0" {
		t.Errorf("rect = %s, want 3840x2160+0,0", displays[0].Rect.String())
	}
}

func TestParseMonitorsNegativeOffset(t *testing.T) {
	// A monitor positioned left of the primary has a negative X offset.
	out := "Monitors: 2\n 0: +*eDP-1 1920/344x1080/194+0+0  eDP-1\n 1: +DP-1 1920/509x1080/286+-1920+0  DP-1\n"

	displays, err := ParseMonitors(out)
	if err != nil {
		t.Fatalf("ParseMonitors failed: %v", err)
	}
	if len(displays) != 2 {
		t.Fatalf("got %d displays, want 2", len(displays))
	}
	if displays[1].Rect.X != -1920 {
		t.Errorf("display 1 X = %d, want -1920", displays[1].Rect.X)
	}
}

func TestParseMonitorsEmpty(t *testing.T) {
	_, err := ParseMonitors("Monitors: 0\n")
	if err == nil {
		t.Fatal("expected error for empty monitor list")
	}

	var queryErr *QueryError
	if !errors.As(err, &queryErr) {
		t.Errorf("error type = %T, want *QueryError", err)
	}
}

func TestAllScreens(t *testing.T) {
	displays, err := ParseMonitors(dualMonitorOutput)
	if err != nil {
		t.Fatalf("ParseMonitors failed: %v", err)
	}

	all := AllScreens(displays)
	want := geometry.Rect{Width: 4480, Height: 1440, X: 0, Y: 0}
	if all != want {
		t.Errorf("AllScreens = %+v, want %+v", all, want)
	}
}

func TestAllScreensEmpty(t *testing.T) {
	if got := AllScreens(nil); got != (geometry.Rect{}) {
		t.Errorf("AllScreens(nil) = %+v, want zero rect", got)
	}
}
