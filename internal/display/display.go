// Package display queries the host windowing system for attached
// displays and their geometries.
package display

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/srtcast/srtcast/internal/geometry"
	"github.com/srtcast/srtcast/internal/logging"
)

const queryTimeout = 5 * time.Second

// Geometry describes one attached display.
type Geometry struct {
	Index   int           `json:"index"`
	Output  string        `json:"output"`
	Primary bool          `json:"primary"`
	Rect    geometry.Rect `json:"rect"`
}

// QueryError reports that the display subsystem could not be queried,
// e.g. on a headless host. Fatal for screenshare modes, irrelevant for
// view-only sessions.
type QueryError struct {
	Reason string
	Cause  error
}

func (e *QueryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("display query failed: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("display query failed: %s", e.Reason)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

// monitorLine matches xrandr --listmonitors entries such as
// " 0: +*eDP-1 1920/344x1080/194+0+0  eDP-1".
// Offsets may be negative for displays left of or above the primary.
var monitorLine = regexp.MustCompile(`^\s*(\d+):\s+(\+?\*?)(\S+)\s+(\d+)/\d+x(\d+)/\d+\+(-?\d+)\+(-?\d+)\s+(\S+)`)

// Enumerate queries the attached displays via xrandr.
// It returns a *QueryError when no display subsystem is reachable.
func Enumerate(ctx context.Context) ([]Geometry, error) {
	logger := logging.GetLogger("display")

	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return nil, &QueryError{Reason: "no DISPLAY or WAYLAND_DISPLAY in environment"}
	}

	xrandr, err := exec.LookPath("xrandr")
	if err != nil {
		return nil, &QueryError{Reason: "xrandr not found in PATH", Cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, xrandr, "--listmonitors").Output()
	if err != nil {
		return nil, &QueryError{Reason: "xrandr --listmonitors failed", Cause: err}
	}

	displays, err := ParseMonitors(string(out))
	if err != nil {
		return nil, err
	}

	logger.Debug("Enumerated displays", "count", len(displays))
	return displays, nil
}

// ParseMonitors parses xrandr --listmonitors output. Exposed separately
// so parsing stays testable without an X server.
func ParseMonitors(out string) ([]Geometry, error) {
	var displays []Geometry

	for _, line := range strings.Split(out, "\n") {
		m := monitorLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		index, _ := strconv.Atoi(m[1])
		width, _ := strconv.Atoi(m[4])
		height, _ := strconv.Atoi(m[5])
		x, _ := strconv.Atoi(m[6])
		y, _ := strconv.Atoi(m[7])

		displays = append(displays, Geometry{
			Index:   index,
			Output:  m[8],
			Primary: strings.Contains(m[2], "*"),
			Rect:    geometry.Rect{Width: width, Height: height, X: x, Y: y},
		})
	}

	if len(displays) == 0 {
		return nil, &QueryError{Reason: "no monitors in xrandr output"}
	}

	return displays, nil
}

// AllScreens returns the bounding rectangle covering every display.
func AllScreens(displays []Geometry) geometry.Rect {
	if len(displays) == 0 {
		return geometry.Rect{}
	}

	all := displays[0].Rect
	for _, d := range displays[1:] {
		all = all.Union(d.Rect)
	}
	return all
}
