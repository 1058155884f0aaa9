package gst

import (
	"github.com/srtcast/srtcast/internal/geometry"
	"github.com/srtcast/srtcast/internal/session"
)

// Params represents all parameters needed to generate a gst-launch
// pipeline. Strongly typed fields instead of a string map.
type Params struct {
	// View selects the receive pipeline; otherwise the capture
	// pipeline is built from Rect.
	View bool

	// URI is the SRT endpoint, bind-style or connect-style.
	URI string

	// Capture region, used only when View is false.
	Rect geometry.Rect

	// Encoder configuration.
	Bitrate int // KBit/s
	FPS     int

	// Transport configuration.
	LatencyMs  int
	FEC        bool
	Passphrase string
}

// FromConfig maps a resolved session configuration onto pipeline
// parameters.
func FromConfig(cfg *session.Config) *Params {
	return &Params{
		View:       cfg.Mode == session.ModeView,
		URI:        cfg.URI,
		Rect:       cfg.Rect,
		Bitrate:    cfg.Bitrate,
		FPS:        cfg.FPS,
		LatencyMs:  cfg.LatencyMs,
		FEC:        cfg.FEC,
		Passphrase: cfg.Passphrase,
	}
}
