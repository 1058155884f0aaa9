package session

import (
	"fmt"

	"github.com/srtcast/srtcast/internal/display"
	"github.com/srtcast/srtcast/internal/geometry"
)

// OptionKind describes how a renderer should present an option.
type OptionKind string

// Option kinds.
const (
	KindString   OptionKind = "string"
	KindInt      OptionKind = "int"
	KindBool     OptionKind = "bool"
	KindPassword OptionKind = "password"
)

// ExclusiveGroup names a set of mutually exclusive options. Exactly one
// option from each required group must be selected.
type ExclusiveGroup string

// Exclusive groups.
const (
	GroupConnection ExclusiveGroup = "connection"
	GroupMode       ExclusiveGroup = "mode"
)

// Option keys for the fixed part of the schema.
const (
	OptListenPort = "listen-port"
	OptCall       = "call"
	OptView       = "view"
	OptShareAll   = "screenshare-all"
	OptShareRect  = "screenshare-rectangle"
	OptBitrate    = "bitrate"
	OptFEC        = "fec"
	OptLatency    = "latency"
	OptFPS        = "fps"
	OptPassphrase = "passphrase"
	OptPrintCmd   = "print-command"
)

// ShareScreenOption returns the option key for one enumerated display.
func ShareScreenOption(index int) string {
	return fmt.Sprintf("screenshare-screen-%d", index)
}

// Option is one entry of the declarative option schema. The same schema
// is rendered as CLI flags and as the interactive form: renderers read
// metadata here instead of embedding per-renderer branching in the
// option definitions.
type Option struct {
	Key            string         `json:"key"`
	Name           string         `json:"name"`
	Help           string         `json:"help"`
	Kind           OptionKind     `json:"kind"`
	Default        string         `json:"default,omitempty"`
	ExclusiveGroup ExclusiveGroup `json:"exclusive_group,omitempty"`
	Pattern        string         `json:"pattern,omitempty"`

	// Validate is invoked by interactive renderers on every input
	// change. nil means any value is accepted.
	Validate func(string) error `json:"-"`
}

// Defaults holds the tunable option defaults. They come from the config
// file and fall back to the built-in values below.
type Defaults struct {
	Bitrate   int  `toml:"bitrate"`
	LatencyMs int  `toml:"latency_ms"`
	FPS       int  `toml:"fps"`
	FEC       bool `toml:"fec"`
}

// BuiltinDefaults returns the stock option defaults.
func BuiltinDefaults() Defaults {
	return Defaults{
		Bitrate:   2048,
		LatencyMs: 1000,
		FPS:       30,
		FEC:       false,
	}
}

// ApplyDefaults fills unset tunables on in from d. Zero means unset for
// the numeric fields; FEC stays on when either side enables it.
func ApplyDefaults(in Input, d Defaults) Input {
	if in.Bitrate == 0 {
		in.Bitrate = d.Bitrate
	}
	if in.LatencyMs == 0 {
		in.LatencyMs = d.LatencyMs
	}
	if in.FPS == 0 {
		in.FPS = d.FPS
	}
	in.FEC = in.FEC || d.FEC
	return in
}

// Schema returns the option schema, with one screenshare option per
// enumerated display. displays may be nil on headless hosts; the
// per-screen and all-screens options are then omitted and only the
// custom rectangle remains available for screenshare.
func Schema(displays []display.Geometry, defaults Defaults) []Option {
	opts := []Option{
		{
			Key:            OptListenPort,
			Name:           "Listen port",
			Help:           "Port number. You likely need to open this in your firewall/NAT. Example: 5000",
			Kind:           KindString,
			ExclusiveGroup: GroupConnection,
		},
		{
			Key:            OptCall,
			Name:           "Call",
			Help:           "Connect to host:port. Example: localhost:5000",
			Kind:           KindString,
			ExclusiveGroup: GroupConnection,
		},
		{
			Key:            OptView,
			Name:           "View",
			Help:           "Receive video from the other side.",
			Kind:           KindBool,
			ExclusiveGroup: GroupMode,
		},
	}

	for _, d := range displays {
		opts = append(opts, Option{
			Key:            ShareScreenOption(d.Index),
			Name:           fmt.Sprintf("Screenshare screen %d", d.Index),
			Help:           d.Rect.String(),
			Kind:           KindBool,
			ExclusiveGroup: GroupMode,
		})
	}

	if len(displays) > 0 {
		opts = append(opts, Option{
			Key:            OptShareAll,
			Name:           "Screenshare all screens",
			Help:           display.AllScreens(displays).String(),
			Kind:           KindBool,
			ExclusiveGroup: GroupMode,
		})
	}

	opts = append(opts,
		Option{
			Key:            OptShareRect,
			Name:           "Screenshare custom rectangle",
			Help:           "Format: " + geometry.RectFormat + ". Example: 1920x1080+0,0",
			Kind:           KindString,
			ExclusiveGroup: GroupMode,
			Pattern:        `^(\d+)x(\d+)\+(\d+),(\d+)$`,
			Validate: func(s string) error {
				_, err := geometry.ParseRect(s)
				return err
			},
		},
		Option{
			Key:     OptBitrate,
			Name:    "Bitrate",
			Help:    "Bitrate in KBit/s",
			Kind:    KindInt,
			Default: fmt.Sprintf("%d", defaults.Bitrate),
		},
		Option{
			Key:  OptFEC,
			Name: "Forward Error Correction",
			Help: "Forward Error Correction costs more bandwidth but helps with packet loss. Both sides must use the same value.",
			Kind: KindBool,
			Default: fmt.Sprintf("%t", defaults.FEC),
		},
		Option{
			Key:     OptLatency,
			Name:    "Latency",
			Help:    "Acceptable latency in milliseconds. The video transmission will have that much delay. Too small values will result in corruption artifacts. Should be 4x the ping time to the destination.",
			Kind:    KindInt,
			Default: fmt.Sprintf("%d", defaults.LatencyMs),
		},
		Option{
			Key:     OptFPS,
			Name:    "Frames per second",
			Help:    "Frames per second.",
			Kind:    KindInt,
			Default: fmt.Sprintf("%d", defaults.FPS),
		},
		Option{
			Key:  OptPassphrase,
			Name: "Passphrase",
			Help: "Encrypt traffic with this passphrase",
			Kind: KindPassword,
		},
		Option{
			Key:  OptPrintCmd,
			Name: "Print command",
			Help: "Only print the command, do not run it.",
			Kind: KindBool,
		},
	)

	return opts
}
