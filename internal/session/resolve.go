// Package session resolves user-selected options into an immutable
// streaming session configuration.
package session

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/srtcast/srtcast/internal/display"
	"github.com/srtcast/srtcast/internal/geometry"
)

const resolveTimeout = 10 * time.Second

// Role is the connection role of this session.
type Role string

// Connection roles.
const (
	RoleListen Role = "listen"
	RoleCall   Role = "call"
)

// Mode is the capture mode of this session.
type Mode string

// Capture modes.
const (
	ModeView        Mode = "view"
	ModeScreenshare Mode = "screenshare"
)

// NoScreen marks Input.ShareScreen as unset.
const NoScreen = -1

// Input holds the raw option values collected by a renderer (CLI flags
// or the interactive form) before resolution.
type Input struct {
	// Connection group. Ports are kept as strings so SRT URL
	// parameters can be appended verbatim.
	ListenPort string `toml:"listen_port,omitempty" json:"listen_port,omitempty"`
	Call       string `toml:"call,omitempty" json:"call,omitempty"`

	// Mode group.
	View        bool   `toml:"view,omitempty" json:"view,omitempty"`
	ShareScreen int    `toml:"share_screen" json:"share_screen"` // display index, NoScreen if unset
	ShareAll    bool   `toml:"share_all,omitempty" json:"share_all,omitempty"`
	ShareRect   string `toml:"share_rect,omitempty" json:"share_rect,omitempty"`

	Bitrate    int    `toml:"bitrate" json:"bitrate"`
	LatencyMs  int    `toml:"latency_ms" json:"latency_ms"`
	FPS        int    `toml:"fps" json:"fps"`
	FEC        bool   `toml:"fec" json:"fec"`
	Passphrase string `toml:"passphrase,omitempty" json:"passphrase,omitempty"`
}

// Config is the resolved, immutable session configuration. Exactly one
// connection role and one capture mode is set; Rect is meaningful only
// for screenshare sessions.
type Config struct {
	Role Role
	Mode Mode

	// URI is the SRT target: bind-style "srt://:PORT" for listen,
	// connect-style "srt://IP:PORT" for call.
	URI string

	Rect       geometry.Rect
	Bitrate    int
	LatencyMs  int
	FPS        int
	FEC        bool
	Passphrase string
}

// Resolver turns Input into Config. Displays is only invoked for
// capture modes that need display geometry, so view-only sessions work
// on headless hosts. LookupIP may be overridden in tests; nil uses the
// system resolver.
type Resolver struct {
	Displays func(ctx context.Context) ([]display.Geometry, error)
	LookupIP func(ctx context.Context, host string) (string, error)
}

// DefaultResolver resolves against the live X server and system DNS.
func DefaultResolver() *Resolver {
	return &Resolver{Displays: display.Enumerate}
}

// ValidateSelection enforces the mutually exclusive option groups:
// exactly one connection role and exactly one capture mode.
func ValidateSelection(in Input) error {
	connection := 0
	if in.ListenPort != "" {
		connection++
	}
	if in.Call != "" {
		connection++
	}
	if connection != 1 {
		return NewSessionError(ErrCodeInvalidParams,
			"exactly one of --listen-port and --call is required", nil)
	}

	mode := 0
	if in.View {
		mode++
	}
	if in.ShareScreen != NoScreen {
		mode++
	}
	if in.ShareAll {
		mode++
	}
	if in.ShareRect != "" {
		mode++
	}
	if mode != 1 {
		return NewSessionError(ErrCodeInvalidParams,
			"exactly one capture mode is required: --view, --screenshare-screen-N, --screenshare-all or --screenshare-rectangle", nil)
	}

	return nil
}

// Resolve validates the input, resolves display geometry and the remote
// host, and returns the session configuration.
func (r *Resolver) Resolve(ctx context.Context, in Input) (*Config, error) {
	if err := ValidateSelection(in); err != nil {
		return nil, err
	}

	if in.Bitrate <= 0 || in.LatencyMs <= 0 || in.FPS <= 0 {
		return nil, NewSessionError(ErrCodeInvalidParams,
			"bitrate, latency and fps must be positive", nil)
	}

	cfg := &Config{
		Bitrate:    in.Bitrate,
		LatencyMs:  in.LatencyMs,
		FPS:        in.FPS,
		FEC:        in.FEC,
		Passphrase: in.Passphrase,
	}

	if err := r.resolveMode(ctx, in, cfg); err != nil {
		return nil, err
	}
	if err := r.resolveRole(ctx, in, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (r *Resolver) resolveMode(ctx context.Context, in Input, cfg *Config) error {
	switch {
	case in.View:
		cfg.Mode = ModeView
		return nil

	case in.ShareRect != "":
		rect, err := geometry.ParseRect(in.ShareRect)
		if err != nil {
			return NewSessionError(ErrCodeInvalidRectangle, "bad screenshare rectangle", err)
		}
		if !rect.IsValid() {
			return NewSessionError(ErrCodeInvalidRectangle,
				fmt.Sprintf("rectangle %s has zero area", rect), nil)
		}
		cfg.Mode = ModeScreenshare
		cfg.Rect = rect
		return nil

	default:
		// Per-screen and all-screens modes need live display geometry.
		displays, err := r.Displays(ctx)
		if err != nil {
			return NewSessionError(ErrCodeDisplayQuery,
				"screenshare needs display geometry", err)
		}

		if in.ShareAll {
			cfg.Rect = display.AllScreens(displays)
		} else {
			found := false
			for _, d := range displays {
				if d.Index == in.ShareScreen {
					cfg.Rect = d.Rect
					found = true
					break
				}
			}
			if !found {
				return NewSessionError(ErrCodeInvalidParams,
					fmt.Sprintf("screen %d not found (%d displays attached)", in.ShareScreen, len(displays)), nil)
			}
		}

		if !cfg.Rect.IsValid() {
			return NewSessionError(ErrCodeDisplayQuery, "display reported zero-area geometry", nil)
		}
		cfg.Mode = ModeScreenshare
		return nil
	}
}

func (r *Resolver) resolveRole(ctx context.Context, in Input, cfg *Config) error {
	if in.ListenPort != "" {
		cfg.Role = RoleListen
		cfg.URI = "srt://:" + in.ListenPort
		return nil
	}

	host, port, ok := strings.Cut(in.Call, ":")
	if !ok || host == "" || port == "" {
		return NewSessionError(ErrCodeInvalidParams,
			fmt.Sprintf("--call %q must be host:port", in.Call), nil)
	}

	ip, err := r.lookup(ctx, host)
	if err != nil {
		return NewSessionError(ErrCodeHostResolution,
			fmt.Sprintf("cannot resolve %q", host), err)
	}

	cfg.Role = RoleCall
	cfg.URI = fmt.Sprintf("srt://%s:%s", ip, port)
	return nil
}

func (r *Resolver) lookup(ctx context.Context, host string) (string, error) {
	// Numeric addresses skip DNS entirely.
	if ip := net.ParseIP(host); ip != nil {
		return ip.String(), nil
	}

	if r.LookupIP != nil {
		return r.LookupIP(ctx, host)
	}

	ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	ips, err := net.DefaultResolver.LookupIP(ctx, "ip", host)
	if err != nil {
		return "", err
	}

	// Prefer IPv4, matching what SRT peers usually expect.
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return v4.String(), nil
		}
	}
	return ips[0].String(), nil
}
